package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/application"
	"github.com/lendloop/service-lending/internal/pkg/middleware"
	"github.com/lendloop/service-lending/internal/pkg/response"
)

// ItemHandler handles HTTP requests for item operations.
type ItemHandler struct {
	service *application.ItemService
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *application.ItemService) *ItemHandler {
	return &ItemHandler{service: service}
}

// RegisterRoutes registers all item routes on the given router group.
func (h *ItemHandler) RegisterRoutes(r *gin.RouterGroup) {
	items := r.Group("/items")
	items.Use(middleware.IdentityMiddleware())
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListByOwner)
		items.GET("/search", h.Search)
		items.GET("/:itemId", h.GetItem)
		items.PATCH("/:itemId", h.UpdateItem)
		items.POST("/:itemId/comment", h.AddComment)
	}
}

// CreateItem handles POST /items.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	var req application.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateItem(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateItem handles PATCH /items/:itemId.
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	var req application.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetItem handles GET /items/:itemId. Owners see booking annotations.
func (h *ItemHandler) GetItem(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	result, err := h.service.GetItem(c.Request.Context(), itemID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByOwner handles GET /items.
func (h *ItemHandler) ListByOwner(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	result, err := h.service.ListByOwner(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Search handles GET /items/search?text=.
func (h *ItemHandler) Search(c *gin.Context) {
	result, err := h.service.Search(c.Request.Context(), c.Query("text"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AddComment handles POST /items/:itemId/comment.
func (h *ItemHandler) AddComment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		response.BadRequest(c, "invalid item ID")
		return
	}

	var req application.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.AddComment(c.Request.Context(), userID, itemID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
