package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendloop/service-lending/internal/application"
	bookingDomain "github.com/lendloop/service-lending/internal/domain/booking"
	"github.com/lendloop/service-lending/internal/pkg/middleware"
	"github.com/lendloop/service-lending/internal/pkg/response"
)

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.IdentityMiddleware())
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListByBooker)
		bookings.GET("/owner", h.ListByItemOwner)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PATCH("/:bookingId", h.Decide)
	}
}

// CreateBooking handles POST /bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Decide handles PATCH /bookings/:bookingId?approved=true|false.
func (h *BookingHandler) Decide(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		response.BadRequest(c, "approved query parameter must be true or false")
		return
	}

	result, err := h.service.Decide(c.Request.Context(), bookingID, userID, approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /bookings/:bookingId.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	bookingID, err := uuid.Parse(c.Param("bookingId"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	result, err := h.service.GetBooking(c.Request.Context(), bookingID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByBooker handles GET /bookings?state=.
func (h *BookingHandler) ListByBooker(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	state, err := bookingDomain.ParseState(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ListByBooker(c.Request.Context(), userID, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByItemOwner handles GET /bookings/owner?state=.
func (h *BookingHandler) ListByItemOwner(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.BadRequest(c, "missing user identity")
		return
	}

	state, err := bookingDomain.ParseState(c.Query("state"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.ListByItemOwner(c.Request.Context(), userID, state)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
