package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendloop/service-lending/internal/domain/shared"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated writes a 200 with the payload wrapped in pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, errorBody{Error: message})
}

// InternalError writes a 500 with the given message.
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, errorBody{Error: message})
}

// Error maps a domain error kind to its HTTP status. Unclassified errors
// become 500 without leaking their message.
func Error(c *gin.Context, err error) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
		return
	}

	switch de.Kind {
	case shared.KindValidation:
		c.JSON(http.StatusBadRequest, errorBody{Error: de.Message})
	case shared.KindNotFound:
		c.JSON(http.StatusNotFound, errorBody{Error: de.Message})
	case shared.KindForbidden:
		c.JSON(http.StatusForbidden, errorBody{Error: de.Message})
	case shared.KindConflict:
		c.JSON(http.StatusConflict, errorBody{Error: de.Message})
	default:
		c.JSON(http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}
