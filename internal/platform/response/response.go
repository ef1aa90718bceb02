package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openpark/service-booking/internal/platform/domain"
)

// Success writes a 200 with the payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// NoContent writes a 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 with the message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Paginated writes a 200 with data and pagination metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// Error maps a DomainError to the matching HTTP status, defaulting to 500.
func Error(c *gin.Context, err error) {
	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		switch {
		case errors.Is(domErr.Err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": domErr.Message})
		case errors.Is(domErr.Err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": domErr.Message})
		case errors.Is(domErr.Err, domain.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": domErr.Message})
		case errors.Is(domErr.Err, domain.ErrInvalidState):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": domErr.Message})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": domErr.Message})
		}
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
