package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/openpark/service-booking/internal/application"
	"github.com/openpark/service-booking/internal/platform/auth"
	"github.com/openpark/service-booking/internal/platform/middleware"
	"github.com/openpark/service-booking/internal/platform/response"
)

// PromoHandler handles HTTP requests for promo code management.
type PromoHandler struct {
	service *application.PromoService
}

// NewPromoHandler creates a new PromoHandler.
func NewPromoHandler(service *application.PromoService) *PromoHandler {
	return &PromoHandler{service: service}
}

// RegisterRoutes registers promo routes. Validation is public so the
// storefront can check a code before checkout; management is admin only.
func (h *PromoHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	promos := r.Group("/promos")
	{
		promos.POST("/validate", h.ValidatePromo)

		admin := promos.Group("")
		admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
		{
			admin.POST("", h.CreatePromo)
			admin.GET("", h.ListPromos)
			admin.DELETE("/:id", h.DeletePromo)
		}
	}
}

// ValidatePromo handles POST /api/v1/promos/validate
func (h *PromoHandler) ValidatePromo(c *gin.Context) {
	var req application.ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.ValidatePromo(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dto)
}

// CreatePromo handles POST /api/v1/promos
func (h *PromoHandler) CreatePromo(c *gin.Context) {
	var req application.CreatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	dto, err := h.service.CreatePromo(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto)
}

// ListPromos handles GET /api/v1/promos
func (h *PromoHandler) ListPromos(c *gin.Context) {
	dtos, err := h.service.ListPromos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, dtos)
}

// DeletePromo handles DELETE /api/v1/promos/:id
func (h *PromoHandler) DeletePromo(c *gin.Context) {
	promoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid promo ID")
		return
	}

	if err := h.service.DeletePromo(c.Request.Context(), promoID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
