package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveline/service-rental/internal/application"
	"github.com/driveline/service-rental/internal/platform/auth"
	"github.com/driveline/service-rental/internal/platform/middleware"
	"github.com/driveline/service-rental/internal/platform/response"
)

// PaymentHandler exposes the payment view of bookings.
type PaymentHandler struct {
	service *application.BookingService
}

// NewPaymentHandler creates a PaymentHandler.
func NewPaymentHandler(service *application.BookingService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes registers the authenticated payment routes.
func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	payments := r.Group("/payments")
	payments.Use(middleware.AuthMiddleware(jwtManager))
	{
		payments.GET("/booking/:id", h.GetByBooking)
	}
}

// GetByBooking handles GET /payments/booking/:id.
func (h *PaymentHandler) GetByBooking(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dto, err := h.service.GetPaymentDetails(c.Request.Context(), id, actor)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
