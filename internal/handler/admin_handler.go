package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveline/service-rental/internal/application"
	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/platform/auth"
	"github.com/driveline/service-rental/internal/platform/middleware"
	"github.com/driveline/service-rental/internal/platform/response"
)

// AdminHandler exposes the operator surface: cross-customer booking listings,
// stats and payment management.
type AdminHandler struct {
	service *application.BookingService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(service *application.BookingService) *AdminHandler {
	return &AdminHandler{service: service}
}

// RegisterRoutes registers the admin routes behind the admin role gate.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/stats/bookings", h.Stats)
		admin.GET("/payments", h.ListPayments)
		admin.PUT("/bookings/:id/payment", h.UpdatePayment)
	}
}

// ListBookings handles GET /admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)
	dtos, total, err := h.service.ListAllBookings(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

// Stats handles GET /admin/stats/bookings.
func (h *AdminHandler) Stats(c *gin.Context) {
	dto, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListPayments handles GET /admin/payments: the payment view of every
// booking.
func (h *AdminHandler) ListPayments(c *gin.Context) {
	page, limit := parsePagination(c)
	dtos, total, err := h.service.ListAllPayments(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

type updatePaymentRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

// UpdatePayment handles PUT /admin/bookings/:id/payment.
func (h *AdminHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req updatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}
	status, err := booking.ParsePaymentStatus(req.PaymentStatus)
	if err != nil {
		response.Error(c, err)
		return
	}

	dto, err := h.service.UpdatePaymentStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
