package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/driveline/service-rental/internal/application"
	"github.com/driveline/service-rental/internal/platform/response"
)

// CarHandler exposes fleet queries, availability checks and price quotes.
// These routes are public: browsing the fleet requires no account.
type CarHandler struct {
	cars     *application.CarService
	bookings *application.BookingService
}

// NewCarHandler creates a CarHandler.
func NewCarHandler(cars *application.CarService, bookings *application.BookingService) *CarHandler {
	return &CarHandler{cars: cars, bookings: bookings}
}

// RegisterRoutes registers the public car routes.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup) {
	cars := r.Group("/cars")
	{
		cars.GET("", h.List)
		cars.GET("/:id", h.Get)
		cars.GET("/:id/availability", h.Availability)
		cars.GET("/:id/quote", h.Quote)
	}
}

// List handles GET /cars. ?available=true filters to bookable fleet status.
func (h *CarHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	onlyAvailable := c.Query("available") == "true"

	dtos, total, err := h.cars.ListCars(c.Request.Context(), onlyAvailable, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, dtos, total, page, limit)
}

// Get handles GET /cars/:id.
func (h *CarHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid car ID")
		return
	}

	dto, err := h.cars.GetCar(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Availability handles GET /cars/:id/availability?start=&end=.
func (h *CarHandler) Availability(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid car ID")
		return
	}
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, "start and end query parameters are required")
		return
	}

	dto, err := h.bookings.CheckAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Quote handles GET /cars/:id/quote?start=&end=.
func (h *CarHandler) Quote(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.BadRequest(c, "invalid car ID")
		return
	}
	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		response.BadRequest(c, "start and end query parameters are required")
		return
	}

	dto, err := h.bookings.QuotePrice(c.Request.Context(), id, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}
