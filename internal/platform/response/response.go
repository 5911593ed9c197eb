package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/driveline/service-rental/internal/domain/shared"
)

// Envelope is the JSON body shape for all non-paginated responses.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PaginatedEnvelope wraps a page of items with pagination metadata.
type PaginatedEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
}

// Success writes a 200 response with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(c *gin.Context, items interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, PaginatedEnvelope{Success: true, Data: items, Total: total, Page: page, Limit: limit})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{Success: false, Error: message})
}

// statusFor maps domain error kinds to HTTP status codes.
func statusFor(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindValidation, shared.KindInvalidRange, shared.KindInvalidDate:
		return http.StatusBadRequest
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindAccessDenied:
		return http.StatusForbidden
	case shared.KindInvalidTransition:
		return http.StatusUnprocessableEntity
	case shared.KindCarUnavailable, shared.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the HTTP mapping of a domain error. Unrecognized errors
// surface as a generic 500 without leaking internals.
func Error(c *gin.Context, err error) {
	kind := shared.KindOf(err)
	if kind == "" {
		c.JSON(http.StatusInternalServerError, Envelope{Success: false, Error: "internal server error"})
		return
	}
	c.JSON(statusFor(kind), Envelope{Success: false, Error: err.Error()})
}
