package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/driveline/service-rental/internal/domain/booking"
	"github.com/driveline/service-rental/internal/platform/auth"
	"github.com/driveline/service-rental/internal/platform/middleware"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// parsePagination reads page and limit query parameters with sane bounds.
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if page < 1 {
		page = defaultPage
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// actorFrom builds the domain actor from the authenticated request context.
func actorFrom(c *gin.Context) (booking.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return booking.Actor{}, false
	}
	role := booking.RoleCustomer
	if r, ok := middleware.GetUserRole(c); ok && r == auth.RoleAdmin {
		role = booking.RoleAdmin
	}
	return booking.Actor{UserID: userID, Role: role}, true
}

// parseIDParam parses a UUID path parameter.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
