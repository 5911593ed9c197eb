package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/driveline/service-rental/internal/domain/shared"
)

func performError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, err)
	return w
}

func TestErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", shared.NewValidationError("bad input"), http.StatusBadRequest},
		{"invalid range", shared.NewInvalidRangeError("end before start"), http.StatusBadRequest},
		{"invalid date", shared.NewInvalidDateError("past start"), http.StatusBadRequest},
		{"not found", shared.NewNotFoundError("booking", "abc"), http.StatusNotFound},
		{"access denied", shared.NewAccessDeniedError("not yours"), http.StatusForbidden},
		{"invalid transition", shared.NewInvalidTransitionError("cancelled", "confirmed"), http.StatusUnprocessableEntity},
		{"car unavailable", shared.NewCarUnavailableError("taken"), http.StatusConflict},
		{"conflict", shared.NewConflictError("stale version"), http.StatusConflict},
		{"unknown error", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performError(tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestErrorHidesInternalDetails(t *testing.T) {
	w := performError(errors.New("pq: password authentication failed for user postgres"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), "internal server error")
}
