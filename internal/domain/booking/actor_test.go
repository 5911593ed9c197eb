package booking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/driveline/service-rental/internal/domain/shared"
)

func TestAuthorizeTransition(t *testing.T) {
	ownerID := uuid.New()
	owner := Actor{UserID: ownerID, Role: RoleCustomer}
	stranger := Actor{UserID: uuid.New(), Role: RoleCustomer}
	admin := Actor{UserID: uuid.New(), Role: RoleAdmin}

	tests := []struct {
		name     string
		actor    Actor
		target   BookingStatus
		wantKind shared.ErrorKind
	}{
		{"owner confirms", owner, StatusConfirmed, ""},
		{"owner cancels", owner, StatusCancelled, ""},
		{"owner cannot complete", owner, StatusCompleted, shared.KindAccessDenied},
		{"admin confirms", admin, StatusConfirmed, ""},
		{"admin cancels", admin, StatusCancelled, ""},
		{"admin completes", admin, StatusCompleted, ""},
		{"stranger cannot confirm", stranger, StatusConfirmed, shared.KindAccessDenied},
		{"stranger cannot cancel", stranger, StatusCancelled, shared.KindAccessDenied},
		{"stranger cannot complete", stranger, StatusCompleted, shared.KindAccessDenied},
		{"invalid target", owner, BookingStatus("shipped"), shared.KindValidation},
		{"pending is not a target", owner, StatusPending, shared.KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AuthorizeTransition(tt.actor, ownerID, tt.target)
			if tt.wantKind == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, shared.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestAuthorizeTransitionOwnershipCheckedBeforeTarget(t *testing.T) {
	// A stranger asking for an admin-only target gets access denied for the
	// ownership violation, not a hint about the transition rules.
	stranger := Actor{UserID: uuid.New(), Role: RoleCustomer}
	err := AuthorizeTransition(stranger, uuid.New(), StatusCompleted)
	assert.True(t, shared.IsKind(err, shared.KindAccessDenied))
}
