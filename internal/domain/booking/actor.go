package booking

import (
	"github.com/driveline/service-rental/internal/domain/shared"
	"github.com/google/uuid"
)

// Role identifies the capability level of a requester.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Actor is the requester context passed into every lifecycle operation.
// Permission rules are centralized in AuthorizeTransition rather than
// re-derived at call sites.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AuthorizeTransition decides whether the actor may move a booking owned by
// ownerUserID to the target status. Ownership is checked first: a non-admin
// acting on another customer's booking is denied regardless of the target.
func AuthorizeTransition(actor Actor, ownerUserID uuid.UUID, target BookingStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("invalid target status: " + string(target))
	}
	if !actor.IsAdmin() && actor.UserID != ownerUserID {
		return shared.NewAccessDeniedError("booking does not belong to this user")
	}
	switch target {
	case StatusConfirmed, StatusCancelled:
		// Owning customer or admin.
		return nil
	case StatusCompleted:
		if !actor.IsAdmin() {
			return shared.NewAccessDeniedError("only an admin can complete a booking")
		}
		return nil
	default:
		// pending is the creation state, never a transition target.
		return shared.NewValidationError("cannot transition a booking back to " + string(target))
	}
}
