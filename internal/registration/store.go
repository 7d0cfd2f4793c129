package registration

import (
	"context"

	"eventops/pkg/domain"
)

// Store resolves registrations. Implementations return
// sentinel.ErrNotFound when no registration matches; the service layer maps
// a failed code lookup to CodeUnresolvedCode for the operator.
type Store interface {
	// FindByCode resolves a decoded badge credential within an event.
	FindByCode(ctx context.Context, eventID domain.EventID, code string) (*Registration, error)
	// FindByID resolves a registration by id within an event.
	FindByID(ctx context.Context, eventID domain.EventID, regID domain.RegistrationID) (*Registration, error)
}
