package abstracts

import (
	"context"

	"eventops/pkg/domain"
)

// Store reads submissions. Write paths live in the abstract-approval
// workflow, outside this service.
type Store interface {
	// ListApproved returns the registration's approved abstracts, ordered by
	// title for stable operator display. An empty slice is a valid answer.
	ListApproved(ctx context.Context, eventID domain.EventID, registrationID domain.RegistrationID) ([]*Abstract, error)
	// FindApproved returns one approved abstract, or sentinel.ErrNotFound.
	// Used to re-check a selection before generation.
	FindApproved(ctx context.Context, eventID domain.EventID, abstractID domain.AbstractID) (*Abstract, error)
}
