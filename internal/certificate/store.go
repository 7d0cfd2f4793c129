package certificate

import (
	"context"

	"eventops/pkg/domain"
)

// Store reads certificate templates. Template authoring is a configuration
// screen outside this service.
type Store interface {
	// FindTemplate returns a template, or sentinel.ErrNotFound.
	FindTemplate(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID) (*Template, error)
}
