package registration

import (
	"eventops/pkg/domain"
)

// Registration is an attendee known to the event, as resolved from a decoded
// badge credential. Entitlements come from the registration's category: for
// each resource type, the list of option ids the attendee may redeem. An
// absent or empty list means unrestricted for that type.
type Registration struct {
	ID           domain.RegistrationID
	EventID      domain.EventID
	Code         string
	FullName     string
	Email        string
	CategoryID   string
	CategoryName string
	Entitlements map[domain.ResourceType][]domain.OptionID
}

// EntitledOptions returns the entitlement list for a resource type.
// A nil or empty slice means "no restriction".
func (r *Registration) EntitledOptions(resourceType domain.ResourceType) []domain.OptionID {
	if r.Entitlements == nil {
		return nil
	}
	return r.Entitlements[resourceType]
}

// Summary is the operator-facing projection returned by scan validation.
// It intentionally omits entitlement internals.
type Summary struct {
	ID       domain.RegistrationID `json:"id"`
	FullName string                `json:"full_name"`
	Category string                `json:"category"`
}

// Summarize builds the operator-facing projection.
func (r *Registration) Summarize() Summary {
	return Summary{ID: r.ID, FullName: r.FullName, Category: r.CategoryName}
}
