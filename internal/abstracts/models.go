package abstracts

import (
	"eventops/pkg/domain"
)

// Status is the review state of a submission. Transitions are owned by the
// abstract-approval workflow elsewhere; this service only reads.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Abstract is a reviewed submission attached to a registration. Only approved
// abstracts are eligible for certificate content binding.
type Abstract struct {
	ID             domain.AbstractID     `json:"id"`
	EventID        domain.EventID        `json:"event_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	Status         Status                `json:"status"`
	Title          string                `json:"title"`
	Authors        string                `json:"authors"`
	Category       string                `json:"category"`
}

// Attribute returns a bindable attribute value by name. The resolver uses
// this to fill template fields bound to abstract data.
func (a *Abstract) Attribute(name string) (string, bool) {
	switch name {
	case "title":
		return a.Title, true
	case "authors":
		return a.Authors, true
	case "category":
		return a.Category, true
	default:
		return "", false
	}
}
