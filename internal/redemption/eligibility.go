package redemption

import (
	"eventops/internal/registration"
	"eventops/pkg/domain"
)

// Decision is the eligibility validator's verdict.
type Decision struct {
	Allowed bool
	Reason  string
}

// ReasonNotEligible is the operator-facing denial reason.
const ReasonNotEligible = "not eligible for this resource option"

// ValidateEligibility decides whether a registration may redeem a resource
// option. An empty entitlement list for the type means "no restriction".
//
// This check is advisory at the edge: entitlement data can change between
// validation and recording, so the recorder re-runs it immediately before
// the authoritative insert.
func ValidateEligibility(reg *registration.Registration, resourceType domain.ResourceType, optionID domain.OptionID) Decision {
	allowed := reg.EntitledOptions(resourceType)
	if len(allowed) == 0 {
		return Decision{Allowed: true}
	}
	for _, id := range allowed {
		if id == optionID {
			return Decision{Allowed: true}
		}
	}
	return Decision{Allowed: false, Reason: ReasonNotEligible}
}
