package domain

import dErrors "eventops/pkg/domainerrors"

// ResourceType identifies the kind of distributable an option belongs to.
// Invariant: the value must be one of the supported resource types.
//
// Usage: construct via ParseResourceType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type ResourceType string

// Supported resource types.
const (
	ResourceFood                ResourceType = "food"
	ResourceKit                 ResourceType = "kit"
	ResourceCertificate         ResourceType = "certificate"
	ResourceCertificateTemplate ResourceType = "certificate_printing_template"
)

// validResourceTypes is the single source of truth for valid resource types.
var validResourceTypes = map[ResourceType]bool{
	ResourceFood:                true,
	ResourceKit:                 true,
	ResourceCertificate:         true,
	ResourceCertificateTemplate: true,
}

// ParseResourceType constructs a ResourceType from external input.
//
// Errors: returns CodeBadRequest when the value is empty or unsupported.
func ParseResourceType(s string) (ResourceType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "resource type cannot be empty")
	}
	t := ResourceType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "invalid resource type: "+s)
	}
	return t, nil
}

// IsValid checks if the resource type is one of the supported enum values.
func (t ResourceType) IsValid() bool {
	return validResourceTypes[t]
}

// TriggersDocument reports whether a successful redemption of this type must
// run the certificate document pipeline.
func (t ResourceType) TriggersDocument() bool {
	return t == ResourceCertificate || t == ResourceCertificateTemplate
}

// String returns the string representation of the resource type.
func (t ResourceType) String() string {
	return string(t)
}
