package certificate

import (
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
)

// BindingEntity names an external entity a template field can bind to.
// Adding an entity means extending the switches in Validate and the resolver;
// the compiler and tests keep them exhaustive. This replaces the old
// "Entity.attribute" string convention.
type BindingEntity string

const (
	// EntityAbstract binds a field to an approved abstract's attribute.
	EntityAbstract BindingEntity = "abstract"
)

// DataSourceRef declares a template field's dependency on an external
// entity's attribute, e.g. {abstract, title}.
type DataSourceRef struct {
	Entity    BindingEntity `json:"entity"`
	Attribute string        `json:"attribute"`
}

// Validate rejects unknown entities and empty attributes.
func (ref DataSourceRef) Validate() error {
	switch ref.Entity {
	case EntityAbstract:
	default:
		return dErrors.New(dErrors.CodeBadRequest, "unknown binding entity: "+string(ref.Entity))
	}
	if ref.Attribute == "" {
		return dErrors.New(dErrors.CodeBadRequest, "binding attribute cannot be empty")
	}
	return nil
}

// TemplateField is one printable field of a certificate template. Source is
// nil for fields bound only to registration attributes.
type TemplateField struct {
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Required    bool           `json:"required"`
	Source      *DataSourceRef `json:"data_source,omitempty"`
}

// Template is a certificate layout with its field bindings.
type Template struct {
	ID      domain.TemplateID `json:"id"`
	EventID domain.EventID    `json:"event_id"`
	Name    string            `json:"name"`
	Fields  []TemplateField   `json:"fields"`
}

// BindsEntity reports whether any field binds the given entity.
func (t *Template) BindsEntity(entity BindingEntity) bool {
	for _, f := range t.Fields {
		if f.Source != nil && f.Source.Entity == entity {
			return true
		}
	}
	return false
}

// BoundAttributes lists the attributes bound for an entity, in field order.
func (t *Template) BoundAttributes(entity BindingEntity) []string {
	var out []string
	for _, f := range t.Fields {
		if f.Source != nil && f.Source.Entity == entity {
			out = append(out, f.Source.Attribute)
		}
	}
	return out
}
