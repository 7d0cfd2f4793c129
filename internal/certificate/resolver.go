package certificate

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventops/internal/abstracts"
	"eventops/internal/audit"
	"eventops/internal/platform/metrics"
	"eventops/internal/registration"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/platform/sentinel"
)

// PlanKind classifies what a template needs before documents can be produced.
type PlanKind string

const (
	// PlanDirect means exactly one document bound only to registration data.
	PlanDirect PlanKind = "direct"
	// PlanAbstractDependent means the operator must select which approved
	// abstract(s) the document(s) bind.
	PlanAbstractDependent PlanKind = "abstract_dependent"
)

// GenerateOne is one render instruction emitted by selection. Instructions are
// independent; callers may run them concurrently.
type GenerateOne struct {
	TemplateID     domain.TemplateID     `json:"template_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	AbstractID     *domain.AbstractID    `json:"abstract_id,omitempty"`
}

// Plan is the resolver's answer: either ready-to-render (Direct, one
// instruction) or awaiting explicit selection (AbstractDependent with
// candidates). A template is never auto-resolved when abstract data is
// required, even with a single candidate: the operator confirms the binding
// so the wrong submission is never printed silently.
type Plan struct {
	Kind           PlanKind              `json:"kind"`
	TemplateID     domain.TemplateID     `json:"template_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	Candidates     []*abstracts.Abstract `json:"candidates,omitempty"`
	Instructions   []GenerateOne         `json:"instructions,omitempty"`
}

// Resolver inspects a template's field bindings and decides the generation
// plan. Its job ends at "how many documents, with which bindings"; rendering
// belongs to the PDF collaborator.
type Resolver struct {
	templates Store
	abstracts abstracts.Store
	audit     *audit.Publisher
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

func NewResolver(templates Store, abstractStore abstracts.Store, auditPub *audit.Publisher, m *metrics.Metrics) *Resolver {
	return &Resolver{
		templates: templates,
		abstracts: abstractStore,
		audit:     auditPub,
		metrics:   m,
		tracer:    otel.Tracer("eventops/certificate"),
	}
}

// Resolve builds the generation plan for (template, registration).
//
// Errors: CodeNotFound when the template does not exist;
// CodeNoEligibleAbstract when the template binds abstract data and the
// registration has no approved abstract (issuance blocked).
func (r *Resolver) Resolve(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID, registrationID domain.RegistrationID) (*Plan, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, "certificate.resolve",
		trace.WithAttributes(attribute.String("template_id", templateID.String())))
	defer span.End()
	defer r.metrics.ObserveResolveDuration(start)

	tmpl, err := r.templates.FindTemplate(ctx, eventID, templateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate template not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load certificate template", err)
	}

	if !tmpl.BindsEntity(EntityAbstract) {
		r.metrics.DocumentsPlanned.WithLabelValues(string(PlanDirect)).Inc()
		return &Plan{
			Kind:           PlanDirect,
			TemplateID:     templateID,
			RegistrationID: registrationID,
			Instructions: []GenerateOne{{
				TemplateID:     templateID,
				RegistrationID: registrationID,
			}},
		}, nil
	}

	candidates, err := r.abstracts.ListApproved(ctx, eventID, registrationID)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "list approved abstracts", err)
	}
	if len(candidates) == 0 {
		r.metrics.IssuanceBlocked.Inc()
		r.audit.Emit(ctx, audit.Event{
			Action:         audit.ActionIssuanceBlocked,
			EventID:        eventID,
			RegistrationID: registrationID,
			Detail:         "no approved abstract for template " + templateID.String(),
		})
		return nil, dErrors.New(dErrors.CodeNoEligibleAbstract,
			"template requires an approved abstract and the registration has none")
	}

	r.metrics.DocumentsPlanned.WithLabelValues(string(PlanAbstractDependent)).Inc()
	return &Plan{
		Kind:           PlanAbstractDependent,
		TemplateID:     templateID,
		RegistrationID: registrationID,
		Candidates:     candidates,
	}, nil
}

// Select turns an operator's abstract selection into render instructions,
// one per selected abstract. Every selection is re-checked against the store
// so a stale screen cannot bind a withdrawn abstract.
func (r *Resolver) Select(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID, registrationID domain.RegistrationID, selected []domain.AbstractID) ([]GenerateOne, error) {
	if len(selected) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one abstract must be selected")
	}

	tmpl, err := r.templates.FindTemplate(ctx, eventID, templateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate template not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load certificate template", err)
	}
	if !tmpl.BindsEntity(EntityAbstract) {
		return nil, dErrors.New(dErrors.CodeBadRequest, "template does not bind abstract data")
	}

	instructions := make([]GenerateOne, 0, len(selected))
	for _, abstractID := range selected {
		a, err := r.abstracts.FindApproved(ctx, eventID, abstractID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, dErrors.New(dErrors.CodeBadRequest, "selected abstract is not approved")
			}
			return nil, dErrors.Wrap(dErrors.CodeInternal, "check selected abstract", err)
		}
		if a.RegistrationID != registrationID {
			return nil, dErrors.New(dErrors.CodeBadRequest, "selected abstract belongs to another registration")
		}
		id := abstractID
		instructions = append(instructions, GenerateOne{
			TemplateID:     templateID,
			RegistrationID: registrationID,
			AbstractID:     &id,
		})
	}
	return instructions, nil
}

// BindFields resolves the concrete field values for one instruction. Fields
// without a data source read registration attributes; externally bound fields
// go through the exhaustive entity switch.
func BindFields(tmpl *Template, reg *registration.Registration, a *abstracts.Abstract) (map[string]string, error) {
	fields := make(map[string]string, len(tmpl.Fields))
	for _, f := range tmpl.Fields {
		if f.Source == nil {
			fields[f.Name] = registrationAttribute(reg, f.Name)
			continue
		}
		switch f.Source.Entity {
		case EntityAbstract:
			if a == nil {
				return nil, dErrors.New(dErrors.CodeInternal,
					"field "+f.Name+" binds abstract data but no abstract was selected")
			}
			value, ok := a.Attribute(f.Source.Attribute)
			if !ok {
				return nil, dErrors.New(dErrors.CodeBadRequest,
					"unknown abstract attribute: "+f.Source.Attribute)
			}
			fields[f.Name] = value
		default:
			return nil, dErrors.New(dErrors.CodeBadRequest,
				"unknown binding entity: "+string(f.Source.Entity))
		}
	}
	return fields, nil
}

func registrationAttribute(reg *registration.Registration, name string) string {
	switch name {
	case "name", "full_name":
		return reg.FullName
	case "email":
		return reg.Email
	case "category":
		return reg.CategoryName
	default:
		return ""
	}
}
