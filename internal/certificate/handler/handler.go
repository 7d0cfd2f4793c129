package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventops/internal/abstracts"
	"eventops/internal/certificate"
	"eventops/internal/certificate/pdf"
	"eventops/internal/platform/middleware"
	"eventops/internal/registration"
	"eventops/internal/station"
	"eventops/internal/transport/http/shared"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/platform/sentinel"
)

// Resolver is the planning slice of the certificate resolver.
type Resolver interface {
	Resolve(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID, registrationID domain.RegistrationID) (*certificate.Plan, error)
	Select(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID, registrationID domain.RegistrationID, selected []domain.AbstractID) ([]certificate.GenerateOne, error)
}

// Handler exposes abstract listing, plan resolution and document generation.
type Handler struct {
	logger        *slog.Logger
	resolver      Resolver
	templates     certificate.Store
	abstracts     abstracts.Store
	registrations registration.Store
	runner        *station.Runner
	jwtValidator  middleware.JWTValidator
}

// New creates a new certificate Handler.
func New(
	resolver Resolver,
	templates certificate.Store,
	abstractStore abstracts.Store,
	registrations registration.Store,
	runner *station.Runner,
	logger *slog.Logger,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:        logger,
		resolver:      resolver,
		templates:     templates,
		abstracts:     abstractStore,
		registrations: registrations,
		runner:        runner,
		jwtValidator:  jwtValidator,
	}
}

// Register registers the certificate routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(60 * time.Second))
		r.Use(middleware.RequireOperator(h.jwtValidator, h.logger))
		r.Use(middleware.StationMetadata)
		r.Get("/registrations/{registrationID}/abstracts", h.handleListAbstracts)
		r.Post("/certificates/resolve", h.handleResolve)
		r.Post("/certificates/generate", h.handleGenerate)
	})
}

// handleListAbstracts returns the approved abstracts a certificate could
// bind for the registration. The selection UI drives this.
func (h *Handler) handleListAbstracts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registrationID, err := domain.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return
	}
	eventID, err := domain.ParseEventID(r.URL.Query().Get("event_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid event id"))
		return
	}

	approved, err := h.abstracts.ListApproved(ctx, eventID, registrationID)
	if err != nil {
		h.logger.ErrorContext(ctx, "abstract listing failed",
			"registration_id", registrationID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to list abstracts"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"abstracts": approved})
}

type resolveRequest struct {
	EventID        domain.EventID        `json:"event_id"`
	TemplateID     domain.TemplateID     `json:"template_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
}

// handleResolve answers how many documents a template needs and whether the
// operator must pick abstracts first.
func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req resolveRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.EventID.IsNil() || req.TemplateID.IsNil() || req.RegistrationID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event_id, template_id and registration_id are required"))
		return
	}

	plan, err := h.resolver.Resolve(ctx, req.EventID, req.TemplateID, req.RegistrationID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, plan)
}

type generateRequest struct {
	EventID        domain.EventID        `json:"event_id"`
	TemplateID     domain.TemplateID     `json:"template_id"`
	RegistrationID domain.RegistrationID `json:"registration_id"`
	AbstractIDs    []domain.AbstractID   `json:"abstract_ids,omitempty"`
	WithBackground bool                  `json:"with_background"`
}

// handleGenerate renders the requested documents. A single document streams
// back as the PDF itself; a multi-document selection renders concurrently
// and returns the filenames.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req generateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if req.EventID.IsNil() || req.TemplateID.IsNil() || req.RegistrationID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event_id, template_id and registration_id are required"))
		return
	}

	requests, err := h.prepare(ctx, req)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if len(requests) == 1 {
		doc, err := h.runner.RenderOne(ctx, requests[0])
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		defer doc.Content.Close()
		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+doc.Filename+`"`)
		if _, err := io.Copy(w, doc.Content); err != nil {
			h.logger.WarnContext(ctx, "document stream interrupted", "error", err.Error())
		}
		return
	}

	docs, err := h.runner.Render(ctx, requests)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// prepare turns the request into fully bound render requests: plan or
// selection first, then field binding per instruction.
func (h *Handler) prepare(ctx context.Context, req generateRequest) ([]pdf.Request, error) {
	var instructions []certificate.GenerateOne
	if len(req.AbstractIDs) > 0 {
		selected, err := h.resolver.Select(ctx, req.EventID, req.TemplateID, req.RegistrationID, req.AbstractIDs)
		if err != nil {
			return nil, err
		}
		instructions = selected
	} else {
		plan, err := h.resolver.Resolve(ctx, req.EventID, req.TemplateID, req.RegistrationID)
		if err != nil {
			return nil, err
		}
		if plan.Kind != certificate.PlanDirect {
			return nil, dErrors.New(dErrors.CodeBadRequest, "template binds abstract data; abstract_ids must be selected")
		}
		instructions = plan.Instructions
	}

	tmpl, err := h.templates.FindTemplate(ctx, req.EventID, req.TemplateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "certificate template not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load certificate template", err)
	}
	reg, err := h.registrations.FindByID(ctx, req.EventID, req.RegistrationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "registration not found")
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "load registration", err)
	}

	requests := make([]pdf.Request, 0, len(instructions))
	for _, instr := range instructions {
		var a *abstracts.Abstract
		if instr.AbstractID != nil {
			a, err = h.abstracts.FindApproved(ctx, req.EventID, *instr.AbstractID)
			if err != nil {
				return nil, dErrors.Wrap(dErrors.CodeInternal, "load selected abstract", err)
			}
		}
		fields, err := certificate.BindFields(tmpl, reg, a)
		if err != nil {
			return nil, err
		}
		requests = append(requests, pdf.Request{
			EventID:        req.EventID,
			TemplateID:     instr.TemplateID,
			RegistrationID: instr.RegistrationID,
			AbstractID:     instr.AbstractID,
			WithBackground: req.WithBackground,
			Fields:         fields,
		})
	}
	return requests, nil
}
