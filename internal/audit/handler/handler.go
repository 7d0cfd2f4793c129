// Package handler exposes the per-registration audit trail. Operators pull
// it up when an attendee disputes what happened at a station.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventops/internal/audit"
	"eventops/internal/platform/middleware"
	"eventops/internal/transport/http/shared"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
)

type Handler struct {
	logger       *slog.Logger
	events       audit.Store
	jwtValidator middleware.JWTValidator
}

func New(events audit.Store, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		events:       events,
		jwtValidator: jwtValidator,
	}
}

// Register registers the audit routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.RequireOperator(h.jwtValidator, h.logger))
		r.Use(middleware.StationMetadata)
		r.Get("/registrations/{registrationID}/audit", h.handleTrail)
	})
}

func (h *Handler) handleTrail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	registrationID, err := domain.ParseRegistrationID(chi.URLParam(r, "registrationID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid registration id"))
		return
	}

	events, err := h.events.ListByRegistration(ctx, registrationID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail query failed",
			"registration_id", registrationID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load audit trail"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
