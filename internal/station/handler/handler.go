package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventops/internal/platform/middleware"
	"eventops/internal/station"
	"eventops/internal/transport/http/shared"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/requestcontext"
)

// Handler exposes the stateful station flow: one scan drives the whole
// pipeline and a pending duplicate is confirmed or cancelled by a follow-up
// call from the same station.
type Handler struct {
	logger       *slog.Logger
	stations     *station.Manager
	jwtValidator middleware.JWTValidator
}

// New creates a new station Handler.
func New(stations *station.Manager, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		stations:     stations,
		jwtValidator: jwtValidator,
	}
}

// Register registers the station routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireOperator(h.jwtValidator, h.logger))
		r.Use(middleware.StationMetadata)
		r.Post("/station/scan", h.handleScan)
		r.Post("/station/confirm", h.handleConfirm)
		r.Post("/station/cancel", h.handleCancel)
	})
}

// station resolves the controller for the calling station. The station id
// arrives on the X-Station-Id header.
func (h *Handler) station(r *http.Request) (*station.Station, error) {
	stationID := requestcontext.StationID(r.Context())
	if stationID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "X-Station-Id header is required")
	}
	return h.stations.Get(stationID), nil
}

func (h *Handler) handleScan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	st, err := h.station(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var in station.ScanInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.WriteError(w, err)
		return
	}
	if in.EventID.IsNil() || !in.Type.IsValid() || in.OptionID.IsNil() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "event_id, resource_type and option_id are required"))
		return
	}

	out, err := st.Scan(ctx, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	st, err := h.station(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out, err := st.Confirm(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	st, err := h.station(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	out, err := st.Cancel(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, out)
}
