package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"eventops/internal/platform/metrics"
	"eventops/internal/platform/middleware"
	"eventops/internal/redemption"
	"eventops/internal/redemption/service"
	"eventops/internal/transport/http/shared"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
)

//go:generate mockgen -source=handler.go -destination=mocks/redemption-mocks.go -package=mocks Service

// Service defines the redemption operations the transport needs.
type Service interface {
	ValidateScan(ctx context.Context, eventID domain.EventID, resourceType domain.ResourceType, optionID domain.OptionID, code string) (*service.ValidateResult, error)
	Record(ctx context.Context, req service.RecordByCode) (*redemption.RecordResult, error)
	Statistics(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) (*redemption.Stats, error)
}

// Handler exposes scan validation, recording and statistics.
type Handler struct {
	logger       *slog.Logger
	redemption   Service
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a new redemption Handler.
func New(redemptionSvc Service, logger *slog.Logger, m *metrics.Metrics, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		redemption:   redemptionSvc,
		metrics:      m,
		jwtValidator: jwtValidator,
	}
}

// Register registers the redemption routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Recovery(h.logger))
		r.Use(middleware.RequestID)
		r.Use(middleware.Logger(h.logger))
		r.Use(middleware.Timeout(30 * time.Second))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.RequireOperator(h.jwtValidator, h.logger))
		r.Use(middleware.StationMetadata)
		r.Post("/scan/validate", h.handleValidate)
		r.Post("/scan/record", h.handleRecord)
		r.Get("/options/{optionID}/statistics", h.handleStatistics)
	})
}

type scanRequest struct {
	EventID      domain.EventID      `json:"event_id"`
	ResourceType domain.ResourceType `json:"resource_type"`
	OptionID     domain.OptionID     `json:"option_id"`
	Code         string              `json:"code"`
	Force        bool                `json:"force,omitempty"`
}

func (req scanRequest) validate() error {
	if req.EventID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "event_id is required")
	}
	if !req.ResourceType.IsValid() {
		return dErrors.New(dErrors.CodeBadRequest, "unknown resource_type")
	}
	if req.OptionID.IsNil() {
		return dErrors.New(dErrors.CodeBadRequest, "option_id is required")
	}
	return nil
}

// handleValidate answers the advisory eligibility question for a scan.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.redemption.ValidateScan(ctx, req.EventID, req.ResourceType, req.OptionID, req.Code)
	if err != nil {
		h.logger.WarnContext(ctx, "scan validation failed",
			"option_id", req.OptionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

// handleRecord performs the authoritative usage recording. A duplicate is
// reported as 409 with the existing record in the body so the station can
// open the reprint confirmation prompt.
func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.redemption.Record(ctx, service.RecordByCode{
		EventID:  req.EventID,
		Type:     req.ResourceType,
		OptionID: req.OptionID,
		Code:     req.Code,
		Force:    req.Force,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "usage recording failed",
			"option_id", req.OptionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Status == redemption.StatusDuplicate {
		status = http.StatusConflict
	}
	shared.WriteJSON(w, status, result)
}

// handleStatistics computes fresh counts for one resource option.
func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	optionID, err := domain.ParseOptionID(chi.URLParam(r, "optionID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid option id"))
		return
	}
	eventID, err := domain.ParseEventID(r.URL.Query().Get("event_id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid event id"))
		return
	}

	stats, err := h.redemption.Statistics(ctx, eventID, optionID)
	if err != nil {
		h.logger.ErrorContext(ctx, "statistics query failed",
			"option_id", optionID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to compute statistics"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}
