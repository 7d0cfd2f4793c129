// Package service implements the authoritative redemption operations: scan
// validation, idempotent usage recording with forced-override semantics, and
// on-demand statistics.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"eventops/internal/audit"
	"eventops/internal/platform/metrics"
	"eventops/internal/redemption"
	"eventops/internal/redemption/store"
	"eventops/internal/registration"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/platform/sentinel"
	"eventops/pkg/requestcontext"
)

// Service orchestrates the record pipeline. It keeps orchestration out of
// handlers and leaves atomicity to the store's uniqueness constraint.
type Service struct {
	registrations registration.Store
	records       store.Store
	audit         *audit.Publisher
	metrics       *metrics.Metrics
	tracer        trace.Tracer
	location      *time.Location
}

func New(registrations registration.Store, records store.Store, auditPub *audit.Publisher, m *metrics.Metrics, location *time.Location) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{
		registrations: registrations,
		records:       records,
		audit:         auditPub,
		metrics:       m,
		tracer:        otel.Tracer("eventops/redemption"),
		location:      location,
	}
}

// ValidateResult is the advisory answer to a scan validation.
type ValidateResult struct {
	Allowed      bool                  `json:"allowed"`
	Reason       string                `json:"reason,omitempty"`
	Registration *registration.Summary `json:"registration,omitempty"`
}

// ValidateScan resolves the decoded code and runs the eligibility check.
// The verdict is advisory: Record re-runs it against fresh data.
//
// Errors: CodeUnresolvedCode when the code maps to no registration.
func (s *Service) ValidateScan(ctx context.Context, eventID domain.EventID, resourceType domain.ResourceType, optionID domain.OptionID, code string) (*ValidateResult, error) {
	reg, err := s.resolveCode(ctx, eventID, code)
	if err != nil {
		s.metrics.ScansValidated.WithLabelValues("unresolved").Inc()
		return nil, err
	}

	decision := redemption.ValidateEligibility(reg, resourceType, optionID)
	summary := reg.Summarize()
	if !decision.Allowed {
		s.metrics.ScansValidated.WithLabelValues("denied").Inc()
		return &ValidateResult{Allowed: false, Reason: decision.Reason, Registration: &summary}, nil
	}
	s.metrics.ScansValidated.WithLabelValues("allowed").Inc()
	return &ValidateResult{Allowed: true, Registration: &summary}, nil
}

// RecordByCode is the input to Record: the station submits the decoded code,
// never a registration id, so a stale screen cannot record for the wrong
// attendee.
type RecordByCode struct {
	EventID  domain.EventID
	Type     domain.ResourceType
	OptionID domain.OptionID
	Code     string
	Force    bool
}

// Record performs the authoritative usage recording.
//
// Non-forced path: insert guarded by the store's uniqueness constraint on
// (registration, option) over non-forced records. A collision returns the
// existing record as a Duplicate result, not an error; that is the expected
// re-scan path. Forced path: always appends a new record tagged forced,
// preserving every prior record for audit.
//
// Eligibility is re-checked here because entitlement data can change between
// the advisory validation and this call.
//
// Errors: CodeUnresolvedCode, CodeIneligible, CodeUnavailable.
func (s *Service) Record(ctx context.Context, req RecordByCode) (*redemption.RecordResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "redemption.record",
		trace.WithAttributes(
			attribute.String("option_id", req.OptionID.String()),
			attribute.Bool("force", req.Force),
		))
	defer span.End()
	defer s.metrics.ObserveRecordDuration(start)

	reg, err := s.resolveCode(ctx, req.EventID, req.Code)
	if err != nil {
		return nil, err
	}

	if decision := redemption.ValidateEligibility(reg, req.Type, req.OptionID); !decision.Allowed {
		return nil, dErrors.New(dErrors.CodeIneligible, decision.Reason)
	}

	rec := &redemption.UsageRecord{
		ID:             domain.NewRecordID(),
		EventID:        req.EventID,
		RegistrationID: reg.ID,
		OptionID:       req.OptionID,
		Type:           req.Type,
		Timestamp:      requestcontext.Now(ctx),
		ActorID:        requestcontext.ActorID(ctx),
		StationID:      requestcontext.StationID(ctx),
		StationDevice:  requestcontext.StationDevice(ctx),
		Forced:         req.Force,
	}

	err = s.records.Insert(ctx, rec)
	if err == nil {
		s.metrics.RecordsWritten.WithLabelValues(forcedLabel(req.Force)).Inc()
		action := audit.ActionUsageRecorded
		if req.Force {
			action = audit.ActionForcedReissue
		}
		s.audit.Emit(ctx, audit.Event{
			Action:         action,
			EventID:        req.EventID,
			RegistrationID: reg.ID,
			OptionID:       req.OptionID,
			RecordID:       rec.ID.String(),
		})
		return &redemption.RecordResult{Status: redemption.StatusRecorded, Record: rec}, nil
	}

	if errors.Is(err, sentinel.ErrConflict) {
		// Expected re-scan path. The existing record always exists because
		// records are never deleted.
		existing, findErr := s.records.FindNonForced(ctx, reg.ID, req.OptionID)
		if findErr != nil {
			return nil, dErrors.Wrap(dErrors.CodeInternal, "load existing usage record", findErr)
		}
		s.metrics.DuplicatesFound.Inc()
		s.audit.Emit(ctx, audit.Event{
			Action:         audit.ActionDuplicateDetected,
			EventID:        req.EventID,
			RegistrationID: reg.ID,
			OptionID:       req.OptionID,
			RecordID:       existing.ID.String(),
		})
		return &redemption.RecordResult{Status: redemption.StatusDuplicate, Existing: existing}, nil
	}

	return nil, dErrors.Wrap(dErrors.CodeUnavailable, "record usage", err)
}

// Statistics computes the option's aggregate fresh from stored records.
// Forced and non-forced records both count: each represents a real
// distribution event. "Today" starts at local midnight in the event's
// configured timezone.
func (s *Service) Statistics(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) (*redemption.Stats, error) {
	todayStart := localMidnight(requestcontext.Now(ctx), s.location)
	stats, err := s.records.Aggregate(ctx, eventID, optionID, todayStart)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "aggregate statistics", err)
	}
	return stats, nil
}

func (s *Service) resolveCode(ctx context.Context, eventID domain.EventID, code string) (*registration.Registration, error) {
	if code == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "code cannot be empty")
	}
	reg, err := s.registrations.FindByCode(ctx, eventID, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnresolvedCode, "code does not map to a known registration")
		}
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "resolve code", err)
	}
	return reg, nil
}

func localMidnight(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func forcedLabel(forced bool) string {
	if forced {
		return "true"
	}
	return "false"
}
