package station

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"eventops/internal/audit"
	"eventops/internal/certificate"
	"eventops/internal/certificate/pdf"
	"eventops/internal/platform/metrics"
	"eventops/internal/redemption"
	"eventops/internal/redemption/dedupe"
	"eventops/internal/redemption/service"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
	"eventops/pkg/platform/circuit"
)

// Redeemer is the slice of the redemption service a station drives.
type Redeemer interface {
	ValidateScan(ctx context.Context, eventID domain.EventID, resourceType domain.ResourceType, optionID domain.OptionID, code string) (*service.ValidateResult, error)
	Record(ctx context.Context, req service.RecordByCode) (*redemption.RecordResult, error)
	Statistics(ctx context.Context, eventID domain.EventID, optionID domain.OptionID) (*redemption.Stats, error)
}

// PlanResolver is the slice of the certificate resolver a station drives.
type PlanResolver interface {
	Resolve(ctx context.Context, eventID domain.EventID, templateID domain.TemplateID, registrationID domain.RegistrationID) (*certificate.Plan, error)
}

// ScanInput is one decoded scan as submitted by the station hardware.
type ScanInput struct {
	EventID  domain.EventID      `json:"event_id"`
	Type     domain.ResourceType `json:"resource_type"`
	OptionID domain.OptionID     `json:"option_id"`
	Code     string              `json:"code"`
}

func (in ScanInput) dedupeKey() dedupe.Key {
	return dedupe.Key{EventID: in.EventID, Type: in.Type, OptionID: in.OptionID, Code: in.Code}
}

// Outcome is what the station reports back to the operator after a scan,
// a confirmation, or a cancellation.
type Outcome struct {
	State       State                   `json:"state"`
	Suppressed  bool                    `json:"suppressed,omitempty"`
	Validation  *service.ValidateResult `json:"validation,omitempty"`
	Result      *redemption.RecordResult `json:"result,omitempty"`
	Stats       *redemption.Stats       `json:"stats,omitempty"`
	Plan        *certificate.Plan       `json:"plan,omitempty"`
	PlanBlocked string                  `json:"plan_blocked,omitempty"`
}

// Station is the server-side controller for one physical scanning station.
// It owns the scan state machine, the station-local dedupe cache, and the
// single-flight rule: one scan in flight at a time, a second submission is
// rejected instead of queued.
type Station struct {
	id       string
	redeemer Redeemer
	resolver PlanResolver
	cache    dedupe.Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu      sync.Mutex
	flow    *Flow
	pending *ScanInput
}

func New(id string, redeemer Redeemer, resolver PlanResolver, cache dedupe.Cache, m *metrics.Metrics, logger *slog.Logger) *Station {
	return &Station{
		id:       id,
		redeemer: redeemer,
		resolver: resolver,
		cache:    cache,
		metrics:  m,
		logger:   logger.With(slog.String("station_id", id)),
		flow:     NewFlow(),
	}
}

// ID returns the station identifier.
func (st *Station) ID() string {
	return st.id
}

// Scan runs the full pipeline for one decoded scan: dedupe check, advisory
// validation, authoritative recording, statistics refresh and, for
// document-producing resource types, the generation plan. On a duplicate the
// station parks in AwaitingConfirmation and the operator must Confirm or
// Cancel before the next scan.
func (st *Station) Scan(ctx context.Context, in ScanInput) (out *Outcome, err error) {
	if !st.mu.TryLock() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "station is busy with another scan")
	}
	defer st.mu.Unlock()

	if st.flow.State() == StateAwaitingConfirmation {
		return nil, dErrors.New(dErrors.CodeBadRequest, "a reprint confirmation is pending; confirm or cancel first")
	}
	// A failed scan must never leave the flow parked mid-pipeline: the next
	// attendee in line still gets scanned.
	defer func() {
		if err != nil {
			st.abort()
		}
	}()
	if err := st.flow.Reset(); err != nil {
		return nil, err
	}
	if err := st.advance(StateScanned, StateValidating); err != nil {
		return nil, err
	}

	key := in.dedupeKey()
	if cached, ok := st.cache.Lookup(ctx, key); ok {
		st.metrics.DedupeCacheHits.Inc()
		return st.replay(in, cached)
	}

	validation, err := st.redeemer.ValidateScan(ctx, in.EventID, in.Type, in.OptionID, in.Code)
	if err != nil {
		st.fail("validate", err)
		return nil, err
	}
	if !validation.Allowed {
		if err := st.flow.To(StateIneligible); err != nil {
			return nil, err
		}
		out := &Outcome{State: st.flow.State(), Validation: validation}
		_ = st.flow.Reset()
		return out, nil
	}
	if err := st.advance(StateEligible, StateRecording); err != nil {
		return nil, err
	}

	result, err := st.redeemer.Record(ctx, service.RecordByCode{
		EventID:  in.EventID,
		Type:     in.Type,
		OptionID: in.OptionID,
		Code:     in.Code,
	})
	if err != nil {
		st.fail("record", err)
		return nil, err
	}
	st.cache.Remember(ctx, key, result)

	if result.Status == redemption.StatusDuplicate {
		if err := st.advance(StateDuplicateDetected, StateAwaitingConfirmation); err != nil {
			return nil, err
		}
		held := in
		st.pending = &held
		return &Outcome{State: st.flow.State(), Validation: validation, Result: result}, nil
	}

	if err := st.flow.To(StateRecorded); err != nil {
		return nil, err
	}
	out = st.finish(ctx, in, validation, result)
	_ = st.flow.Reset()
	return out, nil
}

// Confirm re-records the pending duplicate as a forced reissue. Only legal
// while the station is awaiting confirmation.
func (st *Station) Confirm(ctx context.Context) (out *Outcome, err error) {
	if !st.mu.TryLock() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "station is busy with another scan")
	}
	defer st.mu.Unlock()

	if st.flow.State() != StateAwaitingConfirmation || st.pending == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no reprint awaiting confirmation")
	}
	defer func() {
		if err != nil {
			st.abort()
		}
	}()
	in := *st.pending
	if err := st.flow.To(StateForcedRecording); err != nil {
		return nil, err
	}

	result, err := st.redeemer.Record(ctx, service.RecordByCode{
		EventID:  in.EventID,
		Type:     in.Type,
		OptionID: in.OptionID,
		Code:     in.Code,
		Force:    true,
	})
	if err != nil {
		st.pending = nil
		st.fail("forced record", err)
		return nil, err
	}
	if err := st.flow.To(StateRecorded); err != nil {
		return nil, err
	}
	st.pending = nil
	st.cache.Remember(ctx, in.dedupeKey(), result)

	out = st.finish(ctx, in, nil, result)
	_ = st.flow.Reset()
	return out, nil
}

// Cancel abandons the pending confirmation. No record is written.
func (st *Station) Cancel(ctx context.Context) (*Outcome, error) {
	if !st.mu.TryLock() {
		return nil, dErrors.New(dErrors.CodeUnavailable, "station is busy with another scan")
	}
	defer st.mu.Unlock()

	if st.flow.State() != StateAwaitingConfirmation {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no reprint awaiting confirmation")
	}
	st.pending = nil
	if err := st.flow.To(StateCancelled); err != nil {
		return nil, err
	}
	out := &Outcome{State: st.flow.State()}
	_ = st.flow.Reset()
	return out, nil
}

// replay serves a recent identical scan from the dedupe cache. A cached
// duplicate re-opens the confirmation prompt; a cached success just repeats
// the outcome without touching the network.
func (st *Station) replay(in ScanInput, cached *redemption.RecordResult) (*Outcome, error) {
	if cached.Status == redemption.StatusDuplicate {
		// Walk the same legal path a live duplicate takes.
		if err := st.advance(StateEligible, StateRecording, StateDuplicateDetected, StateAwaitingConfirmation); err != nil {
			return nil, err
		}
		held := in
		st.pending = &held
		return &Outcome{State: st.flow.State(), Suppressed: true, Result: cached}, nil
	}
	if err := st.advance(StateEligible, StateRecording, StateRecorded); err != nil {
		return nil, err
	}
	out := &Outcome{State: st.flow.State(), Suppressed: true, Result: cached}
	_ = st.flow.Reset()
	return out, nil
}

// finish assembles the post-record outcome: refreshed statistics and, for
// document-producing types, the generation plan. Both are best-effort extras
// on top of an already committed record.
func (st *Station) finish(ctx context.Context, in ScanInput, validation *service.ValidateResult, result *redemption.RecordResult) *Outcome {
	out := &Outcome{State: st.flow.State(), Validation: validation, Result: result}

	stats, err := st.redeemer.Statistics(ctx, in.EventID, in.OptionID)
	if err != nil {
		st.logger.Warn("statistics refresh failed", slog.String("error", err.Error()))
	} else {
		out.Stats = stats
	}

	if in.Type.TriggersDocument() && result.Record != nil {
		// Certificate options are backed by the template with the same id.
		templateID := domain.TemplateID(in.OptionID)
		plan, err := st.resolver.Resolve(ctx, in.EventID, templateID, result.Record.RegistrationID)
		switch {
		case dErrors.CodeOf(err) == dErrors.CodeNoEligibleAbstract:
			out.PlanBlocked = err.Error()
		case err != nil:
			st.logger.Warn("generation plan failed", slog.String("error", err.Error()))
			out.PlanBlocked = "document generation is unavailable"
		default:
			out.Plan = plan
		}
	}
	return out
}

func (st *Station) advance(states ...State) error {
	for _, s := range states {
		if err := st.flow.To(s); err != nil {
			return err
		}
	}
	return nil
}

func (st *Station) fail(stage string, cause error) {
	st.logger.Warn("scan pipeline failed",
		slog.String("stage", stage),
		slog.String("state", string(st.flow.State())),
		slog.String("error", cause.Error()))
}

// abort returns the flow to Idle after a failed scan or confirmation. Every
// mid-pipeline state may legally fail; if the flow is somehow somewhere the
// table does not cover, it is replaced outright rather than left wedged.
func (st *Station) abort() {
	if st.flow.State() != StateIdle && !st.flow.Terminal() {
		if err := st.flow.To(StateFailed); err != nil {
			st.logger.Error("flow abort from unexpected state",
				slog.String("state", string(st.flow.State())))
			st.flow = NewFlow()
			return
		}
	}
	_ = st.flow.Reset()
}

// GeneratedDocument is the receipt for one rendered document.
type GeneratedDocument struct {
	Filename   string             `json:"filename"`
	AbstractID *domain.AbstractID `json:"abstract_id,omitempty"`
}

// Runner renders a batch of generation instructions concurrently. The
// instructions are independent, so one failed render never blocks the rest
// from being attempted; the first error is still reported.
type Runner struct {
	generator pdf.Generator
	breaker   *circuit.Breaker
	audit     *audit.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewRunner(generator pdf.Generator, auditPub *audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Runner {
	return &Runner{
		generator: generator,
		breaker:   circuit.New("pdf-renderer", circuit.WithFailureThreshold(3), circuit.WithSuccessThreshold(2)),
		audit:     auditPub,
		metrics:   m,
		logger:    logger,
	}
}

// RenderOne renders a single prepared request. The caller owns the returned
// document and must close its content.
func (r *Runner) RenderOne(ctx context.Context, req pdf.Request) (*pdf.Document, error) {
	if r.breaker.IsOpen() {
		r.metrics.DocumentsRendered.WithLabelValues("rejected").Inc()
		return nil, dErrors.New(dErrors.CodeUnavailable, "document renderer unavailable")
	}
	doc, err := r.generator.Generate(ctx, req)
	if err != nil {
		r.metrics.DocumentsRendered.WithLabelValues("error").Inc()
		if _, change := r.breaker.RecordFailure(); change.Opened {
			r.logger.Error("document renderer circuit opened",
				slog.String("breaker", r.breaker.Name()),
				slog.String("error", err.Error()))
		}
		return nil, dErrors.Wrap(dErrors.CodeGenerationFailed, "document generation failed", err)
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.Info("document renderer circuit closed",
			slog.String("breaker", r.breaker.Name()))
	}
	r.metrics.DocumentsRendered.WithLabelValues("ok").Inc()
	r.audit.Emit(ctx, audit.Event{
		Action:         audit.ActionDocumentGenerated,
		EventID:        req.EventID,
		RegistrationID: req.RegistrationID,
		Detail:         doc.Filename,
	})
	return doc, nil
}

// Render executes every prepared request and returns the produced filenames
// in request order.
func (r *Runner) Render(ctx context.Context, requests []pdf.Request) ([]GeneratedDocument, error) {
	docs := make([]GeneratedDocument, len(requests))
	g, ctx := errgroup.WithContext(ctx)
	for i, req := range requests {
		g.Go(func() error {
			doc, err := r.RenderOne(ctx, req)
			if err != nil {
				return err
			}
			defer doc.Content.Close()
			docs[i] = GeneratedDocument{Filename: doc.Filename, AbstractID: req.AbstractID}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
