package station

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"eventops/internal/audit"
	"eventops/internal/certificate/pdf"
	"eventops/internal/platform/metrics"
	"eventops/pkg/domain"
	dErrors "eventops/pkg/domainerrors"
)

type fakeGenerator struct {
	calls int
	err   error
}

func (f *fakeGenerator) Generate(ctx context.Context, req pdf.Request) (*pdf.Document, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &pdf.Document{
		Filename:    "certificate.pdf",
		ContentType: "application/pdf",
		Content:     io.NopCloser(strings.NewReader("%PDF-1.7")),
	}, nil
}

func newTestRunner(gen pdf.Generator) (*Runner, chan audit.Event) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	inbox := make(chan audit.Event, 16)
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	return NewRunner(gen, audit.NewPublisher(inbox, logger), m, logger), inbox
}

func renderRequest() pdf.Request {
	return pdf.Request{
		EventID:        domain.EventID(uuid.New()),
		TemplateID:     domain.TemplateID(uuid.New()),
		RegistrationID: domain.RegistrationID(uuid.New()),
	}
}

func TestRunnerRenderOne(t *testing.T) {
	gen := &fakeGenerator{}
	runner, inbox := newTestRunner(gen)

	doc, err := runner.RenderOne(context.Background(), renderRequest())
	require.NoError(t, err)
	defer doc.Content.Close()
	require.Equal(t, "certificate.pdf", doc.Filename)

	event := <-inbox
	require.Equal(t, audit.ActionDocumentGenerated, event.Action)
	require.Equal(t, "certificate.pdf", event.Detail)
}

func TestRunnerRenderBatchPreservesOrder(t *testing.T) {
	gen := &fakeGenerator{}
	runner, _ := newTestRunner(gen)

	requests := []pdf.Request{renderRequest(), renderRequest(), renderRequest()}
	abstractID := domain.AbstractID(uuid.New())
	requests[1].AbstractID = &abstractID

	docs, err := runner.Render(context.Background(), requests)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	require.Nil(t, docs[0].AbstractID)
	require.Equal(t, &abstractID, docs[1].AbstractID)
	require.Equal(t, 3, gen.calls)
}

func TestRunnerCircuitOpensAfterRepeatedFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("renderer down")}
	runner, _ := newTestRunner(gen)

	for i := 0; i < 3; i++ {
		_, err := runner.RenderOne(context.Background(), renderRequest())
		require.Error(t, err)
		var dErr *dErrors.Error
		require.ErrorAs(t, err, &dErr)
		require.Equal(t, dErrors.CodeGenerationFailed, dErr.Code)
	}
	require.Equal(t, 3, gen.calls)

	// The breaker is open now; further renders fail fast without a call.
	_, err := runner.RenderOne(context.Background(), renderRequest())
	var dErr *dErrors.Error
	require.ErrorAs(t, err, &dErr)
	require.Equal(t, dErrors.CodeUnavailable, dErr.Code)
	require.Equal(t, 3, gen.calls)
}
