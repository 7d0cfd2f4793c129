package station

import (
	"testing"

	"github.com/stretchr/testify/require"

	"eventops/pkg/platform/sentinel"
)

func advanceTo(t *testing.T, f *Flow, states ...State) {
	t.Helper()
	for _, s := range states {
		require.NoError(t, f.To(s))
	}
}

func TestFlowHappyPath(t *testing.T) {
	f := NewFlow()
	require.Equal(t, StateIdle, f.State())

	advanceTo(t, f, StateScanned, StateValidating, StateEligible, StateRecording, StateRecorded)
	require.True(t, f.Terminal())
	require.NoError(t, f.Reset())
	require.Equal(t, StateIdle, f.State())
}

func TestFlowDuplicateAndForce(t *testing.T) {
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating, StateEligible, StateRecording,
		StateDuplicateDetected, StateAwaitingConfirmation, StateForcedRecording, StateRecorded)
	require.True(t, f.Terminal())
}

func TestFlowCancelIsTerminalWithoutRecording(t *testing.T) {
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating, StateEligible, StateRecording,
		StateDuplicateDetected, StateAwaitingConfirmation, StateCancelled)
	require.True(t, f.Terminal())
	require.NoError(t, f.Reset())
}

func TestFlowIneligibleIsTerminal(t *testing.T) {
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating, StateIneligible)
	require.True(t, f.Terminal())
}

func TestFlowFailureReachableFromEveryPipelineStep(t *testing.T) {
	paths := map[string][]State{
		"scanned":            {StateScanned},
		"validating":         {StateScanned, StateValidating},
		"eligible":           {StateScanned, StateValidating, StateEligible},
		"recording":          {StateScanned, StateValidating, StateEligible, StateRecording},
		"duplicate detected": {StateScanned, StateValidating, StateEligible, StateRecording, StateDuplicateDetected},
		"forced recording":   {StateScanned, StateValidating, StateEligible, StateRecording, StateDuplicateDetected, StateAwaitingConfirmation, StateForcedRecording},
	}
	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			f := NewFlow()
			advanceTo(t, f, path...)
			require.NoError(t, f.To(StateFailed))
			require.True(t, f.Terminal())
			require.NoError(t, f.Reset())
		})
	}
}

func TestFlowAwaitingConfirmationCannotFail(t *testing.T) {
	// The prompt is an operator decision point, not a pipeline step: only
	// confirm or cancel leaves it.
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating, StateEligible, StateRecording,
		StateDuplicateDetected, StateAwaitingConfirmation)
	require.ErrorIs(t, f.To(StateFailed), sentinel.ErrInvalidState)
}

func TestFlowRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		name string
		path []State
		next State
	}{
		{"cannot record before validating", []State{StateScanned}, StateRecording},
		{"cannot skip eligibility", []State{StateScanned, StateValidating}, StateRecorded},
		{"cannot force without confirmation", []State{StateScanned, StateValidating, StateEligible, StateRecording, StateDuplicateDetected}, StateForcedRecording},
		{"cannot cancel outside confirmation", []State{StateScanned, StateValidating, StateEligible}, StateCancelled},
		{"terminal recorded accepts nothing", []State{StateScanned, StateValidating, StateEligible, StateRecording, StateRecorded}, StateScanned},
		{"idle only accepts a scan", nil, StateValidating},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := NewFlow()
			advanceTo(t, f, tc.path...)
			before := f.State()
			err := f.To(tc.next)
			require.ErrorIs(t, err, sentinel.ErrInvalidState)
			require.Equal(t, before, f.State(), "a rejected transition must not move the machine")
		})
	}
}

func TestFlowResetRejectedMidPipeline(t *testing.T) {
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating)
	require.ErrorIs(t, f.Reset(), sentinel.ErrInvalidState)
}

func TestFlowAwaitingConfirmationOnlyConfirmsOrCancels(t *testing.T) {
	f := NewFlow()
	advanceTo(t, f, StateScanned, StateValidating, StateEligible, StateRecording,
		StateDuplicateDetected, StateAwaitingConfirmation)

	require.ErrorIs(t, f.To(StateRecorded), sentinel.ErrInvalidState)
	require.ErrorIs(t, f.To(StateScanned), sentinel.ErrInvalidState)
	require.NoError(t, f.To(StateCancelled))
}
