package station

import (
	"fmt"

	"eventops/pkg/platform/sentinel"
)

// State is one node of the scan pipeline state machine. The machine makes
// every transition and failure mode of the scanning flow enumerable instead
// of being implied by logging side effects.
type State string

const (
	StateIdle                 State = "idle"
	StateScanned              State = "scanned"
	StateValidating           State = "validating"
	StateEligible             State = "eligible"
	StateIneligible           State = "ineligible"
	StateRecording            State = "recording"
	StateRecorded             State = "recorded"
	StateDuplicateDetected    State = "duplicate_detected"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateForcedRecording      State = "forced_recording"
	StateCancelled            State = "cancelled"
	StateFailed               State = "failed"
)

// transitions is the exhaustive legal-successor table. Anything not listed
// is an illegal transition and a programming error in the orchestrator.
var transitions = map[State][]State{
	StateIdle:                 {StateScanned},
	StateScanned:              {StateValidating, StateFailed},
	StateValidating:           {StateEligible, StateIneligible, StateFailed},
	StateEligible:             {StateRecording, StateFailed},
	StateRecording:            {StateRecorded, StateDuplicateDetected, StateFailed},
	StateDuplicateDetected:    {StateAwaitingConfirmation, StateFailed},
	StateAwaitingConfirmation: {StateForcedRecording, StateCancelled},
	StateForcedRecording:      {StateRecorded, StateFailed},
	// Terminal states only reset back to Idle.
	StateRecorded:   {},
	StateIneligible: {},
	StateCancelled:  {},
	StateFailed:     {},
}

// terminal states return the station to Idle with no further transitions.
var terminal = map[State]bool{
	StateRecorded:   true,
	StateIneligible: true,
	StateCancelled:  true,
	StateFailed:     true,
}

// Flow tracks one scan's progress through the pipeline. It is not
// goroutine-safe on its own; the owning station serializes access.
type Flow struct {
	state State
}

func NewFlow() *Flow {
	return &Flow{state: StateIdle}
}

// State returns the current state.
func (f *Flow) State() State {
	return f.state
}

// To advances the machine, rejecting illegal transitions.
func (f *Flow) To(next State) error {
	for _, allowed := range transitions[f.state] {
		if allowed == next {
			f.state = next
			return nil
		}
	}
	return fmt.Errorf("transition %s -> %s: %w", f.state, next, sentinel.ErrInvalidState)
}

// Terminal reports whether the current state ends this scan.
func (f *Flow) Terminal() bool {
	return terminal[f.state]
}

// Reset returns the machine to Idle. Only legal from Idle or a terminal
// state: resetting mid-pipeline would hide a hung scan.
func (f *Flow) Reset() error {
	if f.state != StateIdle && !terminal[f.state] {
		return fmt.Errorf("reset from %s: %w", f.state, sentinel.ErrInvalidState)
	}
	f.state = StateIdle
	return nil
}
