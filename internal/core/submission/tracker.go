package submission

import (
	"errors"
	"fmt"
	"sync"
)

// State is the status of a form's current submission attempt
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateNavigated  State = "navigated"
)

var (
	// ErrInFlight is returned when a submission starts while another one is running
	ErrInFlight = errors.New("a submission is already in progress")

	// ErrNavigated is returned once the form has been submitted successfully
	ErrNavigated = errors.New("form has already been submitted")
)

// transitions lists the states each state may move to
var transitions = map[State][]State{
	StateIdle:       {StateValidating},
	StateValidating: {StateIdle, StateSubmitting},
	StateSubmitting: {StateIdle, StateNavigated},
	StateNavigated:  {},
}

// CanTransition reports whether from may move directly to to
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Tracker records the submission status of a single form instance.
// Idle → Validating → {Idle, Submitting} → {Idle, Navigated}.
type Tracker struct {
	mu       sync.Mutex
	state    State
	attempts int
	sent     int
}

// NewTracker creates a tracker in the idle state
func NewTracker() *Tracker {
	return &Tracker{state: StateIdle}
}

// State returns the current state
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Busy reports whether an attempt is being validated or sent
func (t *Tracker) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateValidating || t.state == StateSubmitting
}

// Attempts returns how many attempts were started
func (t *Tracker) Attempts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.attempts
}

// Sent returns how many attempts reached the network
func (t *Tracker) Sent() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent
}

// Begin starts a new attempt
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case StateValidating, StateSubmitting:
		return ErrInFlight
	case StateNavigated:
		return ErrNavigated
	}

	if err := t.moveLocked(StateValidating); err != nil {
		return err
	}
	t.attempts++
	return nil
}

// Reject ends an attempt whose draft failed validation
func (t *Tracker) Reject() error {
	return t.move(StateIdle, StateValidating)
}

// Send marks the validated attempt as being sent
func (t *Tracker) Send() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.moveLocked(StateSubmitting); err != nil {
		return err
	}
	t.sent++
	return nil
}

// Fail ends an attempt the backend did not accept
func (t *Tracker) Fail() error {
	return t.move(StateIdle, StateSubmitting)
}

// Complete ends an attempt the backend accepted
func (t *Tracker) Complete() error {
	return t.move(StateNavigated, StateSubmitting)
}

func (t *Tracker) move(to, from State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != from {
		return fmt.Errorf("invalid submission transition to %s from %s, expected %s", to, t.state, from)
	}
	return t.moveLocked(to)
}

func (t *Tracker) moveLocked(to State) error {
	if !CanTransition(t.state, to) {
		return fmt.Errorf("invalid submission transition from %s to %s", t.state, to)
	}
	t.state = to
	return nil
}
