package form

import (
	"errors"
	"sync"
	"time"
)

// DefaultFeedbackTTL is how long feedback stays visible without a newer action.
const DefaultFeedbackTTL = 2500 * time.Millisecond

var (
	ErrSubmitInFlight = errors.New("submit already in flight")
	ErrFormClosed     = errors.New("form closed")
)

// Form owns the State of one editable form instance and the timer that
// clears its feedback. It is safe for concurrent use.
type Form struct {
	mu       sync.Mutex
	state    State
	ttl      time.Duration
	timer    *time.Timer
	closed   bool
	onChange func(State)
}

type Option func(*Form)

// WithFeedbackTTL overrides DefaultFeedbackTTL. Non-positive values are ignored.
func WithFeedbackTTL(ttl time.Duration) Option {
	return func(f *Form) {
		if ttl > 0 {
			f.ttl = ttl
		}
	}
}

// WithOnChange registers fn to be called, outside the lock, after every
// applied event including feedback expiry.
func WithOnChange(fn func(State)) Option {
	return func(f *Form) {
		f.onChange = fn
	}
}

// New creates a form and applies initial, if given, as its first event.
func New(initial Event, opts ...Option) *Form {
	f := &Form{ttl: DefaultFeedbackTTL}
	for _, opt := range opts {
		opt(f)
	}
	if initial != nil {
		f.state = Reduce(f.state, initial)
	}
	return f
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Dispatch applies e. Events dispatched after Close are dropped.
func (f *Form) Dispatch(e Event) State {
	f.mu.Lock()
	if f.closed {
		s := f.state
		f.mu.Unlock()
		return s
	}
	next := f.applyLocked(e)
	onChange := f.onChange
	f.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return next
}

// BeginSubmit moves the target sub-form to PhaseSubmitting and returns the
// state holding the draft to send. Only that sub-form is blocked.
func (f *Form) BeginSubmit(t Target) (State, error) {
	f.mu.Lock()
	if f.closed {
		s := f.state
		f.mu.Unlock()
		return s, ErrFormClosed
	}
	if f.state.Submitting(t) {
		s := f.state
		f.mu.Unlock()
		return s, ErrSubmitInFlight
	}
	next := f.applyLocked(SubmitStarted{Target: t})
	onChange := f.onChange
	f.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
	return next, nil
}

// Close cancels the pending feedback clear and turns later events into no-ops.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.stopTimerLocked()
}

func (f *Form) applyLocked(e Event) State {
	prev := f.state.Feedback
	f.state = Reduce(f.state, e)
	if f.state.Feedback.Seq != prev.Seq {
		f.stopTimerLocked()
		if f.state.Feedback.Visible() {
			seq := f.state.Feedback.Seq
			f.timer = time.AfterFunc(f.ttl, func() {
				f.Dispatch(FeedbackExpired{Seq: seq})
			})
		}
	}
	return f.state
}

func (f *Form) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
