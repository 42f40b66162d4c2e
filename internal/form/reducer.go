package form

import (
	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
)

// Event is a transition input for Reduce.
type Event interface {
	isEvent()
}

// EntityReplaced resets both drafts from the owning entity. A nil Employee
// resets to empty drafts with the vocabulary default status.
type EntityReplaced struct {
	Employee   *employee.Employee
	Vocabulary employee.StatusVocabulary
}

type ProfileEdited struct {
	Draft employee.ProfileUpdate
}

type StatusEdited struct {
	Draft employee.StatusUpdate
}

type SubmitStarted struct {
	Target Target
}

type SubmitSucceeded struct {
	Target  Target
	Message string
}

type SubmitFailed struct {
	Target  Target
	Message string
}

// SubmitAbandoned ends a submission whose result is stale. No feedback is shown.
type SubmitAbandoned struct {
	Target Target
}

// StatusConfirmed ends a status submission by taking the status code from the
// server while keeping the draft note.
type StatusConfirmed struct {
	Status  string
	Message string
}

// Notice shows feedback that did not come from a submission.
type Notice struct {
	Kind    FeedbackKind
	Message string
}

type FeedbackExpired struct {
	Seq uint64
}

func (EntityReplaced) isEvent()  {}
func (ProfileEdited) isEvent()   {}
func (StatusEdited) isEvent()    {}
func (SubmitStarted) isEvent()   {}
func (SubmitSucceeded) isEvent() {}
func (SubmitFailed) isEvent()    {}
func (SubmitAbandoned) isEvent() {}
func (StatusConfirmed) isEvent() {}
func (Notice) isEvent()          {}
func (FeedbackExpired) isEvent() {}

// Reduce applies e to s and returns the next state. It has no side effects.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case EntityReplaced:
		if ev.Employee == nil {
			s.Profile = employee.ProfileUpdate{}
			s.Status = employee.StatusUpdate{Status: ev.Vocabulary.Default()}
		} else {
			s.Profile = employee.ProfileUpdateFrom(*ev.Employee)
			s.Status = employee.StatusUpdateFrom(*ev.Employee, ev.Vocabulary)
		}
		s.Revision++
		return s

	case ProfileEdited:
		s.Profile = ev.Draft
		return s

	case StatusEdited:
		s.Status = ev.Draft
		return s

	case SubmitStarted:
		if s.Submitting(ev.Target) {
			return s
		}
		s = s.withPhase(ev.Target, PhaseSubmitting)
		s.Feedback = Feedback{}
		return s

	case SubmitSucceeded:
		if !s.Submitting(ev.Target) {
			return s
		}
		return s.withPhase(ev.Target, PhaseIdle).withFeedback(FeedbackSuccess, ev.Message)

	case SubmitFailed:
		if !s.Submitting(ev.Target) {
			return s
		}
		return s.withPhase(ev.Target, PhaseIdle).withFeedback(FeedbackError, ev.Message)

	case SubmitAbandoned:
		return s.withPhase(ev.Target, PhaseIdle)

	case StatusConfirmed:
		if !s.Submitting(TargetStatus) {
			return s
		}
		s.Status.Status = ev.Status
		return s.withPhase(TargetStatus, PhaseIdle).withFeedback(FeedbackSuccess, ev.Message)

	case Notice:
		if ev.Kind == FeedbackNone {
			s.Feedback = Feedback{}
			return s
		}
		return s.withFeedback(ev.Kind, ev.Message)

	case FeedbackExpired:
		if s.Feedback.Visible() && s.Feedback.Seq == ev.Seq {
			s.Feedback = Feedback{}
		}
		return s
	}
	return s
}
