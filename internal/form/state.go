package form

import (
	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
)

// Target selects one of the two sub-forms.
type Target int

const (
	TargetProfile Target = iota + 1
	TargetStatus
)

func (t Target) String() string {
	switch t {
	case TargetProfile:
		return "profile"
	case TargetStatus:
		return "status"
	default:
		return "unknown"
	}
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
)

type FeedbackKind int

const (
	FeedbackNone FeedbackKind = iota
	FeedbackSuccess
	FeedbackError
)

func (k FeedbackKind) String() string {
	switch k {
	case FeedbackSuccess:
		return "success"
	case FeedbackError:
		return "error"
	default:
		return "none"
	}
}

// Feedback is the single transient message slot shared by both sub-forms.
// Seq identifies the message so a late expiry cannot clear a newer one.
type Feedback struct {
	Kind    FeedbackKind
	Message string
	Seq     uint64
}

func (f Feedback) Visible() bool {
	return f.Kind != FeedbackNone
}

// State is the complete local state of one editable form.
type State struct {
	Profile      employee.ProfileUpdate
	Status       employee.StatusUpdate
	ProfilePhase Phase
	StatusPhase  Phase
	Feedback     Feedback

	// Revision counts EntityReplaced transitions.
	Revision uint64

	lastSeq uint64
}

// Phase returns the phase of the given sub-form.
func (s State) Phase(t Target) Phase {
	if t == TargetStatus {
		return s.StatusPhase
	}
	return s.ProfilePhase
}

func (s State) Submitting(t Target) bool {
	return s.Phase(t) == PhaseSubmitting
}

func (s State) withPhase(t Target, p Phase) State {
	if t == TargetStatus {
		s.StatusPhase = p
	} else {
		s.ProfilePhase = p
	}
	return s
}

func (s State) withFeedback(kind FeedbackKind, message string) State {
	s.lastSeq++
	s.Feedback = Feedback{Kind: kind, Message: message, Seq: s.lastSeq}
	return s
}
