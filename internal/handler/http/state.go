package http

import (
	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/form"
	"github.com/cmlabs-hris/hris-status-console/internal/service/directory"
	"github.com/cmlabs-hris/hris-status-console/internal/service/selfservice"
)

type FeedbackState struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type FormState struct {
	Profile           employee.ProfileUpdate `json:"profile"`
	Status            employee.StatusUpdate  `json:"status"`
	ProfileSubmitting bool                   `json:"profile_submitting"`
	StatusSubmitting  bool                   `json:"status_submitting"`
	Feedback          *FeedbackState         `json:"feedback,omitempty"`
}

type EmployeeRow struct {
	Employee employee.Employee `json:"employee"`
	Form     *FormState        `json:"form"`
}

type DirectoryState struct {
	Phase      string         `json:"phase"`
	Error      string         `json:"error,omitempty"`
	Empty      bool           `json:"empty"`
	Vocabulary []string       `json:"vocabulary"`
	Employees  []*EmployeeRow `json:"employees"`
}

// SelfServiceState carries the form only while a linked employee is loaded.
// Feedback is reported regardless.
type SelfServiceState struct {
	Phase      string                  `json:"phase"`
	LoginID    string                  `json:"login_id,omitempty"`
	Profile    *employee.MemberProfile `json:"profile,omitempty"`
	Vocabulary []string                `json:"vocabulary"`
	Form       *FormState              `json:"form,omitempty"`
	Feedback   *FeedbackState          `json:"feedback,omitempty"`
}

type ConsoleState struct {
	Lang        string           `json:"lang"`
	Directory   DirectoryState   `json:"directory"`
	SelfService SelfServiceState `json:"self_service"`
}

// statusFields is the dot of the status_fields template.
type statusFields struct {
	Form       *FormState
	Vocabulary []string
}

func newFeedbackState(f form.Feedback) *FeedbackState {
	if !f.Visible() {
		return nil
	}
	return &FeedbackState{Kind: f.Kind.String(), Message: f.Message}
}

func newFormState(s form.State) *FormState {
	return &FormState{
		Profile:           s.Profile,
		Status:            s.Status,
		ProfileSubmitting: s.Submitting(form.TargetProfile),
		StatusSubmitting:  s.Submitting(form.TargetStatus),
		Feedback:          newFeedbackState(s.Feedback),
	}
}

func newDirectoryState(snap directory.Snapshot) DirectoryState {
	state := DirectoryState{
		Phase:      snap.Phase.String(),
		Error:      snap.Error,
		Empty:      snap.Empty,
		Vocabulary: vocabularyOrEmpty(snap.Vocabulary),
		Employees:  make([]*EmployeeRow, 0, len(snap.Rows)),
	}
	for _, row := range snap.Rows {
		state.Employees = append(state.Employees, &EmployeeRow{
			Employee: row.Employee,
			Form:     newFormState(row.Form),
		})
	}
	return state
}

func newSelfServiceState(snap selfservice.Snapshot) SelfServiceState {
	state := SelfServiceState{
		Phase:      snap.Phase.String(),
		LoginID:    snap.LoginID,
		Profile:    snap.Profile,
		Vocabulary: vocabularyOrEmpty(snap.Vocabulary),
		Feedback:   newFeedbackState(snap.Form.Feedback),
	}
	if snap.Phase == selfservice.PhaseLinked {
		state.Form = newFormState(snap.Form)
	}
	return state
}

func findRow(state DirectoryState, id int64) *EmployeeRow {
	for _, row := range state.Employees {
		if row.Employee.ID == id {
			return row
		}
	}
	return nil
}

func vocabularyOrEmpty(v employee.StatusVocabulary) []string {
	if v == nil {
		return []string{}
	}
	return v
}
