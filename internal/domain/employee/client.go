package employee

import "context"

// Client is the remote employee API consumed by the console views.
type Client interface {
	// ListEmployees returns every employee in directory order
	ListEmployees(ctx context.Context) ([]Employee, error)

	// ListStatusOptions returns the status vocabulary
	ListStatusOptions(ctx context.Context) (StatusVocabulary, error)

	// UpdateEmployee replaces the editable profile fields and returns the canonical employee
	UpdateEmployee(ctx context.Context, id int64, req ProfileUpdate) (Employee, error)

	// UpdateEmployeeStatus opens a new status record for the employee
	UpdateEmployeeStatus(ctx context.Context, id int64, req StatusUpdate) (CurrentStatus, error)

	// GetMemberProfile looks a member up by login ID
	GetMemberProfile(ctx context.Context, loginID string) (MemberProfile, error)

	// UpdateMemberProfile edits the employee linked to a login ID
	UpdateMemberProfile(ctx context.Context, loginID string, req ProfileUpdate) (MemberProfile, error)

	// UpdateMemberStatus opens a new status record for the employee linked to a login ID
	UpdateMemberStatus(ctx context.Context, loginID string, req StatusUpdate) (CurrentStatus, error)
}
