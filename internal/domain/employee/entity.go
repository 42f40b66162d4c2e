package employee

// DefaultStatusCode is used when the vocabulary is empty.
const DefaultStatusCode = "WORKING"

type Employee struct {
	ID             int64          `json:"emp_id"`
	EmployeeNo     string         `json:"emp_no"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Mobile         string         `json:"mobile"`
	PasswordHash   *string        `json:"password_hash"`
	DepartmentName *string        `json:"department_name"`
	RoleName       *string        `json:"role_name"`
	CurrentStatus  *CurrentStatus `json:"current_status"`
}

// CurrentStatus is replaced wholesale on every status update.
type CurrentStatus struct {
	ID          int64   `json:"status_id"`
	Status      string  `json:"status"`
	StatusStart string  `json:"status_start"`
	StatusEnd   *string `json:"status_end"`
	Note        *string `json:"note"`
}

// Ongoing reports whether the status has no end timestamp.
func (s CurrentStatus) Ongoing() bool {
	return s.StatusEnd == nil || *s.StatusEnd == ""
}

type MemberProfile struct {
	MemberID int64     `json:"member_id"`
	LoginID  string    `json:"login_id"`
	UserType string    `json:"user_type"`
	Employee *Employee `json:"employee"`
}

// Linked reports whether the login is bound to an employee.
func (m MemberProfile) Linked() bool {
	return m.Employee != nil
}

// StatusVocabulary is the ordered set of valid status codes.
type StatusVocabulary []string

// Default returns the first code, or DefaultStatusCode for an empty vocabulary.
func (v StatusVocabulary) Default() string {
	if len(v) == 0 {
		return DefaultStatusCode
	}
	return v[0]
}

// WithStatus returns a copy of e whose current status is replaced by s.
func (e Employee) WithStatus(s CurrentStatus) Employee {
	e.CurrentStatus = &s
	return e
}

// StatusCode returns the current status code, or "" when none is set.
func (e Employee) StatusCode() string {
	if e.CurrentStatus == nil {
		return ""
	}
	return e.CurrentStatus.Status
}

// StatusNote returns the current status note, or "".
func (e Employee) StatusNote() string {
	if e.CurrentStatus == nil || e.CurrentStatus.Note == nil {
		return ""
	}
	return *e.CurrentStatus.Note
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
