package employee

import "errors"

var (
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrEmployeeNotLinked = errors.New("employee not linked to member")
	ErrLoginIDRequired   = errors.New("login ID is required")
)
