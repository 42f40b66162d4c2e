package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/form"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/apiclient"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-status-console/internal/service/directory"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		message := ""
		if errors.Is(err, employee.ErrLoginIDRequired) {
			message = employee.ErrLoginIDRequired.Error()
		}
		ValidationError(w, message, validationErrs.ToMap())
		return
	}

	switch {
	// Form errors
	case errors.Is(err, form.ErrSubmitInFlight):
		Conflict(w, "A submission for this form is already in progress")
	case errors.Is(err, form.ErrFormClosed):
		Conflict(w, "The view was closed")

	// Directory errors
	case errors.Is(err, directory.ErrNotReady):
		ServiceUnavailable(w, "Employee directory is not loaded")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Self-service errors
	case errors.Is(err, employee.ErrEmployeeNotLinked):
		Conflict(w, "No employee is linked to this login")

	default:
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			BadGateway(w, apiclient.Message(err, "Employee API request failed"))
			return
		}
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
