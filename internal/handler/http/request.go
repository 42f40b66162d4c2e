package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-status-console/internal/service/workspace"
)

var errInvalidBody = errors.New("invalid request body")

type lookupRequest struct {
	LoginID string `json:"login_id"`
}

// isJSON reports whether the request body is JSON.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// wantsJSON reports whether the client expects a JSON envelope instead of
// a redirect back to the page.
func wantsJSON(r *http.Request) bool {
	return isJSON(r) || strings.Contains(r.Header.Get("Accept"), "application/json")
}

// decodeBody reads a JSON body into dst, or fills it from form fields via
// fromForm.
func decodeBody(r *http.Request, dst interface{}, fromForm func(get func(string) string)) error {
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	fromForm(r.PostForm.Get)
	return nil
}

func decodeProfile(r *http.Request) (employee.ProfileUpdate, error) {
	var req employee.ProfileUpdate
	err := decodeBody(r, &req, func(get func(string) string) {
		req.Name = get("name")
		req.Email = get("email")
		req.Mobile = get("mobile")
		req.PasswordHash = get("password_hash")
	})
	return req, err
}

func decodeStatus(r *http.Request) (employee.StatusUpdate, error) {
	var req employee.StatusUpdate
	err := decodeBody(r, &req, func(get func(string) string) {
		req.Status = get("status")
		req.Note = get("note")
	})
	return req, err
}

func decodeLookup(r *http.Request) (lookupRequest, error) {
	var req lookupRequest
	err := decodeBody(r, &req, func(get func(string) string) {
		req.LoginID = get("login_id")
	})
	return req, err
}

// acquireWorkspace returns the workspace of the request's session.
func acquireWorkspace(store *workspace.Store, r *http.Request) *workspace.Workspace {
	return store.Acquire(r.Context(), middleware.SessionID(r.Context()))
}

// detached keeps remote calls running when the browser navigates away.
// Their results still land in the session's views.
func detached(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

// respond finishes a form action. JSON clients get the envelope (or the
// mapped error); browsers are sent back to the page, where the outcome is
// shown as form feedback.
func respond(w http.ResponseWriter, r *http.Request, err error, fragment string, data func() interface{}) {
	if !wantsJSON(r) {
		if err != nil {
			slog.Warn("console action rejected", "path", r.URL.Path, "error", err)
		}
		http.Redirect(w, r, "/"+fragment, http.StatusSeeOther)
		return
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, data())
}
