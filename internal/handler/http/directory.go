package http

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-status-console/internal/service/workspace"
	"github.com/go-chi/chi/v5"
)

type DirectoryHandler interface {
	Refresh(w http.ResponseWriter, r *http.Request)
	SaveProfile(w http.ResponseWriter, r *http.Request)
	SaveStatus(w http.ResponseWriter, r *http.Request)
}

type directoryHandlerImpl struct {
	store *workspace.Store
}

func NewDirectoryHandler(store *workspace.Store) DirectoryHandler {
	return &directoryHandlerImpl{
		store: store,
	}
}

// Refresh remounts the directory. Browsers are redirected at once and
// receive the result over SSE; JSON clients wait for the load.
func (h *directoryHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	ws := acquireWorkspace(h.store, r)

	if !wantsJSON(r) {
		ws.Directory.Mount(r.Context())
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// A failed load is part of the returned state.
	_ = ws.Directory.Load(detached(r))
	response.Success(w, newDirectoryState(ws.Directory.Snapshot()))
}

// SaveProfile edits and submits the profile sub-form of one employee
func (h *directoryHandlerImpl) SaveProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	draft, err := decodeProfile(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ws := acquireWorkspace(h.store, r)
	err = ws.Directory.EditProfile(id, draft)
	if err == nil {
		err = ws.Directory.SubmitProfile(detached(r), id)
	}
	respond(w, r, err, employeeFragment(id), func() interface{} {
		return findRow(newDirectoryState(ws.Directory.Snapshot()), id)
	})
}

// SaveStatus edits and submits the status sub-form of one employee
func (h *directoryHandlerImpl) SaveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := validator.ParseID(chi.URLParam(r, "id"))
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	draft, err := decodeStatus(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ws := acquireWorkspace(h.store, r)
	err = ws.Directory.EditStatus(id, draft)
	if err == nil {
		err = ws.Directory.SubmitStatus(detached(r), id)
	}
	respond(w, r, err, employeeFragment(id), func() interface{} {
		return findRow(newDirectoryState(ws.Directory.Snapshot()), id)
	})
}

func employeeFragment(id int64) string {
	return fmt.Sprintf("#employee-%d", id)
}
