package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-status-console/internal/service/workspace"
)

type SelfServiceHandler interface {
	Lookup(w http.ResponseWriter, r *http.Request)
	SaveProfile(w http.ResponseWriter, r *http.Request)
	SaveStatus(w http.ResponseWriter, r *http.Request)
}

type selfServiceHandlerImpl struct {
	store *workspace.Store
}

func NewSelfServiceHandler(store *workspace.Store) SelfServiceHandler {
	return &selfServiceHandlerImpl{
		store: store,
	}
}

const selfServiceFragment = "#section-self_service"

// Lookup loads the member profile for the submitted login ID
func (h *selfServiceHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLookup(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ws := acquireWorkspace(h.store, r)
	err = ws.SelfService.Lookup(detached(r), req.LoginID)
	respond(w, r, err, selfServiceFragment, func() interface{} {
		return newSelfServiceState(ws.SelfService.Snapshot())
	})
}

// SaveProfile edits and submits the profile of the linked employee
func (h *selfServiceHandlerImpl) SaveProfile(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeProfile(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ws := acquireWorkspace(h.store, r)
	err = ws.SelfService.EditProfile(draft)
	if err == nil {
		err = ws.SelfService.SubmitProfile(detached(r))
	}
	respond(w, r, err, selfServiceFragment, func() interface{} {
		return newSelfServiceState(ws.SelfService.Snapshot())
	})
}

// SaveStatus edits and submits the status of the linked employee
func (h *selfServiceHandlerImpl) SaveStatus(w http.ResponseWriter, r *http.Request) {
	draft, err := decodeStatus(r)
	if err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	ws := acquireWorkspace(h.store, r)
	err = ws.SelfService.EditStatus(draft)
	if err == nil {
		err = ws.SelfService.SubmitStatus(detached(r))
	}
	respond(w, r, err, selfServiceFragment, func() interface{} {
		return newSelfServiceState(ws.SelfService.Snapshot())
	})
}
