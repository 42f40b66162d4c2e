package http

import (
	"bytes"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-status-console/internal/handler/http/templates"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/format"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-status-console/internal/service/workspace"
)

// DefaultKeepalive is the interval of SSE ping events.
const DefaultKeepalive = 30 * time.Second

// ConsoleHandler serves the page, its live updates and its JSON state.
type ConsoleHandler interface {
	Page(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
	State(w http.ResponseWriter, r *http.Request)
}

type consoleHandlerImpl struct {
	store     *workspace.Store
	hub       *sse.Hub
	tmpl      *template.Template
	messages  i18n.Localizer
	keepalive time.Duration
}

func NewConsoleHandler(store *workspace.Store, hub *sse.Hub, tmpl *template.Template, messages i18n.Localizer, keepalive time.Duration) ConsoleHandler {
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}
	return &consoleHandlerImpl{
		store:     store,
		hub:       hub,
		tmpl:      tmpl,
		messages:  messages,
		keepalive: keepalive,
	}
}

// FuncMap returns the template functions used by the console page.
func FuncMap(messages i18n.Localizer, formatter *format.Formatter) template.FuncMap {
	return template.FuncMap{
		"msg":           messages.Message,
		"statusLabel":   messages.StatusLabel,
		"formatTime":    formatter.DateTime,
		"formatTimePtr": formatter.DateTimePtr,
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"statusContext": func(f *FormState, vocabulary []string) statusFields {
			return statusFields{Form: f, Vocabulary: vocabulary}
		},
	}
}

func (h *consoleHandlerImpl) snapshot(ws *workspace.Workspace) ConsoleState {
	return ConsoleState{
		Lang:        h.messages.Language(),
		Directory:   newDirectoryState(ws.Directory.Snapshot()),
		SelfService: newSelfServiceState(ws.SelfService.Snapshot()),
	}
}

// Page renders the console for the session
func (h *consoleHandlerImpl) Page(w http.ResponseWriter, r *http.Request) {
	ws := acquireWorkspace(h.store, r)

	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, templates.Page, h.snapshot(ws)); err != nil {
		slog.Error("failed to render console", "error", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// State returns both views as JSON
func (h *consoleHandlerImpl) State(w http.ResponseWriter, r *http.Request) {
	ws := acquireWorkspace(h.store, r)
	response.Success(w, h.snapshot(ws))
}

// Events streams view-changed notifications of the session over SSE
func (h *consoleHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "Missing session", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(sessionID)
	defer cleanup()
	h.store.Acquire(r.Context(), sessionID)
	slog.Debug("event stream opened", "session_id", sessionID, "subscribers", h.hub.SubscriberCount(sessionID))

	if _, err := (sse.Event{Event: "connected", Data: map[string]string{"status": "connected"}}).WriteTo(w); err != nil {
		return
	}
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				slog.Debug("sse write failed", "session_id", sessionID, "error", err)
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			// An open tab keeps its workspace from being swept.
			h.store.Acquire(r.Context(), sessionID)
			ping := sse.Event{Event: "ping", Data: map[string]int64{"timestamp": time.Now().Unix()}}
			if _, err := ping.WriteTo(w); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
