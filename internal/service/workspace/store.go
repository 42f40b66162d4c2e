package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-status-console/internal/service/directory"
	"github.com/cmlabs-hris/hris-status-console/internal/service/selfservice"
)

// Event names published to the session's SSE subscribers.
const (
	EventDirectory   = "directory"
	EventSelfService = "self_service"
)

// Config holds workspace configuration
type Config struct {
	Messages    i18n.Localizer
	FeedbackTTL time.Duration
}

// Workspace is the pair of views owned by one console session.
type Workspace struct {
	ID          string
	Directory   *directory.View
	SelfService *selfservice.View

	lastSeen time.Time
}

// Store owns the workspaces of all sessions and tears idle ones down.
type Store struct {
	client employee.Client
	hub    *sse.Hub
	config Config
	now    func() time.Time

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewStore(client employee.Client, hub *sse.Hub, cfg Config) *Store {
	return &Store{
		client:     client,
		hub:        hub,
		config:     cfg,
		now:        time.Now,
		workspaces: make(map[string]*Workspace),
	}
}

// Acquire returns the workspace of sessionID, creating and mounting it on
// first use.
func (s *Store) Acquire(ctx context.Context, sessionID string) *Workspace {
	s.mu.Lock()
	ws, ok := s.workspaces[sessionID]
	if ok {
		ws.lastSeen = s.now()
		s.mu.Unlock()
		return ws
	}

	ws = &Workspace{
		ID:       sessionID,
		lastSeen: s.now(),
	}
	ws.SelfService = selfservice.NewView(s.client, selfservice.Config{
		Messages:    s.config.Messages,
		FeedbackTTL: s.config.FeedbackTTL,
		OnChange:    s.publisher(sessionID, EventSelfService),
	})
	// Self-service only fetches the vocabulary itself when a lookup beats
	// the first directory load.
	ws.Directory = directory.NewView(s.client, directory.Config{
		Messages:    s.config.Messages,
		FeedbackTTL: s.config.FeedbackTTL,
		OnChange:    s.publisher(sessionID, EventDirectory),
		OnLoaded:    ws.SelfService.SetVocabulary,
	})
	s.workspaces[sessionID] = ws
	s.mu.Unlock()

	slog.Debug("workspace created", "session_id", sessionID)
	ws.Directory.Mount(ctx)
	return ws
}

// Sweep closes and evicts workspaces not acquired within idle and returns
// how many were removed.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	var expired []*Workspace
	for id, ws := range s.workspaces {
		if ws.lastSeen.Before(cutoff) {
			expired = append(expired, ws)
			delete(s.workspaces, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range expired {
		s.teardown(ws)
	}
	if len(expired) > 0 {
		slog.Info("idle workspaces evicted", "count", len(expired))
	}
	return len(expired)
}

// Len returns the number of live workspaces.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}

// Close tears every workspace down.
func (s *Store) Close() {
	s.mu.Lock()
	all := make([]*Workspace, 0, len(s.workspaces))
	for id, ws := range s.workspaces {
		all = append(all, ws)
		delete(s.workspaces, id)
	}
	s.mu.Unlock()

	for _, ws := range all {
		s.teardown(ws)
	}
}

func (s *Store) teardown(ws *Workspace) {
	ws.Directory.Close()
	ws.SelfService.Close()
	if s.hub != nil {
		s.hub.Drop(ws.ID)
	}
}

func (s *Store) publisher(sessionID, name string) func() {
	return func() {
		if s.hub == nil {
			return
		}
		s.hub.Publish(sessionID, sse.Event{Event: name, Data: map[string]string{"view": name}})
	}
}
