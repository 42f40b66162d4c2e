package workspace

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-status-console/internal/domain/employee"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/i18n"
	"github.com/cmlabs-hris/hris-status-console/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-status-console/internal/service/directory"
	"github.com/cmlabs-hris/hris-status-console/internal/service/selfservice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	employee.Client

	mu         sync.Mutex
	lists      int
	vocabCalls int
}

func (c *fakeClient) ListEmployees(ctx context.Context) ([]employee.Employee, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lists++
	return []employee.Employee{{ID: 1, Name: "Kim"}}, nil
}

func (c *fakeClient) ListStatusOptions(ctx context.Context) (employee.StatusVocabulary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vocabCalls++
	return employee.StatusVocabulary{"WORKING", "AWAY"}, nil
}

func (c *fakeClient) GetMemberProfile(ctx context.Context, loginID string) (employee.MemberProfile, error) {
	return employee.MemberProfile{MemberID: 7, LoginID: loginID, Employee: &employee.Employee{ID: 1, Name: "Kim"}}, nil
}

func (c *fakeClient) vocabularyCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vocabCalls
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newStore(t *testing.T, client employee.Client, hub *sse.Hub) (*Store, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	s := NewStore(client, hub, Config{Messages: i18n.MustLoad().For("en"), FeedbackTTL: 50 * time.Millisecond})
	s.now = c.Now
	t.Cleanup(s.Close)
	return s, c
}

func TestStore_AcquireCreatesAndMountsOnce(t *testing.T) {
	client := &fakeClient{}
	s, _ := newStore(t, client, sse.NewHub())

	ws := s.Acquire(context.Background(), "session-1")
	ws.Directory.Wait()
	again := s.Acquire(context.Background(), "session-1")

	assert.Same(t, ws, again)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, client.lists)
	assert.Equal(t, directory.PhaseReady, ws.Directory.Snapshot().Phase)
}

func TestStore_LookupReusesDirectoryVocabulary(t *testing.T) {
	client := &fakeClient{}
	s, _ := newStore(t, client, nil)

	ws := s.Acquire(context.Background(), "a")
	ws.Directory.Wait()
	require.NoError(t, ws.SelfService.Lookup(context.Background(), "D001001"))
	require.NoError(t, ws.SelfService.Lookup(context.Background(), "D001002"))

	assert.Equal(t, 1, client.vocabularyCalls())
	assert.Equal(t, selfservice.PhaseLinked, ws.SelfService.Snapshot().Phase)
	assert.Equal(t, "WORKING", ws.SelfService.Snapshot().Form.Status.Status)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s, _ := newStore(t, &fakeClient{}, nil)

	a := s.Acquire(context.Background(), "a")
	b := s.Acquire(context.Background(), "b")

	assert.NotSame(t, a.Directory, b.Directory)
	assert.NotSame(t, a.SelfService, b.SelfService)
	assert.Equal(t, 2, s.Len())
}

func TestStore_SweepEvictsOnlyIdle(t *testing.T) {
	s, c := newStore(t, &fakeClient{}, sse.NewHub())

	idle := s.Acquire(context.Background(), "idle")
	idle.Directory.Wait()
	c.Advance(20 * time.Minute)
	active := s.Acquire(context.Background(), "active")
	active.Directory.Wait()
	c.Advance(15 * time.Minute)

	removed := s.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, directory.PhaseUnmounted, idle.Directory.Snapshot().Phase, "evicted views are torn down")
	assert.Same(t, active, s.Acquire(context.Background(), "active"))
	assert.Equal(t, directory.PhaseReady, active.Directory.Snapshot().Phase)
}

func TestStore_SweepDisconnectsSubscribers(t *testing.T) {
	hub := sse.NewHub()
	s, c := newStore(t, &fakeClient{}, hub)
	ws := s.Acquire(context.Background(), "a")
	ws.Directory.Wait()
	events, cleanup := hub.Subscribe("a")
	defer cleanup()

	c.Advance(time.Hour)
	s.Sweep(time.Minute)

	for range events {
	}
	assert.Zero(t, hub.SubscriberCount("a"))
}

func TestStore_ViewChangesArePublished(t *testing.T) {
	hub := sse.NewHub()
	s, _ := newStore(t, &fakeClient{}, hub)
	events, cleanup := hub.Subscribe("a")
	defer cleanup()

	ws := s.Acquire(context.Background(), "a")
	ws.Directory.Wait()

	select {
	case ev := <-events:
		assert.Equal(t, EventDirectory, ev.Event)
		assert.Equal(t, "a", ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("no directory event published")
	}

	require.Error(t, ws.SelfService.Lookup(context.Background(), " "))
	assert.Eventually(t, func() bool {
		for {
			select {
			case ev := <-events:
				if ev.Event == EventSelfService {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 5*time.Millisecond)
}

func TestStore_CloseTearsEverythingDown(t *testing.T) {
	s, _ := newStore(t, &fakeClient{}, nil)
	ws := s.Acquire(context.Background(), "a")
	ws.Directory.Wait()

	s.Close()

	assert.Zero(t, s.Len())
	assert.Equal(t, directory.PhaseUnmounted, ws.Directory.Snapshot().Phase)
}
