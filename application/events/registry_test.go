package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	name      string
	supported map[string]bool
	events    []Event
	err       error
}

func (h *recordingHandler) Handle(_ context.Context, event Event) error {
	h.events = append(h.events, event)
	return h.err
}

func (h *recordingHandler) SupportsEvent(eventType string) bool { return h.supported[eventType] }
func (h *recordingHandler) Name() string                        { return h.name }

func TestRegister_RejectsUnsupportedEventType(t *testing.T) {
	registry := NewHandlerRegistry(nil)
	handler := &recordingHandler{name: "narrow", supported: map[string]bool{EventMemoryAdded: true}}

	assert.Error(t, registry.Register([]string{EventMemoryDeleted}, handler))
	assert.Error(t, registry.Register([]string{""}, handler))
	assert.Error(t, registry.Register([]string{EventMemoryAdded}, nil))
	assert.NoError(t, registry.Register([]string{EventMemoryAdded}, handler))
}

func TestDispatch_DeliversToRegisteredHandlersOnly(t *testing.T) {
	registry := NewHandlerRegistry(nil)
	added := &recordingHandler{name: "added", supported: map[string]bool{EventMemoryAdded: true}}
	deleted := &recordingHandler{name: "deleted", supported: map[string]bool{EventMemoryDeleted: true}}
	require.NoError(t, registry.Register([]string{EventMemoryAdded}, added))
	require.NoError(t, registry.Register([]string{EventMemoryDeleted}, deleted))

	registry.Dispatch(context.Background(), Event{Type: EventMemoryAdded, NodeID: "n1"})

	require.Len(t, added.events, 1)
	assert.Equal(t, "n1", added.events[0].NodeID)
	assert.Empty(t, deleted.events)
}

func TestDispatch_HandlerFailureDoesNotStopDelivery(t *testing.T) {
	registry := NewHandlerRegistry(nil)
	failing := &recordingHandler{name: "failing", supported: map[string]bool{EventMemoryAdded: true}, err: errors.New("boom")}
	healthy := &recordingHandler{name: "healthy", supported: map[string]bool{EventMemoryAdded: true}}
	require.NoError(t, registry.Register([]string{EventMemoryAdded}, failing))
	require.NoError(t, registry.Register([]string{EventMemoryAdded}, healthy))

	registry.Dispatch(context.Background(), Event{Type: EventMemoryAdded})

	assert.Len(t, failing.events, 1)
	assert.Len(t, healthy.events, 1)
}

type stubRefresher struct {
	calls  int
	forced []bool
	err    error
}

func (s *stubRefresher) Refresh(_ context.Context, forced bool) error {
	s.calls++
	s.forced = append(s.forced, forced)
	return s.err
}

func TestRefetchListener_RefreshesWithoutForcing(t *testing.T) {
	refresher := &stubRefresher{}
	listener := NewRefetchListener(refresher, nil)

	assert.True(t, listener.SupportsEvent(EventMemoryAdded))
	assert.True(t, listener.SupportsEvent(EventMemoryDeleted))
	assert.True(t, listener.SupportsEvent(EventGraphGenerated))
	assert.False(t, listener.SupportsEvent("something_else"))

	require.NoError(t, listener.Handle(context.Background(), Event{Type: EventMemoryDeleted, NodeID: "n2"}))
	require.Equal(t, 1, refresher.calls)
	assert.False(t, refresher.forced[0], "push-driven refetches must keep prior data on failure")
}
