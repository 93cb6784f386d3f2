package events

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Event types pushed by the memory store's real-time channel
const (
	EventMemoryAdded    = "memory_added"
	EventMemoryDeleted  = "memory_deleted"
	EventGraphGenerated = "graph_generated"
)

// Event is a real-time notification from the memory store
type Event struct {
	Type   string `json:"type"`
	NodeID string `json:"node_id,omitempty"`
}

// EventHandler is the interface that all event handlers must implement
type EventHandler interface {
	// Handle processes a push event
	Handle(ctx context.Context, event Event) error

	// SupportsEvent checks if this handler supports the given event type
	SupportsEvent(eventType string) bool

	// Name returns the handler's name for logging
	Name() string
}

// HandlerRegistry manages event handler registration and dispatching
type HandlerRegistry struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	logger   *zap.Logger
}

// NewHandlerRegistry creates a new event handler registry
func NewHandlerRegistry(logger *zap.Logger) *HandlerRegistry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HandlerRegistry{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Register adds a handler for specific event types
func (r *HandlerRegistry) Register(eventTypes []string, handler EventHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	for _, eventType := range eventTypes {
		if eventType == "" {
			return fmt.Errorf("event type cannot be empty")
		}

		if !handler.SupportsEvent(eventType) {
			return fmt.Errorf("handler %s does not support event type %s", handler.Name(), eventType)
		}

		r.handlers[eventType] = append(r.handlers[eventType], handler)

		r.logger.Info("Registered event handler",
			zap.String("handler", handler.Name()),
			zap.String("eventType", eventType),
		)
	}

	return nil
}

// Dispatch delivers an event to every registered handler. Handler errors
// are logged and do not stop delivery to the remaining handlers.
func (r *HandlerRegistry) Dispatch(ctx context.Context, event Event) {
	r.mu.RLock()
	handlers := append([]EventHandler(nil), r.handlers[event.Type]...)
	r.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler.Handle(ctx, event); err != nil {
			r.logger.Error("event handler failed",
				zap.String("handler", handler.Name()),
				zap.String("eventType", event.Type),
				zap.Error(err),
			)
		}
	}
}

// Refresher is what the refetch listener needs from the view composer
type Refresher interface {
	Refresh(ctx context.Context, forced bool) error
}

// RefetchListener triggers a snapshot refetch whenever the store reports a
// change. It owns no state; the composer decides what survives a failure.
type RefetchListener struct {
	refresher Refresher
	logger    *zap.Logger
}

// NewRefetchListener creates a listener bound to the composer
func NewRefetchListener(refresher Refresher, logger *zap.Logger) *RefetchListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefetchListener{refresher: refresher, logger: logger}
}

// Handle implements EventHandler
func (l *RefetchListener) Handle(ctx context.Context, event Event) error {
	l.logger.Debug("refetching graph after push event",
		zap.String("eventType", event.Type),
		zap.String("nodeID", event.NodeID),
	)
	return l.refresher.Refresh(ctx, false)
}

// SupportsEvent implements EventHandler
func (l *RefetchListener) SupportsEvent(eventType string) bool {
	switch eventType {
	case EventMemoryAdded, EventMemoryDeleted, EventGraphGenerated:
		return true
	default:
		return false
	}
}

// Name implements EventHandler
func (l *RefetchListener) Name() string {
	return "graph-refetch"
}
