package services

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"memview-backend/application/ports"
	"memview-backend/domain/core/entities"
	pkgerrors "memview-backend/pkg/errors"
)

// MenuPhase is the selection state machine's phase
type MenuPhase string

const (
	MenuClosed     MenuPhase = "closed"
	MenuOpen       MenuPhase = "open"
	MenuConfirming MenuPhase = "confirming"
)

// MenuAction identifies a context-menu action. The action set is open:
// new actions are added by registering a handler, not by editing a switch.
type MenuAction string

const (
	ActionSummarize         MenuAction = "summarize"
	ActionFindSimilar       MenuAction = "find-similar"
	ActionCopyContent       MenuAction = "copy-content"
	ActionCopyID            MenuAction = "copy-id"
	ActionDelete            MenuAction = "delete"
	ActionViewOnPlatform    MenuAction = "view-on-platform"
	ActionGenerateReply     MenuAction = "generate-reply"
	ActionSummarizeComments MenuAction = "summarize-comments"
)

// MenuPosition is the screen position the menu opened at
type MenuPosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActionFunc executes a registered action against the selected node
type ActionFunc func(ctx context.Context, node entities.MemoryNode) error

// Confirmation is the pending question for a destructive action
type Confirmation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	onConfirm   ActionFunc
}

// MenuState is a read-only snapshot of the state machine
type MenuState struct {
	Phase    MenuPhase     `json:"phase"`
	NodeID   string        `json:"node_id,omitempty"`
	Position MenuPosition  `json:"position"`
	Confirm  *Confirmation `json:"confirm,omitempty"`
}

// ContextMenu tracks which node, if any, has an open context menu or a
// pending confirmation. At most one menu is open at a time; opening a new
// one atomically replaces the previous. Destructive actions route through a
// confirmation sub-state before executing.
type ContextMenu struct {
	notifier ports.Notifier
	logger   *zap.Logger

	mu          sync.Mutex
	handlers    map[MenuAction]ActionFunc
	destructive map[MenuAction]bool
	phase       MenuPhase
	node        entities.MemoryNode
	position    MenuPosition
	pending     *Confirmation
}

// NewContextMenu creates a closed menu with no registered actions
func NewContextMenu(notifier ports.Notifier, logger *zap.Logger) *ContextMenu {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContextMenu{
		notifier:    notifier,
		logger:      logger,
		handlers:    make(map[MenuAction]ActionFunc),
		destructive: make(map[MenuAction]bool),
		phase:       MenuClosed,
	}
}

// Register adds or replaces the handler for an action
func (m *ContextMenu) Register(action MenuAction, fn ActionFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[action] = fn
}

// RegisterDestructive adds a handler that requires confirmation before it runs
func (m *ContextMenu) RegisterDestructive(action MenuAction, fn ActionFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[action] = fn
	m.destructive[action] = true
}

// Open opens the menu for a node. An open menu is replaced atomically so
// two menus can never be open at once. A missing node aborts the open and
// leaves the previous state untouched.
func (m *ContextMenu) Open(node *entities.MemoryNode, position MenuPosition) error {
	if node == nil || node.ID == "" {
		if m.notifier != nil {
			m.notifier.Error("Could not open the menu: node data is missing")
		}
		return pkgerrors.NewNotFound("context menu target node not found")
	}

	m.mu.Lock()
	m.phase = MenuOpen
	m.node = *node
	m.position = position
	m.pending = nil
	m.mu.Unlock()
	return nil
}

// Dispatch runs the given action for the currently selected node.
// Unknown actions produce a visible warning and change no state.
// Destructive actions move to the confirming phase instead of executing.
func (m *ContextMenu) Dispatch(ctx context.Context, action MenuAction) error {
	m.mu.Lock()
	if m.phase != MenuOpen {
		m.mu.Unlock()
		return pkgerrors.NewValidation("no context menu is open")
	}

	handler, known := m.handlers[action]
	if !known {
		m.mu.Unlock()
		if m.notifier != nil {
			m.notifier.Warn(fmt.Sprintf("Unknown action: %s", action))
		}
		return pkgerrors.NewValidation(fmt.Sprintf("unknown context action: %s", action))
	}

	node := m.node
	if m.destructive[action] {
		m.pending = &Confirmation{
			Title:       fmt.Sprintf("Confirm %s", action),
			Description: fmt.Sprintf("This will permanently %s %q.", action, node.Label()),
			onConfirm:   handler,
		}
		m.phase = MenuConfirming
		m.mu.Unlock()
		return nil
	}

	m.phase = MenuClosed
	m.mu.Unlock()

	if err := handler(ctx, node); err != nil {
		m.logger.Error("context action failed",
			zap.String("action", string(action)),
			zap.String("nodeID", node.ID),
			zap.Error(err),
		)
		if m.notifier != nil {
			m.notifier.Error(fmt.Sprintf("Action %s failed", action))
		}
		return pkgerrors.Wrap(err, "dispatching context action")
	}
	return nil
}

// Resolve answers the pending confirmation. Cancel leaves data unchanged.
func (m *ContextMenu) Resolve(ctx context.Context, accept bool) error {
	m.mu.Lock()
	if m.phase != MenuConfirming || m.pending == nil {
		m.mu.Unlock()
		return pkgerrors.NewValidation("no confirmation is pending")
	}
	confirm := m.pending
	node := m.node
	m.pending = nil
	m.phase = MenuClosed
	m.mu.Unlock()

	if !accept {
		return nil
	}

	if err := confirm.onConfirm(ctx, node); err != nil {
		m.logger.Error("confirmed action failed",
			zap.String("nodeID", node.ID),
			zap.Error(err),
		)
		if m.notifier != nil {
			m.notifier.Error("The action could not be completed")
		}
		return pkgerrors.Wrap(err, "executing confirmed action")
	}
	return nil
}

// Close dismisses the menu (outside click or Escape)
func (m *ContextMenu) Close() {
	m.mu.Lock()
	m.phase = MenuClosed
	m.pending = nil
	m.mu.Unlock()
}

// State returns a snapshot of the machine for display
func (m *ContextMenu) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := MenuState{
		Phase:    m.phase,
		Position: m.position,
	}
	if m.phase != MenuClosed {
		state.NodeID = m.node.ID
	}
	if m.pending != nil {
		state.Confirm = &Confirmation{
			Title:       m.pending.Title,
			Description: m.pending.Description,
		}
	}
	return state
}
