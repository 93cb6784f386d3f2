// Package notify implements the Notifier port. Notices are logged and kept
// in a small ring buffer so the browser shell can poll them alongside the
// view model, mirroring the toast stream of the original UI.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Level classifies a notice
type Level string

const (
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Notice is one user-facing message. The id lets the shell de-duplicate
// toasts across polls.
type Notice struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// BufferedNotifier retains the most recent notices
type BufferedNotifier struct {
	logger *zap.Logger
	clock  func() time.Time

	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewBufferedNotifier creates a notifier keeping the last limit notices
func NewBufferedNotifier(logger *zap.Logger, limit int) *BufferedNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = 20
	}
	return &BufferedNotifier{
		logger: logger,
		clock:  time.Now,
		limit:  limit,
	}
}

// Info implements ports.Notifier
func (n *BufferedNotifier) Info(message string) {
	n.logger.Info(message)
	n.push(LevelInfo, message)
}

// Warn implements ports.Notifier
func (n *BufferedNotifier) Warn(message string) {
	n.logger.Warn(message)
	n.push(LevelWarn, message)
}

// Error implements ports.Notifier
func (n *BufferedNotifier) Error(message string) {
	n.logger.Error(message)
	n.push(LevelError, message)
}

// Drain returns the buffered notices and clears the buffer
func (n *BufferedNotifier) Drain() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	notices := n.notices
	n.notices = nil
	return notices
}

func (n *BufferedNotifier) push(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, Notice{ID: uuid.New().String(), Level: level, Message: message, At: n.clock()})
	if len(n.notices) > n.limit {
		n.notices = n.notices[len(n.notices)-n.limit:]
	}
}
