package memory

import "sync"

// Notification is one captured user-visible message.
type Notification struct {
	Level   string // "success" or "error"
	Message string
}

// CaptureNotifier implements outbound.Notifier by recording notifications
// in memory. Thread-safe. For testing and embedding.
type CaptureNotifier struct {
	mu     sync.Mutex
	events []Notification
}

// NewCaptureNotifier creates an empty CaptureNotifier.
func NewCaptureNotifier() *CaptureNotifier {
	return &CaptureNotifier{}
}

// Success records a success notification.
func (n *CaptureNotifier) Success(msg string) {
	n.record("success", msg)
}

// Error records an error notification.
func (n *CaptureNotifier) Error(msg string) {
	n.record("error", msg)
}

func (n *CaptureNotifier) record(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, Notification{Level: level, Message: msg})
}

// Events returns a copy of all captured notifications in order.
func (n *CaptureNotifier) Events() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.events))
	copy(out, n.events)
	return out
}

// Reset discards all captured notifications.
func (n *CaptureNotifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = nil
}
