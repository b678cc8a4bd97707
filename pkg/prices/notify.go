package prices

import (
	"sync"
	"time"
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationTTL is how long a notification stays visible.
const NotificationTTL = 5 * time.Second

// Notification is a transient user-facing message.
type Notification struct {
	Message  string
	Severity Severity
	ShownAt  time.Time
}

// NotificationCenter holds at most one visible notification at a time; a
// new one replaces whatever is currently shown.
type NotificationCenter struct {
	mu      sync.Mutex
	current *Notification
	ttl     time.Duration
	now     func() time.Time
}

// NewNotificationCenter creates a notification center with the default TTL.
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{
		ttl: NotificationTTL,
		now: time.Now,
	}
}

// Notify replaces the current notification.
func (n *NotificationCenter) Notify(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = &Notification{
		Message:  message,
		Severity: severity,
		ShownAt:  n.now(),
	}
}

// Active returns the current notification, or nil once it has expired or
// been cleared.
func (n *NotificationCenter) Active() *Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	if n.now().Sub(n.current.ShownAt) >= n.ttl {
		n.current = nil
		return nil
	}
	notification := *n.current
	return &notification
}

// Clear dismisses the current notification.
func (n *NotificationCenter) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = nil
}
