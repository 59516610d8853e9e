package state

import "time"

// NotificationLevel represents the severity/type of a notification.
type NotificationLevel int

const (
	// LevelInfo represents informational notifications (blue, bell icon)
	LevelInfo NotificationLevel = iota
	// LevelWarning represents warning notifications (yellow, warning icon)
	LevelWarning
	// LevelError represents error notifications (red, error icon)
	LevelError
)

// NotificationTTL is how long a notification stays in the status bar
const NotificationTTL = 4 * time.Second

// Notification represents a single notification message with a severity level.
type Notification struct {
	Level   NotificationLevel
	Message string
	Added   time.Time
}

// NotificationState manages notification display state.
// This provides a centralized way to handle user-facing notifications
// of different severity levels throughout the application.
type NotificationState struct {
	notifications []Notification
	now           func() time.Time
}

// NewNotificationState creates a new NotificationState with no notifications.
func NewNotificationState() *NotificationState {
	return &NotificationState{now: time.Now}
}

// SetClock replaces the time source, for tests
func (s *NotificationState) SetClock(now func() time.Time) {
	s.now = now
}

// Add adds a new notification with the specified level and message.
func (s *NotificationState) Add(level NotificationLevel, message string) {
	s.notifications = append(s.notifications, Notification{
		Level:   level,
		Message: message,
		Added:   s.now(),
	})
}

// Clear removes all notifications.
func (s *NotificationState) Clear() {
	s.notifications = nil
}

// All returns all current notifications.
func (s *NotificationState) All() []Notification {
	return s.notifications
}

// HasAny returns true if there are any notifications.
func (s *NotificationState) HasAny() bool {
	return len(s.notifications) > 0
}

// Latest returns the most recent notification
func (s *NotificationState) Latest() (Notification, bool) {
	if len(s.notifications) == 0 {
		return Notification{}, false
	}
	return s.notifications[len(s.notifications)-1], true
}

// Expire drops notifications older than NotificationTTL. Errors stay twice
// as long.
func (s *NotificationState) Expire(now time.Time) {
	kept := s.notifications[:0]
	for _, n := range s.notifications {
		ttl := NotificationTTL
		if n.Level == LevelError {
			ttl *= 2
		}
		if now.Sub(n.Added) < ttl {
			kept = append(kept, n)
		}
	}
	s.notifications = kept
}
