package events

import (
	"log/slog"
	"time"
)

// DefaultPublishRetries is used by PublishBoardChanged
const DefaultPublishRetries = 3

// PublishWithRetry sends an event, retrying with exponential backoff
// (50ms, 100ms, 200ms, ...) up to maxRetries attempts. It returns the error
// of the final attempt. A nil client is a no-op so services run without a
// daemon.
func PublishWithRetry(client EventPublisher, event Event, maxRetries int) error {
	if client == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var lastErr error
	delay := 50 * time.Millisecond
	for attempt := 1; attempt <= maxRetries; attempt++ {
		lastErr = client.SendEvent(event)
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("event published after retry",
					"attempt", attempt,
					"event_type", event.Type,
					"board_id", event.BoardID)
			}
			return nil
		}
		if attempt == maxRetries {
			break
		}
		slog.Debug("event publish failed, retrying",
			"attempt", attempt,
			"max_retries", maxRetries,
			"retry_delay", delay,
			"error", lastErr)
		time.Sleep(delay)
		delay *= 2
	}

	// Warn: a lost event means other clients miss a live update
	slog.Warn("event publish failed after all retries",
		"attempts", maxRetries,
		"event_type", event.Type,
		"board_id", event.BoardID,
		"error", lastErr)
	return lastErr
}

// PublishBoardChanged tells other clients to reload a board
func PublishBoardChanged(client EventPublisher, boardID int) error {
	return PublishWithRetry(client, Event{
		Type:    EventDatabaseChanged,
		BoardID: boardID,
	}, DefaultPublishRetries)
}
