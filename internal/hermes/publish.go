package hermes

import "log/slog"

// Emit publishes event on subject when c is non-nil. Failures are logged and
// never returned: events are advisory and must not fail the caller.
func Emit(c Client, logger *slog.Logger, subject string, event interface{}) {
	if c == nil {
		return
	}
	if err := c.Publish(subject, event); err != nil {
		logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
