package foodbook

import (
	"context"
	"time"
)

// ActivityEventType enumerates account events
type ActivityEventType string

const (
	ActivityEventRegistered      ActivityEventType = "auth.user.registered"
	ActivityEventLoginSuccess    ActivityEventType = "auth.login.success"
	ActivityEventLoginFailure    ActivityEventType = "auth.login.failure"
	ActivityEventLogout          ActivityEventType = "auth.logout"
	ActivityEventPasswordChanged ActivityEventType = "auth.password.changed"
	ActivityEventProfileUpdated  ActivityEventType = "auth.profile.updated"
)

// ActivityEvent is an audit record of an account operation.
// UserID is empty when the user could not be identified.
type ActivityEvent struct {
	EventType  ActivityEventType
	UserID     string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivitySink consumes account events. Record errors are logged and
// never fail the operation that produced the event.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to ActivitySink
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// LogActivitySink writes every event to logger at Info
func LogActivitySink(logger Logger) ActivitySink {
	return ActivitySinkFunc(func(_ context.Context, event ActivityEvent) error {
		args := []any{
			"event", string(event.EventType),
			"occurred_at", event.OccurredAt,
		}
		if event.UserID != "" {
			args = append(args, "user_id", event.UserID)
		}
		for k, v := range event.Metadata {
			args = append(args, k, v)
		}
		logger.Info("Account activity", args...)
		return nil
	})
}

type noopActivitySink struct{}

func (noopActivitySink) Record(context.Context, ActivityEvent) error {
	return nil
}

func normalizeActivitySink(s ActivitySink) ActivitySink {
	if s == nil {
		return noopActivitySink{}
	}
	return s
}
