package authform

import (
	"context"
	"time"
)

// ActivityEventType enumerates the diagnostic events a form emits.
type ActivityEventType string

const (
	ActivityEventSubmitStarted    ActivityEventType = "authform.submit.started"
	ActivityEventSubmitSucceeded  ActivityEventType = "authform.submit.succeeded"
	ActivityEventSubmitFailed     ActivityEventType = "authform.submit.failed"
	ActivityEventSubmitNoResult   ActivityEventType = "authform.submit.no_result"
	ActivityEventValidationFailed ActivityEventType = "authform.validation.failed"
)

// ActivityEvent captures what happened to a form during a submit attempt.
type ActivityEvent struct {
	EventType   ActivityEventType
	FormID      string
	Variant     FormVariant
	UserID      string
	FromState   SubmissionState
	ToState     SubmissionState
	FailureKind FailureKind
	Err         error
	Metadata    map[string]any
	OccurredAt  time.Time
}

// ActivitySink is the diagnostic sink submission failures are written to.
type ActivitySink interface {
	Record(ctx context.Context, event ActivityEvent) error
}

// ActivitySinkFunc adapts a function to the ActivitySink interface.
type ActivitySinkFunc func(ctx context.Context, event ActivityEvent) error

// Record implements ActivitySink.
func (f ActivitySinkFunc) Record(ctx context.Context, event ActivityEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
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

// NewLoggerActivitySink writes events to a Logger, failures at error level.
func NewLoggerActivitySink(logger Logger) ActivitySink {
	if logger == nil {
		logger = defLogger{}
	}
	return ActivitySinkFunc(func(_ context.Context, event ActivityEvent) error {
		args := []any{
			"event", string(event.EventType),
			"form_id", event.FormID,
			"variant", string(event.Variant),
			"from", string(event.FromState),
			"to", string(event.ToState),
		}
		if event.UserID != "" {
			args = append(args, "user_id", event.UserID)
		}

		switch event.EventType {
		case ActivityEventSubmitFailed:
			args = append(args, "failure_kind", string(event.FailureKind), "error", event.Err)
			logger.Error("form submission failed", args...)
		case ActivityEventValidationFailed:
			logger.Debug("form validation failed", append(args, "fields", event.Metadata["fields"])...)
		default:
			logger.Info("form activity", args...)
		}
		return nil
	})
}
