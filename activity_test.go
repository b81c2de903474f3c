package authform_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/goliatone/go-authform"
	"github.com/stretchr/testify/assert"
)

type captureLogger struct {
	lines []string
}

func (l *captureLogger) log(level, msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprint(append([]any{level, msg}, args...)...))
}

func (l *captureLogger) Debug(msg string, args ...any) { l.log("DBG", msg, args...) }
func (l *captureLogger) Info(msg string, args ...any)  { l.log("INF", msg, args...) }
func (l *captureLogger) Warn(msg string, args ...any)  { l.log("WRN", msg, args...) }
func (l *captureLogger) Error(msg string, args ...any) { l.log("ERR", msg, args...) }

func TestLoggerActivitySinkLevels(t *testing.T) {
	logger := &captureLogger{}
	sink := authform.NewLoggerActivitySink(logger)
	ctx := context.Background()

	assert.NoError(t, sink.Record(ctx, authform.ActivityEvent{
		EventType:   authform.ActivityEventSubmitFailed,
		Variant:     authform.VariantSignIn,
		FailureKind: authform.FailureTransport,
		Err:         errors.New("timeout"),
	}))
	assert.NoError(t, sink.Record(ctx, authform.ActivityEvent{
		EventType: authform.ActivityEventValidationFailed,
		Metadata:  map[string]any{"fields": []string{"password"}},
	}))
	assert.NoError(t, sink.Record(ctx, authform.ActivityEvent{
		EventType: authform.ActivityEventSubmitStarted,
		UserID:    "u1",
	}))

	if assert.Len(t, logger.lines, 3) {
		assert.Contains(t, logger.lines[0], "ERR")
		assert.Contains(t, logger.lines[0], "transport")
		assert.Contains(t, logger.lines[1], "DBG")
		assert.Contains(t, logger.lines[1], "password")
		assert.Contains(t, logger.lines[2], "INF")
		assert.Contains(t, logger.lines[2], "u1")
	}
}

func TestActivitySinkFuncNil(t *testing.T) {
	var fn authform.ActivitySinkFunc
	assert.NoError(t, fn.Record(context.Background(), authform.ActivityEvent{}))
}
