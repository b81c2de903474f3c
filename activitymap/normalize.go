package activitymap

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-authform"
)

const (
	MetadataKeyVariant     = "variant"
	MetadataKeyFromState   = "from_state"
	MetadataKeyToState     = "to_state"
	MetadataKeyFailureKind = "failure_kind"
	MetadataKeyError       = "error"
)

const (
	defaultChannel    = "authform"
	defaultObjectType = "form"
	defaultActorID    = "anonymous"
)

// Normalized is a transport-agnostic activity shape for downstream systems.
type Normalized struct {
	ActorID    string         `json:"actor_id"`
	Verb       string         `json:"verb"`
	ObjectType string         `json:"object_type,omitempty"`
	ObjectID   string         `json:"object_id,omitempty"`
	Channel    string         `json:"channel,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// Option customizes normalization behavior.
type Option func(*normalizeOptions)

type normalizeOptions struct {
	channel       string
	objectType    string
	actorFallback string
	withErrors    bool
}

// Normalize converts a form activity event into the normalized shape.
// The object is the form, the actor is the user once one is known.
func Normalize(event authform.ActivityEvent, opts ...Option) Normalized {
	options := defaultNormalizeOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return Normalized{
		ActorID:    firstNonEmpty(strings.TrimSpace(event.UserID), options.actorFallback),
		Verb:       string(event.EventType),
		ObjectType: options.objectType,
		ObjectID:   strings.TrimSpace(event.FormID),
		Channel:    options.channel,
		Metadata:   normalizeMetadata(event, options.withErrors),
		OccurredAt: occurredAt,
	}
}

// WithDefaultChannel sets the default channel for normalized records.
func WithDefaultChannel(channel string) Option {
	return func(opts *normalizeOptions) {
		opts.channel = strings.TrimSpace(channel)
	}
}

// WithDefaultObjectType sets the default object type for normalized records.
func WithDefaultObjectType(objectType string) Option {
	return func(opts *normalizeOptions) {
		opts.objectType = strings.TrimSpace(objectType)
	}
}

// WithActorFallback sets the actor id used before a user is known.
func WithActorFallback(actorID string) Option {
	return func(opts *normalizeOptions) {
		opts.actorFallback = strings.TrimSpace(actorID)
	}
}

// WithErrorMessages copies the failure message into metadata. Off by
// default, provider messages may carry user input.
func WithErrorMessages(enabled bool) Option {
	return func(opts *normalizeOptions) {
		opts.withErrors = enabled
	}
}

func defaultNormalizeOptions() normalizeOptions {
	return normalizeOptions{
		channel:       defaultChannel,
		objectType:    defaultObjectType,
		actorFallback: defaultActorID,
	}
}

func normalizeMetadata(event authform.ActivityEvent, withErrors bool) map[string]any {
	metadata := cloneMap(event.Metadata)

	set := func(key string, value string) {
		if value == "" {
			return
		}
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}

	set(MetadataKeyVariant, string(event.Variant))
	set(MetadataKeyFromState, string(event.FromState))
	set(MetadataKeyToState, string(event.ToState))
	set(MetadataKeyFailureKind, string(event.FailureKind))

	if withErrors && event.Err != nil {
		set(MetadataKeyError, event.Err.Error())
	}

	return metadata
}

func cloneMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// Sink adapts fn into an ActivitySink that receives normalized records.
func Sink(fn func(ctx context.Context, record Normalized) error, opts ...Option) authform.ActivitySink {
	return authform.ActivitySinkFunc(func(ctx context.Context, event authform.ActivityEvent) error {
		if fn == nil {
			return nil
		}
		return fn(ctx, Normalize(event, opts...))
	})
}
