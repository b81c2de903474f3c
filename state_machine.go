package authform

import (
	"context"
	"time"
)

// SubmissionState is the lifecycle of a single submit attempt
type SubmissionState string

const (
	StateIdle       SubmissionState = "idle"
	StateSubmitting SubmissionState = "submitting"
	StateSucceeded  SubmissionState = "succeeded"
	StateFailed     SubmissionState = "failed"
)

// submission transition graph, succeeded has no exits
var transitions = map[SubmissionState]map[SubmissionState]struct{}{
	StateIdle: {
		StateSubmitting: {},
	},
	StateSubmitting: {
		StateSucceeded: {},
		StateFailed:    {},
		StateIdle:      {},
	},
	StateFailed: {
		StateIdle: {},
	},
}

// CanTransition reports whether the graph allows from -> to.
func CanTransition(from, to SubmissionState) bool {
	if allowed, ok := transitions[from]; ok {
		_, exists := allowed[to]
		return exists
	}
	return false
}

// IsTerminal reports whether no transition leaves the state.
func (s SubmissionState) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Transition describes one state change, handed to observers.
type Transition struct {
	FormID     string
	Variant    FormVariant
	From       SubmissionState
	To         SubmissionState
	View       View
	OccurredAt time.Time
}

// Observer is the explicit render step: it runs after every transition.
type Observer func(ctx context.Context, tr Transition)

// Outcome summarizes how a Submit call ended.
type Outcome string

const (
	OutcomeInvalid     Outcome = "invalid"
	OutcomeRedirected  Outcome = "redirected"
	OutcomeLinkAccount Outcome = "link_account"
	OutcomeNoResult    Outcome = "no_result"
	OutcomeFailed      Outcome = "failed"
)

// FormOption customizes form construction.
type FormOption func(*Form)

// WithNavigator sets the redirect performed after a sign-in success.
func WithNavigator(nav Navigator) FormOption {
	return func(f *Form) {
		if nav != nil {
			f.navigator = nav
		}
	}
}

// WithHomeRoute overrides the route used for the sign-in redirect.
func WithHomeRoute(route string) FormOption {
	return func(f *Form) {
		if route != "" {
			f.homeRoute = route
		}
	}
}

// WithActivitySink sets the diagnostic sink.
func WithActivitySink(sink ActivitySink) FormOption {
	return func(f *Form) {
		f.sink = normalizeActivitySink(sink)
	}
}

// WithObserver registers an observer notified after every transition.
func WithObserver(obs Observer) FormOption {
	return func(f *Form) {
		if obs != nil {
			f.observers = append(f.observers, obs)
		}
	}
}

// WithFormLogger overrides the logger used for sink failures.
func WithFormLogger(logger Logger) FormOption {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithFormClock injects a custom clock (useful for tests).
func WithFormClock(clock func() time.Time) FormOption {
	return func(f *Form) {
		if clock != nil {
			f.now = clock
		}
	}
}

// WithFormID sets the identifier reported in diagnostics.
func WithFormID(id string) FormOption {
	return func(f *Form) {
		if id != "" {
			f.id = id
		}
	}
}
