package authform

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultHomeRoute is where a successful sign-in navigates to
const DefaultHomeRoute = "/"

// Form is one mounted authentication form. Field edits are synchronous,
// Submit performs at most one external call at a time.
type Form struct {
	mu sync.Mutex

	id        string
	variant   FormVariant
	schema    *ValidationSchema
	fields    *FieldSet
	errors    FieldErrors
	state     SubmissionState
	user      *AuthenticatedUser
	session   *Session
	service   AccountService
	navigator Navigator
	homeRoute string
	sink      ActivitySink
	logger    Logger
	observers []Observer
	now       func() time.Time
}

// NewForm mounts a form for the variant with every field empty.
func NewForm(variant FormVariant, service AccountService, opts ...FormOption) (*Form, error) {
	if service == nil {
		return nil, ErrMissingService
	}

	schema, err := SchemaFor(variant)
	if err != nil {
		return nil, err
	}

	fields, err := NewFieldSet(variant)
	if err != nil {
		return nil, err
	}

	f := &Form{
		id:        uuid.NewString(),
		variant:   variant,
		schema:    schema,
		fields:    fields,
		errors:    FieldErrors{},
		state:     StateIdle,
		service:   service,
		navigator: noopNavigator{},
		homeRoute: DefaultHomeRoute,
		sink:      noopActivitySink{},
		logger:    defLogger{},
		now:       time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}

	return f, nil
}

func (f *Form) ID() string {
	return f.id
}

func (f *Form) Variant() FormVariant {
	return f.variant
}

func (f *Form) Schema() *ValidationSchema {
	return f.schema
}

func (f *Form) State() SubmissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fields returns a snapshot of the current values.
func (f *Form) Fields() *FieldSet {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields.Clone()
}

// User returns the account created by a successful sign-up.
func (f *Form) User() (*AuthenticatedUser, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.user == nil {
		return nil, false
	}
	u := *f.user
	return &u, true
}

// Session returns the session produced by a successful sign-in.
func (f *Form) Session() (*Session, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return nil, false
	}
	s := *f.session
	return &s, true
}

// Errors returns the field errors of the last rejected submit.
func (f *Form) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// SetField edits a value. Only allowed while idle, never changes state.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateIdle {
		return withMetadata(ErrFormReadOnly, map[string]any{
			"field": name,
			"state": string(f.state),
		})
	}

	if err := f.fields.Set(name, value); err != nil {
		return err
	}
	delete(f.errors, name)
	return nil
}

// SetFields applies several edits, stopping at the first rejected one.
func (f *Form) SetFields(values map[string]string) error {
	for _, name := range f.variant.Fields() {
		value, ok := values[name]
		if !ok {
			continue
		}
		if err := f.SetField(name, value); err != nil {
			return err
		}
	}
	return nil
}

// CanSubmit is true iff the form is idle and every field passes the schema.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateIdle && f.schema.Satisfied(f.fields)
}

// Validate runs the schema without submitting.
func (f *Form) Validate() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schema.Validate(f.fields)
}

// View returns what should be rendered for the current state.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.viewLocked()
}

func (f *Form) viewLocked() View {
	if f.user != nil {
		return LinkAccountView{User: *f.user}
	}

	keys := f.fields.Keys()
	states := make([]FieldInput, 0, len(keys))
	for _, name := range keys {
		desc, _ := DescribeField(name)
		states = append(states, FieldInput{
			FieldDescriptor: desc,
			Value:           f.fields.Get(name),
			Error:           f.errors[name],
		})
	}

	errs := make(FieldErrors, len(f.errors))
	for k, v := range f.errors {
		errs[k] = v
	}

	return FormView{
		Variant:    f.variant,
		Fields:     states,
		Errors:     errs,
		Submitting: f.state == StateSubmitting,
		CanSubmit:  f.state == StateIdle && f.schema.Satisfied(f.fields),
	}
}

// Submit runs the validation gate and, when it passes, the single external
// call for the variant. Errors raised by the service return the form to idle
// with every value intact and are reported as a *SubmissionError.
func (f *Form) Submit(ctx context.Context) (Outcome, error) {
	f.mu.Lock()

	switch f.state {
	case StateSubmitting:
		f.mu.Unlock()
		return "", withMetadata(ErrSubmissionInFlight, map[string]any{
			"form_id": f.id,
		})
	case StateIdle:
	default:
		from := f.state
		f.mu.Unlock()
		return "", withMetadata(ErrInvalidTransition, map[string]any{
			"from": string(from),
			"to":   string(StateSubmitting),
		})
	}

	if errs := f.schema.Validate(f.fields); len(errs) > 0 {
		f.errors = errs
		f.mu.Unlock()

		f.record(ctx, ActivityEvent{
			EventType: ActivityEventValidationFailed,
			FromState: StateIdle,
			ToState:   StateIdle,
			Metadata:  map[string]any{"fields": errs.Fields()},
		})
		return OutcomeInvalid, &ValidationError{Variant: f.variant, Fields: errs}
	}

	f.errors = FieldErrors{}
	values := f.fields.Clone()
	tr, err := f.transitionLocked(StateSubmitting)
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	f.notify(ctx, tr)
	f.record(ctx, ActivityEvent{
		EventType: ActivityEventSubmitStarted,
		FromState: tr.From,
		ToState:   tr.To,
	})

	switch f.variant {
	case VariantSignIn:
		session, err := f.service.SignIn(ctx, values.Get(FieldEmail), values.Get(FieldPassword))
		return f.completeSignIn(ctx, session, err)
	default:
		user, err := f.service.SignUp(ctx, values.SignUpParams())
		return f.completeSignUp(ctx, user, err)
	}
}

func (f *Form) completeSignIn(ctx context.Context, session *Session, callErr error) (Outcome, error) {
	if callErr != nil {
		return f.fail(ctx, callErr)
	}

	if session == nil {
		return f.noResult(ctx)
	}

	f.mu.Lock()
	s := *session
	f.session = &s
	tr, err := f.transitionLocked(StateSucceeded)
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	f.notify(ctx, tr)
	f.record(ctx, ActivityEvent{
		EventType: ActivityEventSubmitSucceeded,
		UserID:    session.UserID,
		FromState: tr.From,
		ToState:   tr.To,
	})

	if err := f.navigator.Redirect(ctx, f.homeRoute); err != nil {
		f.logger.Error("form redirect failed", "route", f.homeRoute, "error", err)
		return OutcomeRedirected, err
	}

	return OutcomeRedirected, nil
}

func (f *Form) completeSignUp(ctx context.Context, user *AuthenticatedUser, callErr error) (Outcome, error) {
	if callErr != nil {
		return f.fail(ctx, callErr)
	}

	if user == nil {
		return f.noResult(ctx)
	}

	f.mu.Lock()
	u := *user
	f.user = &u
	tr, err := f.transitionLocked(StateSucceeded)
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	f.notify(ctx, tr)
	f.record(ctx, ActivityEvent{
		EventType: ActivityEventSubmitSucceeded,
		UserID:    user.ID,
		FromState: tr.From,
		ToState:   tr.To,
	})

	return OutcomeLinkAccount, nil
}

func (f *Form) noResult(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	tr, err := f.transitionLocked(StateIdle)
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	f.notify(ctx, tr)
	f.record(ctx, ActivityEvent{
		EventType: ActivityEventSubmitNoResult,
		FromState: tr.From,
		ToState:   tr.To,
	})

	return OutcomeNoResult, nil
}

func (f *Form) fail(ctx context.Context, callErr error) (Outcome, error) {
	kind := ClassifyFailure(callErr)

	f.mu.Lock()
	failed, err := f.transitionLocked(StateFailed)
	if err != nil {
		f.mu.Unlock()
		return "", err
	}
	idle, err := f.transitionLocked(StateIdle)
	f.mu.Unlock()
	if err != nil {
		return "", err
	}

	f.notify(ctx, failed)
	f.record(ctx, ActivityEvent{
		EventType:   ActivityEventSubmitFailed,
		FromState:   failed.From,
		ToState:     failed.To,
		FailureKind: kind,
		Err:         callErr,
	})
	f.notify(ctx, idle)

	return OutcomeFailed, &SubmissionError{
		Variant: f.variant,
		Kind:    kind,
		Err:     callErr,
	}
}

func (f *Form) transitionLocked(to SubmissionState) (Transition, error) {
	from := f.state
	if !CanTransition(from, to) {
		return Transition{}, withMetadata(ErrInvalidTransition, map[string]any{
			"from": string(from),
			"to":   string(to),
		})
	}

	f.state = to
	return Transition{
		FormID:     f.id,
		Variant:    f.variant,
		From:       from,
		To:         to,
		View:       f.viewLocked(),
		OccurredAt: f.now(),
	}, nil
}

func (f *Form) notify(ctx context.Context, tr Transition) {
	for _, obs := range f.observers {
		obs(ctx, tr)
	}
}

func (f *Form) record(ctx context.Context, event ActivityEvent) {
	event.FormID = f.id
	event.Variant = f.variant
	if event.OccurredAt.IsZero() {
		event.OccurredAt = f.now()
	}

	if err := f.sink.Record(ctx, event); err != nil {
		f.logger.Warn("form activity sink error", "error", err)
	}
}
