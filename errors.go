package authform

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeUnknownVariant    = "UNKNOWN_FORM_VARIANT"
	TextCodeUnknownField      = "UNKNOWN_FORM_FIELD"
	TextCodeValidation        = "FORM_VALIDATION_FAILED"
	TextCodeInvalidTransition = "INVALID_FORM_STATE_TRANSITION"
	TextCodeSubmissionFlight  = "FORM_SUBMISSION_IN_FLIGHT"
	TextCodeFormReadOnly      = "FORM_READ_ONLY"
	TextCodeSubmissionFailed  = "FORM_SUBMISSION_FAILED"
	TextCodeSessionNotFound   = "SESSION_NOT_FOUND"
	TextCodeMissingService    = "ACCOUNT_SERVICE_MISSING"
)

// ErrUnknownVariant is returned for a discriminator other than sign-in or sign-up
var ErrUnknownVariant = goerrors.New("unknown form variant", goerrors.CategoryBadInput).
	WithTextCode(TextCodeUnknownVariant).
	WithCode(goerrors.CodeBadRequest)

// ErrUnknownField is returned when a field does not belong to the variant
var ErrUnknownField = goerrors.New("field is not part of this form", goerrors.CategoryBadInput).
	WithTextCode(TextCodeUnknownField).
	WithCode(goerrors.CodeBadRequest)

// ErrValidation is the sentinel every ValidationError unwraps to
var ErrValidation = goerrors.New("form validation failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidation).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidTransition is returned when a state change is not in the graph
var ErrInvalidTransition = goerrors.New("invalid form state transition", goerrors.CategoryValidation).
	WithTextCode(TextCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrSubmissionInFlight is returned when submit is attempted while submitting
var ErrSubmissionInFlight = goerrors.New("a submission is already in flight", goerrors.CategoryConflict).
	WithTextCode(TextCodeSubmissionFlight).
	WithCode(goerrors.CodeConflict)

// ErrFormReadOnly is returned when fields are edited outside the idle state
var ErrFormReadOnly = goerrors.New("form fields are read-only", goerrors.CategoryConflict).
	WithTextCode(TextCodeFormReadOnly).
	WithCode(goerrors.CodeConflict)

// ErrSubmissionFailed is the sentinel every SubmissionError unwraps to
var ErrSubmissionFailed = goerrors.New("form submission failed", goerrors.CategoryOperation).
	WithTextCode(TextCodeSubmissionFailed).
	WithCode(goerrors.CodeInternal)

// ErrUnableToFindSession is returned when the request carries no session
var ErrUnableToFindSession = goerrors.New("unable to find session", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingService is returned when a form is built without an AccountService
var ErrMissingService = goerrors.New("account service is required", goerrors.CategoryInternal).
	WithTextCode(TextCodeMissingService).
	WithCode(goerrors.CodeInternal)

// ValidationError carries the per-field failures that blocked a submit.
type ValidationError struct {
	Variant FormVariant
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s form has invalid fields: %s",
		ErrValidation.Message, e.Variant, strings.Join(e.Fields.Fields(), ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// FailureKind classifies a failed external call. Users see the same
// outcome for every kind, the value only feeds diagnostics.
type FailureKind string

const (
	FailureUnknown     FailureKind = "unknown"
	FailureCredentials FailureKind = "credentials"
	FailureTransport   FailureKind = "transport"
	FailureServer      FailureKind = "server"
)

// SubmissionError wraps an error raised by the AccountService.
type SubmissionError struct {
	Variant FormVariant
	Kind    FailureKind
	Err     error
}

func (e *SubmissionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s, %s)", ErrSubmissionFailed.Message, e.Variant, e.Kind)
	}
	return fmt.Sprintf("%s (%s, %s): %v", ErrSubmissionFailed.Message, e.Variant, e.Kind, e.Err)
}

func (e *SubmissionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSubmissionFailed}
	}
	return []error{ErrSubmissionFailed, e.Err}
}

// ClassifyFailure maps an error raised by an identity provider to a FailureKind.
func ClassifyFailure(err error) FailureKind {
	if err == nil {
		return FailureUnknown
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureTransport
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return FailureTransport
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		switch richErr.Category {
		case goerrors.CategoryAuth, goerrors.CategoryAuthz, goerrors.CategoryRateLimit:
			return FailureCredentials
		case goerrors.CategoryValidation, goerrors.CategoryBadInput, goerrors.CategoryConflict:
			return FailureCredentials
		default:
			return FailureServer
		}
	}

	return FailureUnknown
}

// IsValidationError reports whether err blocked a submit at the validation gate
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsSubmissionError reports whether err came from a failed external call
func IsSubmissionError(err error) bool {
	return errors.Is(err, ErrSubmissionFailed)
}

// withMetadata returns a copy of base carrying meta. The copy still
// matches base with errors.Is.
func withMetadata(base *goerrors.Error, meta map[string]any) error {
	clone := base.Clone()
	if clone == nil {
		return base
	}
	clone.Source = base
	return clone.WithMetadata(meta)
}
