package authform_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/goliatone/go-authform"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want authform.FailureKind
	}{
		{name: "nil", err: nil, want: authform.FailureUnknown},
		{name: "canceled", err: context.Canceled, want: authform.FailureTransport},
		{name: "net", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: authform.FailureTransport},
		{name: "auth", err: goerrors.New("bad creds", goerrors.CategoryAuth), want: authform.FailureCredentials},
		{name: "rate limit", err: goerrors.New("slow down", goerrors.CategoryRateLimit), want: authform.FailureCredentials},
		{name: "conflict", err: goerrors.New("taken", goerrors.CategoryConflict), want: authform.FailureCredentials},
		{name: "internal", err: goerrors.New("db", goerrors.CategoryInternal), want: authform.FailureServer},
		{name: "wrapped internal", err: goerrors.Wrap(errors.New("io"), goerrors.CategoryInternal, "failed"), want: authform.FailureServer},
		{name: "plain", err: errors.New("what"), want: authform.FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, authform.ClassifyFailure(tt.err))
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &authform.ValidationError{
		Variant: authform.VariantSignIn,
		Fields:  authform.FieldErrors{"password": "cannot be blank", "email": "cannot be blank"},
	}

	assert.Contains(t, err.Error(), "email, password")
	assert.True(t, authform.IsValidationError(err))
	assert.False(t, authform.IsSubmissionError(err))
}

func TestSubmissionErrorUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := &authform.SubmissionError{Variant: authform.VariantSignUp, Kind: authform.FailureTransport, Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, authform.ErrSubmissionFailed)
	assert.Contains(t, err.Error(), "timeout")

	bare := &authform.SubmissionError{Variant: authform.VariantSignUp, Kind: authform.FailureUnknown}
	assert.ErrorIs(t, bare, authform.ErrSubmissionFailed)
}
