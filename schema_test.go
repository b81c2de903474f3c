package authform_test

import (
	"errors"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/goliatone/go-authform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaForIsStable(t *testing.T) {
	a, err := authform.SchemaFor(authform.VariantSignIn)
	require.NoError(t, err)
	b, err := authform.SchemaFor(authform.VariantSignIn)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, authform.VariantSignIn.Fields(), a.Fields())

	_, err = authform.SchemaFor("other")
	assert.ErrorIs(t, err, authform.ErrUnknownVariant)
}

func TestSignInSchema(t *testing.T) {
	schema, err := authform.SchemaFor(authform.VariantSignIn)
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		invalid  []string
	}{
		{name: "valid", email: "a@b.com", password: "secret1"},
		{name: "empty", invalid: []string{"email", "password"}},
		{name: "empty password", email: "a@b.com", invalid: []string{"password"}},
		{name: "short password", email: "a@b.com", password: "abc", invalid: []string{"password"}},
		{name: "bad email", email: "not-an-email", password: "secret1", invalid: []string{"email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := authform.NewFieldSet(authform.VariantSignIn)
			require.NoError(t, err)
			require.NoError(t, fs.Set(authform.FieldEmail, tt.email))
			require.NoError(t, fs.Set(authform.FieldPassword, tt.password))

			errs := schema.Validate(fs)
			if len(tt.invalid) == 0 {
				assert.Empty(t, errs)
				assert.True(t, schema.Satisfied(fs))
				return
			}
			assert.Equal(t, tt.invalid, errs.Fields())
			assert.False(t, schema.Satisfied(fs))
		})
	}
}

func TestSignUpSchema(t *testing.T) {
	schema, err := authform.SchemaFor(authform.VariantSignUp)
	require.NoError(t, err)

	tests := []struct {
		name    string
		field   string
		value   string
		invalid bool
	}{
		{name: "valid"},
		{name: "short first name", field: authform.FieldFirstName, value: "Al", invalid: true},
		{name: "long address", field: authform.FieldAddress1, value: "123456789012345678901234567890123456789012345678901", invalid: true},
		{name: "state code", field: authform.FieldState, value: "Texas", invalid: true},
		{name: "postal code", field: authform.FieldPostalCode, value: "12", invalid: true},
		{name: "date of birth", field: authform.FieldDateOfBirth, value: "12/04/1990", invalid: true},
		{name: "ssn letters", field: authform.FieldSSN, value: "12ab", invalid: true},
		{name: "ssn full", field: authform.FieldSSN, value: "123456789"},
		{name: "missing city", field: authform.FieldCity, value: "", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := authform.NewFieldSet(authform.VariantSignUp)
			require.NoError(t, err)
			for k, v := range validSignUpValues() {
				require.NoError(t, fs.Set(k, v))
			}
			if tt.field != "" {
				require.NoError(t, fs.Set(tt.field, tt.value))
			}

			errs := schema.Validate(fs)
			if tt.invalid {
				assert.Equal(t, []string{tt.field}, errs.Fields())
				return
			}
			assert.Empty(t, errs)
		})
	}
}

func TestValidateField(t *testing.T) {
	schema, err := authform.SchemaFor(authform.VariantSignIn)
	require.NoError(t, err)

	assert.NoError(t, schema.ValidateField(authform.FieldEmail, "a@b.com"))
	assert.Error(t, schema.ValidateField(authform.FieldEmail, "a@"))
	assert.ErrorIs(t, schema.ValidateField(authform.FieldSSN, "1234"), authform.ErrUnknownField)
}

func TestFieldErrorsFieldsSorted(t *testing.T) {
	errs := authform.FieldErrors{"password": "x", "email": "y", "city": "z"}
	assert.Equal(t, []string{"city", "email", "password"}, errs.Fields())
}

func TestEmailRuleIsSyntaxOnly(t *testing.T) {
	schema, err := authform.SchemaFor(authform.VariantSignUp)
	require.NoError(t, err)

	// reserved TLD, must pass without a DNS lookup
	assert.NoError(t, schema.ValidateField(authform.FieldEmail, "ana@horizon.invalid"))
	assert.Error(t, schema.ValidateField(authform.FieldEmail, "ana at horizon"))
}

func TestFormatValidationErrorToMap(t *testing.T) {
	assert.Empty(t, authform.FormatValidationErrorToMap(nil))

	errs := authform.FormatValidationErrorToMap(validation.Errors{
		"email":    errors.New("must be a valid email address"),
		"password": nil,
	})
	assert.Equal(t, authform.FieldErrors{"email": "must be a valid email address"}, errs)

	errs = authform.FormatValidationErrorToMap(errors.New("boom"))
	assert.Equal(t, authform.FieldErrors{"form": "boom"}, errs)
}
