package authform

import "strings"

// FormVariant selects which of the two authentication forms is rendered
type FormVariant string

const (
	VariantSignIn FormVariant = "sign-in"
	VariantSignUp FormVariant = "sign-up"
)

// Field names, as posted by the form and keyed in FieldErrors
const (
	FieldFirstName   = "firstName"
	FieldLastName    = "lastName"
	FieldAddress1    = "address1"
	FieldCity        = "city"
	FieldState       = "state"
	FieldPostalCode  = "postalCode"
	FieldDateOfBirth = "dateOfBirth"
	FieldSSN         = "ssn"
	FieldEmail       = "email"
	FieldPassword    = "password"
)

var signInFields = []string{
	FieldEmail,
	FieldPassword,
}

var signUpFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldAddress1,
	FieldCity,
	FieldState,
	FieldPostalCode,
	FieldDateOfBirth,
	FieldSSN,
	FieldEmail,
	FieldPassword,
}

// ParseVariant resolves the caller supplied discriminator.
func ParseVariant(s string) (FormVariant, error) {
	v := FormVariant(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", withMetadata(ErrUnknownVariant, map[string]any{
			"variant": s,
		})
	}
	return v, nil
}

func (v FormVariant) Valid() bool {
	return v == VariantSignIn || v == VariantSignUp
}

func (v FormVariant) String() string {
	return string(v)
}

// Fields returns the ordered field names rendered for the variant.
func (v FormVariant) Fields() []string {
	var src []string
	switch v {
	case VariantSignIn:
		src = signInFields
	case VariantSignUp:
		src = signUpFields
	default:
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// HasField reports whether name belongs to the variant.
func (v FormVariant) HasField(name string) bool {
	for _, f := range v.Fields() {
		if f == name {
			return true
		}
	}
	return false
}

// Alternate returns the other variant, used by the footer link.
func (v FormVariant) Alternate() FormVariant {
	if v == VariantSignIn {
		return VariantSignUp
	}
	return VariantSignIn
}
