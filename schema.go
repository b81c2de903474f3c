package authform

import (
	"regexp"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// DateOfBirthLayout is the accepted dateOfBirth format (YYYY-MM-DD).
const DateOfBirthLayout = "2006-01-02"

// MinPasswordLength applies to both variants
const MinPasswordLength = 6

var stateCodeRx = regexp.MustCompile(`^[A-Za-z]{2}$`)

type fieldRules map[string][]validation.Rule

var (
	emailRules    = []validation.Rule{validation.Required, validation.Length(0, 100), is.Email}
	passwordRules = []validation.Rule{validation.Required, validation.Length(MinPasswordLength, 0)}
)

// rule tables are resolved once, a schema never changes after init
var schemaTable = map[FormVariant]*ValidationSchema{
	VariantSignIn: newSchema(VariantSignIn, fieldRules{
		FieldEmail:    emailRules,
		FieldPassword: passwordRules,
	}),
	VariantSignUp: newSchema(VariantSignUp, fieldRules{
		FieldFirstName:   {validation.Required, validation.Length(3, 0)},
		FieldLastName:    {validation.Required, validation.Length(3, 0)},
		FieldAddress1:    {validation.Required, validation.Length(0, 50)},
		FieldCity:        {validation.Required, validation.Length(0, 50)},
		FieldState:       {validation.Required, validation.Match(stateCodeRx).Error("must be a two letter state code")},
		FieldPostalCode:  {validation.Required, validation.Length(3, 6)},
		FieldDateOfBirth: {validation.Required, validation.Date(DateOfBirthLayout).Error("must be a valid date (YYYY-MM-DD)")},
		FieldSSN:         {validation.Required, is.Digit, validation.Length(4, 9)},
		FieldEmail:       emailRules,
		FieldPassword:    passwordRules,
	}),
}

// ValidationSchema is the per-field rule table of one FormVariant.
type ValidationSchema struct {
	variant FormVariant
	fields  []string
	rules   fieldRules
}

func newSchema(variant FormVariant, rules fieldRules) *ValidationSchema {
	return &ValidationSchema{
		variant: variant,
		fields:  variant.Fields(),
		rules:   rules,
	}
}

// SchemaFor returns the schema of the variant. Same variant, same schema.
func SchemaFor(variant FormVariant) (*ValidationSchema, error) {
	s, ok := schemaTable[variant]
	if !ok {
		return nil, withMetadata(ErrUnknownVariant, map[string]any{
			"variant": string(variant),
		})
	}
	return s, nil
}

func (s *ValidationSchema) Variant() FormVariant {
	return s.variant
}

// Fields lists the fields covered by the schema, in render order.
func (s *ValidationSchema) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Validate checks every field of the schema and returns the failures keyed
// by field name. An empty result means the set is valid.
func (s *ValidationSchema) Validate(fs *FieldSet) FieldErrors {
	errs := validation.Errors{}
	for _, name := range s.fields {
		var value string
		if fs != nil {
			value = fs.Get(name)
		}
		errs[name] = validation.Validate(value, s.rules[name]...)
	}
	return FormatValidationErrorToMap(errs.Filter())
}

// ValidateField checks a single field, useful for inline feedback.
func (s *ValidationSchema) ValidateField(name, value string) error {
	rules, ok := s.rules[name]
	if !ok {
		return withMetadata(ErrUnknownField, map[string]any{
			"field":   name,
			"variant": string(s.variant),
		})
	}
	return validation.Validate(value, rules...)
}

// Satisfied reports whether every field passes its rules.
func (s *ValidationSchema) Satisfied(fs *FieldSet) bool {
	return len(s.Validate(fs)) == 0
}

// FieldErrors maps a field name to its validation message
type FieldErrors map[string]string

// Fields returns the failing field names sorted.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FormatValidationErrorToMap flattens ozzo validation errors for templates.
func FormatValidationErrorToMap(err error) FieldErrors {
	out := FieldErrors{}
	if err == nil {
		return out
	}

	if errs, ok := err.(validation.Errors); ok {
		for field, e := range errs {
			if e != nil {
				out[field] = e.Error()
			}
		}
		return out
	}

	out["form"] = err.Error()
	return out
}
