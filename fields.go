package authform

// FieldDescriptor holds the presentation attributes of a form input
type FieldDescriptor struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Placeholder string `json:"placeholder"`
	InputType   string `json:"input_type"`
}

var fieldDescriptors = map[string]FieldDescriptor{
	FieldFirstName:   {Name: FieldFirstName, Label: "Nombre", Placeholder: "Introduce tu nombre", InputType: "text"},
	FieldLastName:    {Name: FieldLastName, Label: "Apellido", Placeholder: "Introduce tu apellido", InputType: "text"},
	FieldAddress1:    {Name: FieldAddress1, Label: "Dirección", Placeholder: "Introduce tu dirección específica", InputType: "text"},
	FieldCity:        {Name: FieldCity, Label: "Ciudad", Placeholder: "Introduce tu ciudad", InputType: "text"},
	FieldState:       {Name: FieldState, Label: "Estado", Placeholder: "Ejemplo: NY", InputType: "text"},
	FieldPostalCode:  {Name: FieldPostalCode, Label: "Código Postal", Placeholder: "Ejemplo: 12345", InputType: "text"},
	FieldDateOfBirth: {Name: FieldDateOfBirth, Label: "Fecha de Nacimiento", Placeholder: "AAAA-MM-DD", InputType: "text"},
	FieldSSN:         {Name: FieldSSN, Label: "SSA", Placeholder: "Ejemplo: 1234", InputType: "text"},
	FieldEmail:       {Name: FieldEmail, Label: "Correo Electrónico", Placeholder: "Introduce tu correo electrónico", InputType: "email"},
	FieldPassword:    {Name: FieldPassword, Label: "Contraseña", Placeholder: "Introduce tu contraseña", InputType: "password"},
}

// DescribeField returns the descriptor for a known field name.
func DescribeField(name string) (FieldDescriptor, bool) {
	d, ok := fieldDescriptors[name]
	return d, ok
}

// FieldSet is the ordered set of values typed into a form. The zero value
// is not usable, create one with NewFieldSet.
type FieldSet struct {
	variant FormVariant
	keys    []string
	values  map[string]string
}

// NewFieldSet returns a FieldSet with every field of the variant set to "".
func NewFieldSet(variant FormVariant) (*FieldSet, error) {
	if !variant.Valid() {
		return nil, withMetadata(ErrUnknownVariant, map[string]any{
			"variant": string(variant),
		})
	}

	keys := variant.Fields()
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = ""
	}

	return &FieldSet{
		variant: variant,
		keys:    keys,
		values:  values,
	}, nil
}

func (fs *FieldSet) Variant() FormVariant {
	return fs.variant
}

// Set stores a value. Names outside the variant are rejected.
func (fs *FieldSet) Set(name, value string) error {
	if _, ok := fs.values[name]; !ok {
		return withMetadata(ErrUnknownField, map[string]any{
			"field":   name,
			"variant": string(fs.variant),
		})
	}
	fs.values[name] = value
	return nil
}

func (fs *FieldSet) Get(name string) string {
	return fs.values[name]
}

// Keys returns the field names in render order.
func (fs *FieldSet) Keys() []string {
	out := make([]string, len(fs.keys))
	copy(out, fs.keys)
	return out
}

// Values returns a copy of the current values.
func (fs *FieldSet) Values() map[string]string {
	out := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

func (fs *FieldSet) Clone() *FieldSet {
	return &FieldSet{
		variant: fs.variant,
		keys:    fs.Keys(),
		values:  fs.Values(),
	}
}

// SignUpParams maps the values onto the sign-up profile.
func (fs *FieldSet) SignUpParams() SignUpParams {
	return SignUpParams{
		FirstName:   fs.Get(FieldFirstName),
		LastName:    fs.Get(FieldLastName),
		Address1:    fs.Get(FieldAddress1),
		City:        fs.Get(FieldCity),
		State:       fs.Get(FieldState),
		PostalCode:  fs.Get(FieldPostalCode),
		DateOfBirth: fs.Get(FieldDateOfBirth),
		SSN:         fs.Get(FieldSSN),
		Email:       fs.Get(FieldEmail),
		Password:    fs.Get(FieldPassword),
	}
}
