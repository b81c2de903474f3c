package authform

// ViewKind names the mutually exclusive render paths of a form
type ViewKind string

const (
	ViewKindForm        ViewKind = "form"
	ViewKindLinkAccount ViewKind = "link-account"
)

// View is either a FormView or a LinkAccountView. The unexported method
// closes the set, switch on the concrete type to render.
type View interface {
	Kind() ViewKind
	Title() string
	Subtitle() string
	isView()
}

// FormView renders the editable field form.
type FormView struct {
	Variant    FormVariant
	Fields     []FieldInput
	Errors     FieldErrors
	Submitting bool
	CanSubmit  bool
}

// FieldInput is one rendered input of a FormView.
type FieldInput struct {
	FieldDescriptor
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

func (FormView) isView() {}

func (FormView) Kind() ViewKind { return ViewKindForm }

func (v FormView) Title() string {
	if v.Variant == VariantSignIn {
		return "Iniciar Sesión"
	}
	return "Registrarse"
}

func (FormView) Subtitle() string {
	return "Por favor, introduzca sus datos"
}

// SubmitLabel is the text of the submit control.
func (v FormView) SubmitLabel() string {
	if v.Submitting {
		return "Cargando..."
	}
	return v.Title()
}

// FooterPrompt and FooterLinkLabel render the link to the other variant.
func (v FormView) FooterPrompt() string {
	if v.Variant == VariantSignIn {
		return "No tienes una cuenta?"
	}
	return "Ya tienes una cuenta?"
}

func (v FormView) FooterLinkLabel() string {
	return FormView{Variant: v.Variant.Alternate()}.Title()
}

// LinkAccountView replaces the field form after a successful sign-up.
type LinkAccountView struct {
	User AuthenticatedUser
}

func (LinkAccountView) isView() {}

func (LinkAccountView) Kind() ViewKind { return ViewKindLinkAccount }

func (LinkAccountView) Title() string {
	return "Vincular Cuenta"
}

func (LinkAccountView) Subtitle() string {
	return "Vincula tu cuenta para empezar"
}
