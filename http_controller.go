package authform

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
	"github.com/goliatone/go-router/flash"
)

func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Get(controller.Routes.SignIn, controller.SignInShow).
		SetName("sign-in.get")
	app.Post(controller.Routes.SignIn, controller.SignInPost).
		SetName("sign-in.post")

	app.Get(controller.Routes.SignUp, controller.SignUpShow).
		SetName("sign-up.get")
	app.Post(controller.Routes.SignUp, controller.SignUpPost).
		SetName("sign-up.post")

	app.Get(controller.Routes.SignOut, controller.SignOut).
		SetName("sign-out.get")

	return controller
}

type AuthControllerRoutes struct {
	Home    string
	SignIn  string
	SignUp  string
	SignOut string
}

// For returns the route serving the variant's form
func (r *AuthControllerRoutes) For(variant FormVariant) string {
	if variant == VariantSignUp {
		return r.SignUp
	}
	return r.SignIn
}

type AuthControllerViews struct {
	SignIn      string
	SignUp      string
	LinkAccount string
}

type AuthController struct {
	Debug        bool
	Logger       Logger
	Service      AccountService
	Links        LinkTokenProvider
	Sink         ActivitySink
	Cookies      *SessionCookies
	Routes       *AuthControllerRoutes
	Views        *AuthControllerViews
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

// WithAccountService sets the identity provider, required.
func WithAccountService(svc AccountService) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Service = svc
		return a
	}
}

// WithLinkTokenProvider sets the banking provider used after sign-up.
func WithLinkTokenProvider(p LinkTokenProvider) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Links = p
		return a
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if logger != nil {
			a.Logger = logger
		}
		return a
	}
}

func WithControllerActivitySink(sink ActivitySink) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Sink = normalizeActivitySink(sink)
		return a
	}
}

// WithControllerConfig derives routes and the session cookie from cfg.
func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Cookies = NewSessionCookies(cfg)
		if r := cfg.GetHomeRoute(); r != "" {
			a.Routes.Home = r
		}
		if r := cfg.GetSignInRoute(); r != "" {
			a.Routes.SignIn = r
		}
		if r := cfg.GetSignUpRoute(); r != "" {
			a.Routes.SignUp = r
		}
		if r := cfg.GetSignOutRoute(); r != "" {
			a.Routes.SignOut = r
		}
		return a
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Debug = debug
		return a
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		Sink:         noopActivitySink{},
		Cookies:      NewSessionCookies(nil),
		ErrorHandler: defaultErrHandler,
		Routes: &AuthControllerRoutes{
			Home:    DefaultHomeRoute,
			SignIn:  "/sign-in",
			SignUp:  "/sign-up",
			SignOut: "/sign-out",
		},
		Views: &AuthControllerViews{
			SignIn:      "sign-in",
			SignUp:      "sign-up",
			LinkAccount: "link-account",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Service == nil {
		panic("Missing AccountService in auth controller...")
	}

	return c
}

// SignInPayload is the sign-in form payload
type SignInPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (p SignInPayload) Values() map[string]string {
	return map[string]string{
		FieldEmail:    p.Email,
		FieldPassword: p.Password,
	}
}

// SignUpPayload is the sign-up form payload
type SignUpPayload struct {
	FirstName   string `form:"firstName" json:"firstName"`
	LastName    string `form:"lastName" json:"lastName"`
	Address1    string `form:"address1" json:"address1"`
	City        string `form:"city" json:"city"`
	State       string `form:"state" json:"state"`
	PostalCode  string `form:"postalCode" json:"postalCode"`
	DateOfBirth string `form:"dateOfBirth" json:"dateOfBirth"`
	SSN         string `form:"ssn" json:"ssn"`
	Email       string `form:"email" json:"email"`
	Password    string `form:"password" json:"password"`
}

func (p SignUpPayload) Values() map[string]string {
	return map[string]string{
		FieldFirstName:   p.FirstName,
		FieldLastName:    p.LastName,
		FieldAddress1:    p.Address1,
		FieldCity:        p.City,
		FieldState:       p.State,
		FieldPostalCode:  p.PostalCode,
		FieldDateOfBirth: p.DateOfBirth,
		FieldSSN:         p.SSN,
		FieldEmail:       p.Email,
		FieldPassword:    p.Password,
	}
}

func (a *AuthController) SignInShow(ctx router.Context) error {
	return a.show(ctx, VariantSignIn, a.Views.SignIn)
}

func (a *AuthController) SignUpShow(ctx router.Context) error {
	return a.show(ctx, VariantSignUp, a.Views.SignUp)
}

func (a *AuthController) show(ctx router.Context, variant FormVariant, view string) error {
	form, err := a.newForm(ctx, variant)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}
	return ctx.Render(view, a.viewContext(form.View()))
}

func (a *AuthController) SignInPost(ctx router.Context) error {
	payload := new(SignInPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return a.renderParseError(ctx, VariantSignIn, a.Views.SignIn, err)
	}

	if a.Debug {
		fmt.Println("======= SIGN IN ======")
		fmt.Println(print.MaybePrettyJSON(SignInPayload{Email: payload.Email, Password: mask(payload.Password)}))
		fmt.Println("======================")
	}

	return a.submit(ctx, VariantSignIn, a.Views.SignIn, payload.Values())
}

func (a *AuthController) SignUpPost(ctx router.Context) error {
	payload := new(SignUpPayload)
	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign up parse payload", "error", err)
		return a.renderParseError(ctx, VariantSignUp, a.Views.SignUp, err)
	}

	if a.Debug {
		masked := *payload
		masked.Password = mask(masked.Password)
		masked.SSN = mask(masked.SSN)
		fmt.Println("======= SIGN UP ======")
		fmt.Println(print.MaybePrettyJSON(masked))
		fmt.Println("======================")
	}

	return a.submit(ctx, VariantSignUp, a.Views.SignUp, payload.Values())
}

func (a *AuthController) SignOut(ctx router.Context) error {
	a.Cookies.Clear(ctx)
	return ctx.Redirect(a.Routes.SignIn, router.StatusSeeOther)
}

func (a *AuthController) submit(ctx router.Context, variant FormVariant, view string, values map[string]string) error {
	form, err := a.newForm(ctx, variant)
	if err != nil {
		return a.ErrorHandler(ctx, err)
	}

	if err := form.SetFields(values); err != nil {
		return a.ErrorHandler(ctx, err)
	}

	outcome, err := form.Submit(ctx.Context())

	switch outcome {
	case OutcomeRedirected:
		// the navigator already wrote the redirect
		return err

	case OutcomeLinkAccount:
		return a.renderLinkAccount(ctx, form)

	case OutcomeInvalid:
		a.Logger.Debug("auth form rejected by validation", "variant", variant, "error", err)
		return ctx.Status(fiber.StatusBadRequest).Render(view, a.viewContext(form.View()))

	case OutcomeFailed:
		return flash.WithError(ctx, router.ViewContext{
			"system_message": "No se pudo completar la solicitud",
		}).Render(view, a.viewContext(form.View()))

	case OutcomeNoResult:
		return ctx.Render(view, a.viewContext(form.View()))
	}

	return a.ErrorHandler(ctx, err)
}

// viewContext points form actions and footer links at the configured routes
func (a *AuthController) viewContext(view View) router.ViewContext {
	data := ViewContext(view)
	data["home_href"] = a.Routes.Home
	if fv, ok := view.(FormView); ok {
		data["form_action"] = a.Routes.For(fv.Variant)
		data["footer_href"] = a.Routes.For(fv.Variant.Alternate())
	}
	return data
}

func (a *AuthController) renderLinkAccount(ctx router.Context, form *Form) error {
	data := a.viewContext(form.View())

	user, ok := form.User()
	if ok && a.Links != nil {
		token, err := a.Links.CreateLinkToken(ctx.Context(), *user)
		if err != nil {
			a.Logger.Error("create link token", "user_id", user.ID, "error", err)
		} else if token != nil {
			data["link_token"] = token.Token
		}
	}

	return ctx.Render(a.Views.LinkAccount, data)
}

func (a *AuthController) renderParseError(ctx router.Context, variant FormVariant, view string, err error) error {
	form, ferr := a.newForm(ctx, variant)
	if ferr != nil {
		return a.ErrorHandler(ctx, ferr)
	}

	return flash.WithError(ctx, router.ViewContext{
		"error_message":  err.Error(),
		"system_message": "Error parsing body",
	}).Status(fiber.StatusBadRequest).Render(view, MergeViewContext(a.viewContext(form.View()), router.ViewContext{
		"errors": FieldErrors{"form": "Failed to parse form"},
	}))
}

func (a *AuthController) newForm(ctx router.Context, variant FormVariant) (*Form, error) {
	var form *Form
	form, err := NewForm(variant, a.Service,
		WithNavigator(RouterNavigator(ctx)),
		WithHomeRoute(a.Routes.Home),
		WithActivitySink(a.Sink),
		WithFormLogger(a.Logger),
		WithObserver(a.sessionObserver(ctx, &form)),
	)
	return form, err
}

// sessionObserver writes the session cookie as soon as a sign-in succeeds,
// before the navigator redirects.
func (a *AuthController) sessionObserver(ctx router.Context, form **Form) Observer {
	return func(_ context.Context, tr Transition) {
		if tr.To != StateSucceeded || tr.Variant != VariantSignIn || *form == nil {
			return
		}
		if session, ok := (*form).Session(); ok {
			a.Cookies.Set(ctx, session)
		}
	}
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}
