package dashboard

import (
	"context"

	"github.com/goliatone/go-authform"
	"github.com/goliatone/go-authform/banking"
	"github.com/goliatone/go-router"
)

const (
	GreetingTitle = "Bienvenido/a"
	GuestName     = "Invitado/a"
	Subtitle      = "Accede y maneja tu cuenta y transacciones de forma efectiva"
)

// SummaryProvider returns the balances shown to a user, user is nil for guests
type SummaryProvider func(ctx context.Context, user *authform.AuthenticatedUser) (banking.BalanceSummary, error)

// PlaceholderSummaries serves the static dashboard balances
func PlaceholderSummaries(context.Context, *authform.AuthenticatedUser) (banking.BalanceSummary, error) {
	return banking.PlaceholderSummary(), nil
}

func RegisterHomeRoutes[T any](app router.Router[T], opts ...HomeControllerOption) *HomeController {
	controller := NewHomeController(opts...)

	app.Get(controller.Route, controller.Show).
		SetName("home.get")

	return controller
}

type HomeController struct {
	Route        string
	SignInRoute  string
	SignOutRoute string
	View         string
	Logger       authform.Logger
	Service      authform.AccountService
	Cookies      *authform.SessionCookies
	Summaries    SummaryProvider
	ErrorHandler router.ErrorHandler
}

type HomeControllerOption func(*HomeController) *HomeController

func WithAccountService(svc authform.AccountService) HomeControllerOption {
	return func(h *HomeController) *HomeController {
		h.Service = svc
		return h
	}
}

func WithLogger(logger authform.Logger) HomeControllerOption {
	return func(h *HomeController) *HomeController {
		if logger != nil {
			h.Logger = logger
		}
		return h
	}
}

func WithSummaryProvider(p SummaryProvider) HomeControllerOption {
	return func(h *HomeController) *HomeController {
		if p != nil {
			h.Summaries = p
		}
		return h
	}
}

// WithConfig reads the page routes and session cookie from cfg
func WithConfig(cfg authform.Config) HomeControllerOption {
	return func(h *HomeController) *HomeController {
		h.Cookies = authform.NewSessionCookies(cfg)
		if r := cfg.GetHomeRoute(); r != "" {
			h.Route = r
		}
		if r := cfg.GetSignInRoute(); r != "" {
			h.SignInRoute = r
		}
		if r := cfg.GetSignOutRoute(); r != "" {
			h.SignOutRoute = r
		}
		return h
	}
}

func NewHomeController(opts ...HomeControllerOption) *HomeController {
	h := &HomeController{
		Route:        authform.DefaultHomeRoute,
		SignInRoute:  "/sign-in",
		SignOutRoute: "/sign-out",
		View:         "home",
		Logger:       nopLogger{},
		Cookies:      authform.NewSessionCookies(nil),
		Summaries:    PlaceholderSummaries,
		ErrorHandler: defaultErrHandler,
	}

	for _, opt := range opts {
		h = opt(h)
	}

	if h.Service == nil {
		panic("Missing AccountService in home controller...")
	}

	return h
}

// Show renders the dashboard. The signed in user is looked up once per
// page load, a failed lookup renders the guest view.
func (h *HomeController) Show(ctx router.Context) error {
	token := h.Cookies.Token(ctx)

	user, err := h.Service.GetLoggedInUser(ctx.Context(), token)
	if err != nil {
		h.Logger.Warn("home could not resolve session", "error", err)
		user = nil
		if token != "" {
			h.Cookies.Clear(ctx)
		}
	}

	summary, err := h.Summaries(ctx.Context(), user)
	if err != nil {
		return h.ErrorHandler(ctx, err)
	}

	return ctx.Render(h.View, authform.MergeViewContext(ViewContext(user, summary), router.ViewContext{
		"sign_in_href":  h.SignInRoute,
		"sign_out_href": h.SignOutRoute,
	}))
}

// Greeting returns the name shown in the header greeting
func Greeting(user *authform.AuthenticatedUser) string {
	if user == nil || user.FirstName == "" {
		return GuestName
	}
	return user.FirstName
}

func ViewContext(user *authform.AuthenticatedUser, summary banking.BalanceSummary) router.ViewContext {
	accounts := make([]map[string]any, 0, len(summary.Accounts))
	for _, acc := range summary.Accounts {
		accounts = append(accounts, map[string]any{
			"id":              acc.ID,
			"name":            acc.Name,
			"mask":            acc.Mask,
			"current_balance": banking.FormatAmount(acc.CurrentBalance),
		})
	}

	data := router.ViewContext{
		"title":                 GreetingTitle,
		"subtitle":              Subtitle,
		"greeting":              Greeting(user),
		"signed_in":             user != nil,
		"accounts":              accounts,
		"total_banks":           summary.TotalBanks,
		"total_current_balance": banking.FormatAmount(summary.TotalCurrentBalance),
	}

	if user != nil {
		data[authform.TemplateUserKey] = user
	}

	return data
}

func defaultErrHandler(c router.Context, err error) error {
	return c.Render("errors/500", router.ViewContext{
		"message": err.Error(),
	})
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
