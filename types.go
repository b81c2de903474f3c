package authform

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Logger takes a message followed by key/value pairs
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuthenticatedUser is the account record returned by the identity
// provider after a successful sign-up or session lookup.
type AuthenticatedUser struct {
	ID          string `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Address1    string `json:"address1,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// FullName joins first and last name.
func (u AuthenticatedUser) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Session is the opaque session handle returned by SignIn. A nil *Session
// with a nil error means the provider produced no usable session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignUpParams carries the full sign-up profile.
type SignUpParams struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address1    string `json:"address1"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	DateOfBirth string `json:"date_of_birth"`
	SSN         string `json:"ssn"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// Masked returns a copy safe to log.
func (p SignUpParams) Masked() SignUpParams {
	p.Password = mask(p.Password)
	p.SSN = mask(p.SSN)
	return p
}

// AccountService is the identity provider the form talks to.
type AccountService interface {
	SignUp(ctx context.Context, params SignUpParams) (*AuthenticatedUser, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	GetLoggedInUser(ctx context.Context, token string) (*AuthenticatedUser, error)
}

// Navigator performs the redirect that follows a successful sign-in.
type Navigator interface {
	Redirect(ctx context.Context, route string) error
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(ctx context.Context, route string) error

// Redirect implements Navigator.
func (f NavigatorFunc) Redirect(ctx context.Context, route string) error {
	if f == nil {
		return nil
	}
	return f(ctx, route)
}

type noopNavigator struct{}

func (noopNavigator) Redirect(context.Context, string) error { return nil }

// Config holds the options the HTTP layer needs
type Config interface {
	GetContextKey() string
	GetTokenExpiration() int
	GetHomeRoute() string
	GetSignInRoute() string
	GetSignUpRoute() string
	GetSignOutRoute() string
	// GetSecureCookie marks the session cookie HTTPS only
	GetSecureCookie() bool
}

type defLogger struct{}

func (d defLogger) Error(msg string, args ...any) {
	fmt.Print("[ERR] AUTHFORM " + line(msg, args))
}

func (d defLogger) Warn(msg string, args ...any) {
	fmt.Print("[WRN] AUTHFORM " + line(msg, args))
}

func (d defLogger) Info(msg string, args ...any) {
	fmt.Print("[INF] AUTHFORM " + line(msg, args))
}

func (d defLogger) Debug(msg string, args ...any) {
	fmt.Print("[DBG] AUTHFORM " + line(msg, args))
}

func line(msg string, args []any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fmt.Fprintf(&b, " %v=%v", args[i], args[i+1])
		} else {
			fmt.Fprintf(&b, " %v", args[i])
		}
	}
	b.WriteByte('\n')
	return b.String()
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}

// LinkToken is the short lived token the account-linking widget is
// initialized with.
type LinkToken struct {
	Token      string    `json:"link_token"`
	Expiration time.Time `json:"expiration"`
	RequestID  string    `json:"request_id,omitempty"`
}

// LinkTokenProvider creates link tokens with the banking-data provider.
type LinkTokenProvider interface {
	CreateLinkToken(ctx context.Context, user AuthenticatedUser) (*LinkToken, error)
}
