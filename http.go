package authform

import (
	"context"
	"time"

	"github.com/goliatone/go-router"
)

// DefaultSessionCookie is used when the config does not name one
const DefaultSessionCookie = "horizon-session"

// SessionCookies writes and reads the session cookie set after sign-in.
type SessionCookies struct {
	name     string
	duration time.Duration
	secure   bool
	now      func() time.Time
}

// NewSessionCookies builds the cookie helper from config. Token expiration
// is expressed in hours, 24 when unset. Without a config the cookie is
// HTTPS only.
func NewSessionCookies(cfg Config) *SessionCookies {
	name := DefaultSessionCookie
	duration := 24 * time.Hour
	secure := true

	if cfg != nil {
		if key := cfg.GetContextKey(); key != "" {
			name = key
		}
		if cfg.GetTokenExpiration() > 0 {
			duration = time.Duration(cfg.GetTokenExpiration()) * time.Hour
		}
		secure = cfg.GetSecureCookie()
	}

	return &SessionCookies{
		name:     name,
		duration: duration,
		secure:   secure,
		now:      time.Now,
	}
}

func (s *SessionCookies) Name() string {
	return s.name
}

func (s *SessionCookies) Duration() time.Duration {
	return s.duration
}

func (s *SessionCookies) Secure() bool {
	return s.secure
}

// Set stores the session token. The cookie never outlives the session.
func (s *SessionCookies) Set(c router.Context, session *Session) {
	if session == nil || session.Token == "" {
		return
	}

	expires := s.now().Add(s.duration)
	if !session.ExpiresAt.IsZero() && session.ExpiresAt.Before(expires) {
		expires = session.ExpiresAt
	}

	c.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}

// Token returns the session token carried by the request, "" if none.
func (s *SessionCookies) Token(c router.Context) string {
	return c.Cookies(s.name)
}

func (s *SessionCookies) Clear(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		Expires:  s.now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: "Lax",
	})
}

// RouterNavigator redirects the current request with 303 See Other.
func RouterNavigator(c router.Context) Navigator {
	return NavigatorFunc(func(_ context.Context, route string) error {
		return c.Redirect(route, router.StatusSeeOther)
	})
}
