package formguard

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

var (
	ErrTokenMismatch = goerrors.New("form token mismatch", goerrors.CategoryAuthz).
				WithCode(goerrors.CodeForbidden).
				WithTextCode("FORM_TOKEN_MISMATCH")

	ErrTokenMissing = goerrors.New("form token missing", goerrors.CategoryBadInput).
			WithCode(goerrors.CodeBadRequest).
			WithTextCode("FORM_TOKEN_MISSING")

	ErrTokenExpired = goerrors.New("form token expired", goerrors.CategoryAuthz).
			WithCode(goerrors.CodeForbidden).
			WithTextCode("FORM_TOKEN_EXPIRED")
)

const (
	// DefaultContextKey holds the token in request locals, views read it
	// as {{ form_token }} when locals are passed to views.
	DefaultContextKey = "form_token"
	DefaultFieldName  = "_token"
	DefaultHeaderName = "X-Form-Token"

	nonceLength = 16
	minKeyLen   = 32
)

type Config struct {
	Skip func(router.Context) bool

	// SecureKey signs tokens, at least 32 bytes. A random key is generated
	// when empty which invalidates tokens across restarts.
	SecureKey []byte

	Expiration   time.Duration
	ContextKey   string
	FieldName    string
	HeaderName   string
	SafeMethods  []string
	ErrorHandler router.ErrorHandler

	now func() time.Time
}

// New protects unsafe methods with a signed token bound to the client IP.
// Safe methods only mint a fresh token for the rendered form.
func New(config ...Config) router.MiddlewareFunc {
	cfg := configDefault(config...)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if cfg.Skip != nil && cfg.Skip(ctx) {
				return next(ctx)
			}

			method := strings.ToUpper(ctx.Method())
			if !slices.Contains(cfg.SafeMethods, method) {
				if err := verify(ctx, cfg); err != nil {
					return cfg.ErrorHandler(ctx, err)
				}
			}

			token, err := mint(ctx, cfg)
			if err != nil {
				return cfg.ErrorHandler(ctx, err)
			}

			ctx.Locals(cfg.ContextKey, token)
			ctx.Locals(cfg.ContextKey+"_field", cfg.FieldName)

			return next(ctx)
		}
	}
}

func mint(ctx router.Context, cfg Config) (string, error) {
	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "generate form token nonce")
	}

	payload := fmt.Sprintf("%d:%s:%s", cfg.now().UTC().Unix(), hex.EncodeToString(nonce), clientKey(ctx))
	token := payload + ":" + hex.EncodeToString(sign(cfg.SecureKey, payload))

	return base64.RawURLEncoding.EncodeToString([]byte(token)), nil
}

func verify(ctx router.Context, cfg Config) error {
	received := ctx.FormValue(cfg.FieldName)
	if received == "" {
		received = ctx.GetString(cfg.HeaderName, "")
	}
	if received == "" {
		return ErrTokenMissing
	}

	decoded, err := base64.RawURLEncoding.DecodeString(received)
	if err != nil {
		return ErrTokenMismatch
	}

	// client keys are IPs, IPv6 adds colons so split from both ends
	raw := string(decoded)
	first := strings.Index(raw, ":")
	last := strings.LastIndex(raw, ":")
	if first < 0 || first == last {
		return ErrTokenMismatch
	}

	payload, signatureHex := raw[:last], raw[last+1:]
	signature, err := hex.DecodeString(signatureHex)
	if err != nil || !hmac.Equal(signature, sign(cfg.SecureKey, payload)) {
		return ErrTokenMismatch
	}

	parts := strings.SplitN(payload, ":", 3)
	if len(parts) != 3 {
		return ErrTokenMismatch
	}

	if subtle.ConstantTimeCompare([]byte(parts[2]), []byte(clientKey(ctx))) != 1 {
		return ErrTokenMismatch
	}

	issued, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ErrTokenMismatch
	}

	if cfg.Expiration > 0 && cfg.now().UTC().After(time.Unix(issued, 0).Add(cfg.Expiration)) {
		return ErrTokenExpired
	}

	return nil
}

func sign(key []byte, payload string) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(payload))
	return mac.Sum(nil)
}

func clientKey(ctx router.Context) string {
	return "ip_" + ctx.IP()
}

func configDefault(config ...Config) Config {
	var cfg Config
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = DefaultContextKey
	}
	if cfg.FieldName == "" {
		cfg.FieldName = DefaultFieldName
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultHeaderName
	}
	if cfg.SafeMethods == nil {
		cfg.SafeMethods = []string{"GET", "HEAD", "OPTIONS", "TRACE"}
	}
	if cfg.Expiration == 0 {
		cfg.Expiration = 2 * time.Hour
	}
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	switch {
	case len(cfg.SecureKey) == 0:
		cfg.SecureKey = make([]byte, minKeyLen)
		if _, err := io.ReadFull(rand.Reader, cfg.SecureKey); err != nil {
			panic(fmt.Errorf("formguard: unable to initialize secure key: %w", err))
		}
	case len(cfg.SecureKey) < minKeyLen:
		panic(fmt.Errorf("formguard: secure key must be at least %d bytes, got %d", minKeyLen, len(cfg.SecureKey)))
	}

	return cfg
}

func defaultErrorHandler(ctx router.Context, err error) error {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code != 0 {
		return ctx.Status(rich.Code).SendString(rich.Message)
	}
	return ctx.Status(router.StatusInternalServerError).SendString("form token validation error")
}

// DeriveKey stretches an application secret into a key suitable for New.
func DeriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte("formguard:" + secret))
	return sum[:]
}
