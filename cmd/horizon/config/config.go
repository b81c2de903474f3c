package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// BaseConfig is loaded from config/app.json and the environment
type BaseConfig struct {
	App         App         `koanf:"app" json:"app"`
	Auth        Auth        `koanf:"auth" json:"auth"`
	Persistence Persistence `koanf:"persistence" json:"persistence"`
	Banking     Banking     `koanf:"banking" json:"banking"`
}

type App struct {
	Name  string `koanf:"name" json:"name"`
	Addr  string `koanf:"addr" json:"addr"`
	Debug bool   `koanf:"debug" json:"debug"`
}

type Auth struct {
	SigningKey      string `koanf:"signing_key" json:"signing_key"`
	Issuer          string `koanf:"issuer" json:"issuer"`
	TokenExpiration int    `koanf:"token_expiration" json:"token_expiration"`
	ContextKey      string `koanf:"context_key" json:"context_key"`
	HashidIDs       bool   `koanf:"hashid_ids" json:"hashid_ids"`
	HomeRoute       string `koanf:"home_route" json:"home_route"`
	SignInRoute     string `koanf:"sign_in_route" json:"sign_in_route"`
	SignUpRoute     string `koanf:"sign_up_route" json:"sign_up_route"`
	SignOutRoute    string `koanf:"sign_out_route" json:"sign_out_route"`
	SecureCookie    bool   `koanf:"secure_cookie" json:"secure_cookie"`
}

type Persistence struct {
	Debug                 bool   `koanf:"debug" json:"debug"`
	Driver                string `koanf:"driver" json:"driver"`
	DSN                   string `koanf:"dsn" json:"dsn"`
	OtelIdentifier        string `koanf:"otel_identifier" json:"otel_identifier"`
	PingTimeoutExpression string `koanf:"ping_timeout" json:"ping_timeout"`
}

type Banking struct {
	BaseURL      string   `koanf:"base_url" json:"base_url"`
	TokenURL     string   `koanf:"token_url" json:"token_url"`
	ClientID     string   `koanf:"client_id" json:"client_id"`
	ClientSecret string   `koanf:"client_secret" json:"-"`
	ClientName   string   `koanf:"client_name" json:"client_name"`
	Products     []string `koanf:"products" json:"products"`
	CountryCodes []string `koanf:"country_codes" json:"country_codes"`
	Language     string   `koanf:"language" json:"language"`
}

func (c BaseConfig) Validate() error {
	return validation.Errors{
		"app":         c.App.Validate(),
		"auth":        c.Auth.Validate(),
		"persistence": c.Persistence.Validate(),
		"banking":     c.Banking.Validate(),
	}.Filter()
}

func (c *BaseConfig) GetApp() App                 { return c.App }
func (c *BaseConfig) GetAuth() Auth               { return c.Auth }
func (c *BaseConfig) GetPersistence() Persistence { return c.Persistence }
func (c *BaseConfig) GetBanking() Banking         { return c.Banking }

func (a App) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Addr, validation.Required),
	)
}

func (a App) GetName() string { return a.Name }
func (a App) GetAddr() string { return a.Addr }
func (a App) GetDebug() bool  { return a.Debug }

func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.SigningKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&a.TokenExpiration, validation.Min(0)),
	)
}

func (a Auth) GetSigningKey() string   { return a.SigningKey }
func (a Auth) GetIssuer() string       { return a.Issuer }
func (a Auth) GetTokenExpiration() int { return a.TokenExpiration }
func (a Auth) GetContextKey() string   { return a.ContextKey }
func (a Auth) GetHashidIDs() bool      { return a.HashidIDs }
func (a Auth) GetHomeRoute() string    { return a.HomeRoute }
func (a Auth) GetSignInRoute() string  { return a.SignInRoute }
func (a Auth) GetSignUpRoute() string  { return a.SignUpRoute }
func (a Auth) GetSignOutRoute() string { return a.SignOutRoute }
func (a Auth) GetSecureCookie() bool   { return a.SecureCookie }

func (p Persistence) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.DSN, validation.Required),
	)
}

func (p Persistence) GetDSN() string            { return p.DSN }
func (p Persistence) GetServer() string         { return p.DSN }
func (p Persistence) GetDebug() bool            { return p.Debug }
func (p Persistence) GetOtelIdentifier() string { return p.OtelIdentifier }

// GetDriver defaults to the sqlite shim driver name
func (p Persistence) GetDriver() string {
	if p.Driver == "" {
		return "sqlite"
	}
	return p.Driver
}

// GetPingTimeout defaults to five seconds when unset or malformed
func (p Persistence) GetPingTimeout() time.Duration {
	dur, err := time.ParseDuration(p.PingTimeoutExpression)
	if err != nil || dur <= 0 {
		return 5 * time.Second
	}
	return dur
}

func (b Banking) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.BaseURL, validation.Required, is.URL),
		validation.Field(&b.TokenURL, validation.Required, is.URL),
		validation.Field(&b.ClientID, validation.Required),
	)
}

func (b Banking) GetBaseURL() string        { return b.BaseURL }
func (b Banking) GetTokenURL() string       { return b.TokenURL }
func (b Banking) GetClientID() string       { return b.ClientID }
func (b Banking) GetClientSecret() string   { return b.ClientSecret }
func (b Banking) GetClientName() string     { return b.ClientName }
func (b Banking) GetProducts() []string     { return b.Products }
func (b Banking) GetCountryCodes() []string { return b.CountryCodes }
func (b Banking) GetLanguage() string       { return b.Language }
