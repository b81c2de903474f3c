package banking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-authform"
	"github.com/goliatone/go-errors"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	TextCodeLinkTokenFailed = "LINK_TOKEN_FAILED"

	linkTokenPath = "/link/token/create"
)

// ErrLinkTokenFailed is returned when the provider does not hand out a token
var ErrLinkTokenFailed = errors.New("unable to create link token", errors.CategoryOperation).
	WithTextCode(TextCodeLinkTokenFailed).
	WithCode(http.StatusBadGateway)

type Config interface {
	GetBaseURL() string
	GetClientID() string
	GetClientSecret() string
	GetTokenURL() string
	GetClientName() string
	GetProducts() []string
	GetCountryCodes() []string
	GetLanguage() string
}

// Client talks to the banking-data provider
type Client struct {
	baseURL      string
	clientName   string
	products     []string
	countryCodes []string
	language     string
	http         *http.Client
	logger       authform.Logger
}

var _ authform.LinkTokenProvider = (*Client)(nil)

type ClientOption func(*Client)

// WithHTTPClient replaces the oauth2 client, mostly for tests
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		if c != nil {
			cl.http = c
		}
	}
}

func WithClientLogger(logger authform.Logger) ClientOption {
	return func(cl *Client) {
		if logger != nil {
			cl.logger = logger
		}
	}
}

// NewClient builds a client authenticated with the client credentials flow
func NewClient(ctx context.Context, cfg Config, opts ...ClientOption) *Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.GetClientID(),
		ClientSecret: cfg.GetClientSecret(),
		TokenURL:     cfg.GetTokenURL(),
	}

	cl := &Client{
		baseURL:      strings.TrimRight(cfg.GetBaseURL(), "/"),
		clientName:   cfg.GetClientName(),
		products:     cfg.GetProducts(),
		countryCodes: cfg.GetCountryCodes(),
		language:     cfg.GetLanguage(),
		http:         cc.Client(ctx),
		logger:       nopLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cl)
		}
	}

	if len(cl.products) == 0 {
		cl.products = []string{"auth"}
	}
	if len(cl.countryCodes) == 0 {
		cl.countryCodes = []string{"US"}
	}
	if cl.language == "" {
		cl.language = "en"
	}

	return cl
}

type linkTokenUser struct {
	ClientUserID string `json:"client_user_id"`
	LegalName    string `json:"legal_name,omitempty"`
	EmailAddress string `json:"email_address,omitempty"`
}

type linkTokenRequest struct {
	User         linkTokenUser `json:"user"`
	ClientName   string        `json:"client_name"`
	Products     []string      `json:"products"`
	CountryCodes []string      `json:"country_codes"`
	Language     string        `json:"language"`
}

type providerError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	RequestID    string `json:"request_id"`
}

// CreateLinkToken requests a link token for the given user
func (c *Client) CreateLinkToken(ctx context.Context, user authform.AuthenticatedUser) (*authform.LinkToken, error) {
	if user.ID == "" {
		return nil, errors.New("user id is required", errors.CategoryBadInput).
			WithTextCode(TextCodeLinkTokenFailed).
			WithCode(errors.CodeBadRequest)
	}

	body, err := json.Marshal(linkTokenRequest{
		User: linkTokenUser{
			ClientUserID: user.ID,
			LegalName:    user.FullName(),
			EmailAddress: user.Email,
		},
		ClientName:   c.clientName,
		Products:     c.products,
		CountryCodes: c.countryCodes,
		Language:     c.language,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to encode link token request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+linkTokenPath, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to build link token request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("link token request failed", "error", err)
		return nil, err
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to read link token response")
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		perr := providerError{}
		_ = json.Unmarshal(payload, &perr)
		c.logger.Error("link token provider error", "status", res.StatusCode, "message", perr.ErrorMessage)
		rich := ErrLinkTokenFailed.Clone()
		rich.Source = ErrLinkTokenFailed
		return nil, rich.WithMetadata(map[string]any{
			"status":     res.StatusCode,
			"error_code": perr.ErrorCode,
			"request_id": perr.RequestID,
		})
	}

	token := &authform.LinkToken{}
	if err := json.Unmarshal(payload, token); err != nil {
		return nil, errors.Wrap(err, errors.CategoryOperation, "failed to decode link token response")
	}

	if token.Token == "" {
		return nil, ErrLinkTokenFailed
	}

	if token.Expiration.IsZero() {
		token.Expiration = time.Now().Add(4 * time.Hour)
	}

	c.logger.Debug("created link token", "user_id", user.ID, "request_id", token.RequestID)
	return token, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("banking.Client{%s}", c.baseURL)
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, args ...any) {}
func (nopLogger) Info(msg string, args ...any)  {}
func (nopLogger) Warn(msg string, args ...any)  {}
func (nopLogger) Error(msg string, args ...any) {}
