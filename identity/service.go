package identity

import (
	"context"
	"time"

	"github.com/goliatone/go-authform"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// MaxLoginAttempts is the maximun number of failed attempts a user
// gets before the cool down kicks in
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts are counted
var CoolDownPeriod = 24 * time.Hour

// Service is the local identity provider backing the auth forms
type Service struct {
	repo      RepositoryManager
	register  *RegisterUserHandler
	tokens    *TokenService
	logger    authform.Logger
	useHashid bool
	now       func() time.Time
}

var _ authform.AccountService = (*Service)(nil)

type ServiceOption func(*Service)

func WithServiceLogger(logger authform.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithHashidIDs derives user IDs from the email address
func WithHashidIDs(enabled bool) ServiceOption {
	return func(s *Service) {
		s.useHashid = enabled
	}
}

func WithServiceClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo RepositoryManager, tokens *TokenService, opts ...ServiceOption) *Service {
	repo.MustValidate()

	s := &Service{
		repo:     repo,
		register: NewRegisterUserHandler(repo),
		tokens:   tokens,
		logger:   nopLogger{},
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// SignUp dispatches a RegisterUserMessage and returns the stored profile
func (s *Service) SignUp(ctx context.Context, params authform.SignUpParams) (*authform.AuthenticatedUser, error) {
	msg := RegisterUserMessage{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
		Email:       params.Email,
		Password:    params.Password,
		UseHashid:   s.useHashid,
	}

	if err := s.register.Execute(ctx, msg); err != nil {
		s.logger.Error("sign up failed", "email", params.Email, "error", err)
		return nil, err
	}

	user, err := s.repo.Users().GetByEmail(ctx, params.Email)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load registered user")
	}

	s.logger.Info("registered user", "user_id", user.ID)
	return user.ToAuthenticatedUser(), nil
}

// SignIn verifies credentials and issues a session token
func (s *Service) SignIn(ctx context.Context, email, password string) (*authform.Session, error) {
	users := s.repo.Users()

	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if user.LoginAttemptAt != nil && s.now().Sub(*user.LoginAttemptAt) > CoolDownPeriod {
		user.LoginAttempts = 0
	}

	if user.LoginAttempts >= MaxLoginAttempts {
		s.logger.Warn("sign in blocked, too many attempts", "user_id", user.ID)
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := users.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}
		return nil, ErrMismatchedHashAndPassword
	}

	if err := users.TrackSuccessfulLogin(ctx, user); err != nil {
		s.logger.Error("failed to track successful login", "error", err)
	}

	return s.tokens.Generate(user)
}

// GetLoggedInUser resolves the user behind a session token. An empty
// token means a guest and yields no user and no error.
func (s *Service) GetLoggedInUser(ctx context.Context, token string) (*authform.AuthenticatedUser, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Users().GetByID(ctx, claims.UID)
	if err != nil {
		if isNotFound(err) {
			return nil, authform.ErrUnableToFindSession
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load session user")
	}

	return user.ToAuthenticatedUser(), nil
}

func isNotFound(err error) bool {
	return repository.IsRecordNotFound(err) || errors.IsNotFound(err)
}
