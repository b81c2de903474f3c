package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-authform"
	"github.com/goliatone/go-authform/banking"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) SignUp(ctx context.Context, params authform.SignUpParams) (*authform.AuthenticatedUser, error) {
	args := m.Called(ctx, params)
	user, _ := args.Get(0).(*authform.AuthenticatedUser)
	return user, args.Error(1)
}

func (m *mockAccountService) SignIn(ctx context.Context, email, password string) (*authform.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*authform.Session)
	return session, args.Error(1)
}

func (m *mockAccountService) GetLoggedInUser(ctx context.Context, token string) (*authform.AuthenticatedUser, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*authform.AuthenticatedUser)
	return user, args.Error(1)
}

type routesConfig struct{}

func (routesConfig) GetContextKey() string   { return "sid" }
func (routesConfig) GetTokenExpiration() int { return 1 }
func (routesConfig) GetHomeRoute() string    { return "/home" }
func (routesConfig) GetSignInRoute() string  { return "/auth/login" }
func (routesConfig) GetSignUpRoute() string  { return "/auth/register" }
func (routesConfig) GetSignOutRoute() string { return "/auth/logout" }
func (routesConfig) GetSecureCookie() bool   { return false }

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Invitado/a", Greeting(nil))
	assert.Equal(t, "Invitado/a", Greeting(&authform.AuthenticatedUser{ID: "u1"}))
	assert.Equal(t, "Ana", Greeting(&authform.AuthenticatedUser{FirstName: "Ana"}))
}

func TestHomeShowSignedIn(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("GetLoggedInUser", mock.Anything, "tok").
		Return(&authform.AuthenticatedUser{ID: "u1", FirstName: "Ana"}, nil).
		Once()

	ctrl := NewHomeController(WithAccountService(svc))

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.CookiesM[authform.DefaultSessionCookie] = "tok"
	ctx.On("Render", "home", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		data := args.Get(1).(router.ViewContext)
		assert.Equal(t, "Bienvenido/a", data["title"])
		assert.Equal(t, "Ana", data["greeting"])
		assert.Equal(t, true, data["signed_in"])
		assert.Equal(t, 1, data["total_banks"])
		assert.Equal(t, "1250.35", data["total_current_balance"])

		accounts := data["accounts"].([]map[string]any)
		require.Len(t, accounts, 2)
		assert.Equal(t, "123.50", accounts[0]["current_balance"])
		assert.Equal(t, "500.50", accounts[1]["current_balance"])
	}).Once()

	require.NoError(t, ctrl.Show(ctx))

	svc.AssertNumberOfCalls(t, "GetLoggedInUser", 1)
	ctx.AssertExpectations(t)
}

func TestHomeShowGuest(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("GetLoggedInUser", mock.Anything, "").Return(nil, nil).Once()

	ctrl := NewHomeController(WithAccountService(svc))

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.CookiesM[authform.DefaultSessionCookie] = ""
	ctx.On("Render", "home", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		data := args.Get(1).(router.ViewContext)
		assert.Equal(t, "Invitado/a", data["greeting"])
		assert.Equal(t, false, data["signed_in"])
		assert.NotContains(t, data, authform.TemplateUserKey)
	}).Once()

	require.NoError(t, ctrl.Show(ctx))
	ctx.AssertExpectations(t)
}

func TestHomeShowInvalidSessionFallsBackToGuest(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("GetLoggedInUser", mock.Anything, "stale").Return(nil, errors.New("token expired")).Once()

	ctrl := NewHomeController(WithAccountService(svc))

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.CookiesM[authform.DefaultSessionCookie] = "stale"
	ctx.On("Cookie", mock.MatchedBy(func(c *router.Cookie) bool {
		return c.Name == authform.DefaultSessionCookie && c.Value == ""
	})).Return().Once()
	ctx.On("Render", "home", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		data := args.Get(1).(router.ViewContext)
		assert.Equal(t, "Invitado/a", data["greeting"])
	}).Once()

	require.NoError(t, ctrl.Show(ctx))
	ctx.AssertExpectations(t)
}

func TestHomeShowSummaryError(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("GetLoggedInUser", mock.Anything, "").Return(nil, nil)

	var handled error
	ctrl := NewHomeController(
		WithAccountService(svc),
		WithSummaryProvider(func(context.Context, *authform.AuthenticatedUser) (banking.BalanceSummary, error) {
			return banking.BalanceSummary{}, errors.New("provider down")
		}),
	)
	ctrl.ErrorHandler = func(c router.Context, err error) error {
		handled = err
		return nil
	}

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.CookiesM[authform.DefaultSessionCookie] = ""

	require.NoError(t, ctrl.Show(ctx))
	assert.EqualError(t, handled, "provider down")
}

func TestNewHomeControllerRequiresService(t *testing.T) {
	assert.Panics(t, func() {
		NewHomeController()
	})
}

func TestHomeShowUsesConfiguredRoutes(t *testing.T) {
	svc := &mockAccountService{}
	svc.On("GetLoggedInUser", mock.Anything, "").Return(nil, nil).Once()

	ctrl := NewHomeController(WithAccountService(svc), WithConfig(routesConfig{}))
	assert.Equal(t, "/home", ctrl.Route)
	assert.Equal(t, "sid", ctrl.Cookies.Name())
	assert.False(t, ctrl.Cookies.Secure())

	ctx := router.NewMockContext()
	ctx.On("Context").Return(context.Background())
	ctx.On("Render", "home", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		data := args.Get(1).(router.ViewContext)
		assert.Equal(t, "/auth/login", data["sign_in_href"])
		assert.Equal(t, "/auth/logout", data["sign_out_href"])
	}).Once()

	require.NoError(t, ctrl.Show(ctx))
	ctx.AssertExpectations(t)
}
