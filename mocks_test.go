package authform_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-authform"
	"github.com/stretchr/testify/mock"
)

// MockAccountService implements authform.AccountService
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) SignUp(ctx context.Context, params authform.SignUpParams) (*authform.AuthenticatedUser, error) {
	args := m.Called(ctx, params)
	user, _ := args.Get(0).(*authform.AuthenticatedUser)
	return user, args.Error(1)
}

func (m *MockAccountService) SignIn(ctx context.Context, email, password string) (*authform.Session, error) {
	args := m.Called(ctx, email, password)
	session, _ := args.Get(0).(*authform.Session)
	return session, args.Error(1)
}

func (m *MockAccountService) GetLoggedInUser(ctx context.Context, token string) (*authform.AuthenticatedUser, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*authform.AuthenticatedUser)
	return user, args.Error(1)
}

// recordingNavigator remembers every redirect
type recordingNavigator struct {
	mu     sync.Mutex
	routes []string
	err    error
}

func (n *recordingNavigator) Redirect(_ context.Context, route string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
	return n.err
}

func (n *recordingNavigator) Routes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.routes))
	copy(out, n.routes)
	return out
}

// recordingSink keeps the activity events in order
type recordingSink struct {
	mu     sync.Mutex
	events []authform.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event authform.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Types() []authform.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]authform.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

func (s *recordingSink) Last() authform.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return authform.ActivityEvent{}
	}
	return s.events[len(s.events)-1]
}

func validSignUpValues() map[string]string {
	return map[string]string{
		authform.FieldFirstName:   "Ana",
		authform.FieldLastName:    "Lopez",
		authform.FieldAddress1:    "12 Main St",
		authform.FieldCity:        "Austin",
		authform.FieldState:       "TX",
		authform.FieldPostalCode:  "73301",
		authform.FieldDateOfBirth: "1990-04-12",
		authform.FieldSSN:         "1234",
		authform.FieldEmail:       "ana@example.com",
		authform.FieldPassword:    "secret1",
	}
}
