package identity

import (
	"context"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerMessage() RegisterUserMessage {
	return RegisterUserMessage{
		FirstName: "Ana",
		LastName:  "Lopez",
		SSN:       "123456789",
		Email:     "ana@example.com",
		Password:  "secret1",
	}
}

func TestRegisterUserMessageType(t *testing.T) {
	assert.Equal(t, "user.register", RegisterUserMessage{}.Type())
}

func TestRegisterUserHandler_Execute(t *testing.T) {
	repo := NewRepositoryManager(newTestDB(t))
	handler := NewRegisterUserHandler(repo)
	ctx := context.Background()

	require.NoError(t, handler.Execute(ctx, registerMessage()))

	user, err := repo.Users().GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "6789", user.SSNLast4)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.NoError(t, ComparePasswordAndHash("secret1", user.PasswordHash))

	err = handler.Execute(ctx, registerMessage())
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestRegisterUserHandler_EmptyPassword(t *testing.T) {
	handler := NewRegisterUserHandler(NewRepositoryManager(newTestDB(t)))

	msg := registerMessage()
	msg.Password = ""

	err := handler.Execute(context.Background(), msg)
	assert.True(t, errors.Is(err, ErrNoEmptyString))
}

func TestRegisterUserHandler_CancelledContext(t *testing.T) {
	handler := NewRegisterUserHandler(NewRepositoryManager(newTestDB(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := handler.Execute(ctx, registerMessage())
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, errors.CategoryOperation, richErr.Category)
}
