package service

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"testing"
	"time"

	"lostfound/internal/auth"
	"lostfound/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache - кэш в памяти для тестов, без TTL
type memoryCache struct {
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	return c.data[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.data[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.data, key)
	}
	return nil
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal([]byte(val), dest)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = string(data)
	return nil
}

func (c *memoryCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	var keys []string
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func newTestAuthService(t *testing.T) (AuthService, *memoryCache) {
	t.Helper()

	db := setupTestDB(t)
	cache := newMemoryCache()
	svc := NewAuthService(
		repository.NewUserRepository(db),
		cache,
		&fakeNotifier{},
		"test-secret",
		time.Hour,
	)
	return svc, cache
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ivan@example.com", "secret123", "Ivan Petrov")
	require.NoError(t, err)
	assert.NotEmpty(t, registered.AccessToken)
	assert.Equal(t, "ivan@example.com", registered.User.Email)
	assert.False(t, registered.User.IsAdmin)

	// Хэш пароля не должен совпадать с паролем
	assert.NotEqual(t, "secret123", registered.User.PasswordHash)

	claims, err := auth.ValidateToken("test-secret", registered.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, claims.UserID)

	loggedIn, err := svc.Login(ctx, "ivan@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ivan@example.com", "secret123", "Ivan Petrov")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ivan@example.com", "other-password", "Impostor")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

// Неизвестный email и неверный пароль дают одну и ту же ошибку
func TestLoginUniformFailure(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ivan@example.com", "secret123", "Ivan Petrov")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ivan@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, cache := newTestAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ivan@example.com", "old-password", "Ivan Petrov")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "ivan@example.com"))

	// Достаем выпущенный токен из кэша
	var token string
	for key := range cache.data {
		if strings.HasPrefix(key, "pwreset:") {
			token = strings.TrimPrefix(key, "pwreset:")
		}
	}
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "new-password"))

	_, err = svc.Login(ctx, "ivan@example.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ivan@example.com", "new-password")
	assert.NoError(t, err)

	// Токен одноразовый
	assert.ErrorIs(t, svc.ResetPassword(ctx, token, "another-password"), ErrInvalidToken)
}

func TestForgotPasswordUnknownEmailSilent(t *testing.T) {
	svc, cache := newTestAuthService(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), "nobody@example.com"))
	assert.Empty(t, cache.data)
}

func TestResetPasswordInvalidToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), "bogus-token", "new-password")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ivan@example.com", "secret123", "Ivan Petrov")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, registered.User.ID, map[string]interface{}{
		"full_name": "Ivan P.",
		"phone":     "+7 900 000-00-00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ivan P.", updated.FullName)
	assert.Equal(t, "+7 900 000-00-00", updated.Phone)
	assert.Equal(t, "ivan@example.com", updated.Email)
}
