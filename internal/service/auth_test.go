package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/challenge-hub/backend/internal/config"
	"github.com/challenge-hub/backend/internal/model"
	"github.com/challenge-hub/backend/internal/testutil"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret: "test-secret",
		JWTTTL:    "1h",
	}
}

func testHasher(t *testing.T) PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher("4")
	require.NoError(t, err)
	return h
}

func newTestAuthService(t *testing.T, repo AuthRepository) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, testHasher(t), testAuthConfig())
	require.NoError(t, err)
	return svc
}

func register(t *testing.T, svc *AuthService, email, password string) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Ana", Email: email, Password: password})
	require.NoError(t, err)
	return user
}

func TestAuthServiceLoginLogout(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	svc := newTestAuthService(t, store)

	user := register(t, svc, "ana@mail.com", "secret99")
	assert.NotEqual(t, "secret99", user.PasswordHash)

	issued, err := svc.Login(ctx, "ana@mail.com", "secret99")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Equal(t, int64(3600), issued.ExpiresIn)

	principal, err := svc.Authorize(ctx, issued.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)

	require.NoError(t, svc.Logout(ctx, issued.Token))
	_, err = svc.Authorize(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// A second logout of the same token is not an error.
	assert.NoError(t, svc.Logout(ctx, issued.Token))
}

func TestAuthServiceLoginFailures(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, testutil.NewMemStore())
	register(t, svc, "ana@mail.com", "secret99")

	_, err := svc.Login(ctx, "ana@mail.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@mail.com", "secret99")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthServiceRegisterValidation(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	svc := newTestAuthService(t, store)
	register(t, svc, "ana@mail.com", "secret99")

	_, err := svc.Register(ctx, model.RegisterRequest{Name: "Ana", Email: "ana@mail.com", Password: "secret99"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"The email has already been taken."}, verr.Fields["email"])

	_, err = svc.Register(ctx, model.RegisterRequest{Name: "", Email: "not-an-email", Password: "123"})
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")

	users, _, _ := store.Counts()
	assert.Equal(t, 1, users)
}

func TestAuthServiceRegisterPasswordTooLong(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	svc := newTestAuthService(t, store)

	_, err := svc.Register(ctx, model.RegisterRequest{
		Name:     "Ana",
		Email:    "ana@mail.com",
		Password: strings.Repeat("a", 80),
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Equal(t, []string{"The password may not be greater than 72 bytes."}, verr.Fields["password"])

	users, _, _ := store.Counts()
	assert.Equal(t, 0, users)
}

func TestAuthServiceExpiredToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, testutil.NewMemStore())
	register(t, svc, "ana@mail.com", "secret99")

	issued, err := svc.Login(ctx, "ana@mail.com", "secret99")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authorize(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Expired tokens can still be logged out.
	assert.NoError(t, svc.Logout(ctx, issued.Token))
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t, testutil.NewMemStore())

	foreign, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        "abc",
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", foreign} {
		_, err := svc.Authorize(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthorized)
		assert.ErrorIs(t, svc.Logout(ctx, token), ErrUnauthorized)
	}
}

func TestAuthServiceDeletedUser(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewMemStore()
	svc := newTestAuthService(t, store)
	user := register(t, svc, "ana@mail.com", "secret99")

	issued, err := svc.Login(ctx, "ana@mail.com", "secret99")
	require.NoError(t, err)
	require.NoError(t, store.DeleteUser(ctx, user.ID))

	_, err = svc.Authorize(ctx, issued.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

type failingSessions struct {
	*testutil.MemStore
}

func (failingSessions) CreateSession(context.Context, int64, string, time.Time) error {
	return errors.New("connection reset")
}

func TestAuthServiceTokenIssueFailure(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestAuthService(t, failingSessions{store})
	register(t, svc, "ana@mail.com", "secret99")

	_, err := svc.Login(context.Background(), "ana@mail.com", "secret99")
	assert.ErrorIs(t, err, ErrTokenIssue)
}

func TestNewAuthServiceConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.AuthConfig)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*config.AuthConfig) {}},
		{name: "missing-secret", mutate: func(c *config.AuthConfig) { c.JWTSecret = "" }, wantErr: true},
		{name: "bad-ttl", mutate: func(c *config.AuthConfig) { c.JWTTTL = "forever" }, wantErr: true},
		{name: "bad-secure", mutate: func(c *config.AuthConfig) { c.CookieSecure = "maybe" }, wantErr: true},
		{name: "bad-samesite", mutate: func(c *config.AuthConfig) { c.CookieSameSite = "loose" }, wantErr: true},
		{name: "none-insecure", mutate: func(c *config.AuthConfig) {
			c.CookieSameSite = "none"
			c.CookieSecure = "false"
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAuthConfig()
			tt.mutate(&cfg)
			svc, err := NewAuthService(testutil.NewMemStore(), testHasher(t), cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMisconfigured)
				return
			}
			require.NoError(t, err)
			cookie := svc.CookieConfig()
			assert.Equal(t, defaultCookieName, cookie.Name)
			assert.Equal(t, "/", cookie.Path)
			assert.True(t, cookie.Secure)
			assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
			assert.Equal(t, 3600, cookie.MaxAge)
		})
	}
}

func TestNewPasswordHasher(t *testing.T) {
	_, err := NewPasswordHasher("")
	assert.NoError(t, err)
	_, err = NewPasswordHasher("99")
	assert.ErrorIs(t, err, ErrMisconfigured)
	_, err = NewPasswordHasher("abc")
	assert.ErrorIs(t, err, ErrMisconfigured)
}
