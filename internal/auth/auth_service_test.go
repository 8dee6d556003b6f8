package auth_test

import (
	"context"
	"testing"
	"time"

	"company-registry/internal/auth"
	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/shared/config"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func adminConfig(t *testing.T, password string) config.Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return config.Admin{
		Username:     "admin",
		PasswordHash: string(hash),
		JWTSecret:    "test-secret",
		SessionTTL:   time.Hour,
	}
}

func TestJWTAuthenticator_Login(t *testing.T) {
	a := auth.NewJWTAuthenticator(adminConfig(t, "admin123"), nil, zap.NewNop())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		token, err := a.Login(ctx, "admin", "admin123")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)

		p, err := a.Authenticate(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "admin", p.Username)
		assert.Equal(t, auth.RoleAdmin, p.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := a.Login(ctx, "admin", "nope")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := a.Login(ctx, "root", "admin123")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("no hash configured", func(t *testing.T) {
		cfg := adminConfig(t, "admin123")
		cfg.PasswordHash = ""
		_, err := auth.NewJWTAuthenticator(cfg, nil, zap.NewNop()).Login(ctx, "admin", "")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestJWTAuthenticator_Authenticate(t *testing.T) {
	ctx := context.Background()
	cfg := adminConfig(t, "admin123")
	a := auth.NewJWTAuthenticator(cfg, nil, zap.NewNop())

	t.Run("empty token", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "")
		assert.ErrorIs(t, err, autherrors.ErrUnauthorized)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := a.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("signed with another secret", func(t *testing.T) {
		other := cfg
		other.JWTSecret = "other"
		token, err := auth.NewJWTAuthenticator(other, nil, zap.NewNop()).Login(ctx, "admin", "admin123")
		assert.NoError(t, err)

		_, err = a.Authenticate(ctx, token)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		short := cfg
		short.SessionTTL = -time.Minute
		token, err := auth.NewJWTAuthenticator(short, nil, zap.NewNop()).Login(ctx, "admin", "admin123")
		assert.NoError(t, err)

		_, err = a.Authenticate(ctx, token)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}

func TestJWTAuthenticator_LogoutRevokes(t *testing.T) {
	ctx := context.Background()
	rdb, mock := redismock.NewClientMock()
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a := auth.NewJWTAuthenticator(adminConfig(t, "admin123"), rdb, zap.NewNop()).
		WithClock(func() time.Time { return fixed })

	token, err := a.Login(ctx, "admin", "admin123")
	assert.NoError(t, err)

	mock.Regexp().ExpectSet(`^auth:revoked:.+$`, "1", time.Hour).SetVal("OK")
	assert.NoError(t, a.Logout(ctx, token))

	mock.Regexp().ExpectExists(`^auth:revoked:.+$`).SetVal(1)
	_, err = a.Authenticate(ctx, token)
	assert.ErrorIs(t, err, autherrors.ErrInvalidToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJWTAuthenticator_LogoutWithoutRedis(t *testing.T) {
	a := auth.NewJWTAuthenticator(adminConfig(t, "admin123"), nil, zap.NewNop())
	assert.NoError(t, a.Logout(context.Background(), "anything"))
}
