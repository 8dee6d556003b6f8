package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleAdmin = "admin"

	revokedKeyPrefix = "auth:revoked:"
)

type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Authenticator interface {
	Login(ctx context.Context, username, password string) (token string, err error)
	Authenticate(ctx context.Context, token string) (Principal, error)
	Logout(ctx context.Context, token string) error
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTAuthenticator checks the single configured admin account and issues
// HS256 session tokens. With a redis client, logged out tokens are
// remembered until they expire.
type JWTAuthenticator struct {
	cfg    config.Admin
	rdb    *redis.Client
	now    func() time.Time
	logger *zap.Logger
}

func NewJWTAuthenticator(cfg config.Admin, rdb *redis.Client, logger ...*zap.Logger) *JWTAuthenticator {
	l := zap.L().Named("auth.jwt")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.jwt")
	}
	return &JWTAuthenticator{cfg: cfg, rdb: rdb, now: time.Now, logger: l}
}

// WithClock replaces the time source used to issue and verify tokens.
func (a *JWTAuthenticator) WithClock(now func() time.Time) *JWTAuthenticator {
	a.now = now
	return a
}

func (a *JWTAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	if username != a.cfg.Username || a.cfg.PasswordHash == "" {
		return "", autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)); err != nil {
		a.logger.Info("admin login rejected", zap.String("username", username))
		return "", autherrors.ErrInvalidCredentials
	}

	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.SessionTTL)),
		},
	})
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		a.logger.Error("sign session token failed", zap.Error(err))
		return "", autherrors.ErrTokenGenerationFailed
	}
	return signed, nil
}

func (a *JWTAuthenticator) parse(token string) (*claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, autherrors.ErrUnauthorized
	}

	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(a.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil || !parsed.Valid {
		return nil, autherrors.ErrInvalidToken
	}
	return c, nil
}

func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (Principal, error) {
	c, err := a.parse(token)
	if err != nil {
		return Principal{}, err
	}

	if a.rdb != nil && c.ID != "" {
		n, err := a.rdb.Exists(ctx, revokedKeyPrefix+c.ID).Result()
		if err != nil {
			a.logger.Warn("revocation lookup failed", zap.Error(err))
		} else if n > 0 {
			return Principal{}, autherrors.ErrInvalidToken
		}
	}

	return Principal{Username: c.Subject, Role: c.Role}, nil
}

// Logout revokes token for its remaining lifetime. Without redis it is a
// no-op and the caller only clears the cookie.
func (a *JWTAuthenticator) Logout(ctx context.Context, token string) error {
	if a.rdb == nil {
		return nil
	}
	c, err := a.parse(token)
	if err != nil {
		if errors.Is(err, autherrors.ErrUnauthorized) {
			return nil
		}
		return err
	}

	ttl := c.ExpiresAt.Time.Sub(a.now())
	if ttl <= 0 || c.ID == "" {
		return nil
	}
	return a.rdb.Set(ctx, revokedKeyPrefix+c.ID, "1", ttl).Err()
}
