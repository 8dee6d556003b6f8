package local

import (
	"context"

	"company-registry/internal/auth"
	autherrors "company-registry/internal/auth/errors"
	"company-registry/internal/shared/config"

	"golang.org/x/crypto/bcrypt"
)

const flagToken = "local-admin"

// FlagAuthenticator keeps the admin session as a "true" flag in the
// adminLoggedIn slot. There is one session per slot store, so it only suits
// single-user front-ends such as the CLI.
type FlagAuthenticator struct {
	cfg   config.Admin
	slots SlotStore
}

func NewFlagAuthenticator(cfg config.Admin, slots SlotStore) *FlagAuthenticator {
	return &FlagAuthenticator{cfg: cfg, slots: slots}
}

func (a *FlagAuthenticator) Login(ctx context.Context, username, password string) (string, error) {
	if username != a.cfg.Username || a.cfg.PasswordHash == "" {
		return "", autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.cfg.PasswordHash), []byte(password)); err != nil {
		return "", autherrors.ErrInvalidCredentials
	}
	if err := a.slots.Set(ctx, SlotAdminLoggedIn, []byte("true")); err != nil {
		return "", err
	}
	return flagToken, nil
}

// Authenticate ignores the token and reads the flag.
func (a *FlagAuthenticator) Authenticate(ctx context.Context, _ string) (auth.Principal, error) {
	v, ok, err := a.slots.Get(ctx, SlotAdminLoggedIn)
	if err != nil {
		return auth.Principal{}, err
	}
	if !ok || string(v) != "true" {
		return auth.Principal{}, autherrors.ErrUnauthorized
	}
	return auth.Principal{Username: a.cfg.Username, Role: auth.RoleAdmin}, nil
}

func (a *FlagAuthenticator) Logout(ctx context.Context, _ string) error {
	return a.slots.Delete(ctx, SlotAdminLoggedIn)
}
