package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/cryptox"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/kikundi/chama/pkg/slogx"
)

var ErrBootstrapIncomplete = errors.New("admin username and password must both be set")

type BootstrapService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
}

// EnsureAdmin makes sure a staff account named username exists. An existing
// account is promoted and keeps its password; a missing one is created with
// password. It reports whether an account was created.
func (s *BootstrapService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	l := slogx.FromContext(ctx)

	if username == "" || password == "" {
		return false, ErrBootstrapIncomplete
	}

	existing, err := s.Store.Users().GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.IsStaff {
			return false, nil
		}
		if err := s.Store.Users().SetStaff(ctx, existing.ID, true); err != nil {
			return false, err
		}
		l.Info("promoted existing user to staff", slog.String("user_id", existing.ID))
		return false, nil
	case !errors.Is(err, store.ErrNotFound):
		return false, err
	}

	if err := validateRegistration(RegisterInput{Username: username, Password: password}); err != nil {
		return false, err
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return false, err
	}

	now := time.Now().UTC()
	admin := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsStaff:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, admin); err != nil {
		return false, err
	}

	l.Info("created staff account", slog.String("user_id", admin.ID), slog.String("username", username))
	return true, nil
}
