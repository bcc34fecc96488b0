package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/kikundi/chama/pkg/slogx"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 32
	minPasswordLen = 8
	maxPasswordLen = 128
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type UserService struct {
	Store  store.Store
	Tokens *TokenService
}

// Register creates a member account and signs it in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (domain.User, *domain.TokenPair, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateRegistration(in); err != nil {
		return domain.User{}, nil, err
	}

	hash, err := s.Tokens.Hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, nil, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fieldError("username", msgDuplicateUser)
			}
			return err
		}
		pair, err = s.Tokens.issuePair(ctx, tx, u, now)
		return err
	})
	if err != nil {
		return domain.User{}, nil, err
	}

	slogx.FromContext(ctx).Info("member registered", slog.String("user_id", u.ID))
	return u, pair, nil
}

func validateRegistration(in RegisterInput) error {
	var v validator

	switch n := len(in.Username); {
	case n == 0:
		v.add("username", msgRequired)
	case n < minUsernameLen:
		v.add("username", "Ensure this field has at least 3 characters.")
	case n > maxUsernameLen:
		v.maxLen("username", in.Username, maxUsernameLen)
	case !usernamePattern.MatchString(in.Username):
		v.add("username", "Enter a valid username. This value may contain only letters, numbers, and _ or - characters.")
	}

	switch n := len(in.Password); {
	case n == 0:
		v.add("password", msgRequired)
	case n < minPasswordLen:
		v.add("password", "This password is too short. It must contain at least 8 characters.")
	case n > maxPasswordLen:
		v.maxLen("password", in.Password, maxPasswordLen)
	}

	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			v.add("email", "Enter a valid email address.")
		}
	}

	return v.err()
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrNotFound
	}
	return u, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}
