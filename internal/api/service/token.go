package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/pkg/cryptox"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/kikundi/chama/pkg/slogx"
)

type TokenService struct {
	KeyManager *jwtx.KeyManager
	Store      store.Store
	Hasher     *cryptox.PasswordHasher
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RotateRefresh revokes the presented refresh token on every exchange
	// and hands out a new one with the access token.
	RotateRefresh bool
}

// Login checks a username and password and issues a new token pair.
func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	var v validator
	v.required("username", username)
	v.required("password", password)
	if err := v.err(); err != nil {
		return nil, err
	}

	u, err := s.Store.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := s.Hasher.Verify(password, u.PasswordHash); err != nil {
		l.Info("login rejected", slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	var pair *domain.TokenPair
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		pair, err = s.issuePair(ctx, tx, u, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	l.Info("login succeeded", slog.String("user_id", u.ID))
	return pair, nil
}

// Refresh exchanges a refresh token for a new access token. With rotation
// on, the old refresh token is revoked and the pair carries a new one;
// otherwise Refresh is empty.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	if strings.TrimSpace(refreshOpaque) == "" {
		return nil, fieldError("refresh", msgRequired)
	}

	now := time.Now()
	fp := cryptox.FingerprintToken(refreshOpaque)

	if !s.RotateRefresh {
		rt, err := s.usableRefresh(ctx, s.Store, fp, now)
		if err != nil {
			return nil, err
		}
		u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			return nil, err
		}
		access, err := s.signAccess(u, now)
		if err != nil {
			return nil, err
		}
		return &domain.TokenPair{Access: access}, nil
	}

	// Revoke the old token and create the new one atomically so a token
	// can never be exchanged twice.
	var pair *domain.TokenPair
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rt, err := s.usableRefresh(ctx, tx, fp, now)
		if err != nil {
			return err
		}
		u, err := tx.Users().GetUserByID(ctx, rt.UserID)
		if err != nil {
			return err
		}
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		pair, err = s.issuePair(ctx, tx, u, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	slogx.FromContext(ctx).Debug("refresh token rotated")
	return pair, nil
}

// Blacklist revokes a refresh token. Unknown tokens are rejected.
func (s *TokenService) Blacklist(ctx context.Context, refreshOpaque string) error {
	if strings.TrimSpace(refreshOpaque) == "" {
		return fieldError("refresh", msgRequired)
	}

	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshOpaque))
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidRefresh
	}
	return err
}

func (s *TokenService) usableRefresh(ctx context.Context, st store.Store, fp string, now time.Time) (domain.RefreshToken, error) {
	rt, err := st.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.RefreshToken{}, ErrInvalidRefresh
		}
		return domain.RefreshToken{}, err
	}
	if !rt.Usable(now) {
		return domain.RefreshToken{}, ErrInvalidRefresh
	}
	return rt, nil
}

// issuePair signs an access token and stores a fresh refresh token for u.
func (s *TokenService) issuePair(ctx context.Context, st store.Store, u domain.User, now time.Time) (*domain.TokenPair, error) {
	access, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := st.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{Access: access, Refresh: refreshOpaque}, nil
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Username, u.IsStaff, s.AccessTTL, s.Issuer, now)
	return s.KeyManager.Sign(claims)
}
