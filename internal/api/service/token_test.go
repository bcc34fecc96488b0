package service

import (
	"context"
	"testing"
	"time"

	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	t.Run("signs the new member in", func(t *testing.T) {
		u, pair, err := env.users.Register(ctx, RegisterInput{Username: " wanjiku ", Email: "w@example.com", Password: "correct-horse"})
		require.NoError(t, err)
		require.Equal(t, "wanjiku", u.Username)
		require.False(t, u.IsStaff)
		require.NotEmpty(t, pair.Access)
		require.NotEmpty(t, pair.Refresh)

		claims, err := env.tokens.KeyManager.Verifier.Verify(pair.Access)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.UserID())
		require.Equal(t, "wanjiku", claims.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, _, err := env.users.Register(ctx, RegisterInput{Username: "WANJIKU", Password: "correct-horse"})
		requireFieldError(t, err, "username")
		require.Contains(t, err.Error(), "already exists")
	})

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"missing username", RegisterInput{Password: "correct-horse"}, "username"},
		{"short username", RegisterInput{Username: "ab", Password: "correct-horse"}, "username"},
		{"long username", RegisterInput{Username: "abcdefghijklmnopqrstuvwxyz0123456", Password: "correct-horse"}, "username"},
		{"bad characters", RegisterInput{Username: "we ird!", Password: "correct-horse"}, "username"},
		{"short password", RegisterInput{Username: "kamau", Password: "short"}, "password"},
		{"missing password", RegisterInput{Username: "kamau"}, "password"},
		{"bad email", RegisterInput{Username: "kamau", Email: "nope", Password: "correct-horse"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.users.Register(ctx, tt.in)
			requireFieldError(t, err, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "achieng")

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := env.tokens.Login(ctx, "Achieng", "correct-horse")
		require.NoError(t, err)
		require.NotEmpty(t, pair.Access)
		require.NotEmpty(t, pair.Refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := env.tokens.Login(ctx, "achieng", "wrong-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := env.tokens.Login(ctx, "nobody", "correct-horse")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := env.tokens.Login(ctx, "", "")
		requireFieldError(t, err, "username")
		requireFieldError(t, err, "password")
	})
}

func TestRefreshWithRotation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "otieno")

	first, err := env.tokens.Login(ctx, "otieno", "correct-horse")
	require.NoError(t, err)

	second, err := env.tokens.Refresh(ctx, first.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, second.Access)
	require.NotEmpty(t, second.Refresh)
	require.NotEqual(t, first.Refresh, second.Refresh)

	// The rotated-out token cannot be replayed.
	_, err = env.tokens.Refresh(ctx, first.Refresh)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = env.tokens.Refresh(ctx, second.Refresh)
	require.NoError(t, err)
}

func TestRefreshWithoutRotation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.tokens.RotateRefresh = false
	env.register(t, "njeri")

	pair, err := env.tokens.Login(ctx, "njeri", "correct-horse")
	require.NoError(t, err)

	for range 3 {
		next, err := env.tokens.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)
		require.NotEmpty(t, next.Access)
		require.Empty(t, next.Refresh)
	}
}

func TestRefreshRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.register(t, "mwangi")

	t.Run("empty token", func(t *testing.T) {
		_, err := env.tokens.Refresh(ctx, "  ")
		requireFieldError(t, err, "refresh")
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := env.tokens.Refresh(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("expired token", func(t *testing.T) {
		env.tokens.RefreshTTL = -time.Minute
		t.Cleanup(func() { env.tokens.RefreshTTL = time.Hour })

		pair, err := env.tokens.Login(ctx, "mwangi", "correct-horse")
		require.NoError(t, err)

		_, err = env.tokens.Refresh(ctx, pair.Refresh)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})

	t.Run("blacklisted token", func(t *testing.T) {
		pair, err := env.tokens.Login(ctx, "mwangi", "correct-horse")
		require.NoError(t, err)

		require.NoError(t, env.tokens.Blacklist(ctx, pair.Refresh))
		_, err = env.tokens.Refresh(ctx, pair.Refresh)
		require.ErrorIs(t, err, ErrInvalidRefresh)
	})
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	require.ErrorIs(t, env.tokens.Blacklist(ctx, "unknown"), ErrInvalidRefresh)
	requireFieldError(t, env.tokens.Blacklist(ctx, ""), "refresh")
}

func TestAccessTokenCarriesStaffFlag(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.staff(t, "admin")

	pair, err := env.tokens.Login(ctx, "admin", "correct-horse")
	require.NoError(t, err)

	claims, err := env.tokens.KeyManager.Verifier.Verify(pair.Access)
	require.NoError(t, err)
	require.True(t, claims.IsStaff)
	require.Equal(t, jwtx.TokenTypeAccess, claims.TokenType)
	require.Equal(t, testIssuer, claims.Issuer)
}
