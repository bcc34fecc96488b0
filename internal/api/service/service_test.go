package service

import (
	"context"
	"testing"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store/drivers/sqlite"
	"github.com/kikundi/chama/pkg/cryptox"
	"github.com/kikundi/chama/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://chama.test"

type testEnv struct {
	store         *sqlite.Store
	tokens        *TokenService
	users         *UserService
	groups        *GroupService
	contributions *ContributionService
	loans         *LoanService
	investments   *InvestmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: testIssuer})
	require.NoError(t, err)

	tokens := &TokenService{
		KeyManager:    km,
		Store:         st,
		Hasher:        cryptox.NewPasswordHasher("pepper"),
		Issuer:        testIssuer,
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
		RotateRefresh: true,
	}

	return &testEnv{
		store:         st,
		tokens:        tokens,
		users:         &UserService{Store: st, Tokens: tokens},
		groups:        &GroupService{Store: st},
		contributions: &ContributionService{Store: st},
		loans:         &LoanService{Store: st},
		investments:   &InvestmentService{Store: st},
	}
}

func (e *testEnv) register(t *testing.T, username string) domain.User {
	t.Helper()
	u, _, err := e.users.Register(context.Background(), RegisterInput{Username: username, Password: "correct-horse"})
	require.NoError(t, err)
	return u
}

func (e *testEnv) staff(t *testing.T, username string) domain.User {
	t.Helper()
	u := e.register(t, username)
	require.NoError(t, e.store.Users().SetStaff(context.Background(), u.ID, true))
	return u
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	require.Contains(t, ve.Fields, field, "fields: %v", ve.Fields)
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string][]string{
		"password": {"too short"},
		"amount":   {"bad", "worse"},
	}}
	require.Equal(t, "validation failed: amount: bad worse; password: too short", err.Error())
}
