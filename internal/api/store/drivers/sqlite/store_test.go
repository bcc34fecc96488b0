package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/internal/api/store"
	"github.com/kikundi/chama/internal/api/store/drivers/sqlite"
	"github.com/kikundi/chama/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedUser(t *testing.T, s store.Store, username string) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedGroup(t *testing.T, s store.Store, name string, owner domain.User) domain.Group {
	t.Helper()
	ctx := context.Background()

	g := domain.Group{
		ID:           idx.New().String(),
		Name:         name,
		TargetAmount: 100_000,
		CreatedBy:    owner.ID,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.Groups().CreateGroup(ctx, g))
	require.NoError(t, s.Members().AddMember(ctx, domain.Membership{
		GroupID: g.ID, UserID: owner.ID, Role: domain.RoleAdmin, JoinedAt: time.Now().UTC(),
	}))
	return g
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	alice := seedUser(t, s, "alice")

	t.Run("lookup is case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByUsername(ctx, "ALICE")
		require.NoError(t, err)
		require.Equal(t, alice.ID, got.ID)
		require.False(t, got.IsStaff)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := alice
		dup.ID = idx.New().String()
		dup.Username = "Alice"
		require.ErrorIs(t, s.Users().CreateUser(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("set staff", func(t *testing.T) {
		require.NoError(t, s.Users().SetStaff(ctx, alice.ID, true))
		got, err := s.Users().GetUserByID(ctx, alice.ID)
		require.NoError(t, err)
		require.True(t, got.IsStaff)

		require.ErrorIs(t, s.Users().SetStaff(ctx, "missing", true), store.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		seedUser(t, s, "bob")
		users, err := s.Users().ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		require.Equal(t, "alice", users[0].Username)
	})
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	now := time.Now().UTC()

	live := domain.RefreshToken{ID: idx.New().String(), UserID: alice.ID, TokenHash: "live", ExpiresAt: now.Add(time.Hour)}
	expired := domain.RefreshToken{ID: idx.New().String(), UserID: alice.ID, TokenHash: "expired", ExpiresAt: now.Add(-time.Hour)}
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, live))
	require.NoError(t, s.RefreshTokens().CreateRefreshToken(ctx, expired))

	got, err := s.RefreshTokens().GetRefreshTokenByHash(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, live.ID, got.ID)
	require.True(t, got.Usable(now))

	require.ErrorIs(t, s.RefreshTokens().RevokeRefreshToken(ctx, "unknown"), store.ErrNotFound)

	n, err := s.RefreshTokens().DeleteStaleRefreshTokens(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	_, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "expired")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.RefreshTokens().RevokeAllUserRefreshTokens(ctx, alice.ID))
	got, err = s.RefreshTokens().GetRefreshTokenByHash(ctx, "live")
	require.NoError(t, err)
	require.True(t, got.Revoked)
	require.False(t, got.Usable(now))
}

func TestGroupsAndMembers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	bob := seedUser(t, s, "bob")

	g := seedGroup(t, s, "Umoja", alice)

	t.Run("duplicate name", func(t *testing.T) {
		dup := g
		dup.ID = idx.New().String()
		dup.Name = "umoja"
		require.ErrorIs(t, s.Groups().CreateGroup(ctx, dup), store.ErrAlreadyExists)
	})

	t.Run("join and count", func(t *testing.T) {
		require.NoError(t, s.Members().AddMember(ctx, domain.Membership{
			GroupID: g.ID, UserID: bob.ID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
		}))

		got, err := s.Groups().GetGroup(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.MemberCount)
		require.Equal(t, int64(100_000), got.TargetAmount)

		members, err := s.Members().ListMembers(ctx, g.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		require.Equal(t, "alice", members[0].Username)
		require.Equal(t, domain.RoleAdmin, members[0].Role)
	})

	t.Run("double join", func(t *testing.T) {
		err := s.Members().AddMember(ctx, domain.Membership{
			GroupID: g.ID, UserID: bob.ID, Role: domain.RoleMember, JoinedAt: time.Now().UTC(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("non member", func(t *testing.T) {
		carol := seedUser(t, s, "carol")
		_, err := s.Members().GetMember(ctx, g.ID, carol.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unknown group", func(t *testing.T) {
		_, err := s.Groups().GetGroup(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("list", func(t *testing.T) {
		seedGroup(t, s, "Amani", bob)
		groups, err := s.Groups().ListGroups(ctx)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		require.Equal(t, "Amani", groups[0].Name)
		require.Equal(t, 1, groups[0].MemberCount)

		mine, err := s.Groups().ListMemberGroups(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)
		require.Equal(t, "Umoja", mine[0].Name)
	})
}

func TestBalanceAndLoans(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	alice := seedUser(t, s, "alice")
	g := seedGroup(t, s, "Umoja", alice)
	now := time.Now().UTC()

	require.NoError(t, s.Contributions().CreateContribution(ctx, domain.Contribution{
		ID: idx.New().String(), GroupID: g.ID, UserID: alice.ID, Amount: 50_000, CreatedAt: now,
	}))
	require.NoError(t, s.Contributions().CreateContribution(ctx, domain.Contribution{
		ID: idx.New().String(), GroupID: g.ID, UserID: alice.ID, Amount: 20_000, Note: "march", CreatedAt: now,
	}))
	require.NoError(t, s.Investments().CreateInvestment(ctx, domain.Investment{
		ID: idx.New().String(), GroupID: g.ID, Name: "T-bills", Amount: 10_000, ExpectedReturn: 11_000,
		CreatedBy: alice.ID, CreatedAt: now,
	}))

	loan := domain.Loan{
		ID: idx.New().String(), GroupID: g.ID, UserID: alice.ID, Amount: 15_000,
		Purpose: "school fees", Status: domain.LoanPending, CreatedAt: now,
	}
	require.NoError(t, s.Loans().CreateLoan(ctx, loan))

	// Pending loans do not count against the pool.
	b, err := s.Groups().GetBalance(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, domain.Balance{Contributed: 70_000, Invested: 10_000}, b)

	require.ErrorIs(t, s.Loans().MarkLoanRepaid(ctx, loan.ID, now), store.ErrNotFound)

	require.NoError(t, s.Loans().DecideLoan(ctx, loan.ID, domain.LoanApproved, alice.ID, now))
	require.ErrorIs(t, s.Loans().DecideLoan(ctx, loan.ID, domain.LoanRejected, alice.ID, now), store.ErrNotFound)

	got, err := s.Loans().GetLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LoanApproved, got.Status)
	require.Equal(t, "alice", got.Username)
	require.NotNil(t, got.DecidedBy)
	require.Equal(t, alice.ID, *got.DecidedBy)
	require.NotNil(t, got.DecidedAt)
	require.Nil(t, got.RepaidAt)

	b, err = s.Groups().GetBalance(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, int64(45_000), b.Available())

	require.NoError(t, s.Loans().MarkLoanRepaid(ctx, loan.ID, now))
	b, err = s.Groups().GetBalance(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, int64(60_000), b.Available())

	approved, err := s.Loans().ListLoans(ctx, domain.LoanApproved)
	require.NoError(t, err)
	require.Empty(t, approved)

	all, err := s.Loans().ListLoans(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 1)

	mine, err := s.Loans().ListUserLoans(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, domain.LoanRepaid, mine[0].Status)

	contributions, err := s.Contributions().ListGroupContributions(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, contributions, 2)
	require.Equal(t, "march", contributions[0].Note)

	investments, err := s.Investments().ListGroupInvestments(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, investments, 1)
	require.Equal(t, int64(11_000), investments[0].ExpectedReturn)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	t.Run("rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			seedUser(t, tx, "ghost")
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Users().GetUserByUsername(ctx, "ghost")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commits on success", func(t *testing.T) {
		require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
			seedUser(t, tx, "real")
			return nil
		}))

		_, err := s.Users().GetUserByUsername(ctx, "real")
		require.NoError(t, err)
	})

	t.Run("nested transactions are refused", func(t *testing.T) {
		require.NoError(t, s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Tx(ctx)
			require.Error(t, err)
			return nil
		}))
	})
}

func TestForeignKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	err := s.Contributions().CreateContribution(ctx, domain.Contribution{
		ID: idx.New().String(), GroupID: "missing", UserID: "missing", Amount: 1, CreatedAt: time.Now(),
	})
	require.Error(t, err)
}
