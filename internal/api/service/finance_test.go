package service

import (
	"context"
	"math"
	"testing"

	"github.com/kikundi/chama/internal/api/domain"
	"github.com/stretchr/testify/require"
)

func TestGroups(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	g, err := env.groups.CreateGroup(ctx, alice.ID, CreateGroupInput{Name: " Umoja ", TargetAmount: 500_000})
	require.NoError(t, err)
	require.Equal(t, "Umoja", g.Name)
	require.Equal(t, 1, g.MemberCount)

	t.Run("creator is admin", func(t *testing.T) {
		m, err := env.store.Members().GetMember(ctx, g.ID, alice.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, m.Role)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := env.groups.CreateGroup(ctx, alice.ID, CreateGroupInput{Name: "", TargetAmount: -1})
		requireFieldError(t, err, "name")
		requireFieldError(t, err, "target_amount")

		_, err = env.groups.CreateGroup(ctx, bob.ID, CreateGroupInput{Name: "umoja"})
		requireFieldError(t, err, "name")
	})

	t.Run("outsiders cannot read", func(t *testing.T) {
		_, err := env.groups.GetGroup(ctx, bob.ID, g.ID)
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.groups.Members(ctx, bob.ID, g.ID)
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.groups.GetGroup(ctx, bob.ID, "missing")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("list scopes", func(t *testing.T) {
		mine, err := env.groups.ListGroups(ctx, bob.ID, false)
		require.NoError(t, err)
		require.Empty(t, mine)

		all, err := env.groups.ListGroups(ctx, bob.ID, true)
		require.NoError(t, err)
		require.Len(t, all, 1)
	})

	t.Run("join", func(t *testing.T) {
		m, err := env.groups.Join(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, m.Role)
		require.Equal(t, "bob", m.Username)

		_, err = env.groups.Join(ctx, bob.ID, g.ID)
		requireFieldError(t, err, NonFieldErrors)

		_, err = env.groups.Join(ctx, bob.ID, "missing")
		require.ErrorIs(t, err, ErrNotFound)

		got, err := env.groups.GetGroup(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.MemberCount)

		members, err := env.groups.Members(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		require.Len(t, members, 2)
	})
}

// fundedGroup creates a group owned by admin with member joined and
// contributed pooled in.
func fundedGroup(t *testing.T, env *testEnv, admin, member domain.User, contributed int64) domain.Group {
	t.Helper()
	ctx := context.Background()

	g, err := env.groups.CreateGroup(ctx, admin.ID, CreateGroupInput{Name: "Harambee"})
	require.NoError(t, err)
	_, err = env.groups.Join(ctx, member.ID, g.ID)
	require.NoError(t, err)

	_, err = env.contributions.Create(ctx, member.ID, CreateContributionInput{GroupID: g.ID, Amount: contributed})
	require.NoError(t, err)
	return g
}

func TestContributions(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	carol := env.register(t, "carol")
	g := fundedGroup(t, env, alice, bob, 10_000)

	t.Run("records contributor", func(t *testing.T) {
		c, err := env.contributions.Create(ctx, alice.ID, CreateContributionInput{GroupID: g.ID, Amount: 2_500, Note: "april"})
		require.NoError(t, err)
		require.Equal(t, "alice", c.Username)

		list, err := env.contributions.List(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, c.ID, list[0].ID)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := env.contributions.Create(ctx, alice.ID, CreateContributionInput{GroupID: g.ID, Amount: 0})
		requireFieldError(t, err, "amount")

		_, err = env.contributions.Create(ctx, alice.ID, CreateContributionInput{Amount: 10})
		requireFieldError(t, err, "group")

		_, err = env.contributions.Create(ctx, alice.ID, CreateContributionInput{GroupID: "missing", Amount: 10})
		requireFieldError(t, err, "group")
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := env.contributions.Create(ctx, carol.ID, CreateContributionInput{GroupID: g.ID, Amount: 10})
		require.ErrorIs(t, err, ErrForbidden)

		_, err = env.contributions.List(ctx, carol.ID, g.ID)
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestLoanLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	staff := env.staff(t, "treasurer")
	g := fundedGroup(t, env, alice, bob, 10_000)

	loan, err := env.loans.Apply(ctx, bob.ID, ApplyLoanInput{GroupID: g.ID, Amount: 6_000, Purpose: "stock"})
	require.NoError(t, err)
	require.Equal(t, domain.LoanPending, loan.Status)

	t.Run("cannot repay pending", func(t *testing.T) {
		_, err := env.loans.Repay(ctx, bob.ID, loan.ID)
		requireFieldError(t, err, "status")
	})

	t.Run("invalid decision", func(t *testing.T) {
		_, err := env.loans.Decide(ctx, staff.ID, loan.ID, "maybe")
		requireFieldError(t, err, "status")

		_, err = env.loans.Decide(ctx, staff.ID, "missing", domain.LoanApproved)
		require.ErrorIs(t, err, ErrNotFound)
	})

	approved, err := env.loans.Decide(ctx, staff.ID, loan.ID, domain.LoanApproved)
	require.NoError(t, err)
	require.Equal(t, domain.LoanApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)

	t.Run("decided once", func(t *testing.T) {
		_, err := env.loans.Decide(ctx, staff.ID, loan.ID, domain.LoanRejected)
		requireFieldError(t, err, "status")
	})

	t.Run("approval needs funds", func(t *testing.T) {
		big, err := env.loans.Apply(ctx, alice.ID, ApplyLoanInput{GroupID: g.ID, Amount: 5_000, Purpose: "roof"})
		require.NoError(t, err)

		_, err = env.loans.Decide(ctx, staff.ID, big.ID, domain.LoanApproved)
		requireFieldError(t, err, "amount")

		rejected, err := env.loans.Decide(ctx, staff.ID, big.ID, domain.LoanRejected)
		require.NoError(t, err)
		require.Equal(t, domain.LoanRejected, rejected.Status)
	})

	t.Run("only the borrower repays", func(t *testing.T) {
		_, err := env.loans.Repay(ctx, alice.ID, loan.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	repaid, err := env.loans.Repay(ctx, bob.ID, loan.ID)
	require.NoError(t, err)
	require.Equal(t, domain.LoanRepaid, repaid.Status)
	require.NotNil(t, repaid.RepaidAt)

	t.Run("listing", func(t *testing.T) {
		mine, err := env.loans.ListMine(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, mine, 1)

		rejected, err := env.loans.List(ctx, domain.LoanRejected)
		require.NoError(t, err)
		require.Len(t, rejected, 1)

		_, err = env.loans.List(ctx, "bogus")
		requireFieldError(t, err, "status")
	})
}

func TestLoanApplyValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	carol := env.register(t, "carol")
	g, err := env.groups.CreateGroup(ctx, alice.ID, CreateGroupInput{Name: "Umoja"})
	require.NoError(t, err)

	_, err = env.loans.Apply(ctx, alice.ID, ApplyLoanInput{GroupID: g.ID, Amount: -5})
	requireFieldError(t, err, "amount")
	requireFieldError(t, err, "purpose")

	_, err = env.loans.Apply(ctx, carol.ID, ApplyLoanInput{GroupID: g.ID, Amount: 5, Purpose: "x"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestInvestments(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	g := fundedGroup(t, env, alice, bob, 10_000)

	t.Run("members cannot invest", func(t *testing.T) {
		_, err := env.investments.Create(ctx, bob.ID, CreateInvestmentInput{GroupID: g.ID, Name: "Bonds", Amount: 100})
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("bounded by balance", func(t *testing.T) {
		_, err := env.investments.Create(ctx, alice.ID, CreateInvestmentInput{GroupID: g.ID, Name: "Bonds", Amount: 10_001})
		requireFieldError(t, err, "amount")
	})

	t.Run("admin invests", func(t *testing.T) {
		inv, err := env.investments.Create(ctx, alice.ID, CreateInvestmentInput{
			GroupID: g.ID, Name: "Bonds", Amount: 8_000, ExpectedReturn: 8_800,
		})
		require.NoError(t, err)
		require.Equal(t, alice.ID, inv.CreatedBy)

		list, err := env.investments.List(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)

		b, err := env.store.Groups().GetBalance(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, int64(2_000), b.Available())
	})

	t.Run("validation", func(t *testing.T) {
		_, err := env.investments.Create(ctx, alice.ID, CreateInvestmentInput{GroupID: g.ID, ExpectedReturn: -1})
		requireFieldError(t, err, "name")
		requireFieldError(t, err, "amount")
		requireFieldError(t, err, "expected_return")
	})
}

func TestAmountCeiling(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	g := fundedGroup(t, env, alice, bob, 10_000)

	for _, amount := range []int64{math.MaxInt64, maxAmount + 1} {
		_, err := env.contributions.Create(ctx, bob.ID, CreateContributionInput{GroupID: g.ID, Amount: amount})
		requireFieldError(t, err, "amount")

		_, err = env.loans.Apply(ctx, bob.ID, ApplyLoanInput{GroupID: g.ID, Amount: amount, Purpose: "stock"})
		requireFieldError(t, err, "amount")

		_, err = env.investments.Create(ctx, alice.ID, CreateInvestmentInput{
			GroupID: g.ID, Name: "Bonds", Amount: 100, ExpectedReturn: amount,
		})
		requireFieldError(t, err, "expected_return")

		_, err = env.groups.CreateGroup(ctx, alice.ID, CreateGroupInput{Name: "Big", TargetAmount: amount})
		requireFieldError(t, err, "target_amount")
	}

	t.Run("ceiling itself is accepted", func(t *testing.T) {
		_, err := env.contributions.Create(ctx, bob.ID, CreateContributionInput{GroupID: g.ID, Amount: maxAmount})
		require.NoError(t, err)
		_, err = env.contributions.Create(ctx, bob.ID, CreateContributionInput{GroupID: g.ID, Amount: maxAmount})
		require.NoError(t, err)

		b, err := env.store.Groups().GetBalance(ctx, g.ID)
		require.NoError(t, err)
		require.Equal(t, 2*maxAmount+10_000, b.Available())
	})
}
