package chama_test

import (
	"testing"

	"github.com/kikundi/chama/pkg/chamasdk"
	"github.com/stretchr/testify/require"
)

// TestGroupLifecycle walks two members and the treasurer through a full
// savings cycle: contribute, borrow, approve, invest and repay.
func TestGroupLifecycle(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	ctx := t.Context()
	client := chamasdk.NewSDKClient(baseURL)

	chair := registerMember(t, client, "chair")
	member := registerMember(t, client, "member")
	treasurer := loginAdmin(t, client)

	group, err := chair.CreateGroup(ctx, chamasdk.CreateGroupRequest{
		Name:         "Harambee Savers",
		TargetAmount: 500_000,
	})
	require.NoError(t, err)

	_, err = member.JoinGroup(ctx, group.ID)
	require.NoError(t, err)

	for _, s := range []*chamasdk.Session{chair, member} {
		_, err := s.CreateContribution(ctx, chamasdk.CreateContributionRequest{GroupID: group.ID, Amount: 100_000})
		require.NoError(t, err)
	}

	loan, err := member.ApplyLoan(ctx, chamasdk.ApplyLoanRequest{GroupID: group.ID, Amount: 50_000, Purpose: "school fees"})
	require.NoError(t, err)

	_, err = member.DecideLoan(ctx, loan.ID, chamasdk.LoanApproved)
	assertKind(t, err, chamasdk.ErrForbidden, "member deciding a loan")

	loan, err = treasurer.DecideLoan(ctx, loan.ID, chamasdk.LoanApproved)
	require.NoError(t, err)
	require.Equal(t, chamasdk.LoanApproved, loan.Status)

	_, err = member.CreateInvestment(ctx, chamasdk.CreateInvestmentRequest{GroupID: group.ID, Name: "Bond", Amount: 10_000})
	assertKind(t, err, chamasdk.ErrForbidden, "non-admin investing")

	_, err = chair.CreateInvestment(ctx, chamasdk.CreateInvestmentRequest{GroupID: group.ID, Name: "Bond", Amount: 150_000})
	require.NoError(t, err)

	_, err = chair.CreateInvestment(ctx, chamasdk.CreateInvestmentRequest{GroupID: group.ID, Name: "Overdraw", Amount: 1})
	assertKind(t, err, chamasdk.ErrValidation, "investing more than the pool holds")

	dash, err := member.Dashboard(ctx)
	require.NoError(t, err)
	require.Len(t, dash.Groups, 1)
	require.Equal(t, int64(200_000), dash.Groups[0].Total)
	require.InDelta(t, 40.0, dash.Groups[0].ProgressPct, 0.01)
	require.Equal(t, int64(50_000), dash.Loans.Outstanding)

	loan, err = member.RepayLoan(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, chamasdk.LoanRepaid, loan.Status)
}

func TestOutsidersAreKeptOut(t *testing.T) {
	baseURL, cleanup := setupChamaContainer(t, nil)
	defer cleanup()

	ctx := t.Context()
	client := chamasdk.NewSDKClient(baseURL)

	owner := registerMember(t, client, "owner")
	outsider := registerMember(t, client, "outsider")

	group, err := owner.CreateGroup(ctx, chamasdk.CreateGroupRequest{Name: "Private"})
	require.NoError(t, err)

	_, err = outsider.ListContributions(ctx, group.ID)
	assertKind(t, err, chamasdk.ErrForbidden, "outsider reading contributions")

	_, err = outsider.GetGroup(ctx, "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	assertKind(t, err, chamasdk.ErrNotFound, "unknown group")

	_, err = outsider.AdminListUsers(ctx)
	assertKind(t, err, chamasdk.ErrForbidden, "member on admin route")
}
