package chamasdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummarizeGroup(t *testing.T) {
	t.Parallel()

	march := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	group := Group{ID: "g1", TargetAmount: 300_000}

	t.Run("totals and progress", func(t *testing.T) {
		stats := SummarizeGroup(group, []Contribution{
			{ID: "c1", GroupID: "g1", UserID: "u1", Amount: 50_000, CreatedAt: march},
			{ID: "c2", GroupID: "g1", UserID: "u2", Amount: 50_000, CreatedAt: march.AddDate(0, 1, 0)},
			{ID: "c3", GroupID: "g1", UserID: "u1", Amount: 25_000, CreatedAt: march.AddDate(0, 0, 7)},
		})

		require.Equal(t, int64(125_000), stats.Total)
		require.Equal(t, 3, stats.Count)
		require.Equal(t, 2, stats.Contributors)
		require.InDelta(t, 41.7, stats.ProgressPct, 0.001)
		require.Equal(t, march.AddDate(0, 1, 0), stats.LastPaidAt)
	})

	t.Run("progress is capped", func(t *testing.T) {
		stats := SummarizeGroup(group, []Contribution{{GroupID: "g1", UserID: "u1", Amount: 400_000}})
		require.InDelta(t, 100.0, stats.ProgressPct, 0.001)
	})

	t.Run("no target", func(t *testing.T) {
		stats := SummarizeGroup(Group{ID: "g2"}, []Contribution{{GroupID: "g2", UserID: "u1", Amount: 1}})
		require.Zero(t, stats.ProgressPct)
	})

	t.Run("ignores other groups", func(t *testing.T) {
		stats := SummarizeGroup(group, []Contribution{
			{GroupID: "g1", UserID: "u1", Amount: 10},
			{GroupID: "g9", UserID: "u1", Amount: 99},
		})
		require.Equal(t, int64(10), stats.Total)
		require.Equal(t, 1, stats.Count)
	})

	t.Run("empty", func(t *testing.T) {
		stats := SummarizeGroup(group, nil)
		require.Zero(t, stats.Total)
		require.Zero(t, stats.Contributors)
		require.True(t, stats.LastPaidAt.IsZero())
	})
}

func TestSummarizeLoans(t *testing.T) {
	t.Parallel()

	stats := SummarizeLoans([]Loan{
		{Amount: 10_000, Status: LoanApproved},
		{Amount: 5_000, Status: LoanApproved},
		{Amount: 7_000, Status: LoanPending},
		{Amount: 3_000, Status: LoanRepaid},
		{Amount: 1_000, Status: LoanRejected},
	})

	require.Equal(t, LoanStats{Outstanding: 15_000, Pending: 1, Repaid: 1, Rejected: 1}, stats)
}
