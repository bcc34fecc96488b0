package chamasdk

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// GroupStats summarises a group's contributions.
type GroupStats struct {
	GroupID      string
	Total        int64
	Count        int
	Contributors int
	Target       int64
	ProgressPct  float64 // 0-100, one decimal place
	LastPaidAt   time.Time
}

// SummarizeGroup totals contributions towards the group's target. Progress is
// 0 for groups without a target and never exceeds 100.
func SummarizeGroup(group Group, contributions []Contribution) GroupStats {
	stats := GroupStats{GroupID: group.ID, Target: group.TargetAmount}

	contributors := make(map[string]struct{})
	for _, c := range contributions {
		if c.GroupID != "" && c.GroupID != group.ID {
			continue
		}
		stats.Total += c.Amount
		stats.Count++
		contributors[c.UserID] = struct{}{}
		if c.CreatedAt.After(stats.LastPaidAt) {
			stats.LastPaidAt = c.CreatedAt
		}
	}
	stats.Contributors = len(contributors)
	stats.ProgressPct = progress(stats.Total, stats.Target)

	return stats
}

func progress(total, target int64) float64 {
	if target <= 0 || total <= 0 {
		return 0
	}
	pct := float64(total) / float64(target) * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}

// LoanStats summarises a set of loans.
type LoanStats struct {
	Outstanding int64 // approved and not yet repaid
	Pending     int
	Repaid      int
	Rejected    int
}

// SummarizeLoans counts loans by status and totals what is still owed.
func SummarizeLoans(loans []Loan) LoanStats {
	var stats LoanStats
	for _, l := range loans {
		switch l.Status {
		case LoanApproved:
			stats.Outstanding += l.Amount
		case LoanPending:
			stats.Pending++
		case LoanRepaid:
			stats.Repaid++
		case LoanRejected:
			stats.Rejected++
		}
	}
	return stats
}

// Dashboard is the signed-in user's overview.
type Dashboard struct {
	User   User
	Groups []GroupStats
	Loans  LoanStats
}

// Dashboard fetches the user, their groups with contribution totals and
// their loans. Group contributions are fetched concurrently.
func (s *Session) Dashboard(ctx context.Context) (*Dashboard, error) {
	user, err := s.Me(ctx)
	if err != nil {
		return nil, err
	}

	groups, err := s.ListGroups(ctx)
	if err != nil {
		return nil, err
	}

	dash := &Dashboard{User: *user, Groups: make([]GroupStats, len(groups))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, group := range groups {
		g.Go(func() error {
			contributions, err := s.ListContributions(gctx, group.ID)
			if err != nil {
				return err
			}
			dash.Groups[i] = SummarizeGroup(group, contributions)
			return nil
		})
	}
	g.Go(func() error {
		loans, err := s.ListLoans(gctx)
		if err != nil {
			return err
		}
		dash.Loans = SummarizeLoans(loans)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return dash, nil
}
