package http

import (
	"github.com/kikundi/chama/internal/api/domain"
	"github.com/kikundi/chama/pkg/chamasdk"
)

// mapAll converts a slice, always returning a non-nil one so empty lists
// encode as [] rather than null.
func mapAll[T, U any](in []T, f func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}

func toUser(u domain.User) chamasdk.User {
	return chamasdk.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsStaff:    u.IsStaff,
		DateJoined: u.CreatedAt,
	}
}

func toGroup(g domain.Group) chamasdk.Group {
	return chamasdk.Group{
		ID:           g.ID,
		Name:         g.Name,
		Description:  g.Description,
		TargetAmount: g.TargetAmount,
		CreatedBy:    g.CreatedBy,
		MemberCount:  g.MemberCount,
		CreatedAt:    g.CreatedAt,
	}
}

func toMember(m domain.Membership) chamasdk.Member {
	return chamasdk.Member{
		UserID:   m.UserID,
		Username: m.Username,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

func toContribution(c domain.Contribution) chamasdk.Contribution {
	return chamasdk.Contribution{
		ID:        c.ID,
		GroupID:   c.GroupID,
		UserID:    c.UserID,
		Username:  c.Username,
		Amount:    c.Amount,
		Note:      c.Note,
		CreatedAt: c.CreatedAt,
	}
}

func toLoan(l domain.Loan) chamasdk.Loan {
	return chamasdk.Loan{
		ID:        l.ID,
		GroupID:   l.GroupID,
		UserID:    l.UserID,
		Username:  l.Username,
		Amount:    l.Amount,
		Purpose:   l.Purpose,
		Status:    l.Status,
		DecidedAt: l.DecidedAt,
		RepaidAt:  l.RepaidAt,
		CreatedAt: l.CreatedAt,
	}
}

func toInvestment(i domain.Investment) chamasdk.Investment {
	return chamasdk.Investment{
		ID:             i.ID,
		GroupID:        i.GroupID,
		Name:           i.Name,
		Amount:         i.Amount,
		ExpectedReturn: i.ExpectedReturn,
		CreatedBy:      i.CreatedBy,
		CreatedAt:      i.CreatedAt,
	}
}
