package sqlite

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kikundi/chama/internal/api/domain"
)

type contributionsRepo struct {
	q sqlx.ExtContext
}

func (r *contributionsRepo) CreateContribution(ctx context.Context, c domain.Contribution) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO contributions (id, group_id, user_id, amount, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.GroupID, c.UserID, c.Amount, c.Note, c.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *contributionsRepo) ListGroupContributions(ctx context.Context, groupID string) ([]domain.Contribution, error) {
	out := []domain.Contribution{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT c.id, c.group_id, c.user_id, u.username, c.amount, c.note, c.created_at
		FROM contributions c JOIN users u ON u.id = c.user_id
		WHERE c.group_id = ?
		ORDER BY c.id DESC`, groupID)
	return out, err
}

type loansRepo struct {
	q sqlx.ExtContext
}

const selectLoan = `
	SELECT l.id, l.group_id, l.user_id, u.username, l.amount, l.purpose, l.status,
	       l.decided_by, l.decided_at, l.repaid_at, l.created_at
	FROM loans l JOIN users u ON u.id = l.user_id`

func (r *loansRepo) CreateLoan(ctx context.Context, l domain.Loan) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO loans (id, group_id, user_id, amount, purpose, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.GroupID, l.UserID, l.Amount, l.Purpose, l.Status, l.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *loansRepo) GetLoan(ctx context.Context, id string) (domain.Loan, error) {
	var l domain.Loan
	err := sqlx.GetContext(ctx, r.q, &l, selectLoan+` WHERE l.id = ?`, id)
	return l, mapNotFound(err)
}

func (r *loansRepo) ListUserLoans(ctx context.Context, userID string) ([]domain.Loan, error) {
	out := []domain.Loan{}
	err := sqlx.SelectContext(ctx, r.q, &out, selectLoan+` WHERE l.user_id = ? ORDER BY l.id DESC`, userID)
	return out, err
}

func (r *loansRepo) ListLoans(ctx context.Context, status string) ([]domain.Loan, error) {
	out := []domain.Loan{}
	var err error
	if status == "" {
		err = sqlx.SelectContext(ctx, r.q, &out, selectLoan+` ORDER BY l.id DESC`)
	} else {
		err = sqlx.SelectContext(ctx, r.q, &out, selectLoan+` WHERE l.status = ? ORDER BY l.id DESC`, status)
	}
	return out, err
}

func (r *loansRepo) DecideLoan(ctx context.Context, id, status, decidedBy string, at time.Time) error {
	return requireOne(r.q.ExecContext(ctx, `
		UPDATE loans SET status = ?, decided_by = ?, decided_at = ?
		WHERE id = ? AND status = 'pending'`,
		status, decidedBy, at.UTC(), id,
	))
}

func (r *loansRepo) MarkLoanRepaid(ctx context.Context, id string, at time.Time) error {
	return requireOne(r.q.ExecContext(ctx,
		`UPDATE loans SET status = 'repaid', repaid_at = ? WHERE id = ? AND status = 'approved'`,
		at.UTC(), id,
	))
}

type investmentsRepo struct {
	q sqlx.ExtContext
}

func (r *investmentsRepo) CreateInvestment(ctx context.Context, i domain.Investment) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO investments (id, group_id, name, amount, expected_return, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.GroupID, i.Name, i.Amount, i.ExpectedReturn, i.CreatedBy, i.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *investmentsRepo) ListGroupInvestments(ctx context.Context, groupID string) ([]domain.Investment, error) {
	out := []domain.Investment{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT id, group_id, name, amount, expected_return, created_by, created_at
		FROM investments WHERE group_id = ?
		ORDER BY id DESC`, groupID)
	return out, err
}
