package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kikundi/chama/internal/api/domain"
)

type groupsRepo struct {
	q sqlx.ExtContext
}

const selectGroup = `
	SELECT g.id, g.name, g.description, g.target_amount, g.created_by, g.created_at,
	       (SELECT COUNT(*) FROM memberships m WHERE m.group_id = g.id) AS member_count
	FROM chama_groups g`

func (r *groupsRepo) CreateGroup(ctx context.Context, g domain.Group) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO chama_groups (id, name, description, target_amount, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Description, g.TargetAmount, g.CreatedBy, g.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *groupsRepo) GetGroup(ctx context.Context, id string) (domain.Group, error) {
	var g domain.Group
	err := sqlx.GetContext(ctx, r.q, &g, selectGroup+` WHERE g.id = ?`, id)
	return g, mapNotFound(err)
}

func (r *groupsRepo) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups := []domain.Group{}
	err := sqlx.SelectContext(ctx, r.q, &groups, selectGroup+` ORDER BY g.name COLLATE NOCASE`)
	return groups, err
}

func (r *groupsRepo) ListMemberGroups(ctx context.Context, userID string) ([]domain.Group, error) {
	groups := []domain.Group{}
	err := sqlx.SelectContext(ctx, r.q, &groups, selectGroup+`
		WHERE g.id IN (SELECT group_id FROM memberships WHERE user_id = ?)
		ORDER BY g.name COLLATE NOCASE`, userID)
	return groups, err
}

func (r *groupsRepo) GetBalance(ctx context.Context, groupID string) (domain.Balance, error) {
	var b domain.Balance
	err := sqlx.GetContext(ctx, r.q, &b, `
		SELECT
			COALESCE((SELECT SUM(amount) FROM contributions WHERE group_id = ?), 0) AS contributed,
			COALESCE((SELECT SUM(amount) FROM loans WHERE group_id = ? AND status = 'approved'), 0) AS outstanding,
			COALESCE((SELECT SUM(amount) FROM investments WHERE group_id = ?), 0) AS invested`,
		groupID, groupID, groupID,
	)
	return b, err
}
