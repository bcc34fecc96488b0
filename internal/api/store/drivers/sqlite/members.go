package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kikundi/chama/internal/api/domain"
)

type membersRepo struct {
	q sqlx.ExtContext
}

const selectMember = `
	SELECT m.group_id, m.user_id, u.username, m.role, m.joined_at
	FROM memberships m JOIN users u ON u.id = m.user_id`

func (r *membersRepo) AddMember(ctx context.Context, m domain.Membership) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO memberships (group_id, user_id, role, joined_at) VALUES (?, ?, ?, ?)`,
		m.GroupID, m.UserID, m.Role, m.JoinedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *membersRepo) GetMember(ctx context.Context, groupID, userID string) (domain.Membership, error) {
	var m domain.Membership
	err := sqlx.GetContext(ctx, r.q, &m, selectMember+` WHERE m.group_id = ? AND m.user_id = ?`, groupID, userID)
	return m, mapNotFound(err)
}

func (r *membersRepo) ListMembers(ctx context.Context, groupID string) ([]domain.Membership, error) {
	members := []domain.Membership{}
	err := sqlx.SelectContext(ctx, r.q, &members, selectMember+` WHERE m.group_id = ? ORDER BY m.joined_at, u.username`, groupID)
	return members, err
}
