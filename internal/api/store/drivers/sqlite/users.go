package sqlite

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/kikundi/chama/internal/api/domain"
)

type usersRepo struct {
	q sqlx.ExtContext
}

const userColumns = `id, username, email, password_hash, is_staff, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return u, mapNotFound(err)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, r.q, &u, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return u, mapNotFound(err)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, is_staff, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.IsStaff, u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	users := []domain.User{}
	err := sqlx.SelectContext(ctx, r.q, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, err
}

func (r *usersRepo) SetStaff(ctx context.Context, userID string, staff bool) error {
	return requireOne(r.q.ExecContext(ctx,
		`UPDATE users SET is_staff = ?, updated_at = ? WHERE id = ?`,
		staff, nowUTC(), userID,
	))
}
