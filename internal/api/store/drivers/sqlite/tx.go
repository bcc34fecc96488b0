package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/kikundi/chama/internal/api/store"
)

type txStore struct {
	tx *sqlx.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Close is a no-op; the caller commits or rolls back and the DB stays open.
func (t *txStore) Close() error { return nil }

// Ping is a no-op, the transaction already holds a live connection.
func (t *txStore) Ping(ctx context.Context) error {
	return nil
}

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone
}

func (t *txStore) Users() store.Users                 { return &usersRepo{q: t.tx} }
func (t *txStore) RefreshTokens() store.RefreshTokens { return &refreshTokensRepo{q: t.tx} }
func (t *txStore) Groups() store.Groups               { return &groupsRepo{q: t.tx} }
func (t *txStore) Members() store.Members             { return &membersRepo{q: t.tx} }
func (t *txStore) Contributions() store.Contributions { return &contributionsRepo{q: t.tx} }
func (t *txStore) Loans() store.Loans                 { return &loansRepo{q: t.tx} }
func (t *txStore) Investments() store.Investments     { return &investmentsRepo{q: t.tx} }

// ApplyMigrations is a no-op; migrations run on the root store at startup.
func (t *txStore) ApplyMigrations() error { return nil }
