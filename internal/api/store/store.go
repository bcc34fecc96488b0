package store

import (
	"context"
	"errors"
	"time"

	"github.com/kikundi/chama/internal/api/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose sub-repositories so a transaction can only be started from the root.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	Groups() Groups
	Members() Members
	Contributions() Contributions
	Loans() Loans
	Investments() Investments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername matches case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// ListUsers returns every account, oldest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// SetStaff grants or removes the admin panel.
	SetStaff(ctx context.Context, userID string, staff bool) error
}

type RefreshTokens interface {
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token by its fingerprint, revoked
	// or not.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked and bumps updated_at. Revoking an
	// unknown hash returns ErrNotFound.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens logs a user out everywhere.
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteStaleRefreshTokens removes tokens that expired or were revoked
	// before cutoff and reports how many were removed.
	DeleteStaleRefreshTokens(ctx context.Context, cutoff time.Time) (int64, error)
}

type Groups interface {
	// CreateGroup returns ErrAlreadyExists when the name is taken.
	CreateGroup(ctx context.Context, g domain.Group) error
	GetGroup(ctx context.Context, id string) (domain.Group, error)
	ListGroups(ctx context.Context) ([]domain.Group, error)
	// ListMemberGroups returns the groups userID belongs to.
	ListMemberGroups(ctx context.Context, userID string) ([]domain.Group, error)

	// GetBalance sums the group's pool.
	GetBalance(ctx context.Context, groupID string) (domain.Balance, error)
}

type Members interface {
	// AddMember returns ErrAlreadyExists when the user already belongs to
	// the group.
	AddMember(ctx context.Context, m domain.Membership) error
	GetMember(ctx context.Context, groupID, userID string) (domain.Membership, error)
	ListMembers(ctx context.Context, groupID string) ([]domain.Membership, error)
}

type Contributions interface {
	CreateContribution(ctx context.Context, c domain.Contribution) error
	ListGroupContributions(ctx context.Context, groupID string) ([]domain.Contribution, error)
}

type Loans interface {
	CreateLoan(ctx context.Context, l domain.Loan) error
	GetLoan(ctx context.Context, id string) (domain.Loan, error)
	ListUserLoans(ctx context.Context, userID string) ([]domain.Loan, error)

	// ListLoans lists every loan, filtered by status unless status is "".
	ListLoans(ctx context.Context, status string) ([]domain.Loan, error)

	// DecideLoan moves a pending loan to approved or rejected. It returns
	// ErrNotFound when the loan is not pending anymore.
	DecideLoan(ctx context.Context, id, status, decidedBy string, at time.Time) error

	// MarkLoanRepaid moves an approved loan to repaid. It returns
	// ErrNotFound when the loan is not approved.
	MarkLoanRepaid(ctx context.Context, id string, at time.Time) error
}

type Investments interface {
	CreateInvestment(ctx context.Context, i domain.Investment) error
	ListGroupInvestments(ctx context.Context, groupID string) ([]domain.Investment, error)
}
