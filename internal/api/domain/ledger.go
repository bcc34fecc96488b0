package domain

import "time"

type Contribution struct {
	ID        string    `db:"id"`
	GroupID   string    `db:"group_id"`
	UserID    string    `db:"user_id"`
	Username  string    `db:"username"`
	Amount    int64     `db:"amount"`
	Note      string    `db:"note"`
	CreatedAt time.Time `db:"created_at"`
}

// Loan statuses. A loan moves pending -> approved|rejected and
// approved -> repaid; nothing else.
const (
	LoanPending  = "pending"
	LoanApproved = "approved"
	LoanRejected = "rejected"
	LoanRepaid   = "repaid"
)

type Loan struct {
	ID        string     `db:"id"`
	GroupID   string     `db:"group_id"`
	UserID    string     `db:"user_id"`
	Username  string     `db:"username"`
	Amount    int64      `db:"amount"`
	Purpose   string     `db:"purpose"`
	Status    string     `db:"status"`
	DecidedBy *string    `db:"decided_by"`
	DecidedAt *time.Time `db:"decided_at"`
	RepaidAt  *time.Time `db:"repaid_at"`
	CreatedAt time.Time  `db:"created_at"`
}

// CanTransition reports whether a loan in status from may move to to.
func CanTransition(from, to string) bool {
	switch from {
	case LoanPending:
		return to == LoanApproved || to == LoanRejected
	case LoanApproved:
		return to == LoanRepaid
	default:
		return false
	}
}

type Investment struct {
	ID             string    `db:"id"`
	GroupID        string    `db:"group_id"`
	Name           string    `db:"name"`
	Amount         int64     `db:"amount"`
	ExpectedReturn int64     `db:"expected_return"`
	CreatedBy      string    `db:"created_by"`
	CreatedAt      time.Time `db:"created_at"`
}
