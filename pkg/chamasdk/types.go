package chamasdk

import "time"

// ============================================================================
// Token Types
// ============================================================================

// TokenPair is the body returned by the token endpoints.
//
// POST /api/token/ always returns both tokens. POST /api/token/refresh/
// returns a new access token and, when the server rotates refresh tokens,
// a new refresh token as well.
type TokenPair struct {
	// Access is the short-lived bearer token sent with every API request
	Access string `json:"access"`

	// Refresh is the long-lived token used to obtain a new access token
	Refresh string `json:"refresh,omitempty"`
}

// LoginRequest is the body of POST /api/token/.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RefreshRequest is the body of POST /api/token/refresh/ and
// POST /api/token/blacklist/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RegisterRequest is the body of POST /api/register/.
type RegisterRequest struct {
	// Username must be 3-32 characters, alphanumeric with _ or -
	Username string `json:"username"`

	// Email is optional
	Email string `json:"email,omitempty"`

	// Password must be 8-128 characters
	Password string `json:"password"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}

// ============================================================================
// Profile Types
// ============================================================================

// User is a member account as seen by the API.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email,omitempty"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
}

// ============================================================================
// Group Types
// ============================================================================

// Group is a savings group. Amounts are in minor currency units.
type Group struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	TargetAmount int64     `json:"target_amount"`
	CreatedBy    string    `json:"created_by"`
	MemberCount  int       `json:"member_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateGroupRequest is the body of POST /api/groups/.
type CreateGroupRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	TargetAmount int64  `json:"target_amount"`
}

// Member is a user's membership in a group.
type Member struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"` // "admin" or "member"
	JoinedAt time.Time `json:"joined_at"`
}

// ============================================================================
// Contribution Types
// ============================================================================

// Contribution is a single payment into a group's pool.
type Contribution struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group"`
	UserID    string    `json:"user"`
	Username  string    `json:"username"`
	Amount    int64     `json:"amount"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContributionRequest is the body of POST /api/contributions/.
type CreateContributionRequest struct {
	GroupID string `json:"group"`
	Amount  int64  `json:"amount"`
	Note    string `json:"note,omitempty"`
}

// ============================================================================
// Loan Types
// ============================================================================

// Loan statuses.
const (
	LoanPending  = "pending"
	LoanApproved = "approved"
	LoanRejected = "rejected"
	LoanRepaid   = "repaid"
)

// Loan is a member's request to borrow from a group's pool.
type Loan struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group"`
	UserID    string     `json:"user"`
	Username  string     `json:"username"`
	Amount    int64      `json:"amount"`
	Purpose   string     `json:"purpose"`
	Status    string     `json:"status"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
	RepaidAt  *time.Time `json:"repaid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ApplyLoanRequest is the body of POST /api/loans/.
type ApplyLoanRequest struct {
	GroupID string `json:"group"`
	Amount  int64  `json:"amount"`
	Purpose string `json:"purpose"`
}

// LoanDecisionRequest is the body of POST /api/admin/loans/{id}/decision/.
type LoanDecisionRequest struct {
	// Status is either LoanApproved or LoanRejected
	Status string `json:"status"`
}

// ============================================================================
// Investment Types
// ============================================================================

// Investment records where part of a group's pool has been placed.
type Investment struct {
	ID             string    `json:"id"`
	GroupID        string    `json:"group"`
	Name           string    `json:"name"`
	Amount         int64     `json:"amount"`
	ExpectedReturn int64     `json:"expected_return"`
	CreatedBy      string    `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
}

// CreateInvestmentRequest is the body of POST /api/investments/.
type CreateInvestmentRequest struct {
	GroupID        string `json:"group"`
	Name           string `json:"name"`
	Amount         int64  `json:"amount"`
	ExpectedReturn int64  `json:"expected_return,omitempty"`
}
