package domain

import "time"

// Membership roles. The creator of a group is its first admin.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Group is a chama: a savings group members contribute to.
type Group struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	TargetAmount int64     `db:"target_amount"`
	CreatedBy    string    `db:"created_by"`
	MemberCount  int       `db:"member_count"` // computed on read
	CreatedAt    time.Time `db:"created_at"`
}

type Membership struct {
	GroupID  string    `db:"group_id"`
	UserID   string    `db:"user_id"`
	Username string    `db:"username"` // joined from users on read
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

// Balance is what a group's pool holds, in minor units.
//
//	Available = Contributed - Outstanding - Invested
//
// Outstanding counts approved loans that are not yet repaid.
type Balance struct {
	Contributed int64 `db:"contributed"`
	Outstanding int64 `db:"outstanding"`
	Invested    int64 `db:"invested"`
}

func (b Balance) Available() int64 {
	return b.Contributed - b.Outstanding - b.Invested
}
