package models

import "time"

// Role represents a user's organization-level role. Roles decide which
// budget and expense transitions a user may dispatch.
type Role string

const (
	RoleMasterOwner Role = "master_owner"
	RoleOwner       Role = "owner"
	RoleAdmin       Role = "admin"
	RoleManager     Role = "manager"
)

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleMasterOwner, RoleOwner, RoleAdmin, RoleManager:
		return true
	}
	return false
}

// CanManageBudget reports whether the role may submit budgets and request
// increments. Every organization role qualifies.
func (r Role) CanManageBudget() bool {
	return r.IsValid()
}

// CanApproveBudget reports whether the role may approve or reject budgets
// and expenses. Managers submit; only admin and above decide.
func (r Role) CanApproveBudget() bool {
	switch r {
	case RoleMasterOwner, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// CanManageUsers reports whether the role may create user accounts and
// assign organization roles. Self-registration never assigns a role; only
// admin and above hand them out.
func (r Role) CanManageUsers() bool {
	switch r {
	case RoleMasterOwner, RoleOwner, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies the user dispatching an operation together with the role
// resolved for them. Services check capabilities against the Actor before
// touching any state.
type Actor struct {
	ID   string
	Role Role
}

// User represents a user account.
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	FirstName           string     `json:"first_name"`
	LastName            string     `json:"last_name"`
	Role                Role       `gorm:"not null;default:'manager'" json:"role"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}

// Actor returns the capability-check view of the user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}
