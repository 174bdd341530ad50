package models

import "time"

// BudgetStatus represents the approval state of a project's budget ceiling.
type BudgetStatus string

const (
	BudgetStatusDraft            BudgetStatus = "draft"
	BudgetStatusPendingApproval  BudgetStatus = "pending_approval"
	BudgetStatusApproved         BudgetStatus = "approved"
	BudgetStatusRejected         BudgetStatus = "rejected"
	BudgetStatusIncrementPending BudgetStatus = "increment_pending"
)

// IsValid reports whether s is a known budget status.
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusPendingApproval, BudgetStatusApproved,
		BudgetStatusRejected, BudgetStatusIncrementPending:
		return true
	}
	return false
}

// CanSubmit reports whether a budget submission is allowed from this status.
// A rejected budget may be resubmitted; an approved one must go through
// the increment flow instead.
func (s BudgetStatus) CanSubmit() bool {
	return s == BudgetStatusDraft || s == BudgetStatusRejected
}

// CanDecide reports whether an approve/reject decision is allowed from this status.
func (s BudgetStatus) CanDecide() bool {
	return s == BudgetStatusPendingApproval || s == BudgetStatusIncrementPending
}

// CanRequestIncrement reports whether an increment request is allowed from this status.
func (s BudgetStatus) CanRequestIncrement() bool {
	return s == BudgetStatusApproved
}

// Project represents a film/video production project. The budget_* columns
// hold the project's spending ceiling and its approval state machine.
// budget_total_cents always reflects the last submitted or approved ceiling,
// never a pending increment.
type Project struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   string `gorm:"type:uuid;not null" json:"created_by"`

	BudgetTotalCents int64        `gorm:"type:bigint;not null;default:0" json:"budget_total_cents"`
	BudgetStatus     BudgetStatus `gorm:"not null;default:'draft'" json:"budget_status"`
	BudgetNotes      string       `json:"budget_notes"`
	BudgetApprovedBy *string      `gorm:"type:uuid" json:"budget_approved_by,omitempty"`
	BudgetApprovedAt *time.Time   `json:"budget_approved_at,omitempty"`

	// Pending increment request. Non-zero/non-nil only while the status
	// is increment_pending.
	BudgetIncrementRequestedCents int64      `gorm:"type:bigint;not null;default:0" json:"budget_increment_requested_cents"`
	BudgetIncrementNotes          string     `json:"budget_increment_notes"`
	BudgetIncrementRequestedBy    *string    `gorm:"type:uuid" json:"budget_increment_requested_by,omitempty"`
	BudgetIncrementRequestedAt    *time.Time `json:"budget_increment_requested_at,omitempty"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:ProjectID" json:"transactions,omitempty"`
	Stakeholders []Stakeholder `gorm:"foreignKey:ProjectID" json:"stakeholders,omitempty"`
	BudgetLines  []BudgetLine  `gorm:"foreignKey:ProjectID" json:"budget_lines,omitempty"`
	ShootingDays []ShootingDay `gorm:"foreignKey:ProjectID" json:"shooting_days,omitempty"`
}
