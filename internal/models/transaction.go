package models

import "time"

// TransactionType represents the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TransactionTypeIncome || t == TransactionTypeExpense
}

// TransactionCategory represents the production category a transaction
// is booked against. Budget lines estimate spend per category.
type TransactionCategory string

const (
	CategoryCrew           TransactionCategory = "crew"
	CategoryEquipment      TransactionCategory = "equipment"
	CategoryLocation       TransactionCategory = "location"
	CategoryTravel         TransactionCategory = "travel"
	CategoryCatering       TransactionCategory = "catering"
	CategoryPostProduction TransactionCategory = "post_production"
	CategoryClientInvoice  TransactionCategory = "client_invoice"
	CategoryOther          TransactionCategory = "other"
)

// AllCategories lists every transaction category in display order.
var AllCategories = []TransactionCategory{
	CategoryCrew, CategoryEquipment, CategoryLocation, CategoryTravel,
	CategoryCatering, CategoryPostProduction, CategoryClientInvoice, CategoryOther,
}

// IsValid reports whether c is a known category.
func (c TransactionCategory) IsValid() bool {
	for _, known := range AllCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PaymentStatus represents a transaction's position in the approval
// workflow. The only valid paths are pending -> approved -> paid and
// pending -> rejected; rejected is terminal.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// IsValid reports whether s is a known payment status.
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusApproved, PaymentStatusPaid, PaymentStatusRejected:
		return true
	}
	return false
}

// CanDecide reports whether an approve/reject decision is allowed from this status.
func (s PaymentStatus) CanDecide() bool {
	return s == PaymentStatusPending
}

// CanMarkPaid reports whether the transaction can be marked paid from this status.
func (s PaymentStatus) CanMarkPaid() bool {
	return s == PaymentStatusApproved
}

// CountsTowardBudget reports whether the transaction's amount consumes the
// project budget ceiling. Pending and rejected transactions never count.
func (s PaymentStatus) CountsTowardBudget() bool {
	return s == PaymentStatusApproved || s == PaymentStatusPaid
}

// Transaction represents a financial transaction booked against a project
// and a bank account. Amounts are integer cents and strictly positive;
// direction comes from Type.
type Transaction struct {
	Base
	ProjectID     string  `gorm:"type:uuid;not null;index" json:"project_id"`
	BankAccountID string  `gorm:"type:uuid;not null;index" json:"bank_account_id"`
	StakeholderID *string `gorm:"type:uuid;index" json:"stakeholder_id,omitempty"`
	// Nil for transactions imported through the bank feed.
	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`

	Type        TransactionType     `gorm:"not null" json:"type"`
	Category    TransactionCategory `gorm:"not null" json:"category"`
	AmountCents int64               `gorm:"type:bigint;not null" json:"amount_cents"`
	Description string              `json:"description"`
	Date        time.Time           `gorm:"not null" json:"date"`

	PaymentStatus   PaymentStatus `gorm:"not null;default:'pending'" json:"payment_status"`
	ApprovedBy      *string       `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time    `json:"approved_at,omitempty"`
	RejectionReason string        `json:"rejection_reason,omitempty"`
	PaidBy          *string       `gorm:"type:uuid" json:"paid_by,omitempty"`
	PaidAt          *time.Time    `json:"paid_at,omitempty"`

	// Relationships
	Project     Project      `gorm:"foreignKey:ProjectID" json:"-"`
	BankAccount BankAccount  `gorm:"foreignKey:BankAccountID" json:"-"`
	Stakeholder *Stakeholder `gorm:"foreignKey:StakeholderID" json:"-"`
}
