package models

// BankAccount represents a production bank account. BalanceCents is adjusted
// exactly once per recorded transaction, signed by the transaction type, at
// creation time. Approval and payment transitions never re-touch it.
type BankAccount struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Description  string `json:"description"`
	BalanceCents int64  `gorm:"type:bigint;not null;default:0" json:"balance_cents"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Relationships
	Transactions []Transaction `gorm:"foreignKey:BankAccountID" json:"transactions,omitempty"`
}
