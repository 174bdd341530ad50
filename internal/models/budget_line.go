package models

// BudgetLine is a planned category-level estimate against which actual
// spend is compared.
type BudgetLine struct {
	Base
	ProjectID      string              `gorm:"type:uuid;not null;index" json:"project_id"`
	Category       TransactionCategory `gorm:"not null" json:"category"`
	EstimatedCents int64               `gorm:"type:bigint;not null" json:"estimated_cents"`
	Notes          string              `json:"notes"`
}
