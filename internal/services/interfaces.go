package services

import (
	"time"

	"prodledger/internal/models"
	"prodledger/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	RegisterUser(email, password, firstName, lastName string) (*models.User, error)
	CreateUser(email, password, firstName, lastName string, role models.Role) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ProjectServicer defines the contract for project and planning data.
type ProjectServicer interface {
	CreateProject(actor models.Actor, name, description string) (*models.Project, error)
	GetProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(projectID string) (*models.Project, error)
	AddBudgetLine(actor models.Actor, projectID string, category models.TransactionCategory, estimatedCents int64, notes string) (*models.BudgetLine, error)
	GetBudgetLines(projectID string) ([]models.BudgetLine, error)
	AddShootingDay(actor models.Actor, projectID string, date time.Time, location, notes string) (*models.ShootingDay, error)
	GetShootingDays(projectID string) ([]models.ShootingDay, error)
}

// BudgetServicer governs the project budget ceiling state machine.
// All operations validate the actor's capability and the current
// budget_status before writing anything.
type BudgetServicer interface {
	Submit(actor models.Actor, projectID string, amountCents int64, notes string) (*models.Project, error)
	Approve(actor models.Actor, projectID string) (*models.Project, error)
	Reject(actor models.Actor, projectID, reason string) (*models.Project, error)
	RequestIncrement(actor models.Actor, projectID string, incrementCents int64, notes string) (*models.Project, error)
}

// TransactionInput holds the fields for recording a new transaction.
type TransactionInput struct {
	ProjectID     string
	BankAccountID string
	StakeholderID *string
	Type          models.TransactionType
	Category      models.TransactionCategory
	AmountCents   int64
	Description   string
	Date          time.Time
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	ProjectID     *string
	StakeholderID *string
	Type          *models.TransactionType
	Category      *models.TransactionCategory
	PaymentStatus *models.PaymentStatus
}

// TransactionServicer defines the contract for the expense approval workflow.
//
// There are deliberately two creation entry points. CreateExpense is the
// producer-facing path: it requires an approved budget and enforces the
// over-budget gate. RecordTransaction is the back-office/bank-feed path and
// performs no budget gating. Both create the transaction as pending and
// apply the signed amount to the bank account balance immediately.
type TransactionServicer interface {
	RecordTransaction(actor models.Actor, input TransactionInput) (*models.Transaction, error)
	CreateExpense(actor models.Actor, input TransactionInput) (*models.Transaction, error)
	Approve(actor models.Actor, transactionID string) (*models.Transaction, error)
	Reject(actor models.Actor, transactionID, reason string) (*models.Transaction, error)
	MarkPaid(actor models.Actor, transactionID string) (*models.Transaction, error)
	GetTransactionByID(transactionID string) (*models.Transaction, error)
	GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

// StakeholderInput holds the fields for creating a stakeholder.
type StakeholderInput struct {
	ProjectID        string
	Name             string
	Role             string
	Email            string
	RateType         models.RateType
	RateValueCents   *int64
	EstimatedUnits   *int64
	BookingStartDate *time.Time
	BookingEndDate   *time.Time
}

// Unit sources reported in the rate calculation breakdown.
const (
	UnitSourceEstimatedUnits = "estimated_units"
	UnitSourceShootingDays   = "shooting_days"
)

// RateBreakdown explains how a suggested amount was derived.
type RateBreakdown struct {
	RateType       models.RateType `json:"rate_type"`
	RateValueCents *int64          `json:"rate_value_cents,omitempty"`
	Units          *int64          `json:"units,omitempty"`
	UnitSource     string          `json:"unit_source,omitempty"`
}

// RateCalculation is the derived payment view for a stakeholder.
// SuggestedAmountCents and PendingAmountCents are nil when the rate
// contract does not allow deriving an amount.
type RateCalculation struct {
	SuggestedAmountCents *int64                          `json:"suggested_amount_cents"`
	Breakdown            RateBreakdown                   `json:"calculation_breakdown"`
	TotalPaidCents       int64                           `json:"total_paid_cents"`
	PendingAmountCents   *int64                          `json:"pending_amount_cents"`
	PaymentStatus        models.StakeholderPaymentStatus `json:"payment_status"`
}

// StakeholderServicer defines the contract for stakeholder management and
// payment-rate derivation.
type StakeholderServicer interface {
	CreateStakeholder(actor models.Actor, input StakeholderInput) (*models.Stakeholder, error)
	GetProjectStakeholders(projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Stakeholder], error)
	GetStakeholderByID(stakeholderID string) (*models.Stakeholder, error)
	ConfirmBooking(actor models.Actor, stakeholderID string) (*models.Stakeholder, error)
	GetRateCalculation(stakeholderID string) (*RateCalculation, error)
}

// Color bands for category progress rendering.
const (
	BandNormal  = "normal"
	BandWarning = "warning"
	BandOver    = "over"
)

// CategorySummary compares planned and actual spend for one category.
// PercentSpent is uncapped for variance text; DisplayPercent is capped at
// 100 for progress bars.
type CategorySummary struct {
	Category       models.TransactionCategory `json:"category"`
	EstimatedCents int64                      `json:"estimated_cents"`
	ActualCents    int64                      `json:"actual_cents"`
	PercentSpent   float64                    `json:"percent_spent"`
	DisplayPercent float64                    `json:"display_percent"`
	Band           string                     `json:"band"`
}

// ProjectTotals aggregates a project's financial position. Only approved and
// paid transactions count; ProfitMarginPercent is nil when there is no income.
type ProjectTotals struct {
	BudgetTotalCents     int64               `json:"budget_total_cents"`
	BudgetStatus         models.BudgetStatus `json:"budget_status"`
	TotalIncomeCents     int64               `json:"total_income_cents"`
	TotalExpenseCents    int64               `json:"total_expense_cents"`
	NetBalanceCents      int64               `json:"net_balance_cents"`
	RemainingBudgetCents int64               `json:"remaining_budget_cents"`
	ProfitMarginPercent  *float64            `json:"profit_margin_percent"`
}

// SummaryServicer derives read-side budget views for the dashboard.
type SummaryServicer interface {
	GetCategorySummaries(projectID string) ([]CategorySummary, error)
	GetProjectTotals(projectID string) (*ProjectTotals, error)
}

// BankAccountServicer defines the contract for bank account management.
type BankAccountServicer interface {
	CreateBankAccount(actor models.Actor, name, description string, initialBalanceCents int64) (*models.BankAccount, error)
	GetBankAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error)
	GetBankAccountByID(accountID string) (*models.BankAccount, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
