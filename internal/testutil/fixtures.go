package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"prodledger/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email, and
// the given role.
func CreateTestUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@test.com", nextID()),
		Password: string(hash),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates a project with a draft budget owned by the user.
func CreateTestProject(t *testing.T, db *gorm.DB, createdBy string) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:         fmt.Sprintf("Test Project %d", nextID()),
		CreatedBy:    createdBy,
		BudgetStatus: models.BudgetStatusDraft,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestProjectWithBudget creates a project with the given budget status
// and ceiling already set.
func CreateTestProjectWithBudget(t *testing.T, db *gorm.DB, createdBy string, status models.BudgetStatus, ceilingCents int64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:             fmt.Sprintf("Test Project %d", nextID()),
		CreatedBy:        createdBy,
		BudgetStatus:     status,
		BudgetTotalCents: ceilingCents,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestBankAccount creates a bank account with the given balance (in cents).
func CreateTestBankAccount(t *testing.T, db *gorm.DB, balanceCents int64) *models.BankAccount {
	t.Helper()

	account := &models.BankAccount{
		Name:         fmt.Sprintf("Test Account %d", nextID()),
		BalanceCents: balanceCents,
		IsActive:     true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test bank account: %v", err)
	}
	return account
}

// CreateTestStakeholder creates a stakeholder with the given rate contract.
// rateValueCents and estimatedUnits may be nil to leave the fields unset.
func CreateTestStakeholder(t *testing.T, db *gorm.DB, projectID string, rateType models.RateType, rateValueCents, estimatedUnits *int64) *models.Stakeholder {
	t.Helper()

	stakeholder := &models.Stakeholder{
		ProjectID:      projectID,
		Name:           fmt.Sprintf("Test Stakeholder %d", nextID()),
		RateType:       rateType,
		RateValueCents: rateValueCents,
		EstimatedUnits: estimatedUnits,
	}
	if err := db.Create(stakeholder).Error; err != nil {
		t.Fatalf("failed to create test stakeholder: %v", err)
	}
	return stakeholder
}

// CreateTestTransaction creates a transaction with the given type, amount,
// and payment status. The bank account balance is not touched; tests that
// care about balances go through the service.
func CreateTestTransaction(t *testing.T, db *gorm.DB, projectID, bankAccountID string, txType models.TransactionType, amountCents int64, status models.PaymentStatus) *models.Transaction {
	t.Helper()

	transaction := &models.Transaction{
		ProjectID:     projectID,
		BankAccountID: bankAccountID,
		Type:          txType,
		Category:      models.CategoryOther,
		AmountCents:   amountCents,
		Date:          time.Now(),
		PaymentStatus: status,
	}
	if err := db.Create(transaction).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return transaction
}

// CreateTestBudgetLine creates a budget line for the given category.
func CreateTestBudgetLine(t *testing.T, db *gorm.DB, projectID string, category models.TransactionCategory, estimatedCents int64) *models.BudgetLine {
	t.Helper()

	line := &models.BudgetLine{
		ProjectID:      projectID,
		Category:       category,
		EstimatedCents: estimatedCents,
	}
	if err := db.Create(line).Error; err != nil {
		t.Fatalf("failed to create test budget line: %v", err)
	}
	return line
}

// CreateTestShootingDay creates a shooting day on the given date.
func CreateTestShootingDay(t *testing.T, db *gorm.DB, projectID string, date time.Time) *models.ShootingDay {
	t.Helper()

	day := &models.ShootingDay{
		ProjectID: projectID,
		Date:      date,
	}
	if err := db.Create(day).Error; err != nil {
		t.Fatalf("failed to create test shooting day: %v", err)
	}
	return day
}

// Int64Ptr returns a pointer to v. Handy for optional rate fields.
func Int64Ptr(v int64) *int64 {
	return &v
}
