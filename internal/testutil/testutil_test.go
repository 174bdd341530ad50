package testutil_test

import (
	"testing"
	"time"

	"prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "projects", "bank_accounts", "stakeholders", "budget_lines", "shooting_days", "transactions", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db, models.RoleAdmin)
	if user.ID == "" {
		t.Fatal("user should have a non-empty ID")
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %s", user.Role)
	}

	project := testutil.CreateTestProjectWithBudget(t, db, user.ID, models.BudgetStatusApproved, 500000)
	if project.BudgetTotalCents != 500000 {
		t.Errorf("expected budget 500000, got %d", project.BudgetTotalCents)
	}

	account := testutil.CreateTestBankAccount(t, db, 100000)
	if account.BalanceCents != 100000 {
		t.Errorf("expected balance 100000, got %d", account.BalanceCents)
	}

	stakeholder := testutil.CreateTestStakeholder(t, db, project.ID, models.RateTypeDaily, testutil.Int64Ptr(50000), nil)
	if stakeholder.RateType != models.RateTypeDaily {
		t.Errorf("expected daily rate type, got %s", stakeholder.RateType)
	}

	tx := testutil.CreateTestTransaction(t, db, project.ID, account.ID, models.TransactionTypeExpense, 1000, models.PaymentStatusPending)
	if tx.AmountCents != 1000 {
		t.Errorf("expected amount 1000, got %d", tx.AmountCents)
	}

	line := testutil.CreateTestBudgetLine(t, db, project.ID, models.CategoryCrew, 200000)
	if line.Category != models.CategoryCrew {
		t.Errorf("expected crew category, got %s", line.Category)
	}

	day := testutil.CreateTestShootingDay(t, db, project.ID, time.Now())
	if day.ProjectID != project.ID {
		t.Errorf("shooting day should belong to project %s", project.ID)
	}
}

func TestAssertAppError(t *testing.T) {
	testutil.AssertAppError(t, errors.ErrOverBudget, "OVER_BUDGET")
}
