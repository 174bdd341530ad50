package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestExpenseApprovalFlow(t *testing.T) {
	app := setupApp(t)

	adminToken, _ := app.registerUser(t, "finance@studio.test")
	managerToken, _ := app.createUser(t, adminToken, "producer@studio.test", "manager")
	projectID := app.createProject(t, managerToken, "Commercial Shoot")
	accountID := app.createBankAccount(t, adminToken, 1000000)

	// Expenses are blocked until the budget is approved.
	body := fmt.Sprintf(`{"bank_account_id":%q,"category":"crew","amount_cents":100000}`, accountID)
	rec := app.request("POST", "/api/v1/projects/"+projectID+"/expenses", body, managerToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before budget approval, got %d %s", rec.Code, rec.Body.String())
	}

	app.request("POST", "/api/v1/projects/"+projectID+"/budget/submit", `{"amount_cents":500000}`, managerToken)
	app.request("POST", "/api/v1/projects/"+projectID+"/budget/approve", "", adminToken)

	// An expense above the ceiling is rejected with OVER_BUDGET.
	body = fmt.Sprintf(`{"bank_account_id":%q,"category":"equipment","amount_cents":600000}`, accountID)
	rec = app.request("POST", "/api/v1/projects/"+projectID+"/expenses", body, managerToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 over budget, got %d %s", rec.Code, rec.Body.String())
	}
	errObj := parseJSON(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "OVER_BUDGET" {
		t.Fatalf("expected OVER_BUDGET, got %v", errObj["code"])
	}

	// A valid expense is created pending and moves the bank balance.
	body = fmt.Sprintf(`{"bank_account_id":%q,"category":"crew","amount_cents":200000,"description":"camera crew"}`, accountID)
	rec = app.request("POST", "/api/v1/projects/"+projectID+"/expenses", body, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if tx["payment_status"] != "pending" {
		t.Fatalf("expected pending, got %v", tx["payment_status"])
	}
	txID := tx["id"].(string)

	rec = app.request("GET", "/api/v1/bank-accounts/"+accountID, "", adminToken)
	account := parseJSON(t, rec)["bank_account"].(map[string]interface{})
	if account["balance_cents"].(float64) != 800000 {
		t.Fatalf("expected balance 800000 after expense, got %v", account["balance_cents"])
	}

	// Pending transactions cannot be marked paid.
	rec = app.request("POST", "/api/v1/transactions/"+txID+"/paid", "", adminToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 marking pending as paid, got %d", rec.Code)
	}

	// Approve, then mark paid.
	rec = app.request("POST", "/api/v1/transactions/"+txID+"/approve", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/transactions/"+txID+"/paid", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark paid failed: %d %s", rec.Code, rec.Body.String())
	}
	tx = parseJSON(t, rec)["transaction"].(map[string]interface{})
	if tx["payment_status"] != "paid" {
		t.Fatalf("expected paid, got %v", tx["payment_status"])
	}

	// The balance only moved once, at creation.
	rec = app.request("GET", "/api/v1/bank-accounts/"+accountID, "", adminToken)
	account = parseJSON(t, rec)["bank_account"].(map[string]interface{})
	if account["balance_cents"].(float64) != 800000 {
		t.Fatalf("balance must not move on approval or payment, got %v", account["balance_cents"])
	}

	// The approved expense now consumes the ceiling: 200000 spent of 500000,
	// so a 400000 expense no longer fits.
	body = fmt.Sprintf(`{"bank_account_id":%q,"category":"travel","amount_cents":400000}`, accountID)
	rec = app.request("POST", "/api/v1/projects/"+projectID+"/expenses", body, managerToken)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 once budget is consumed, got %d", rec.Code)
	}
}

func TestBankFeedImportFlow(t *testing.T) {
	app := setupApp(t)

	adminToken, _ := app.registerUser(t, "finance@studio.test")
	managerToken, _ := app.createUser(t, adminToken, "producer@studio.test", "manager")
	projectID := app.createProject(t, managerToken, "Music Video")
	accountID := app.createBankAccount(t, adminToken, 500000)

	// The feed endpoint rejects requests without the API key.
	rec := app.request("POST", "/api/v1/feed/transactions", "{}", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without API key, got %d", rec.Code)
	}

	// Feed imports bypass the budget gate even on a draft budget.
	body := fmt.Sprintf(`{"project_id":%q,"bank_account_id":%q,"type":"expense","amount_cents":700000,"description":"equipment rental"}`,
		projectID, accountID)
	rec = app.feedRequest(body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("feed import failed: %d %s", rec.Code, rec.Body.String())
	}
	tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if tx["payment_status"] != "pending" {
		t.Fatalf("imported transactions start pending, got %v", tx["payment_status"])
	}
	if _, hasCreator := tx["created_by"]; hasCreator {
		t.Fatal("feed imports should have no creating user")
	}
	if tx["category"] != "other" {
		t.Fatalf("feed imports default to the other category, got %v", tx["category"])
	}

	// The balance reflects the import immediately.
	rec = app.request("GET", "/api/v1/bank-accounts/"+accountID, "", adminToken)
	account := parseJSON(t, rec)["bank_account"].(map[string]interface{})
	if account["balance_cents"].(float64) != -200000 {
		t.Fatalf("expected balance -200000 after import, got %v", account["balance_cents"])
	}
}

func TestStakeholderRateFlow(t *testing.T) {
	app := setupApp(t)

	adminToken, _ := app.registerUser(t, "finance@studio.test")
	managerToken, _ := app.createUser(t, adminToken, "producer@studio.test", "manager")
	projectID := app.createProject(t, managerToken, "Documentary Series")
	accountID := app.createBankAccount(t, adminToken, 1000000)

	// Three shooting days on the calendar.
	for _, date := range []string{"2026-09-10", "2026-09-11", "2026-09-12"} {
		rec := app.request("POST", "/api/v1/projects/"+projectID+"/shooting-days",
			fmt.Sprintf(`{"date":%q}`, date+"T00:00:00Z"), managerToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create shooting day failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	// A daily-rate gaffer with no estimated units.
	rec := app.request("POST", "/api/v1/projects/"+projectID+"/stakeholders",
		`{"name":"Dana Fuentes","role":"gaffer","rate_type":"daily","rate_value_cents":50000}`, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create stakeholder failed: %d %s", rec.Code, rec.Body.String())
	}
	stakeholder := parseJSON(t, rec)["stakeholder"].(map[string]interface{})
	stakeholderID := stakeholder["id"].(string)

	// Suggested amount falls back to the shooting-day count: 3 * 50000.
	rec = app.request("GET", "/api/v1/stakeholders/"+stakeholderID+"/rate-calculation", "", managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("rate calculation failed: %d %s", rec.Code, rec.Body.String())
	}
	calc := parseJSON(t, rec)["rate_calculation"].(map[string]interface{})
	if calc["suggested_amount_cents"].(float64) != 150000 {
		t.Fatalf("expected suggested 150000, got %v", calc["suggested_amount_cents"])
	}
	breakdown := calc["calculation_breakdown"].(map[string]interface{})
	if breakdown["unit_source"] != "shooting_days" {
		t.Fatalf("expected shooting_days source, got %v", breakdown["unit_source"])
	}
	if calc["payment_status"] != "pending" {
		t.Fatalf("expected pending, got %v", calc["payment_status"])
	}

	// Confirm the booking, then pay part of the suggested amount.
	rec = app.request("POST", "/api/v1/stakeholders/"+stakeholderID+"/confirm-booking", "", managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm booking failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/stakeholders/"+stakeholderID+"/confirm-booking", "", managerToken)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on double confirmation, got %d", rec.Code)
	}

	body := fmt.Sprintf(`{"project_id":%q,"bank_account_id":%q,"stakeholder_id":%q,"type":"expense","category":"crew","amount_cents":50000}`,
		projectID, accountID, stakeholderID)
	rec = app.request("POST", "/api/v1/transactions", body, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("record payment failed: %d %s", rec.Code, rec.Body.String())
	}
	txID := parseJSON(t, rec)["transaction"].(map[string]interface{})["id"].(string)
	rec = app.request("POST", "/api/v1/transactions/"+txID+"/approve", "", adminToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve payment failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", "/api/v1/stakeholders/"+stakeholderID+"/rate-calculation", "", managerToken)
	calc = parseJSON(t, rec)["rate_calculation"].(map[string]interface{})
	if calc["total_paid_cents"].(float64) != 50000 {
		t.Fatalf("expected total paid 50000, got %v", calc["total_paid_cents"])
	}
	if calc["pending_amount_cents"].(float64) != 100000 {
		t.Fatalf("expected pending 100000, got %v", calc["pending_amount_cents"])
	}
	if calc["payment_status"] != "partial" {
		t.Fatalf("expected partial, got %v", calc["payment_status"])
	}
}
