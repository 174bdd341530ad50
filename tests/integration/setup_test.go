package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"prodledger/internal/handlers"
	"prodledger/internal/logger"
	"prodledger/internal/models"
	"prodledger/internal/router"
	"prodledger/internal/services"
)

const testFeedAPIKey = "test-feed-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

// No validator registration here: router.New performs it, the same way the
// server binary does. Registering in the test harness would hide a missing
// registration in the production wiring.
func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Project{},
		&models.BankAccount{},
		&models.Stakeholder{},
		&models.BudgetLine{},
		&models.ShootingDay{},
		&models.Transaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite. Routes and middleware come from router.New, exactly as the server
// binary wires them.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	auditService := services.NewAuditService(db)
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	budgetService := services.NewBudgetService(db)
	transactionService := services.NewTransactionService(db)
	stakeholderService := services.NewStakeholderService(db)
	summaryService := services.NewSummaryService(db)
	bankAccountService := services.NewBankAccountService(db)

	engine := router.New(router.Handlers{
		Auth:        handlers.NewAuthHandler(userService, auditService),
		Project:     handlers.NewProjectHandler(projectService, auditService),
		Budget:      handlers.NewBudgetHandler(budgetService, auditService),
		Transaction: handlers.NewTransactionHandler(transactionService, auditService),
		Stakeholder: handlers.NewStakeholderHandler(stakeholderService, auditService),
		Summary:     handlers.NewSummaryHandler(summaryService),
		BankAccount: handlers.NewBankAccountHandler(bankAccountService, auditService),
		Feed:        handlers.NewFeedHandler(transactionService),
	}, testFeedAPIKey)

	return &testApp{DB: db, Router: engine}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// feedRequest makes a bank-feed request authenticated with the test API key.
func (app *testApp) feedRequest(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/v1/feed/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testFeedAPIKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser self-registers a user and returns the access token and user
// ID. The first registration in a fresh database bootstraps master_owner;
// everyone after that is a manager.
func (app *testApp) registerUser(t *testing.T, email string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","first_name":"Test","last_name":"User"}`, email)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(string)
}

// createUser creates a user with an assigned role via the admin endpoint,
// then logs them in and returns the access token and user ID.
func (app *testApp) createUser(t *testing.T, adminToken, email, role string) (accessToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":"password123","first_name":"Test","last_name":"User","role":%q}`, email, role)
	rec := app.request("POST", "/api/v1/users", body, adminToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create user failed: %d %s", rec.Code, rec.Body.String())
	}
	id := parseJSON(t, rec)["user"].(map[string]interface{})["id"].(string)

	rec = app.request("POST", "/api/v1/auth/login", fmt.Sprintf(`{"email":%q,"password":"password123"}`, email), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["access_token"].(string), id
}

// createProject creates a project and returns its ID.
func (app *testApp) createProject(t *testing.T, token, name string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/projects", fmt.Sprintf(`{"name":%q}`, name), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	project := result["project"].(map[string]interface{})
	return project["id"].(string)
}

// createBankAccount creates a bank account and returns its ID.
func (app *testApp) createBankAccount(t *testing.T, token string, initialBalanceCents int64) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Production Account","initial_balance_cents":%d}`, initialBalanceCents)
	rec := app.request("POST", "/api/v1/bank-accounts", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create bank account failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	account := result["bank_account"].(map[string]interface{})
	return account["id"].(string)
}
