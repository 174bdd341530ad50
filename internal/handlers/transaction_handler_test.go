package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
	"prodledger/internal/services"
)

const (
	testBankAccountID = "0198c2f0-0000-7000-8000-000000000003"
	testTransactionID = "0198c2f0-0000-7000-8000-000000000004"
)

// --- mock transaction service ---

type mockTransactionService struct {
	recordTransactionFn  func(actor models.Actor, input services.TransactionInput) (*models.Transaction, error)
	createExpenseFn      func(actor models.Actor, input services.TransactionInput) (*models.Transaction, error)
	approveFn            func(actor models.Actor, transactionID string) (*models.Transaction, error)
	rejectFn             func(actor models.Actor, transactionID, reason string) (*models.Transaction, error)
	markPaidFn           func(actor models.Actor, transactionID string) (*models.Transaction, error)
	getTransactionByIDFn func(transactionID string) (*models.Transaction, error)
	getTransactionsFn    func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
}

func (m *mockTransactionService) RecordTransaction(actor models.Actor, input services.TransactionInput) (*models.Transaction, error) {
	if m.recordTransactionFn != nil {
		return m.recordTransactionFn(actor, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) CreateExpense(actor models.Actor, input services.TransactionInput) (*models.Transaction, error) {
	if m.createExpenseFn != nil {
		return m.createExpenseFn(actor, input)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) Approve(actor models.Actor, transactionID string) (*models.Transaction, error) {
	if m.approveFn != nil {
		return m.approveFn(actor, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) Reject(actor models.Actor, transactionID, reason string) (*models.Transaction, error) {
	if m.rejectFn != nil {
		return m.rejectFn(actor, transactionID, reason)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) MarkPaid(actor models.Actor, transactionID string) (*models.Transaction, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(actor, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactions(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, 1, 20, 0)
	return &resp, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler, role models.Role) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectActor(testUserID, role))
	auth.POST("/transactions", handler.RecordTransaction)
	auth.GET("/transactions", handler.GetTransactions)
	auth.GET("/transactions/:id", handler.GetTransaction)
	auth.POST("/transactions/:id/approve", handler.ApproveTransaction)
	auth.POST("/transactions/:id/reject", handler.RejectTransaction)
	auth.POST("/transactions/:id/paid", handler.MarkTransactionPaid)
	auth.POST("/projects/:id/expenses", handler.CreateExpense)
	return r
}

// --- tests ---

func TestTransactionHandler_RecordTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			recordTransactionFn: func(actor models.Actor, input services.TransactionInput) (*models.Transaction, error) {
				if input.Type != models.TransactionTypeIncome {
					t.Errorf("expected income, got %s", input.Type)
				}
				return &models.Transaction{
					Base:          models.Base{ID: testTransactionID},
					ProjectID:     input.ProjectID,
					Type:          input.Type,
					AmountCents:   input.AmountCents,
					PaymentStatus: models.PaymentStatusPending,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/transactions",
			`{"project_id":"`+testProjectID+`","bank_account_id":"`+testBankAccountID+`","type":"income","category":"client_invoice","amount_cents":250000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		tx := result["transaction"].(map[string]interface{})
		if tx["payment_status"] != "pending" {
			t.Errorf("expected pending, got %v", tx["payment_status"])
		}
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/transactions",
			`{"project_id":"`+testProjectID+`","bank_account_id":"`+testBankAccountID+`","type":"transfer","category":"other","amount_cents":100}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on non-positive amount", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/transactions",
			`{"project_id":"`+testProjectID+`","bank_account_id":"`+testBankAccountID+`","type":"expense","category":"other","amount_cents":0}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_CreateExpense(t *testing.T) {
	t.Run("returns 201 within budget", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createExpenseFn: func(actor models.Actor, input services.TransactionInput) (*models.Transaction, error) {
				if input.ProjectID != testProjectID {
					t.Errorf("project ID should come from the path, got %s", input.ProjectID)
				}
				return &models.Transaction{
					Base:          models.Base{ID: testTransactionID},
					Type:          models.TransactionTypeExpense,
					AmountCents:   input.AmountCents,
					PaymentStatus: models.PaymentStatusPending,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"bank_account_id":"`+testBankAccountID+`","category":"crew","amount_cents":200000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("returns 422 when over budget", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createExpenseFn: func(models.Actor, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrOverBudget
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"bank_account_id":"`+testBankAccountID+`","category":"crew","amount_cents":600000}`)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "OVER_BUDGET" {
			t.Errorf("expected OVER_BUDGET, got %s", code)
		}
	})

	t.Run("returns 409 when budget not approved", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createExpenseFn: func(models.Actor, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrBudgetNotApproved
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "POST", "/projects/"+testProjectID+"/expenses",
			`{"bank_account_id":"`+testBankAccountID+`","category":"crew","amount_cents":1000}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_Transitions(t *testing.T) {
	t.Run("approve returns 200", func(t *testing.T) {
		txSvc := &mockTransactionService{
			approveFn: func(actor models.Actor, transactionID string) (*models.Transaction, error) {
				return &models.Transaction{
					Base:          models.Base{ID: transactionID},
					PaymentStatus: models.PaymentStatusApproved,
				}, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleAdmin)

		rec := doRequest(r, "POST", "/transactions/"+testTransactionID+"/approve", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("reject requires reason", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleAdmin)

		rec := doRequest(r, "POST", "/transactions/"+testTransactionID+"/reject", `{}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("mark paid from pending returns 409", func(t *testing.T) {
		txSvc := &mockTransactionService{
			markPaidFn: func(models.Actor, string) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidTransition
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleAdmin)

		rec := doRequest(r, "POST", "/transactions/"+testTransactionID+"/paid", "")

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("not found returns 404", func(t *testing.T) {
		txSvc := &mockTransactionService{
			approveFn: func(models.Actor, string) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleAdmin)

		rec := doRequest(r, "POST", "/transactions/"+testTransactionID+"/approve", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactions(t *testing.T) {
	t.Run("forwards filters", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		txSvc := &mockTransactionService{
			getTransactionsFn: func(page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotFilter = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, page.Page, page.PageSize, 0)
				return &resp, nil
			},
		}
		handler := NewTransactionHandler(txSvc, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "GET",
			"/transactions?project_id="+testProjectID+"&type=expense&payment_status=approved", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.ProjectID == nil || *gotFilter.ProjectID != testProjectID {
			t.Error("project filter not forwarded")
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeExpense {
			t.Error("type filter not forwarded")
		}
		if gotFilter.PaymentStatus == nil || *gotFilter.PaymentStatus != models.PaymentStatusApproved {
			t.Error("payment status filter not forwarded")
		}
	})

	t.Run("returns 400 on bad filter value", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := setupTransactionRouter(handler, models.RoleManager)

		rec := doRequest(r, "GET", "/transactions?type=transfer", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
