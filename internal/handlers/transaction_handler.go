package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
	"prodledger/internal/services"
)

// TransactionHandler handles transaction and expense-approval requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the payload for recording a transaction.
type CreateTransactionRequest struct {
	ProjectID     string    `json:"project_id" binding:"required,uuid"`
	BankAccountID string    `json:"bank_account_id" binding:"required,uuid"`
	StakeholderID *string   `json:"stakeholder_id" binding:"omitempty,uuid"`
	Type          string    `json:"type" binding:"required,transaction_type"`
	Category      string    `json:"category" binding:"required,transaction_category"`
	AmountCents   int64     `json:"amount_cents" binding:"required,gt=0"`
	Description   string    `json:"description" binding:"max=500"`
	Date          time.Time `json:"date"`
}

// CreateExpenseRequest represents the payload for the producer-facing
// expense creation path. The type is always expense.
type CreateExpenseRequest struct {
	BankAccountID string    `json:"bank_account_id" binding:"required,uuid"`
	StakeholderID *string   `json:"stakeholder_id" binding:"omitempty,uuid"`
	Category      string    `json:"category" binding:"required,transaction_category"`
	AmountCents   int64     `json:"amount_cents" binding:"required,gt=0"`
	Description   string    `json:"description" binding:"max=500"`
	Date          time.Time `json:"date"`
}

// RejectTransactionRequest represents the payload for rejecting a transaction.
type RejectTransactionRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=2000"`
}

// RecordTransaction handles the back-office creation path. It accepts both
// income and expenses and performs no budget gating.
// @Summary     Record a transaction
// @Description Record an income or expense transaction without budget gating
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or bank account not found"
// @Router      /transactions [post]
func (h *TransactionHandler) RecordTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	transaction, err := h.transactionService.RecordTransaction(actor, services.TransactionInput{
		ProjectID:     req.ProjectID,
		BankAccountID: req.BankAccountID,
		StakeholderID: req.StakeholderID,
		Type:          models.TransactionType(req.Type),
		Category:      models.TransactionCategory(req.Category),
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		Date:          req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "RECORD_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"type": req.Type, "amount_cents": req.AmountCents})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// CreateExpense handles the producer-facing creation path. The project
// budget must be approved and the expense must fit within the ceiling.
// @Summary     Create an expense
// @Description Create an expense against an approved project budget
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Project ID"
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Transaction "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or bank account not found"
// @Failure     409 {object} ErrorResponse "Budget not approved"
// @Failure     422 {object} ErrorResponse "Over budget"
// @Router      /projects/{id}/expenses [post]
func (h *TransactionHandler) CreateExpense(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	transaction, err := h.transactionService.CreateExpense(actor, services.TransactionInput{
		ProjectID:     projectID,
		BankAccountID: req.BankAccountID,
		StakeholderID: req.StakeholderID,
		Category:      models.TransactionCategory(req.Category),
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		Date:          req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_EXPENSE", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"amount_cents": req.AmountCents, "category": req.Category})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// ApproveTransaction handles approving a pending transaction.
// @Summary     Approve transaction
// @Description Approve a pending transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Approved transaction"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /transactions/{id}/approve [post]
func (h *TransactionHandler) ApproveTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.Approve(actor, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "APPROVE_TRANSACTION", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// RejectTransaction handles rejecting a pending transaction.
// @Summary     Reject transaction
// @Description Reject a pending transaction with a reason; rejection is terminal
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                   true "Transaction ID"
// @Param       request body RejectTransactionRequest true "Rejection reason"
// @Success     200 {object} models.Transaction "Rejected transaction"
// @Failure     400 {object} ErrorResponse "Missing reason"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /transactions/{id}/reject [post]
func (h *TransactionHandler) RejectTransaction(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RejectTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	transaction, err := h.transactionService.Reject(actor, transactionID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "REJECT_TRANSACTION", "transaction", transactionID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// MarkTransactionPaid handles marking an approved transaction as paid.
// @Summary     Mark transaction paid
// @Description Mark an approved transaction as paid out
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Paid transaction"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /transactions/{id}/paid [post]
func (h *TransactionHandler) MarkTransactionPaid(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.MarkPaid(actor, transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "MARK_TRANSACTION_PAID", "transaction", transactionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// GetTransaction handles retrieving a specific transaction.
// @Summary     Get transaction by ID
// @Description Get a specific transaction by ID
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Transaction ID"
// @Success     200 {object} models.Transaction "Transaction details"
// @Failure     400 {object} ErrorResponse "Invalid transaction ID"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.transactionService.GetTransactionByID(transactionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}

// GetTransactions handles listing transactions with optional filters.
// @Summary     List transactions
// @Description Get a paginated list of transactions with optional filters
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       project_id     query string false "Filter by project"
// @Param       stakeholder_id query string false "Filter by stakeholder"
// @Param       type           query string false "Filter by type (income/expense)"
// @Param       category       query string false "Filter by category"
// @Param       payment_status query string false "Filter by payment status"
// @Param       page           query int    false "Page number (default 1)"
// @Param       page_size      query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetTransactions(page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("project_id"); v != "" {
		filter.ProjectID = &v
	}
	if v := c.Query("stakeholder_id"); v != "" {
		filter.StakeholderID = &v
	}
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if !t.IsValid() {
			return filter, apperrors.WithMessage(apperrors.ErrValidation, "type must be 'income' or 'expense'")
		}
		filter.Type = &t
	}
	if v := c.Query("category"); v != "" {
		cat := models.TransactionCategory(v)
		if !cat.IsValid() {
			return filter, apperrors.WithMessage(apperrors.ErrValidation, "unknown category")
		}
		filter.Category = &cat
	}
	if v := c.Query("payment_status"); v != "" {
		status := models.PaymentStatus(v)
		if !status.IsValid() {
			return filter, apperrors.WithMessage(apperrors.ErrValidation, "unknown payment status")
		}
		filter.PaymentStatus = &status
	}
	return filter, nil
}
