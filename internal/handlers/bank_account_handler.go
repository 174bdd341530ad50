package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/pagination"
	"prodledger/internal/services"
)

// BankAccountHandler handles bank account requests.
type BankAccountHandler struct {
	bankAccountService services.BankAccountServicer
	auditService       services.AuditServicer
}

// NewBankAccountHandler creates a new BankAccountHandler.
func NewBankAccountHandler(bankAccountService services.BankAccountServicer, auditService services.AuditServicer) *BankAccountHandler {
	return &BankAccountHandler{bankAccountService: bankAccountService, auditService: auditService}
}

// CreateBankAccountRequest represents the payload for creating a bank account.
type CreateBankAccountRequest struct {
	Name                string `json:"name" binding:"required,min=1,max=200"`
	Description         string `json:"description" binding:"max=2000"`
	InitialBalanceCents int64  `json:"initial_balance_cents" binding:"gte=0"`
}

// CreateBankAccount handles creating a new bank account.
// @Summary     Create a bank account
// @Description Create a bank account with an opening balance
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateBankAccountRequest true "Bank account details"
// @Success     201 {object} models.BankAccount "Bank account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Router      /bank-accounts [post]
func (h *BankAccountHandler) CreateBankAccount(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	account, err := h.bankAccountService.CreateBankAccount(actor, req.Name, req.Description, req.InitialBalanceCents)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "CREATE_BANK_ACCOUNT", "bank_account", account.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "initial_balance_cents": req.InitialBalanceCents})

	c.JSON(http.StatusCreated, gin.H{"bank_account": account})
}

// GetBankAccounts handles listing bank accounts.
// @Summary     List bank accounts
// @Description Get a paginated list of bank accounts
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.BankAccount] "Paginated bank accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /bank-accounts [get]
func (h *BankAccountHandler) GetBankAccounts(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.bankAccountService.GetBankAccounts(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBankAccount handles retrieving a specific bank account.
// @Summary     Get bank account by ID
// @Description Get a specific bank account and its current balance
// @Tags        bank-accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Bank account ID"
// @Success     200 {object} models.BankAccount "Bank account details"
// @Failure     400 {object} ErrorResponse "Invalid bank account ID"
// @Failure     404 {object} ErrorResponse "Bank account not found"
// @Router      /bank-accounts/{id} [get]
func (h *BankAccountHandler) GetBankAccount(c *gin.Context) {
	if _, err := getActor(c); err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.bankAccountService.GetBankAccountByID(accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bank_account": account})
}
