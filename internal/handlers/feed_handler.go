package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/logger"
	"prodledger/internal/models"
	"prodledger/internal/services"
)

// FeedHandler handles machine-to-machine transaction imports from the bank
// feed. Requests are authenticated with an API key instead of a user token,
// so imported transactions carry no creating user.
type FeedHandler struct {
	transactionService services.TransactionServicer
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(transactionService services.TransactionServicer) *FeedHandler {
	return &FeedHandler{transactionService: transactionService}
}

// FeedTransactionRequest represents one imported bank feed entry.
type FeedTransactionRequest struct {
	ProjectID     string    `json:"project_id" binding:"required,uuid"`
	BankAccountID string    `json:"bank_account_id" binding:"required,uuid"`
	Type          string    `json:"type" binding:"required,transaction_type"`
	Category      string    `json:"category" binding:"omitempty,transaction_category"`
	AmountCents   int64     `json:"amount_cents" binding:"required,gt=0"`
	Description   string    `json:"description" binding:"max=500"`
	Date          time.Time `json:"date"`
}

// ImportTransaction ingests a single transaction from the bank feed.
// @Summary     Import a feed transaction
// @Description Ingest a bank feed transaction; requires the X-API-Key header
// @Tags        feed
// @Accept      json
// @Produce     json
// @Param       X-API-Key header string                 true "Feed API key"
// @Param       request   body   FeedTransactionRequest true "Feed transaction"
// @Success     201 {object} models.Transaction "Transaction imported"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Project or bank account not found"
// @Router      /feed/transactions [post]
func (h *FeedHandler) ImportTransaction(c *gin.Context) {
	var req FeedTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category := models.CategoryOther
	if req.Category != "" {
		category = models.TransactionCategory(req.Category)
	}

	// An empty actor marks this as a system import.
	transaction, err := h.transactionService.RecordTransaction(models.Actor{}, services.TransactionInput{
		ProjectID:     req.ProjectID,
		BankAccountID: req.BankAccountID,
		Type:          models.TransactionType(req.Type),
		Category:      category,
		AmountCents:   req.AmountCents,
		Description:   req.Description,
		Date:          req.Date,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("feed transaction imported",
		"transaction_id", transaction.ID,
		"project_id", req.ProjectID,
		"type", req.Type,
		"amount_cents", req.AmountCents,
	)

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}
