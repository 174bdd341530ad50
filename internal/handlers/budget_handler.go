package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/services"
)

// BudgetHandler handles budget lifecycle requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	auditService  services.AuditServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, auditService services.AuditServicer) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService, auditService: auditService}
}

// SubmitBudgetRequest represents the payload for submitting a budget.
type SubmitBudgetRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Notes       string `json:"notes" binding:"max=2000"`
}

// RejectBudgetRequest represents the payload for rejecting a budget.
type RejectBudgetRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=2000"`
}

// RequestIncrementRequest represents the payload for requesting a budget increment.
type RequestIncrementRequest struct {
	IncrementCents int64  `json:"increment_cents" binding:"required,gt=0"`
	Notes          string `json:"notes" binding:"max=2000"`
}

// SubmitBudget handles submitting a project budget for approval.
// @Summary     Submit budget
// @Description Submit a budget ceiling for approval; the amount is stored immediately
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Project ID"
// @Param       request body SubmitBudgetRequest true "Budget submission"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /projects/{id}/budget/submit [post]
func (h *BudgetHandler) SubmitBudget(c *gin.Context) {
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

	var req SubmitBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	project, err := h.budgetService.Submit(actor, projectID, req.AmountCents, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "SUBMIT_BUDGET", "project", projectID, c.ClientIP(),
		map[string]interface{}{"amount_cents": req.AmountCents})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// ApproveBudget handles approving a pending budget or increment.
// @Summary     Approve budget
// @Description Approve a pending budget submission or a pending increment
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Updated project"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /projects/{id}/budget/approve [post]
func (h *BudgetHandler) ApproveBudget(c *gin.Context) {
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

	project, err := h.budgetService.Approve(actor, projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "APPROVE_BUDGET", "project", projectID, c.ClientIP(),
		map[string]interface{}{"budget_total_cents": project.BudgetTotalCents})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// RejectBudget handles rejecting a pending budget or increment.
// @Summary     Reject budget
// @Description Reject a pending budget submission or a pending increment with a reason
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string              true "Project ID"
// @Param       request body RejectBudgetRequest true "Rejection reason"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Missing reason"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /projects/{id}/budget/reject [post]
func (h *BudgetHandler) RejectBudget(c *gin.Context) {
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

	var req RejectBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	project, err := h.budgetService.Reject(actor, projectID, req.Reason)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "REJECT_BUDGET", "project", projectID, c.ClientIP(),
		map[string]interface{}{"reason": req.Reason})

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// RequestIncrement handles requesting an increase to an approved budget.
// @Summary     Request budget increment
// @Description Request an increase to an approved budget ceiling
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Project ID"
// @Param       request body RequestIncrementRequest true "Increment request"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     403 {object} ErrorResponse "Role not permitted"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     409 {object} ErrorResponse "Invalid transition"
// @Router      /projects/{id}/budget/increment [post]
func (h *BudgetHandler) RequestIncrement(c *gin.Context) {
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

	var req RequestIncrementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	project, err := h.budgetService.RequestIncrement(actor, projectID, req.IncrementCents, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(actor.ID, "REQUEST_BUDGET_INCREMENT", "project", projectID, c.ClientIP(),
		map[string]interface{}{"increment_cents": req.IncrementCents})

	c.JSON(http.StatusOK, gin.H{"project": project})
}
