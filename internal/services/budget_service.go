package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
)

// budgetService drives the project budget ceiling state machine.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

func (s *budgetService) getProject(tx *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	if err := tx.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// Submit proposes a budget ceiling for approval. Valid from draft or
// rejected. The submitted amount is written to budget_total_cents at submit
// time; approval later only flips the status and records the approver.
func (s *budgetService) Submit(actor models.Actor, projectID string, amountCents int64, notes string) (*models.Project, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if amountCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "budget amount must be greater than zero")
	}

	var project *models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		project, txErr = s.getProject(tx, projectID)
		if txErr != nil {
			return txErr
		}

		if !project.BudgetStatus.CanSubmit() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"budget can only be submitted from draft or rejected, current status is "+string(project.BudgetStatus))
		}

		project.BudgetTotalCents = amountCents
		project.BudgetNotes = notes
		project.BudgetStatus = models.BudgetStatusPendingApproval
		project.BudgetApprovedBy = nil
		project.BudgetApprovedAt = nil

		if err := tx.Save(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Approve confirms a pending submission or a pending increment. Approving an
// increment adds the requested amount to the ceiling and clears the request.
func (s *budgetService) Approve(actor models.Actor, projectID string) (*models.Project, error) {
	if !actor.Role.CanApproveBudget() {
		return nil, apperrors.ErrForbidden
	}

	var project *models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		project, txErr = s.getProject(tx, projectID)
		if txErr != nil {
			return txErr
		}

		if !project.BudgetStatus.CanDecide() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"no pending budget decision, current status is "+string(project.BudgetStatus))
		}

		now := time.Now()
		if project.BudgetStatus == models.BudgetStatusIncrementPending {
			project.BudgetTotalCents += project.BudgetIncrementRequestedCents
			clearIncrementRequest(project)
		}
		project.BudgetStatus = models.BudgetStatusApproved
		project.BudgetApprovedBy = &actor.ID
		project.BudgetApprovedAt = &now

		if err := tx.Save(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Reject declines a pending submission or a pending increment. Rejecting an
// increment reverts the project to approved with the prior ceiling intact.
func (s *budgetService) Reject(actor models.Actor, projectID, reason string) (*models.Project, error) {
	if !actor.Role.CanApproveBudget() {
		return nil, apperrors.ErrForbidden
	}
	if reason == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "a rejection reason is required")
	}

	var project *models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		project, txErr = s.getProject(tx, projectID)
		if txErr != nil {
			return txErr
		}

		switch project.BudgetStatus {
		case models.BudgetStatusPendingApproval:
			project.BudgetStatus = models.BudgetStatusRejected
		case models.BudgetStatusIncrementPending:
			clearIncrementRequest(project)
			project.BudgetStatus = models.BudgetStatusApproved
		default:
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"no pending budget decision, current status is "+string(project.BudgetStatus))
		}
		project.BudgetNotes = reason

		if err := tx.Save(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// RequestIncrement asks for an increase to an approved ceiling. The ceiling
// itself is untouched until the increment is approved.
func (s *budgetService) RequestIncrement(actor models.Actor, projectID string, incrementCents int64, notes string) (*models.Project, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if incrementCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "increment amount must be greater than zero")
	}

	var project *models.Project
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		project, txErr = s.getProject(tx, projectID)
		if txErr != nil {
			return txErr
		}

		if !project.BudgetStatus.CanRequestIncrement() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"increments can only be requested on an approved budget, current status is "+string(project.BudgetStatus))
		}

		now := time.Now()
		project.BudgetIncrementRequestedCents = incrementCents
		project.BudgetIncrementNotes = notes
		project.BudgetIncrementRequestedBy = &actor.ID
		project.BudgetIncrementRequestedAt = &now
		project.BudgetStatus = models.BudgetStatusIncrementPending

		if err := tx.Save(project).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// clearIncrementRequest resets all pending-increment fields. Invariant:
// budget_increment_requested_cents is non-zero only while the status is
// increment_pending.
func clearIncrementRequest(p *models.Project) {
	p.BudgetIncrementRequestedCents = 0
	p.BudgetIncrementNotes = ""
	p.BudgetIncrementRequestedBy = nil
	p.BudgetIncrementRequestedAt = nil
}
