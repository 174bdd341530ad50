package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
)

// transactionService handles the expense approval workflow.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// RecordTransaction creates a transaction without consulting the budget
// gate. This is the back-office and bank-feed entry point: it accepts both
// income and expenses against projects in any budget status. An empty actor
// ID marks a system import.
func (s *transactionService) RecordTransaction(actor models.Actor, input TransactionInput) (*models.Transaction, error) {
	if actor.ID != "" && !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.loadProject(tx, input.ProjectID); err != nil {
			return err
		}
		var txErr error
		result, txErr = s.create(tx, actor, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CreateExpense creates an expense through the producer-facing path. The
// project budget must be approved, and the projected consumption (approved
// and paid expenses plus the new amount) must stay within the ceiling.
func (s *transactionService) CreateExpense(actor models.Actor, input TransactionInput) (*models.Transaction, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	input.Type = models.TransactionTypeExpense
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		project, err := s.loadProject(tx, input.ProjectID)
		if err != nil {
			return err
		}

		if project.BudgetStatus != models.BudgetStatusApproved {
			return apperrors.ErrBudgetNotApproved
		}

		consumed, err := s.consumedBudget(tx, project.ID)
		if err != nil {
			return err
		}
		if consumed+input.AmountCents > project.BudgetTotalCents {
			return apperrors.ErrOverBudget
		}

		var txErr error
		result, txErr = s.create(tx, actor, input)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// create inserts the transaction as pending and applies its signed amount to
// the bank account balance. The balance moves at creation time regardless of
// payment status; later transitions never re-touch it.
func (s *transactionService) create(tx *gorm.DB, actor models.Actor, input TransactionInput) (*models.Transaction, error) {
	var account models.BankAccount
	if err := tx.Where("id = ?", input.BankAccountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if input.StakeholderID != nil {
		var count int64
		if err := tx.Model(&models.Stakeholder{}).
			Where("id = ? AND project_id = ?", *input.StakeholderID, input.ProjectID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrStakeholderNotFound
		}
	}

	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		ProjectID:     input.ProjectID,
		BankAccountID: input.BankAccountID,
		StakeholderID: input.StakeholderID,
		Type:          input.Type,
		Category:      input.Category,
		AmountCents:   input.AmountCents,
		Description:   input.Description,
		Date:          date,
		PaymentStatus: models.PaymentStatusPending,
	}
	if actor.ID != "" {
		transaction.CreatedBy = &actor.ID
	}

	if err := tx.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	delta := input.AmountCents
	if input.Type == models.TransactionTypeExpense {
		delta = -delta
	}
	if err := tx.Model(&models.BankAccount{}).
		Where("id = ?", account.ID).
		Update("balance_cents", gorm.Expr("balance_cents + ?", delta)).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// Approve moves a pending transaction to approved.
func (s *transactionService) Approve(actor models.Actor, transactionID string) (*models.Transaction, error) {
	if !actor.Role.CanApproveBudget() {
		return nil, apperrors.ErrForbidden
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.load(tx, transactionID)
		if err != nil {
			return err
		}

		if !transaction.PaymentStatus.CanDecide() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"only pending transactions can be approved, current status is "+string(transaction.PaymentStatus))
		}

		now := time.Now()
		transaction.PaymentStatus = models.PaymentStatusApproved
		transaction.ApprovedBy = &actor.ID
		transaction.ApprovedAt = &now

		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Reject declines a pending transaction. Rejected is terminal: a corrected
// expense must be resubmitted as a new transaction.
func (s *transactionService) Reject(actor models.Actor, transactionID, reason string) (*models.Transaction, error) {
	if !actor.Role.CanApproveBudget() {
		return nil, apperrors.ErrForbidden
	}
	if reason == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "a rejection reason is required")
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.load(tx, transactionID)
		if err != nil {
			return err
		}

		if !transaction.PaymentStatus.CanDecide() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"only pending transactions can be rejected, current status is "+string(transaction.PaymentStatus))
		}

		transaction.PaymentStatus = models.PaymentStatusRejected
		transaction.RejectionReason = reason

		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid records that an approved transaction has been paid out.
func (s *transactionService) MarkPaid(actor models.Actor, transactionID string) (*models.Transaction, error) {
	if !actor.Role.CanApproveBudget() {
		return nil, apperrors.ErrForbidden
	}

	var result *models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		transaction, err := s.load(tx, transactionID)
		if err != nil {
			return err
		}

		if !transaction.PaymentStatus.CanMarkPaid() {
			return apperrors.WithMessage(apperrors.ErrInvalidTransition,
				"only approved transactions can be marked paid, current status is "+string(transaction.PaymentStatus))
		}

		now := time.Now()
		transaction.PaymentStatus = models.PaymentStatusPaid
		transaction.PaidBy = &actor.ID
		transaction.PaidAt = &now

		if err := tx.Save(transaction).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetTransactionByID retrieves a transaction by ID.
func (s *transactionService) GetTransactionByID(transactionID string) (*models.Transaction, error) {
	return s.load(s.db, transactionID)
}

// GetTransactions retrieves a paginated, filtered list of transactions.
func (s *transactionService) GetTransactions(page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{})
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.ProjectID != nil {
		q = q.Where("project_id = ?", *f.ProjectID)
	}
	if f.StakeholderID != nil {
		q = q.Where("stakeholder_id = ?", *f.StakeholderID)
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.PaymentStatus != nil {
		q = q.Where("payment_status = ?", *f.PaymentStatus)
	}
	return q
}

func (s *transactionService) load(tx *gorm.DB, transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := tx.Where("id = ?", transactionID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

func (s *transactionService) loadProject(tx *gorm.DB, projectID string) (*models.Project, error) {
	var project models.Project
	if err := tx.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// consumedBudget sums approved and paid expense amounts for the project.
// Pending and rejected transactions never consume the ceiling.
func (s *transactionService) consumedBudget(tx *gorm.DB, projectID string) (int64, error) {
	var consumed int64
	err := tx.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("project_id = ? AND type = ? AND payment_status IN ?",
			projectID, models.TransactionTypeExpense,
			[]models.PaymentStatus{models.PaymentStatusApproved, models.PaymentStatusPaid}).
		Scan(&consumed).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return consumed, nil
}

func validateTransactionInput(input TransactionInput) error {
	if input.AmountCents <= 0 {
		return apperrors.WithMessage(apperrors.ErrValidation, "amount must be greater than zero")
	}
	if !input.Type.IsValid() {
		return apperrors.WithMessage(apperrors.ErrValidation, "unknown transaction type")
	}
	if !input.Category.IsValid() {
		return apperrors.WithMessage(apperrors.ErrValidation, "unknown transaction category")
	}
	if input.ProjectID == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "project ID is required")
	}
	if input.BankAccountID == "" {
		return apperrors.WithMessage(apperrors.ErrValidation, "bank account ID is required")
	}
	return nil
}
