package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
)

// bankAccountService handles bank account management. Balance bookkeeping
// happens in the transaction service at creation time; this service only
// manages the accounts themselves.
type bankAccountService struct {
	db *gorm.DB
}

// NewBankAccountService creates a new BankAccountServicer.
func NewBankAccountService(db *gorm.DB) BankAccountServicer {
	return &bankAccountService{db: db}
}

// CreateBankAccount creates a new production bank account.
func (s *bankAccountService) CreateBankAccount(actor models.Actor, name, description string, initialBalanceCents int64) (*models.BankAccount, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "account name is required")
	}

	account := &models.BankAccount{
		Name:         name,
		Description:  description,
		BalanceCents: initialBalanceCents,
		IsActive:     true,
	}

	if err := s.db.Create(account).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return account, nil
}

// GetBankAccounts returns a paginated list of bank accounts.
func (s *bankAccountService) GetBankAccounts(page pagination.PageRequest) (*pagination.PageResponse[models.BankAccount], error) {
	page.Defaults()

	base := s.db.Model(&models.BankAccount{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var accounts []models.BankAccount
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(accounts, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBankAccountByID returns a bank account by ID.
func (s *bankAccountService) GetBankAccountByID(accountID string) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := s.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBankAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}
