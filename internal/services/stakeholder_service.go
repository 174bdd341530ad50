package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
)

// stakeholderService handles stakeholder management and rate derivation.
type stakeholderService struct {
	db *gorm.DB
}

// NewStakeholderService creates a new StakeholderServicer.
func NewStakeholderService(db *gorm.DB) StakeholderServicer {
	return &stakeholderService{db: db}
}

// CreateStakeholder attaches a crew member, freelancer, or supplier to a project.
func (s *stakeholderService) CreateStakeholder(actor models.Actor, input StakeholderInput) (*models.Stakeholder, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if input.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "stakeholder name is required")
	}
	if !input.RateType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown rate type")
	}
	if input.RateType != models.RateTypeNone && input.RateValueCents != nil && *input.RateValueCents <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "rate value must be greater than zero")
	}
	if input.EstimatedUnits != nil && *input.EstimatedUnits < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "estimated units cannot be negative")
	}

	var count int64
	if err := s.db.Model(&models.Project{}).Where("id = ?", input.ProjectID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrProjectNotFound
	}

	stakeholder := &models.Stakeholder{
		ProjectID:        input.ProjectID,
		Name:             input.Name,
		Role:             input.Role,
		Email:            input.Email,
		RateType:         input.RateType,
		RateValueCents:   input.RateValueCents,
		EstimatedUnits:   input.EstimatedUnits,
		BookingStartDate: input.BookingStartDate,
		BookingEndDate:   input.BookingEndDate,
	}

	if err := s.db.Create(stakeholder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stakeholder, nil
}

// GetProjectStakeholders returns a paginated list of a project's stakeholders.
func (s *stakeholderService) GetProjectStakeholders(projectID string, page pagination.PageRequest) (*pagination.PageResponse[models.Stakeholder], error) {
	page.Defaults()

	base := s.db.Model(&models.Stakeholder{}).Where("project_id = ?", projectID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var stakeholders []models.Stakeholder
	if err := base.Scopes(pagination.Paginate(page)).Order("name").Find(&stakeholders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(stakeholders, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStakeholderByID returns a stakeholder by ID.
func (s *stakeholderService) GetStakeholderByID(stakeholderID string) (*models.Stakeholder, error) {
	var stakeholder models.Stakeholder
	if err := s.db.Where("id = ?", stakeholderID).First(&stakeholder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStakeholderNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stakeholder, nil
}

// ConfirmBooking locks in the stakeholder's current rate. After confirmation
// the locked rate drives payment calculations even if the draft rate is
// edited later.
func (s *stakeholderService) ConfirmBooking(actor models.Actor, stakeholderID string) (*models.Stakeholder, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}

	stakeholder, err := s.GetStakeholderByID(stakeholderID)
	if err != nil {
		return nil, err
	}
	if stakeholder.BookingConfirmed {
		return nil, apperrors.ErrBookingConfirmed
	}

	rateType := stakeholder.RateType
	stakeholder.BookingConfirmed = true
	stakeholder.ConfirmedRateType = &rateType
	stakeholder.ConfirmedRateCents = stakeholder.RateValueCents

	if err := s.db.Save(stakeholder).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return stakeholder, nil
}

// GetRateCalculation derives the payment view for a stakeholder from the
// rate contract, the project's shooting days, and prior approved or paid
// transactions linked to the stakeholder.
func (s *stakeholderService) GetRateCalculation(stakeholderID string) (*RateCalculation, error) {
	stakeholder, err := s.GetStakeholderByID(stakeholderID)
	if err != nil {
		return nil, err
	}

	var shootingDays int64
	if err := s.db.Model(&models.ShootingDay{}).
		Where("project_id = ?", stakeholder.ProjectID).
		Count(&shootingDays).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var prior []models.Transaction
	if err := s.db.
		Where("stakeholder_id = ? AND payment_status IN ?", stakeholder.ID,
			[]models.PaymentStatus{models.PaymentStatusApproved, models.PaymentStatusPaid}).
		Find(&prior).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	calc := ComputeRateCalculation(stakeholder, shootingDays, prior)
	return &calc, nil
}
