package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
	"prodledger/internal/pagination"
)

// projectService handles projects and their planning data (budget lines,
// shooting days).
type projectService struct {
	db *gorm.DB
}

// NewProjectService creates a new ProjectServicer.
func NewProjectService(db *gorm.DB) ProjectServicer {
	return &projectService{db: db}
}

// CreateProject creates a new production project with a draft budget.
func (s *projectService) CreateProject(actor models.Actor, name, description string) (*models.Project, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "project name is required")
	}

	project := &models.Project{
		Name:         name,
		Description:  description,
		CreatedBy:    actor.ID,
		BudgetStatus: models.BudgetStatusDraft,
	}

	if err := s.db.Create(project).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return project, nil
}

// GetProjects returns a paginated list of projects.
func (s *projectService) GetProjects(page pagination.PageRequest) (*pagination.PageResponse[models.Project], error) {
	page.Defaults()

	base := s.db.Model(&models.Project{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var projects []models.Project
	if err := base.Scopes(pagination.Paginate(page)).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(projects, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetProjectByID returns a project by ID.
func (s *projectService) GetProjectByID(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}

// AddBudgetLine records a category-level spend estimate for a project.
func (s *projectService) AddBudgetLine(actor models.Actor, projectID string, category models.TransactionCategory, estimatedCents int64, notes string) (*models.BudgetLine, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if !category.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "unknown transaction category")
	}
	if estimatedCents < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "estimated amount cannot be negative")
	}

	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	line := &models.BudgetLine{
		ProjectID:      projectID,
		Category:       category,
		EstimatedCents: estimatedCents,
		Notes:          notes,
	}

	if err := s.db.Create(line).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return line, nil
}

// GetBudgetLines returns all budget lines for a project.
func (s *projectService) GetBudgetLines(projectID string) ([]models.BudgetLine, error) {
	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	var lines []models.BudgetLine
	if err := s.db.Where("project_id = ?", projectID).Order("category").Find(&lines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lines, nil
}

// AddShootingDay schedules a production day for a project.
func (s *projectService) AddShootingDay(actor models.Actor, projectID string, date time.Time, location, notes string) (*models.ShootingDay, error) {
	if !actor.Role.CanManageBudget() {
		return nil, apperrors.ErrForbidden
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrValidation, "shooting day date is required")
	}

	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	day := &models.ShootingDay{
		ProjectID: projectID,
		Date:      date,
		Location:  location,
		Notes:     notes,
	}

	if err := s.db.Create(day).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return day, nil
}

// GetShootingDays returns all shooting days for a project in date order.
func (s *projectService) GetShootingDays(projectID string) ([]models.ShootingDay, error) {
	if _, err := s.GetProjectByID(projectID); err != nil {
		return nil, err
	}

	var days []models.ShootingDay
	if err := s.db.Where("project_id = ?", projectID).Order("date").Find(&days).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return days, nil
}
