package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "prodledger/internal/errors"
	"prodledger/internal/models"
)

// summaryService derives read-side budget views for the dashboard.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// GetCategorySummaries compares planned and actual spend per budget line.
// Actuals count approved and paid expenses only.
func (s *summaryService) GetCategorySummaries(projectID string) ([]CategorySummary, error) {
	if _, err := s.loadProject(projectID); err != nil {
		return nil, err
	}

	var lines []models.BudgetLine
	if err := s.db.Where("project_id = ?", projectID).Order("category").Find(&lines).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summaries := make([]CategorySummary, 0, len(lines))
	for _, line := range lines {
		var actual int64
		err := s.db.Model(&models.Transaction{}).
			Select("COALESCE(SUM(amount_cents), 0)").
			Where("project_id = ? AND category = ? AND type = ? AND payment_status IN ?",
				projectID, line.Category, models.TransactionTypeExpense,
				[]models.PaymentStatus{models.PaymentStatusApproved, models.PaymentStatusPaid}).
			Scan(&actual).Error
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		summaries = append(summaries, newCategorySummary(line, actual))
	}
	return summaries, nil
}

// newCategorySummary computes the percent, capped display percent, and color
// band for one category. The uncapped percent feeds variance text; the
// display percent feeds progress bars.
func newCategorySummary(line models.BudgetLine, actualCents int64) CategorySummary {
	var percent float64
	if line.EstimatedCents > 0 {
		percent = float64(actualCents) / float64(line.EstimatedCents) * 100
	}

	display := percent
	if display > 100 {
		display = 100
	}

	band := BandNormal
	switch {
	case percent >= 100:
		band = BandOver
	case percent >= 80:
		band = BandWarning
	}

	return CategorySummary{
		Category:       line.Category,
		EstimatedCents: line.EstimatedCents,
		ActualCents:    actualCents,
		PercentSpent:   percent,
		DisplayPercent: display,
		Band:           band,
	}
}

// GetProjectTotals aggregates a project's financial position. Only approved
// and paid transactions count toward income and expense totals.
func (s *summaryService) GetProjectTotals(projectID string) (*ProjectTotals, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	income, err := s.sumByType(projectID, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	expense, err := s.sumByType(projectID, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}

	totals := &ProjectTotals{
		BudgetTotalCents:     project.BudgetTotalCents,
		BudgetStatus:         project.BudgetStatus,
		TotalIncomeCents:     income,
		TotalExpenseCents:    expense,
		NetBalanceCents:      income - expense,
		RemainingBudgetCents: project.BudgetTotalCents - expense,
	}

	if income > 0 {
		margin := float64(income-expense) / float64(income) * 100
		totals.ProfitMarginPercent = &margin
	}
	return totals, nil
}

func (s *summaryService) sumByType(projectID string, txType models.TransactionType) (int64, error) {
	var total int64
	err := s.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(amount_cents), 0)").
		Where("project_id = ? AND type = ? AND payment_status IN ?",
			projectID, txType,
			[]models.PaymentStatus{models.PaymentStatusApproved, models.PaymentStatusPaid}).
		Scan(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}

func (s *summaryService) loadProject(projectID string) (*models.Project, error) {
	var project models.Project
	if err := s.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &project, nil
}
