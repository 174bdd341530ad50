package services

import (
	"prodledger/internal/models"
)

// ComputeRateCalculation derives the suggested payment amount and payment
// status for a stakeholder. It is a pure function of the rate contract, the
// project's shooting-day count, and the stakeholder's prior approved or paid
// transactions.
//
// Daily rates multiply by estimated units when set, falling back to the
// shooting-day count. Hourly rates require estimated units; without them no
// amount can be suggested. Fixed rates are the rate value itself.
func ComputeRateCalculation(stakeholder *models.Stakeholder, shootingDaysCount int64, prior []models.Transaction) RateCalculation {
	rateType, rateValue := stakeholder.EffectiveRate()

	calc := RateCalculation{
		Breakdown: RateBreakdown{
			RateType:       rateType,
			RateValueCents: rateValue,
		},
	}

	for _, t := range prior {
		calc.TotalPaidCents += t.AmountCents
	}

	if rateType != models.RateTypeNone && rateValue != nil {
		switch rateType {
		case models.RateTypeDaily:
			units := shootingDaysCount
			source := UnitSourceShootingDays
			if stakeholder.EstimatedUnits != nil {
				units = *stakeholder.EstimatedUnits
				source = UnitSourceEstimatedUnits
			}
			suggested := *rateValue * units
			calc.SuggestedAmountCents = &suggested
			calc.Breakdown.Units = &units
			calc.Breakdown.UnitSource = source

		case models.RateTypeHourly:
			// Hours cannot be inferred from the schedule; estimated units
			// are required.
			if stakeholder.EstimatedUnits != nil {
				units := *stakeholder.EstimatedUnits
				suggested := *rateValue * units
				calc.SuggestedAmountCents = &suggested
				calc.Breakdown.Units = &units
				calc.Breakdown.UnitSource = UnitSourceEstimatedUnits
			}

		case models.RateTypeFixed:
			suggested := *rateValue
			calc.SuggestedAmountCents = &suggested
		}
	}

	if calc.SuggestedAmountCents == nil {
		calc.PaymentStatus = models.StakeholderPaymentNotConfigured
		return calc
	}

	suggested := *calc.SuggestedAmountCents
	pending := suggested - calc.TotalPaidCents
	if pending < 0 {
		pending = 0
	}
	calc.PendingAmountCents = &pending

	switch {
	case calc.TotalPaidCents == 0:
		calc.PaymentStatus = models.StakeholderPaymentPending
	case calc.TotalPaidCents < suggested:
		calc.PaymentStatus = models.StakeholderPaymentPartial
	case calc.TotalPaidCents == suggested:
		calc.PaymentStatus = models.StakeholderPaymentPaid
	default:
		calc.PaymentStatus = models.StakeholderPaymentOverpaid
	}
	return calc
}
