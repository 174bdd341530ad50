package models

import "time"

// RateType represents the payment basis agreed with a stakeholder.
type RateType string

const (
	RateTypeDaily  RateType = "daily"
	RateTypeHourly RateType = "hourly"
	RateTypeFixed  RateType = "fixed"
	RateTypeNone   RateType = "none"
)

// IsValid reports whether r is a known rate type.
func (r RateType) IsValid() bool {
	switch r {
	case RateTypeDaily, RateTypeHourly, RateTypeFixed, RateTypeNone:
		return true
	}
	return false
}

// StakeholderPaymentStatus summarizes how much of the suggested amount has
// been paid out to a stakeholder so far.
type StakeholderPaymentStatus string

const (
	StakeholderPaymentNotConfigured StakeholderPaymentStatus = "not_configured"
	StakeholderPaymentPending       StakeholderPaymentStatus = "pending"
	StakeholderPaymentPartial       StakeholderPaymentStatus = "partial"
	StakeholderPaymentPaid          StakeholderPaymentStatus = "paid"
	StakeholderPaymentOverpaid      StakeholderPaymentStatus = "overpaid"
)

// Stakeholder represents a crew member, freelancer, or supplier attached to
// a project with an optional payment rate. RateValueCents and EstimatedUnits
// are pointers because "unset" and "zero" select different calculation
// branches.
type Stakeholder struct {
	Base
	ProjectID string `gorm:"type:uuid;not null;index" json:"project_id"`
	Name      string `gorm:"not null" json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`

	RateType       RateType `gorm:"not null;default:'none'" json:"rate_type"`
	RateValueCents *int64   `gorm:"type:bigint" json:"rate_value_cents,omitempty"`
	EstimatedUnits *int64   `gorm:"type:bigint" json:"estimated_units,omitempty"`

	BookingStartDate *time.Time `json:"booking_start_date,omitempty"`
	BookingEndDate   *time.Time `json:"booking_end_date,omitempty"`
	BookingConfirmed bool       `gorm:"default:false" json:"booking_confirmed"`

	// Rate locked in when the booking was confirmed. Once set, the confirmed
	// rate supersedes the draft rate fields for payment calculations.
	ConfirmedRateCents *int64    `gorm:"type:bigint" json:"confirmed_rate_cents,omitempty"`
	ConfirmedRateType  *RateType `json:"confirmed_rate_type,omitempty"`
}

// EffectiveRate returns the rate type and unit value to use for payment
// calculations, preferring the confirmed rate when the booking is locked.
func (s *Stakeholder) EffectiveRate() (RateType, *int64) {
	if s.ConfirmedRateType != nil {
		return *s.ConfirmedRateType, s.ConfirmedRateCents
	}
	return s.RateType, s.RateValueCents
}
