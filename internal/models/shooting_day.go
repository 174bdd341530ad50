package models

import "time"

// ShootingDay is a calendar day of production assigned to a project. The
// count of shooting days is the default unit count for daily-rate
// stakeholders.
type ShootingDay struct {
	Base
	ProjectID string    `gorm:"type:uuid;not null;index" json:"project_id"`
	Date      time.Time `gorm:"not null" json:"date"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
}
