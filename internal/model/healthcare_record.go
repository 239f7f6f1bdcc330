package model

import "time"

// HealthcareRecord is a single measurement such as blood pressure, weight or
// heart rate.  It corresponds to a row in the `healthcare_records` table.
// UserID is optional and never authenticated; it only tags the owner.
type HealthcareRecord struct {
	ID        int64     `json:"id"`         // healthcare_records.id
	UserID    *string   `json:"user_id"`    // healthcare_records.user_id
	Type      string    `json:"type"`       // healthcare_records.type
	Value     string    `json:"value"`      // healthcare_records.value
	Unit      *string   `json:"unit"`       // healthcare_records.unit
	Notes     *string   `json:"notes"`      // healthcare_records.notes
	CreatedAt time.Time `json:"created_at"` // healthcare_records.created_at
}
