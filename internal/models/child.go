package models

import "time"

// Hours in an average year, accounting for leap years.
const hoursPerYear = 365.25 * 24

// Child represents a monitored child stored in the 'children' table.
type Child struct {
	ID          string     `db:"id" json:"id"`
	FamilyID    string     `db:"family_id" json:"family_id"`
	DisplayName string     `db:"display_name" json:"display_name"`
	BirthDate   *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	SafetyScore int        `db:"safety_score" json:"safety_score"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// Age returns the child's age in whole years at the given time.
// Children without a recorded birth date are assumed to be 14.
func (c *Child) Age(now time.Time) int {
	if c.BirthDate == nil {
		return 14
	}
	return int(now.Sub(*c.BirthDate).Hours() / hoursPerYear)
}
