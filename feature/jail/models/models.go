package models

import "time"

// Arrest is a minutes-based jail sentence. ReleasedAt is nil while the citizen
// is still in custody.
type Arrest struct {
	ID          uint       `gorm:"column:id;primaryKey" json:"id"`
	CitizenName string     `gorm:"column:citizen_name" json:"citizenName"`
	OfficerID   *uint      `gorm:"column:officer_id" json:"officerId"`
	Charges     string     `gorm:"column:charges" json:"charges"`
	Minutes     int        `gorm:"column:minutes" json:"minutes"`
	StartedAt   time.Time  `gorm:"column:started_at" json:"startedAt"`
	ReleasedAt  *time.Time `gorm:"column:released_at" json:"releasedAt"`
}

// TableName overrides the table name.
func (Arrest) TableName() string {
	return "arrests"
}

// ReleaseAt returns the moment the sentence is served.
func (a Arrest) ReleaseAt() time.Time {
	return a.StartedAt.Add(time.Duration(a.Minutes) * time.Minute)
}

// Due reports whether the sentence is served at the given time and the citizen
// has not been released yet.
func (a Arrest) Due(now time.Time) bool {
	return a.ReleasedAt == nil && !now.Before(a.ReleaseAt())
}
