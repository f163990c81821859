package models

import "time"

// Call types.
const (
	TypeCall = "call" // 911 call
	TypeTow  = "tow"
	TypeTaxi = "taxi"
)

// Call is a dispatchable incident: a 911 call, tow call, or taxi call.
type Call struct {
	ID        uint      `gorm:"column:id;primaryKey" json:"id"`
	Type      string    `gorm:"column:type" json:"type"`
	Title     string    `gorm:"column:title" json:"title"`
	Location  string    `gorm:"column:location" json:"location"`
	Ended     bool      `gorm:"column:ended" json:"ended"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`

	AssignedUnits []AssignedUnit `gorm:"foreignKey:CallID" json:"assignedTo"`
}

// TableName overrides the table name.
func (Call) TableName() string {
	return "calls"
}

// AssignedUnit links a unit to a call. Exactly one of the unit id columns is
// set per row; plain columns (no struct references) keep this package free of
// cross-feature imports.
type AssignedUnit struct {
	ID                uint  `gorm:"column:id;primaryKey" json:"id"`
	CallID            uint  `gorm:"column:call_id" json:"callId"`
	OfficerID         *uint `gorm:"column:officer_id" json:"officerId"`
	EmsFdDeputyID     *uint `gorm:"column:ems_fd_deputy_id" json:"emsFdDeputyId"`
	CombinedUnitID    *uint `gorm:"column:combined_unit_id" json:"combinedUnitId"`
	CombinedEmsUnitID *uint `gorm:"column:combined_ems_unit_id" json:"combinedEmsUnitId"`
}

// TableName overrides the table name.
func (AssignedUnit) TableName() string {
	return "assigned_units"
}
