package models

// ShouldDo values carried by a StatusValue. They describe the behavioral
// effect of applying the status to a unit.
const (
	ShouldDoOnDuty  = "SET_ON_DUTY"
	ShouldDoOffDuty = "SET_OFF_DUTY"
	ShouldDoStatus  = "SET_STATUS"
)

// StatusValue is a dispatch status code (e.g. 10-8) with its semantic tag.
type StatusValue struct {
	ID       uint   `gorm:"column:id;primaryKey" json:"id"`
	Code     string `gorm:"column:code" json:"code"`
	ShouldDo string `gorm:"column:should_do" json:"shouldDo"`
}

// TableName overrides the table name.
func (StatusValue) TableName() string {
	return "status_values"
}

// Department groups units and carries the default on-duty status applied to
// freshly created combined units.
type Department struct {
	ID             uint   `gorm:"column:id;primaryKey" json:"id"`
	Name           string `gorm:"column:name" json:"name"`
	OnDutyStatusID *uint  `gorm:"column:on_duty_status_id" json:"onDutyStatusId"`
}

// TableName overrides the table name.
func (Department) TableName() string {
	return "departments"
}

// Officer is a law-enforcement unit. A nil StatusID means off duty; a
// non-nil CombinedUnitID means the officer operates as part of a combined
// unit and must not carry an independent status.
type Officer struct {
	ID                 uint    `gorm:"column:id;primaryKey" json:"id"`
	Callsign           string  `gorm:"column:callsign" json:"callsign"`
	Callsign2          string  `gorm:"column:callsign2" json:"callsign2"`
	DepartmentID       uint    `gorm:"column:department_id" json:"departmentId"`
	StatusID           *uint   `gorm:"column:status_id" json:"statusId"`
	CombinedUnitID     *uint   `gorm:"column:combined_unit_id" json:"combinedUnitId"`
	PairedUnitTemplate *string `gorm:"column:paired_unit_template" json:"pairedUnitTemplate"`
}

// TableName overrides the table name.
func (Officer) TableName() string {
	return "officers"
}

// EmsFdDeputy is an EMS/fire unit, the EMS-side mirror of Officer.
type EmsFdDeputy struct {
	ID                 uint    `gorm:"column:id;primaryKey" json:"id"`
	Callsign           string  `gorm:"column:callsign" json:"callsign"`
	Callsign2          string  `gorm:"column:callsign2" json:"callsign2"`
	DepartmentID       uint    `gorm:"column:department_id" json:"departmentId"`
	StatusID           *uint   `gorm:"column:status_id" json:"statusId"`
	CombinedUnitID     *uint   `gorm:"column:combined_unit_id" json:"combinedUnitId"`
	PairedUnitTemplate *string `gorm:"column:paired_unit_template" json:"pairedUnitTemplate"`
}

// TableName overrides the table name.
func (EmsFdDeputy) TableName() string {
	return "ems_fd_deputies"
}

// CombinedUnit is a merged LEO dispatch entity: two or more officers
// operating as one callsign. Seed attributes (callsign pair, department,
// paired-unit template) come from the entry officer chosen at merge time.
type CombinedUnit struct {
	ID                 uint      `gorm:"column:id;primaryKey" json:"id"`
	Number             int       `gorm:"column:number" json:"number"`
	Callsign           string    `gorm:"column:callsign" json:"callsign"`
	Callsign2          string    `gorm:"column:callsign2" json:"callsign2"`
	DepartmentID       uint      `gorm:"column:department_id" json:"departmentId"`
	StatusID           *uint     `gorm:"column:status_id" json:"statusId"`
	PairedUnitTemplate *string   `gorm:"column:paired_unit_template" json:"pairedUnitTemplate"`
	Officers           []Officer `gorm:"foreignKey:CombinedUnitID" json:"officers"`
}

// TableName overrides the table name.
func (CombinedUnit) TableName() string {
	return "combined_units"
}

// CombinedEmsUnit is the EMS/FD counterpart of CombinedUnit.
type CombinedEmsUnit struct {
	ID                 uint          `gorm:"column:id;primaryKey" json:"id"`
	Number             int           `gorm:"column:number" json:"number"`
	Callsign           string        `gorm:"column:callsign" json:"callsign"`
	Callsign2          string        `gorm:"column:callsign2" json:"callsign2"`
	DepartmentID       uint          `gorm:"column:department_id" json:"departmentId"`
	StatusID           *uint         `gorm:"column:status_id" json:"statusId"`
	PairedUnitTemplate *string       `gorm:"column:paired_unit_template" json:"pairedUnitTemplate"`
	Deputies           []EmsFdDeputy `gorm:"foreignKey:CombinedUnitID" json:"deputies"`
}

// TableName overrides the table name.
func (CombinedEmsUnit) TableName() string {
	return "combined_ems_units"
}
