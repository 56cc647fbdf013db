package model

// WaitTimeConfig is the single global row of wait-hour defaults between days.
// swagger:model WaitTimeConfig
type WaitTimeConfig struct {
	BaseModel
	Day0ToDay1Hours  int `gorm:"default:24" json:"day0ToDay1Hours"`
	BetweenDaysHours int `gorm:"default:24" json:"betweenDaysHours"`
}

func (WaitTimeConfig) TableName() string {
	return "wait_time_configs"
}

// WaitTimeOverride carries per-participant wait hours. Nil fields fall back
// to the global default field by field, not all or nothing.
// swagger:model WaitTimeOverride
type WaitTimeOverride struct {
	BaseModel
	ProgramID        uint `gorm:"uniqueIndex;type:bigint unsigned" json:"programId"`
	Day0ToDay1Hours  *int `json:"day0ToDay1Hours,omitempty"`
	BetweenDaysHours *int `json:"betweenDaysHours,omitempty"`
}

func (WaitTimeOverride) TableName() string {
	return "wait_time_overrides"
}
