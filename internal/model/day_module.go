package model

import (
	"encoding/json"
	"time"
)

// AdminLockState is the explicit admin override on a day. It wins over the
// time gate in both directions; empty means no override.
type AdminLockState string

const (
	AdminLockNone     AdminLockState = ""
	AdminLockLocked   AdminLockState = "locked"
	AdminLockUnlocked AdminLockState = "unlocked"
)

// DayModule holds one day's materialized content list for one participant.
// swagger:model DayModule
type DayModule struct {
	BaseModel
	ProgramID uint   `gorm:"index:idx_program_day,unique;type:bigint unsigned" json:"programId"`
	Day       int    `gorm:"index:idx_program_day,unique" json:"day"`
	Category  string `gorm:"size:30" json:"category"` // catalog category resolved at materialization

	ProgressPercentage int            `gorm:"default:0" json:"progressPercentage"`
	ScheduledUnlockAt  *time.Time     `json:"scheduledUnlockAt,omitempty"`
	UnlockedAt         *time.Time     `json:"unlockedAt,omitempty"`
	CompletedAt        *time.Time     `json:"completedAt,omitempty"`
	AdminLock          AdminLockState `gorm:"size:20;default:''" json:"adminLock"`

	Contents []ContentCompletion `gorm:"foreignKey:DayModuleID" json:"contents,omitempty"`
}

func (DayModule) TableName() string {
	return "day_modules"
}

// ContentFor returns the completion record for a content item, or nil.
func (m *DayModule) ContentFor(contentID string) *ContentCompletion {
	for i := range m.Contents {
		if m.Contents[i].ContentID == contentID {
			return &m.Contents[i]
		}
	}
	return nil
}

// ContentCompletion tracks one content item of one day module. Order is fixed
// at materialization time; item N+1 unlocks only when item N completes.
// swagger:model ContentCompletion
type ContentCompletion struct {
	BaseModel
	DayModuleID uint   `gorm:"index:idx_module_content,unique;type:bigint unsigned" json:"dayModuleId"`
	ContentID   string `gorm:"index:idx_module_content,unique;type:varchar(36)" json:"contentId"`
	Order       int    `gorm:"default:0" json:"order"`

	IsCompleted bool            `gorm:"default:false" json:"isCompleted"`
	IsUnlocked  bool            `gorm:"default:false" json:"isUnlocked"`
	Progress    int             `gorm:"default:0" json:"progress"` // 0-100, partial consumption (video position etc.)
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Metadata    json.RawMessage `gorm:"type:json" json:"metadata,omitempty"`
}

func (ContentCompletion) TableName() string {
	return "content_completions"
}
