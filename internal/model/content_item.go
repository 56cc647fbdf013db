package model

type ContentType string

const (
	ContentVideo ContentType = "video"
	ContentText  ContentType = "text"
	ContentQuiz  ContentType = "quiz"
	ContentTask  ContentType = "task"
)

// ContentItem is one entry of the day content catalog. Only identity, order
// and selection keys live here; payloads (video URLs, translated text) are
// served elsewhere.
// swagger:model ContentItem
type ContentItem struct {
	UUIDBase
	Day      int         `gorm:"index:idx_catalog" json:"day"`
	Role     UserRole    `gorm:"index:idx_catalog;size:20" json:"role"`
	Category string      `gorm:"index:idx_catalog;size:30" json:"category"`
	Order    int         `gorm:"default:0" json:"order"`
	Type     ContentType `gorm:"size:20;not null" json:"type"`
	Title    string      `gorm:"size:255" json:"title"`
	Enabled  bool        `gorm:"default:true" json:"enabled"`
}

func (ContentItem) TableName() string {
	return "content_items"
}
