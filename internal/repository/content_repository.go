package repository

import (
	"care_program_backend/internal/model"

	"gorm.io/gorm"
)

type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

// ListForDay returns the enabled catalog items for one (day, role, category)
// in display order. This is the ordering Materialize freezes into a module.
func (r *ContentRepository) ListForDay(day int, role model.UserRole, category string) ([]model.ContentItem, error) {
	var items []model.ContentItem
	err := r.DB.
		Where("day = ? AND role = ? AND category = ? AND enabled = ?", day, role, category, true).
		Order("`order` asc, created_at asc").
		Find(&items).Error
	return items, err
}

func (r *ContentRepository) FindByID(id string) (*model.ContentItem, error) {
	var item model.ContentItem
	err := r.DB.First(&item, "id = ?", id).Error
	return &item, err
}

func (r *ContentRepository) List(day int, role model.UserRole, page, limit int) ([]model.ContentItem, int64, error) {
	var items []model.ContentItem
	var total int64
	query := r.DB.Model(&model.ContentItem{})
	if day >= 0 {
		query = query.Where("day = ?", day)
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("day asc, `order` asc").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *ContentRepository) Create(item *model.ContentItem) error {
	return r.DB.Create(item).Error
}

func (r *ContentRepository) Update(item *model.ContentItem) error {
	return r.DB.Save(item).Error
}

func (r *ContentRepository) Delete(id string) error {
	return r.DB.Delete(&model.ContentItem{}, "id = ?", id).Error
}
