package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"care_program_backend/internal/model"
	"care_program_backend/internal/program"
	"care_program_backend/internal/repository"
	"care_program_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	catalogCachePrefix = "content:catalog:"
	catalogCacheTTL    = 10 * time.Minute
)

// ContentService serves the day content catalog. Catalog reads sit on the
// hot path of every dashboard load, so resolved lists are cached in Redis
// and invalidated on any catalog write.
type ContentService struct {
	Repo  *repository.ContentRepository
	Redis *redis.Client
}

func NewContentService(repo *repository.ContentRepository, rdb *redis.Client) *ContentService {
	return &ContentService{Repo: repo, Redis: rdb}
}

// OrderedContentFor satisfies the orchestrator's ContentCatalog interface.
func (s *ContentService) OrderedContentFor(day int, role model.UserRole, category string) ([]model.ContentItem, error) {
	ctx := context.Background()
	key := fmt.Sprintf("%s%d:%s:%s", catalogCachePrefix, day, role, category)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var items []model.ContentItem
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				return items, nil
			}
		}
	}

	items, err := s.Repo.ListForDay(day, role, category)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(items); err == nil {
			if err := s.Redis.Set(ctx, key, data, catalogCacheTTL).Err(); err != nil {
				logger.Log.Warn("catalog cache write failed", zap.Error(err))
			}
		}
	}
	return items, nil
}

type ContentItemRequest struct {
	Day      int               `json:"day" binding:"min=0"`
	Role     model.UserRole    `json:"role" binding:"required,oneof=caregiver patient"`
	Category string            `json:"category" binding:"required"`
	Order    int               `json:"order" binding:"min=0"`
	Type     model.ContentType `json:"type" binding:"required,oneof=video text quiz task"`
	Title    string            `json:"title" binding:"required"`
	Enabled  *bool             `json:"enabled"`
}

func (s *ContentService) Create(req *ContentItemRequest) (*model.ContentItem, error) {
	item := &model.ContentItem{
		Day:      req.Day,
		Role:     req.Role,
		Category: req.Category,
		Order:    req.Order,
		Type:     req.Type,
		Title:    req.Title,
		Enabled:  true,
	}
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}
	if err := s.Repo.Create(item); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return item, nil
}

func (s *ContentService) Update(id string, req *ContentItemRequest) (*model.ContentItem, error) {
	item, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, program.NotFound("content item", id)
		}
		return nil, err
	}
	item.Day = req.Day
	item.Role = req.Role
	item.Category = req.Category
	item.Order = req.Order
	item.Type = req.Type
	item.Title = req.Title
	if req.Enabled != nil {
		item.Enabled = *req.Enabled
	}
	if err := s.Repo.Update(item); err != nil {
		return nil, err
	}
	s.invalidateCatalog()
	return item, nil
}

func (s *ContentService) Delete(id string) error {
	if _, err := s.Repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return program.NotFound("content item", id)
		}
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidateCatalog()
	return nil
}

func (s *ContentService) List(day int, role model.UserRole, page, limit int) ([]model.ContentItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.List(day, role, page, limit)
}

func (s *ContentService) invalidateCatalog() {
	if s.Redis == nil {
		return
	}
	ctx := context.Background()
	iter := s.Redis.Scan(ctx, 0, catalogCachePrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.Redis.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Log.Warn("catalog cache invalidation failed", zap.Error(err))
			return
		}
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("catalog cache scan failed", zap.Error(err))
	}
}
