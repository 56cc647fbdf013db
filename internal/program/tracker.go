package program

import (
	"encoding/json"

	"care_program_backend/internal/model"
)

// Materialize builds a day module from the ordered catalog items, once, when
// the day becomes relevant. Only the first item starts unlocked. An empty
// catalog for a materializing day is broken configuration.
func Materialize(programID uint, day int, category string, items []model.ContentItem) (*model.DayModule, error) {
	if len(items) == 0 {
		return nil, Configurationf("content catalog empty for day %d category %q", day, category)
	}
	module := &model.DayModule{
		ProgramID: programID,
		Day:       day,
		Category:  category,
		Contents:  make([]model.ContentCompletion, len(items)),
	}
	for i, item := range items {
		module.Contents[i] = model.ContentCompletion{
			ContentID:  item.ID,
			Order:      i,
			IsUnlocked: i == 0,
		}
	}
	return module, nil
}

// RecordProgress updates partial consumption of one item. It never flips
// completion or unlock flags.
func RecordProgress(module *model.DayModule, contentID string, progress int) error {
	if progress < 0 || progress > 100 {
		return Validationf("progress %d out of range 0-100", progress)
	}
	item := module.ContentFor(contentID)
	if item == nil {
		return NotFound("content", contentID)
	}
	if !item.IsUnlocked {
		return Validationf("content %s is not unlocked yet", contentID)
	}
	item.Progress = progress
	return nil
}

// CompleteContent marks one item completed, unlocks its successor and
// recomputes the day percentage. Returns true when this completion finished
// the whole day.
func CompleteContent(module *model.DayModule, contentID string, metadata json.RawMessage, clock Clock) (bool, error) {
	item := module.ContentFor(contentID)
	if item == nil {
		return false, NotFound("content", contentID)
	}
	if !item.IsUnlocked {
		return false, Validationf("content %s is not unlocked yet", contentID)
	}
	if item.IsCompleted {
		return false, Validationf("content %s is already completed", contentID)
	}

	now := clock.Now()
	item.IsCompleted = true
	item.Progress = 100
	item.CompletedAt = &now
	if metadata != nil {
		item.Metadata = metadata
	}

	// strictly sequential: only the immediate successor unlocks
	for i := range module.Contents {
		if module.Contents[i].Order == item.Order+1 {
			module.Contents[i].IsUnlocked = true
			break
		}
	}

	module.ProgressPercentage = progressPercentage(module)
	if allCompleted(module) {
		module.CompletedAt = &now
		return true, nil
	}
	return false, nil
}

func progressPercentage(module *model.DayModule) int {
	total := len(module.Contents)
	if total == 0 {
		return 0
	}
	completed := 0
	for _, c := range module.Contents {
		if c.IsCompleted {
			completed++
		}
	}
	return completed * 100 / total // floor
}

func allCompleted(module *model.DayModule) bool {
	for _, c := range module.Contents {
		if !c.IsCompleted {
			return false
		}
	}
	return len(module.Contents) > 0
}

// ResetDayModule clears completion state while keeping the materialized item
// list. Used only by the explicit admin reset; category changes never
// silently rewrite an existing module.
func ResetDayModule(module *model.DayModule) {
	module.ProgressPercentage = 0
	module.CompletedAt = nil
	module.UnlockedAt = nil
	for i := range module.Contents {
		module.Contents[i].IsCompleted = false
		module.Contents[i].IsUnlocked = i == 0
		module.Contents[i].Progress = 0
		module.Contents[i].CompletedAt = nil
		module.Contents[i].Metadata = nil
	}
}
