package program

import (
	"testing"
	"time"

	"care_program_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogItems(ids ...string) []model.ContentItem {
	items := make([]model.ContentItem, len(ids))
	for i, id := range ids {
		items[i] = model.ContentItem{UUIDBase: model.UUIDBase{ID: id}, Order: i}
	}
	return items
}

func TestMaterializeUnlocksOnlyFirstItem(t *testing.T) {
	module, err := Materialize(1, 2, "moderate", catalogItems("a", "b", "c"))
	require.NoError(t, err)

	require.Len(t, module.Contents, 3)
	assert.True(t, module.Contents[0].IsUnlocked)
	assert.False(t, module.Contents[1].IsUnlocked)
	assert.False(t, module.Contents[2].IsUnlocked)
	assert.Equal(t, []int{0, 1, 2}, []int{module.Contents[0].Order, module.Contents[1].Order, module.Contents[2].Order})
}

func TestMaterializeEmptyCatalogIsConfigurationError(t *testing.T) {
	_, err := Materialize(1, 2, "moderate", nil)
	assert.True(t, IsConfiguration(err))
}

func TestCompleteContentUnlocksOnlySuccessor(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module, err := Materialize(1, 0, "general", catalogItems("a", "b", "c"))
	require.NoError(t, err)

	done, err := CompleteContent(module, "a", nil, clock)
	require.NoError(t, err)
	assert.False(t, done)

	assert.True(t, module.Contents[1].IsUnlocked)
	assert.False(t, module.Contents[2].IsUnlocked, "only the immediate successor unlocks")
}

func TestCompleteContentRejectsLockedAndRepeated(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module, err := Materialize(1, 0, "general", catalogItems("a", "b"))
	require.NoError(t, err)

	// skipping ahead is rejected
	_, err = CompleteContent(module, "b", nil, clock)
	assert.True(t, IsValidation(err))

	_, err = CompleteContent(module, "a", nil, clock)
	require.NoError(t, err)

	// completing twice is rejected
	_, err = CompleteContent(module, "a", nil, clock)
	assert.True(t, IsValidation(err))
}

func TestDayPercentageIsFloored(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module, err := Materialize(1, 0, "general", catalogItems("a", "b", "c"))
	require.NoError(t, err)

	_, err = CompleteContent(module, "a", nil, clock)
	require.NoError(t, err)
	assert.Equal(t, 33, module.ProgressPercentage, "1 of 3 floors to 33")

	_, err = CompleteContent(module, "b", nil, clock)
	require.NoError(t, err)
	assert.Equal(t, 66, module.ProgressPercentage, "2 of 3 floors to 66")
}

func TestCompletingLastItemCompletesDay(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module, err := Materialize(1, 0, "general", catalogItems("a", "b"))
	require.NoError(t, err)

	done, err := CompleteContent(module, "a", nil, clock)
	require.NoError(t, err)
	assert.False(t, done)

	clock.Advance(10 * time.Minute)
	done, err = CompleteContent(module, "b", nil, clock)
	require.NoError(t, err)
	assert.True(t, done)
	require.NotNil(t, module.CompletedAt)
	assert.True(t, module.CompletedAt.Equal(clock.T))
	assert.Equal(t, 100, module.ProgressPercentage)
}

func TestRecordProgressNeverFlipsFlags(t *testing.T) {
	module, err := Materialize(1, 0, "general", catalogItems("a", "b"))
	require.NoError(t, err)

	require.NoError(t, RecordProgress(module, "a", 80))
	assert.Equal(t, 80, module.Contents[0].Progress)
	assert.False(t, module.Contents[0].IsCompleted)
	assert.False(t, module.Contents[1].IsUnlocked)

	// locked item rejects progress
	assert.True(t, IsValidation(RecordProgress(module, "b", 10)))

	// out of range
	assert.True(t, IsValidation(RecordProgress(module, "a", 101)))
	assert.True(t, IsValidation(RecordProgress(module, "a", -1)))
}

func TestResetDayModule(t *testing.T) {
	clock := &FixedClock{T: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	module, err := Materialize(1, 0, "general", catalogItems("a", "b"))
	require.NoError(t, err)

	_, err = CompleteContent(module, "a", nil, clock)
	require.NoError(t, err)
	_, err = CompleteContent(module, "b", nil, clock)
	require.NoError(t, err)

	ResetDayModule(module)

	assert.Equal(t, 0, module.ProgressPercentage)
	assert.Nil(t, module.CompletedAt)
	assert.True(t, module.Contents[0].IsUnlocked)
	assert.False(t, module.Contents[1].IsUnlocked)
	for _, c := range module.Contents {
		assert.False(t, c.IsCompleted)
		assert.Equal(t, 0, c.Progress)
		assert.Nil(t, c.CompletedAt)
	}
}
