package program

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomyPredicates(t *testing.T) {
	v := Validationf("bad input %d", 1)
	c := Configurationf("broken range")
	n := NotFound("day", "3")

	assert.True(t, IsValidation(v))
	assert.False(t, IsValidation(c))
	assert.True(t, IsConfiguration(c))
	assert.True(t, IsNotFound(n))
	assert.Equal(t, "day 3 not found", n.Error())
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("axis burden: %w", Configurationf("gap between 10 and 12"))
	assert.True(t, IsConfiguration(wrapped))
	assert.False(t, IsValidation(wrapped))
}
