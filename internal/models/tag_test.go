package models_test

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodgram/backend/internal/models"
)

func TestTagColorPalette(t *testing.T) {
	assert.Len(t, models.TagColors, 10)

	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	seen := make(map[string]bool)
	for _, color := range models.TagColors {
		assert.Regexp(t, hex, color)
		assert.False(t, seen[color], "duplicate palette color %s", color)
		seen[color] = true
	}
}

func TestValidTagColor(t *testing.T) {
	assert.True(t, models.ValidTagColor(models.ColorSeaGreen))
	assert.False(t, models.ValidTagColor("#ffffff"))
	assert.False(t, models.ValidTagColor(""))
}
