package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag colors are restricted to the fixed palette used by the frontend.
const (
	ColorSienna       = "#e76f51"
	ColorOrange       = "#f4a261"
	ColorSunset       = "#e9c46a"
	ColorSeaGreen     = "#2a9d8f"
	ColorDarkCyan     = "#264652"
	ColorTeal         = "#003049"
	ColorLemonChiffon = "#eae2b7"
	ColorYellow       = "#fcbf49"
	ColorStrongOrange = "#f77f00"
	ColorPaleRed      = "#d62828"
)

var TagColors = []string{
	ColorSienna,
	ColorOrange,
	ColorSunset,
	ColorSeaGreen,
	ColorDarkCyan,
	ColorTeal,
	ColorLemonChiffon,
	ColorYellow,
	ColorStrongOrange,
	ColorPaleRed,
}

// ValidTagColor reports whether color belongs to the palette.
func ValidTagColor(color string) bool {
	for _, c := range TagColors {
		if c == color {
			return true
		}
	}
	return false
}

type Tag struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Color     string    `gorm:"size:7;not null" json:"color"`
	Slug      string    `gorm:"size:200;not null;uniqueIndex" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
