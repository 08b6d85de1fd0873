package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Raiyat is a named land-holder inside a project.
type Raiyat struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key (UUID).

	ProjectID string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_raiyats_project_name,priority:1"` // Owning project ID.

	Name    string `gorm:"type:text;not null"`                                                  // Display name as entered.
	NameKey string `gorm:"type:text;not null;uniqueIndex:idx_raiyats_project_name,priority:2"` // Case-folded name used for uniqueness.
	Color   string `gorm:"type:varchar(16)"`                                                    // Hex color from the palette.

	LandRecords []LandRecord `gorm:"foreignKey:RaiyatID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"` // Records attributed to this raiyat.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
}

// RaiyatNameKey folds a raiyat name into its uniqueness key.
func RaiyatNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BeforeCreate assigns a UUID primary key and derives the name key.
func (r *Raiyat) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = newID()
	}
	r.NameKey = RaiyatNameKey(r.Name)
	return nil
}
