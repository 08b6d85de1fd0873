package models

import (
	"time"

	"gorm.io/gorm"
)

// LandRecord is a single khesra entry attributed to a raiyat.
type LandRecord struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key (UUID).

	ProjectID string `gorm:"type:varchar(36);not null;index"` // Owning project ID.
	RaiyatID  string `gorm:"type:varchar(36);not null;index"` // Attributed raiyat ID.

	Timestamp       string `gorm:"type:text;not null"` // Entry timestamp (RFC 3339).
	JamabandiNumber string `gorm:"type:text"`          // Jamabandi register number.
	KhataNumber     string `gorm:"type:text"`          // Khata number.
	KhesraNumber    string `gorm:"type:text;not null"` // Khesra (plot) number, not unique.
	Rakwa           string `gorm:"type:text"`          // Area in dismil, kept as entered.
	Uttar           string `gorm:"type:text"`          // Northern neighbour.
	Dakshin         string `gorm:"type:text"`          // Southern neighbour.
	Purab           string `gorm:"type:text"`          // Eastern neighbour.
	Paschim         string `gorm:"type:text"`          // Western neighbour.
	Remarks         string `gorm:"type:text"`          // Free-form remarks.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when missing.
func (r *LandRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = newID()
	}
	return nil
}
