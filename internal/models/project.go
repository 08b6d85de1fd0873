package models

import (
	"time"

	"gorm.io/gorm"
)

// Project is a land survey engagement owned by a single user.
type Project struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key (UUID).

	Name         string `gorm:"type:text;not null;uniqueIndex:idx_projects_user_name,priority:2"`   // Project name, unique per owner.
	MobileNumber string `gorm:"type:text;not null;uniqueIndex:idx_projects_user_mobile,priority:2"` // Contact number; also the share password.

	UserID string `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_projects_user_name,priority:1;uniqueIndex:idx_projects_user_mobile,priority:1"` // Owning user ID.

	ShareToken *string `gorm:"type:varchar(64);uniqueIndex"` // Opaque share token, nil when not shared.
	IsShared   bool    `gorm:"not null;default:false"`       // Whether the share link is active.

	Raiyats     []Raiyat     `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"` // Land-holders.
	LandRecords []LandRecord `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"` // Khesra records.
	Payments    []Payment    `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"` // Payments received.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when missing.
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
