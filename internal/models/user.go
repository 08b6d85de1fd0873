package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account that owns projects.
type User struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key (UUID).

	Email    string `gorm:"type:text;not null;uniqueIndex"` // Lower-cased login email.
	Name     string `gorm:"type:text"`                      // Display name.
	Mobile   string `gorm:"type:text"`                      // Contact mobile number.
	Address  string `gorm:"type:text"`                      // Postal address.
	Password string `gorm:"type:text;not null"`             // Hashed password.

	Projects []Project `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"` // Owned projects.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when missing.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return nil
}
