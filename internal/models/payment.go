package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus is derived from the total and received amounts.
type PaymentStatus string

// PaymentStatus values.
const (
	// PaymentStatusPending marks a payment with nothing received.
	PaymentStatusPending PaymentStatus = "pending"
	// PaymentStatusPartial marks a partially received payment.
	PaymentStatusPartial PaymentStatus = "partial"
	// PaymentStatusCompleted marks a fully received payment.
	PaymentStatusCompleted PaymentStatus = "completed"
)

// PaymentType is the instrument a payment was made with.
type PaymentType string

// PaymentType values.
const (
	PaymentTypeCash   PaymentType = "cash"
	PaymentTypeBank   PaymentType = "bank"
	PaymentTypeUPI    PaymentType = "upi"
	PaymentTypeCheque PaymentType = "cheque"
	PaymentTypeOther  PaymentType = "other"
)

// Payment tracks money owed and received for a project.
type Payment struct {
	ID string `gorm:"type:varchar(36);primaryKey"` // Primary key (UUID).

	ProjectID string `gorm:"type:varchar(36);not null;index"` // Owning project ID.

	TotalAmount    float64 `gorm:"type:decimal(14,2);not null;default:0"` // Amount billed.
	ReceivedAmount float64 `gorm:"type:decimal(14,2);not null;default:0"` // Amount received so far.
	PendingAmount  float64 `gorm:"type:decimal(14,2);not null;default:0"` // Derived: total minus received.

	PaymentDate string        `gorm:"type:varchar(10);not null"`                 // Date in YYYY-MM-DD.
	Status      PaymentStatus `gorm:"type:varchar(16);not null;default:pending"` // Derived status.
	PaymentType PaymentType   `gorm:"type:varchar(16);not null;default:cash"`    // Payment instrument.
	Description string        `gorm:"type:text"`                                 // Free-form description.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when missing.
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return nil
}
