package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ticket is one admission unit of an enrollment. Codes are minted when the
// enrollment is created and never change afterwards, so a booking always
// shows the same scannable identifiers.
type Ticket struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	EnrollmentID uint      `gorm:"not null;index"`
	Code         string    `gorm:"unique;not null"`
	TierName     string    `gorm:"not null"`
	CreatedAt    time.Time
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
