package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	PaymentUnpaid   = "unpaid"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// Enrollment is a booking: one checkout action by one user against one
// event. The integer primary key doubles as the invoice number.
type Enrollment struct {
	ID            uint      `gorm:"primary_key;autoIncrement"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Event         Event
	UserID        uuid.UUID `gorm:"type:uuid;not null;index"`
	User          User
	Quantity      int             `gorm:"not null"`
	PaymentStatus string          `gorm:"not null;default:'unpaid'"`
	AmountPaid    decimal.Decimal `gorm:"type:numeric;not null;default:0"`
	Tickets       []Ticket
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}
