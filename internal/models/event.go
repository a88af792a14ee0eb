package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	EventTypeDefined   = "defined"
	EventTypeUndefined = "undefined"

	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusClosed    = "closed"

	VotingOpen   = "open"
	VotingClosed = "closed"
)

type Event struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Type          string    `gorm:"not null;default:'defined'"`
	Status        string    `gorm:"not null;default:'draft'"`
	Name          string    `gorm:"not null"`
	Description   string
	Location      string
	PosterURL     string
	Capacity      int              `gorm:"not null"`
	EventDatetime time.Time        `gorm:"not null"`
	TicketPrice   *decimal.Decimal `gorm:"type:numeric"`
	VotingStart   *time.Time
	VotingEnd     *time.Time
	VotingStatus  *string
	CreatedByID   uuid.UUID
	CreatedBy     User
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// Free reports whether the event has no ticket price set.
func (event *Event) Free() bool {
	return event.TicketPrice == nil || event.TicketPrice.IsZero()
}

// UnitPrice returns the per-ticket price, zero for free events.
func (event *Event) UnitPrice() decimal.Decimal {
	if event.TicketPrice == nil {
		return decimal.Zero
	}
	return *event.TicketPrice
}

// TierName is the display name of the event's single ticket tier.
func (event *Event) TierName() string {
	if event.Free() {
		return "Free"
	}
	return "Regular"
}
