package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote records one user's interest in an undefined event. The composite
// unique index is what makes duplicate votes impossible under races.
type Vote struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_event_user"`
	Event     Event
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_votes_event_user"`
	User      User
	CreatedAt time.Time
}

func (vote *Vote) BeforeCreate(tx *gorm.DB) (err error) {
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	return
}
