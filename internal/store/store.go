// Package store owns all persistence for events, enrollments, and votes.
// The two decision procedures that guard bookings and votes run as single
// transactions here so that concurrent requests can never jointly oversell
// an event or double-vote.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dfactory/ticketbooth/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// lockForUpdate adds a row lock on dialects that support it. SQLite
// serializes writing transactions on its own, so the clause is skipped
// there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// lockEvent loads an event inside tx, holding its row lock for the rest of
// the transaction.
func lockEvent(tx *gorm.DB, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	if err := lockForUpdate(tx).First(&event, "id = ?", eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// GetEvent returns a single event or ErrNotFound.
func (s *Store) GetEvent(ctx context.Context, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).First(&event, "id = ?", eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// ListPublishedEvents returns published events ordered by date, soonest
// first. This is the public landing-page listing.
func (s *Store) ListPublishedEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("status = ?", models.EventStatusPublished).
		Order("event_datetime asc").
		Find(&events).Error
	return events, err
}

// ListAllEvents returns every event including drafts, newest first.
func (s *Store) ListAllEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&events).Error
	return events, err
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Create(event).Error
}

func (s *Store) UpdateEvent(ctx context.Context, event *models.Event) error {
	return s.db.WithContext(ctx).Save(event).Error
}

// allowedStatusTransitions is the event lifecycle: draft -> published -> closed.
var allowedStatusTransitions = map[string]string{
	models.EventStatusDraft:     models.EventStatusPublished,
	models.EventStatusPublished: models.EventStatusClosed,
}

// UpdateEventStatus advances an event's lifecycle status. Any step other
// than the forward transition is rejected with ErrInvalidTransition.
func (s *Store) UpdateEventStatus(ctx context.Context, eventID uuid.UUID, status string) (*models.Event, error) {
	var event *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		event, txErr = lockEvent(tx, eventID)
		if txErr != nil {
			return txErr
		}
		if allowedStatusTransitions[event.Status] != status {
			return ErrInvalidTransition
		}
		event.Status = status
		return tx.Save(event).Error
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}
