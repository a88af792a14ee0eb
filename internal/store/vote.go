package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/voting"
)

// CanVote reports whether the event currently accepts votes.
func (s *Store) CanVote(ctx context.Context, eventID uuid.UUID) (bool, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	return voting.WindowOpen(event, time.Now()), nil
}

// HasVoted reports whether userID has a vote on the event.
func (s *Store) HasVoted(ctx context.Context, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	return count > 0, err
}

// CountVotes returns the number of votes an event has collected.
func (s *Store) CountVotes(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Vote{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

// CastVote records one vote per (event, user) as a single transaction. A
// second vote by the same user returns ErrAlreadyVoted whether it is
// caught by the read inside the transaction or by the unique index on a
// racing insert.
func (s *Store) CastVote(ctx context.Context, eventID, userID uuid.UUID) (*models.Vote, error) {
	var vote *models.Vote
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if event.Type != models.EventTypeUndefined {
			return ErrNotVotable
		}
		if !voting.WindowOpen(&event, time.Now()) {
			return ErrVotingClosed
		}

		var count int64
		if err := tx.Model(&models.Vote{}).
			Where("event_id = ? AND user_id = ?", eventID, userID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyVoted
		}

		vote = &models.Vote{EventID: eventID, UserID: userID}
		if err := tx.Create(vote).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyVoted
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vote, nil
}
