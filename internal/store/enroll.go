package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dfactory/ticketbooth/internal/models"
)

const ticketCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// mintTicketCode produces a fresh "TKT-XXXXXXX" identifier. Codes are
// persisted with the enrollment so a booking's tickets never change between
// reads.
func mintTicketCode() (string, error) {
	buf := make([]byte, 7)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(ticketCodeAlphabet))))
		if err != nil {
			return "", err
		}
		buf[i] = ticketCodeAlphabet[n.Int64()]
	}
	return "TKT-" + string(buf), nil
}

// reservedQuantity sums non-refunded quantities for an event inside tx.
func reservedQuantity(tx *gorm.DB, eventID uuid.UUID) (int, error) {
	var reserved int64
	err := tx.Model(&models.Enrollment{}).
		Where("event_id = ? AND payment_status <> ?", eventID, models.PaymentRefunded).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error
	return int(reserved), err
}

// ReservedCount returns the number of seats currently held against an
// event. Advisory only: the authoritative check runs inside Enroll.
func (s *Store) ReservedCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	return reservedQuantity(s.db.WithContext(ctx), eventID)
}

// CanEnroll reports whether qty seats could be reserved right now. This is
// the display-side mirror of the check inside Enroll; a true result is
// advisory and may be stale by the time the user checks out.
func (s *Store) CanEnroll(ctx context.Context, eventID uuid.UUID, qty int) (bool, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return false, err
	}
	reserved, err := reservedQuantity(s.db.WithContext(ctx), eventID)
	if err != nil {
		return false, err
	}
	return reserved+qty <= event.Capacity, nil
}

// Enroll reserves qty seats for a user as one atomic decision: the event
// row is locked, non-refunded quantities are summed, and the enrollment
// plus its tickets are inserted only if the request still fits. Two
// concurrent requests for the last seats therefore serialize, and the
// loser gets ErrCapacityExceeded with no side effects.
func (s *Store) Enroll(ctx context.Context, eventID, userID uuid.UUID, qty int) (*models.Enrollment, error) {
	if qty < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	var enrollment *models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if event.Status != models.EventStatusPublished {
			return ErrNotFound
		}

		reserved, err := reservedQuantity(tx, eventID)
		if err != nil {
			return err
		}
		if reserved+qty > event.Capacity {
			return ErrCapacityExceeded
		}

		enrollment = &models.Enrollment{
			EventID:       eventID,
			UserID:        userID,
			Quantity:      qty,
			PaymentStatus: models.PaymentUnpaid,
			AmountPaid:    decimal.Zero,
		}
		if err := tx.Create(enrollment).Error; err != nil {
			return err
		}

		tickets := make([]models.Ticket, qty)
		for i := range tickets {
			code, err := mintTicketCode()
			if err != nil {
				return err
			}
			tickets[i] = models.Ticket{
				EnrollmentID: enrollment.ID,
				Code:         code,
				TierName:     event.TierName(),
			}
		}
		if err := tx.Create(&tickets).Error; err != nil {
			return err
		}
		enrollment.Tickets = tickets
		enrollment.Event = *event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetEnrollment returns a booking with its event and tickets preloaded.
func (s *Store) GetEnrollment(ctx context.Context, id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Event").Preload("Tickets").
		First(&enrollment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// GetUserEnrollment returns a booking only if it belongs to userID. A
// booking owned by someone else reads as ErrNotFound, not a permission
// error, so bookings cannot be enumerated.
func (s *Store) GetUserEnrollment(ctx context.Context, id uint, userID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Event").Preload("Tickets").
		First(&enrollment, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

// ListUserEnrollments returns a user's bookings, newest first.
func (s *Store) ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Event").Preload("Tickets").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

// ListEventEnrollments returns all bookings for an event, newest first.
func (s *Store) ListEventEnrollments(ctx context.Context, eventID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Tickets").
		Where("event_id = ?", eventID).
		Order("created_at desc").
		Find(&enrollments).Error
	return enrollments, err
}

// MarkPaid records a payment against an unpaid booking. The amount may be
// below the booking total; the remainder surfaces as amount due on the
// invoice.
func (s *Store) MarkPaid(ctx context.Context, id uint, amount decimal.Decimal) (*models.Enrollment, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return s.transitionPayment(ctx, id, func(enrollment *models.Enrollment) error {
		if enrollment.PaymentStatus != models.PaymentUnpaid {
			return ErrInvalidTransition
		}
		enrollment.PaymentStatus = models.PaymentPaid
		enrollment.AmountPaid = amount
		return nil
	})
}

// Refund cancels a booking, releasing its seats back to the event.
func (s *Store) Refund(ctx context.Context, id uint) (*models.Enrollment, error) {
	return s.transitionPayment(ctx, id, func(enrollment *models.Enrollment) error {
		if enrollment.PaymentStatus == models.PaymentRefunded {
			return ErrInvalidTransition
		}
		enrollment.PaymentStatus = models.PaymentRefunded
		return nil
	})
}

func (s *Store) transitionPayment(ctx context.Context, id uint, apply func(*models.Enrollment) error) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&enrollment, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		prior := enrollment.PaymentStatus
		if err := apply(&enrollment); err != nil {
			return err
		}

		// The status predicate guards against a concurrent transition that
		// committed between our read and this write.
		result := tx.Model(&models.Enrollment{}).
			Where("id = ? AND payment_status = ?", enrollment.ID, prior).
			Updates(map[string]interface{}{
				"payment_status": enrollment.PaymentStatus,
				"amount_paid":    enrollment.AmountPaid,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInvalidTransition
		}

		return tx.Preload("Event").Preload("Tickets").First(&enrollment, "id = ?", enrollment.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// GetTicketForUser resolves a ticket by code, restricted to the owner of
// its enrollment.
func (s *Store) GetTicketForUser(ctx context.Context, code string, userID uuid.UUID) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.id = tickets.enrollment_id").
		Where("tickets.code = ? AND enrollments.user_id = ?", code, userID).
		First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}
