// Package booking projects persisted enrollments into the display shape
// shared by the my-tickets listing and the invoice assembler.
package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/pricing"
)

// Ticket is one admission unit as shown to the user.
type Ticket struct {
	Code     string `json:"ticket_code"`
	TierName string `json:"tier_name"`
}

// Booking is the resolved view of an enrollment: event details, tier
// breakdown, totals, payment state, and the persisted tickets.
type Booking struct {
	ID            uint            `json:"booking_id"`
	CreatedAt     time.Time       `json:"created_at"`
	EventID       string          `json:"event_id"`
	EventName     string          `json:"event_name"`
	EventDatetime time.Time       `json:"event_datetime"`
	Location      string          `json:"location"`
	Lines         []pricing.Line  `json:"-"`
	Totals        pricing.Totals  `json:"totals"`
	PaymentStatus string          `json:"payment_status"`
	AmountPaid    decimal.Decimal `json:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due"`
	Tickets       []Ticket        `json:"tickets"`
}

// FromEnrollment builds the booking view. The enrollment must have its
// Event and Tickets preloaded; no store access happens here.
func FromEnrollment(enrollment *models.Enrollment) Booking {
	event := enrollment.Event

	lines := []pricing.Line{{
		TierName:  event.TierName(),
		UnitPrice: event.UnitPrice(),
		Qty:       enrollment.Quantity,
	}}
	totals := pricing.Calculate(lines)

	tickets := make([]Ticket, 0, len(enrollment.Tickets))
	for _, t := range enrollment.Tickets {
		tickets = append(tickets, Ticket{Code: t.Code, TierName: t.TierName})
	}

	location := event.Location
	if location == "" {
		location = "TBA"
	}

	return Booking{
		ID:            enrollment.ID,
		CreatedAt:     enrollment.CreatedAt,
		EventID:       event.ID.String(),
		EventName:     event.Name,
		EventDatetime: event.EventDatetime,
		Location:      location,
		Lines:         lines,
		Totals:        totals,
		PaymentStatus: enrollment.PaymentStatus,
		AmountPaid:    enrollment.AmountPaid,
		AmountDue:     pricing.AmountDue(totals.Total, enrollment.AmountPaid),
		Tickets:       tickets,
	}
}
