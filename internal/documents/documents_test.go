package documents

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfactory/ticketbooth/internal/booking"
	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/pricing"
)

var generatedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func sampleBooking(status string, amountPaid string) booking.Booking {
	lines := []pricing.Line{{
		TierName:  "Regular",
		UnitPrice: decimal.RequireFromString("25.00"),
		Qty:       3,
	}}
	totals := pricing.Calculate(lines)
	paid := decimal.RequireFromString(amountPaid)
	return booking.Booking{
		ID:            42,
		CreatedAt:     time.Date(2026, 7, 20, 10, 30, 0, 0, time.UTC),
		EventName:     "Summer Concert",
		EventDatetime: time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Location:      "City Arena",
		Lines:         lines,
		Totals:        totals,
		PaymentStatus: status,
		AmountPaid:    paid,
		AmountDue:     pricing.AmountDue(totals.Total, paid),
		Tickets: []booking.Ticket{
			{Code: "TKT-AAAAAA1", TierName: "Regular"},
			{Code: "TKT-AAAAAA2", TierName: "Regular"},
			{Code: "TKT-AAAAAA3", TierName: "Regular"},
		},
	}
}

func sampleInvoice(status, amountPaid string) InvoiceData {
	return InvoiceData{
		Booking:       sampleBooking(status, amountPaid),
		CustomerName:  "Jordan Perera",
		CustomerEmail: "jordan@example.com",
		GeneratedAt:   generatedAt,
	}
}

func TestInvoiceDeterministic(t *testing.T) {
	first, err := Invoice(sampleInvoice(models.PaymentUnpaid, "0"))
	require.NoError(t, err)

	// Repeated renders must be byte-identical; the mixed bold/regular fonts
	// would otherwise surface any catalog ordering drift.
	for i := 0; i < 5; i++ {
		next, err := Invoice(sampleInvoice(models.PaymentUnpaid, "0"))
		require.NoError(t, err)
		assert.Equal(t, first, next, "render %d diverged", i)
	}
}

func TestInvoiceRendersAllStatuses(t *testing.T) {
	for _, status := range []string{models.PaymentUnpaid, models.PaymentPaid, models.PaymentRefunded} {
		out, err := Invoice(sampleInvoice(status, "75.00"))
		require.NoError(t, err, "status %s", status)
		require.NotEmpty(t, out)
		assert.Equal(t, "%PDF", string(out[:4]))
	}
}

func TestInvoicePaymentBlockVariesByStatus(t *testing.T) {
	unpaid, err := Invoice(sampleInvoice(models.PaymentUnpaid, "0"))
	require.NoError(t, err)
	paid, err := Invoice(sampleInvoice(models.PaymentPaid, "75.00"))
	require.NoError(t, err)
	refunded, err := Invoice(sampleInvoice(models.PaymentRefunded, "0"))
	require.NoError(t, err)

	// The conditional amount-due block makes each status render distinctly.
	assert.NotEqual(t, unpaid, paid)
	assert.NotEqual(t, unpaid, refunded)
	assert.NotEqual(t, paid, refunded)
}

func TestInvoiceAmountDueMatchesBooking(t *testing.T) {
	data := sampleInvoice(models.PaymentUnpaid, "0")
	assert.True(t, data.Booking.AmountDue.Equal(decimal.RequireFromString("75.00")))

	data = sampleInvoice(models.PaymentPaid, "75.00")
	assert.True(t, data.Booking.AmountDue.IsZero())
}

func TestEventSheetDeterministic(t *testing.T) {
	data := EventSheetData{
		Name:        "Summer Concert",
		Description: "An open-air evening of live music.",
		Location:    "City Arena",
		Datetime:    time.Date(2026, 9, 12, 19, 30, 0, 0, time.UTC),
		Capacity:    100,
		Remaining:   37,
		TierName:    "Regular",
		TierPrice:   decimal.RequireFromString("25.00"),
		ShowPricing: true,
		GeneratedAt: generatedAt,
	}

	first, err := EventSheet(data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(first[:4]))

	for i := 0; i < 5; i++ {
		next, err := EventSheet(data)
		require.NoError(t, err)
		assert.Equal(t, first, next, "render %d diverged", i)
	}
}

func TestEventSheetHidesPricingDuringVoting(t *testing.T) {
	open := models.VotingOpen
	data := EventSheetData{
		Name:         "Mystery Night",
		Datetime:     time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC),
		Capacity:     50,
		Remaining:    50,
		TierName:     "Regular",
		TierPrice:    decimal.RequireFromString("40.00"),
		ShowPricing:  false,
		VotingStatus: &open,
		GeneratedAt:  generatedAt,
	}

	hidden, err := EventSheet(data)
	require.NoError(t, err)

	data.ShowPricing = true
	data.VotingStatus = nil
	shown, err := EventSheet(data)
	require.NoError(t, err)

	assert.NotEqual(t, hidden, shown)
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "Invoice-summer-concert.pdf", InvoiceFilename("Summer Concert"))
	assert.Equal(t, "Invoice-booking.pdf", InvoiceFilename("!!!"))
	assert.Equal(t, "Event-summer-concert.pdf", EventSheetFilename("Summer Concert"))
}
