// Package pricing computes booking totals. Every place that shows money
// (cart, checkout, invoice) goes through Calculate so the numbers can never
// drift apart.
package pricing

import "github.com/shopspring/decimal"

// Line is one ticket tier selection: a quantity at a unit price.
type Line struct {
	TierName  string
	UnitPrice decimal.Decimal
	Qty       int
}

// Totals is the derived money triple for a set of lines. Fees is always
// zero under the current policy, so Total always equals Subtotal.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Fees     decimal.Decimal `json:"fees"`
	Total    decimal.Decimal `json:"total"`
}

// Calculate sums unit price times quantity over the lines. It is pure and
// order-independent; an empty or nil slice yields all-zero totals.
func Calculate(lines []Line) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	return Totals{
		Subtotal: subtotal,
		Fees:     decimal.Zero,
		Total:    subtotal,
	}
}

// LineTotal is the amount for a single line, as shown in tier tables.
func LineTotal(line Line) decimal.Decimal {
	return line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
}

// AmountDue is the outstanding balance on a booking. Never negative: an
// overpayment still reads as zero due.
func AmountDue(total, amountPaid decimal.Decimal) decimal.Decimal {
	due := total.Sub(amountPaid)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due
}
