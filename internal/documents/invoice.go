package documents

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/dfactory/ticketbooth/internal/booking"
	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/pricing"
)

// InvoiceData is everything the invoice needs, resolved by the caller.
type InvoiceData struct {
	Booking       booking.Booking
	CustomerName  string
	CustomerEmail string
	GeneratedAt   time.Time
}

// InvoiceFilename is the download name set via Content-Disposition.
func InvoiceFilename(eventName string) string {
	slug := strings.ToLower(eventName)
	slug = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "booking"
	}
	return "Invoice-" + slug + ".pdf"
}

func statusColor(status string) rgb {
	switch status {
	case models.PaymentPaid:
		return colorPaid
	case models.PaymentUnpaid:
		return colorUnpaid
	default:
		return colorMuted
	}
}

// Invoice renders a booking invoice. Layout: branded header, customer and
// event detail grids, tier table, totals summary, and a payment block that
// shows the amount due only while the booking is unpaid.
func Invoice(data InvoiceData) ([]byte, error) {
	b := data.Booking
	pdf := newPDF(fmt.Sprintf("Invoice #%d", b.ID), data.GeneratedAt)

	// Header: brand left, invoice number and status right.
	pdf.SetXY(20, 22)
	pdf.SetFont("Helvetica", "B", 20)
	setColor(pdf, colorBrand)
	pdf.CellFormat(110, 8, brandName, "", 0, "L", false, 0, "")
	pdf.SetXY(20, 31)
	pdf.SetFont("Helvetica", "", 9)
	setColor(pdf, colorMuted)
	pdf.CellFormat(110, 4, "Event Ticket Invoice", "", 0, "L", false, 0, "")

	pdf.SetXY(130, 22)
	pdf.SetFont("Helvetica", "B", 16)
	setColor(pdf, colorText)
	pdf.CellFormat(60, 7, "INVOICE", "", 0, "R", false, 0, "")
	pdf.SetXY(130, 30)
	pdf.SetFont("Helvetica", "", 9)
	setColor(pdf, colorMuted)
	pdf.CellFormat(60, 4, fmt.Sprintf("Invoice #: %d", b.ID), "", 0, "R", false, 0, "")
	pdf.SetXY(130, 35)
	pdf.CellFormat(60, 4, "Date: "+formatDate(b.CreatedAt), "", 0, "R", false, 0, "")
	pdf.SetXY(130, 40)
	pdf.SetFont("Helvetica", "B", 9)
	setColor(pdf, statusColor(b.PaymentStatus))
	pdf.CellFormat(60, 4, strings.ToUpper(b.PaymentStatus), "", 0, "R", false, 0, "")

	drawRule(pdf, 47, colorBrand, 0.8)

	y := sectionTitle(pdf, 53, "Customer Information")
	labelValue(pdf, 20, y, "NAME", data.CustomerName)
	labelValue(pdf, 110, y, "BOOKING ID", fmt.Sprintf("%d", b.ID))
	labelValue(pdf, 20, y+11, "EMAIL", data.CustomerEmail)
	labelValue(pdf, 110, y+11, "BOOKING DATE", formatDate(b.CreatedAt))

	y = sectionTitle(pdf, y+26, "Event Details")
	labelValue(pdf, 20, y, "EVENT NAME", b.EventName)
	labelValue(pdf, 110, y, "TIME", formatTime(b.EventDatetime))
	labelValue(pdf, 20, y+11, "DATE", formatDate(b.EventDatetime))
	labelValue(pdf, 110, y+11, "LOCATION", b.Location)

	y = sectionTitle(pdf, y+26, "Ticket Details")
	y = tierTable(pdf, y, b.Lines)

	// Totals summary.
	y += 4
	drawRule(pdf, y, colorBorder, 0.5)
	y += 3
	y = summaryRow(pdf, y, "Subtotal:", formatPrice(b.Totals.Subtotal), colorText, 10, false)
	y = summaryRow(pdf, y, "Booking Fee:", formatPrice(b.Totals.Fees), colorText, 10, false)
	y = summaryRow(pdf, y, "Total Amount:", formatPrice(b.Totals.Total), colorBrand, 13, true)

	switch b.PaymentStatus {
	case models.PaymentUnpaid:
		y = summaryRow(pdf, y+2, "Amount Paid:", formatPrice(b.AmountPaid), colorUnpaid, 9, true)
		y = summaryRow(pdf, y, "Amount Due:", formatPrice(b.AmountDue), colorUnpaid, 11, true)
	case models.PaymentPaid:
		y = summaryRow(pdf, y+2, "Amount Paid:", formatPrice(b.AmountPaid), colorPaid, 9, true)
	}

	footer(pdf, y+8,
		"Thank you for your booking with "+brandName+"!",
		"This is an automated invoice. For any queries, please contact support.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func tierTable(pdf *gofpdf.Fpdf, y float64, lines []pricing.Line) float64 {
	widths := []float64{70, 25, 35, 40}
	headers := []string{"Ticket Type", "Qty", "Unit Price", "Total"}
	aligns := []string{"L", "C", "R", "R"}

	pdf.SetXY(20, y)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(colorMuted.r, colorMuted.g, colorMuted.b)
	pdf.SetFillColor(243, 244, 246)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "B", 0, aligns[i], true, 0, "")
	}
	y += 7

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(colorText.r, colorText.g, colorText.b)
	for _, line := range lines {
		pdf.SetXY(20, y)
		cells := []string{
			line.TierName,
			fmt.Sprintf("%d", line.Qty),
			formatPrice(line.UnitPrice),
			formatPrice(pricing.LineTotal(line)),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "B", 0, aligns[i], false, 0, "")
		}
		y += 7
	}
	return y
}

func summaryRow(pdf *gofpdf.Fpdf, y float64, label, value string, c rgb, size float64, bold bool) float64 {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetXY(20, y)
	pdf.SetFont("Helvetica", style, size)
	pdf.SetTextColor(c.r, c.g, c.b)
	pdf.CellFormat(120, 6, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(50, 6, value, "", 0, "R", false, 0, "")
	return y + 6
}
