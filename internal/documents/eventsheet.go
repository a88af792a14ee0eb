package documents

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfactory/ticketbooth/internal/models"
	"github.com/dfactory/ticketbooth/internal/pricing"
)

// EventSheetData is the resolved event detail for the public PDF sheet.
// ShowPricing reflects the voting gate: undefined events hide their tier
// prices until voting has closed.
type EventSheetData struct {
	Name         string
	Description  string
	Location     string
	Datetime     time.Time
	Capacity     int
	Remaining    int
	TierName     string
	TierPrice    decimal.Decimal
	ShowPricing  bool
	VotingStatus *string
	GeneratedAt  time.Time
}

// EventSheetFilename is the download name for an event sheet.
func EventSheetFilename(eventName string) string {
	return strings.Replace(InvoiceFilename(eventName), "Invoice-", "Event-", 1)
}

// EventSheet renders the public event detail document.
func EventSheet(data EventSheetData) ([]byte, error) {
	pdf := newPDF(data.Name, data.GeneratedAt)

	pdf.SetXY(20, 22)
	pdf.SetFont("Helvetica", "B", 20)
	setColor(pdf, colorBrand)
	pdf.CellFormat(170, 8, brandName, "", 0, "L", false, 0, "")
	pdf.SetXY(20, 31)
	pdf.SetFont("Helvetica", "", 9)
	setColor(pdf, colorMuted)
	pdf.CellFormat(170, 4, "Event Details", "", 0, "L", false, 0, "")

	pdf.SetXY(20, 40)
	pdf.SetFont("Helvetica", "B", 16)
	setColor(pdf, colorText)
	pdf.CellFormat(170, 7, data.Name, "", 0, "L", false, 0, "")

	drawRule(pdf, 50, colorBrand, 0.8)

	location := data.Location
	if location == "" {
		location = "TBA"
	}

	y := sectionTitle(pdf, 56, "When & Where")
	labelValue(pdf, 20, y, "DATE", formatDate(data.Datetime))
	labelValue(pdf, 110, y, "TIME", formatTime(data.Datetime))
	labelValue(pdf, 20, y+11, "LOCATION", location)
	labelValue(pdf, 110, y+11, "CAPACITY",
		fmt.Sprintf("%d (%d remaining)", data.Capacity, data.Remaining))

	y = sectionTitle(pdf, y+26, "Tickets")
	if data.ShowPricing {
		y = tierTable(pdf, y, []pricing.Line{{
			TierName:  data.TierName,
			UnitPrice: data.TierPrice,
			Qty:       1,
		}})
	} else {
		pdf.SetXY(20, y)
		pdf.SetFont("Helvetica", "I", 10)
		setColor(pdf, colorMuted)
		note := "Pricing will be announced once voting closes."
		if data.VotingStatus != nil && *data.VotingStatus == models.VotingOpen {
			note = "Voting is open - pricing will be announced once voting closes."
		}
		pdf.CellFormat(170, 6, note, "", 0, "L", false, 0, "")
		y += 8
	}

	if data.Description != "" {
		y = sectionTitle(pdf, y+6, "About This Event")
		pdf.SetXY(20, y)
		pdf.SetFont("Helvetica", "", 10)
		setColor(pdf, colorText)
		pdf.MultiCell(170, 5, data.Description, "", "L", false)
		y = pdf.GetY() + 2
	}

	footer(pdf, y+8,
		"Generated by "+brandName,
		"Visit us online to book your tickets.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render event sheet: %w", err)
	}
	return buf.Bytes(), nil
}
