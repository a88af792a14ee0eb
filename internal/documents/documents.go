// Package documents renders invoices and event sheets as fixed-layout A4
// PDFs. Assembly is pure: all data arrives resolved from the caller, no
// store or network access happens here, and identical input (including the
// GeneratedAt stamp) produces identical bytes.
package documents

import (
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

const brandName = "Digital Factory Events"

// Palette matching the web app's invoice styling.
type rgb struct{ r, g, b int }

var (
	colorBrand  = rgb{22, 163, 74}   // green accent
	colorText   = rgb{51, 51, 51}    // body text
	colorMuted  = rgb{102, 102, 102} // secondary text
	colorBorder = rgb{229, 231, 235} // rules and table borders
	colorPaid   = rgb{6, 95, 70}     // paid status
	colorUnpaid = rgb{153, 27, 27}   // unpaid status
)

func formatPrice(amount decimal.Decimal) string {
	return "Rs " + amount.StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

func formatTime(t time.Time) string {
	return t.Format("15:04")
}

// newPDF builds an A4 portrait document with pinned metadata dates so the
// output is reproducible for a given generatedAt.
func newPDF(title string, generatedAt time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAuthor(brandName, false)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	// Font catalog objects are emitted in map order unless sorted.
	pdf.SetCatalogSort(true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()
	return pdf
}

func setColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func drawRule(pdf *gofpdf.Fpdf, y float64, c rgb, width float64) {
	pdf.SetDrawColor(c.r, c.g, c.b)
	pdf.SetLineWidth(width)
	pdf.Line(20, y, 190, y)
}

// labelValue prints a muted uppercase label with its value beneath, the
// info-grid cell used across both documents.
func labelValue(pdf *gofpdf.Fpdf, x, y float64, label, value string) {
	pdf.SetXY(x, y)
	pdf.SetFont("Helvetica", "", 7)
	setColor(pdf, colorMuted)
	pdf.CellFormat(80, 4, label, "", 0, "L", false, 0, "")

	pdf.SetXY(x, y+4)
	pdf.SetFont("Helvetica", "", 10)
	setColor(pdf, colorText)
	pdf.CellFormat(80, 5, value, "", 0, "L", false, 0, "")
}

func sectionTitle(pdf *gofpdf.Fpdf, y float64, title string) float64 {
	pdf.SetXY(20, y)
	pdf.SetFont("Helvetica", "B", 11)
	setColor(pdf, colorText)
	pdf.CellFormat(170, 6, title, "", 0, "L", false, 0, "")
	drawRule(pdf, y+7, colorBorder, 0.3)
	return y + 10
}

func footer(pdf *gofpdf.Fpdf, y float64, line1, line2 string) {
	drawRule(pdf, y, colorBorder, 0.3)
	pdf.SetXY(20, y+4)
	pdf.SetFont("Helvetica", "", 8)
	setColor(pdf, colorMuted)
	pdf.CellFormat(170, 4, line1, "", 0, "C", false, 0, "")
	pdf.SetXY(20, y+9)
	pdf.CellFormat(170, 4, line2, "", 0, "C", false, 0, "")
}
