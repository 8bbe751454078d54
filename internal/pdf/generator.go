package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/nurpe/haulbot/internal/model"
)

// Generator renders single contracts. Text is limited to the core Helvetica
// font, so non-Latin-1 characters are replaced.
type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

func (g *Generator) Generate(doc model.ContractDocument) ([]byte, error) {
	c := doc.Contract
	q := c.Quote

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(fmt.Sprintf("Delivery contract %s", c.ID), false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Delivery contract %s", c.ID)), "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Status: %s    Generated: %s", c.Status, formatDateTime(doc.GeneratedAt))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, g.fontName, "Cargo")
	addLines(pdf, g.fontName, tr,
		fmt.Sprintf("Commodity: %s", q.Commodity),
		fmt.Sprintf("Category: %s", safeValue(doc.Commodity.Category)),
		fmt.Sprintf("Quantity: %d t", q.Quantity),
	)
	pdf.Ln(2)

	section(pdf, g.fontName, "Route")
	addLines(pdf, g.fontName, tr,
		fmt.Sprintf("From: %s", q.Origin),
		fmt.Sprintf("To: %s", q.Destination),
		fmt.Sprintf("Distance: %.2f ly", q.DistanceLy),
		fmt.Sprintf("Estimated delivery: %d h", q.EstimatedHours),
	)
	pdf.Ln(2)

	section(pdf, g.fontName, "Price")
	colWidths := []float64{120, 60}
	drawTableRow(pdf, g.fontName, tr, []string{"Item", "Credits"}, colWidths, true)
	rows := [][]string{
		{fmt.Sprintf("Base cost (%d x %s)", q.Quantity, formatCredits(q.BasePricePerUnit)), formatCredits(q.BaseCost)},
		{"Risk premium", formatCredits(q.RiskPremium)},
		{"Fuel", formatCredits(q.FuelCost)},
		{"Long haul surcharge", formatCredits(q.TimeSurcharge)},
	}
	for _, row := range rows {
		drawTableRow(pdf, g.fontName, tr, row, colWidths, false)
	}
	drawTableRow(pdf, g.fontName, tr, []string{"Total", formatCredits(q.Total)}, colWidths, true)
	pdf.Ln(4)

	section(pdf, g.fontName, "Timeline")
	lines := []string{
		fmt.Sprintf("Created: %s", formatDateTime(c.CreatedAt)),
		fmt.Sprintf("Expires: %s", formatDateTime(c.ExpiresAt)),
	}
	if c.AcceptedAt != nil {
		lines = append(lines, fmt.Sprintf("Accepted: %s", formatDateTime(*c.AcceptedAt)))
	}
	if c.CompletedAt != nil {
		lines = append(lines, fmt.Sprintf("Completed: %s", formatDateTime(*c.CompletedAt)))
	}
	if c.ExpiredAt != nil {
		lines = append(lines, fmt.Sprintf("Expired: %s", formatDateTime(*c.ExpiredAt)))
	}
	addLines(pdf, g.fontName, tr, lines...)

	if c.Status == model.ContractStatusExpired {
		pdf.Ln(2)
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, "This contract has expired and can no longer be fulfilled.", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, fontName, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func addLines(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, lines ...string) {
	pdf.SetFont(fontName, "", 10)
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, cols []string, widths []float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(col), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func safeValue(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

// formatCredits prints a whole-credit amount with thousands separators.
func formatCredits(value decimal.Decimal) string {
	digits := value.Round(0).Abs().String()
	var b strings.Builder
	if value.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
