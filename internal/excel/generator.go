package excel

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/nurpe/haulbot/internal/model"
)

const (
	summarySheet   = "Summary"
	contractsSheet = "Contracts"
	maxSheetName   = 31
)

var contractHeaders = []string{
	"Contract",
	"Status",
	"Commodity",
	"Quantity",
	"Origin",
	"Destination",
	"Distance, ly",
	"Base cost",
	"Risk premium",
	"Fuel cost",
	"Surcharge",
	"Total, CR",
	"Created",
	"Expires",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a summary sheet, the full contract list and one sheet per
// commodity.
func (g *Generator) Generate(report model.ContractReport) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(contractsSheet); err != nil {
		return nil, err
	}
	if err := g.writeContracts(file, contractsSheet, report.Contracts); err != nil {
		return nil, err
	}

	usedNames := map[string]struct{}{
		strings.ToLower(summarySheet):   {},
		strings.ToLower(contractsSheet): {},
	}
	for _, group := range groupByCommodity(report.Contracts) {
		sheetName := buildSheetName(group.commodity, usedNames)
		usedNames[strings.ToLower(sheetName)] = struct{}{}

		if _, err := file.NewSheet(sheetName); err != nil {
			return nil, err
		}
		if err := g.writeContracts(file, sheetName, group.contracts); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.ContractReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	owner := report.OwnerID
	if owner == "" {
		owner = "all users"
	}

	set("A1", "Requested by")
	set("B1", owner)
	set("A2", "Generated")
	set("B2", formatDateTime(report.GeneratedAt))
	set("A3", "Contracts")
	set("B3", report.Stats.Total)

	rows := []struct {
		label string
		count int
	}{
		{model.ContractStatusPending.String(), report.Stats.Pending},
		{model.ContractStatusAccepted.String(), report.Stats.Accepted},
		{model.ContractStatusCompleted.String(), report.Stats.Completed},
		{model.ContractStatusExpired.String(), report.Stats.Expired},
	}
	tableRow := 5
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Count")
	for i, row := range rows {
		set(fmt.Sprintf("A%d", tableRow+1+i), row.label)
		set(fmt.Sprintf("B%d", tableRow+1+i), row.count)
	}

	total := 0.0
	for _, c := range report.Contracts {
		total += c.Quote.Total.InexactFloat64()
	}
	totalRow := tableRow + len(rows) + 2
	set(fmt.Sprintf("A%d", totalRow), "Total value, CR")
	set(fmt.Sprintf("B%d", totalRow), total)

	_ = file.SetColWidth(sheet, "A", "A", 24)
	_ = file.SetColWidth(sheet, "B", "B", 24)
	return nil
}

func (g *Generator) writeContracts(file *excelize.File, sheet string, contracts []model.Contract) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	for i, header := range contractHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		set(cell, header)
	}

	for i, c := range contracts {
		row := i + 2
		q := c.Quote
		values := []interface{}{
			c.ID,
			c.Status.String(),
			q.Commodity,
			q.Quantity,
			q.Origin,
			q.Destination,
			roundDistance(q.DistanceLy),
			q.BaseCost.InexactFloat64(),
			q.RiskPremium.InexactFloat64(),
			q.FuelCost.InexactFloat64(),
			q.TimeSurcharge.InexactFloat64(),
			q.Total.InexactFloat64(),
			formatDateTime(c.CreatedAt),
			formatDateTime(c.ExpiresAt),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			set(cell, value)
		}
	}

	_ = file.SetColWidth(sheet, "A", "B", 12)
	_ = file.SetColWidth(sheet, "C", "C", 24)
	_ = file.SetColWidth(sheet, "E", "F", 22)
	_ = file.SetColWidth(sheet, "G", "L", 14)
	_ = file.SetColWidth(sheet, "M", "N", 20)
	return nil
}

type commodityGroup struct {
	commodity string
	contracts []model.Contract
}

func groupByCommodity(contracts []model.Contract) []commodityGroup {
	index := map[string]int{}
	var groups []commodityGroup
	for _, c := range contracts {
		pos, ok := index[c.Quote.Commodity]
		if !ok {
			groups = append(groups, commodityGroup{commodity: c.Quote.Commodity})
			pos = len(groups) - 1
			index[c.Quote.Commodity] = pos
		}
		groups[pos].contracts = append(groups[pos].contracts, c)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].commodity < groups[j].commodity })
	return groups
}

// buildSheetName returns a name of at most maxSheetName runes that is not in
// used. Keys of used are lower-case, since sheet names are case-insensitive.
func buildSheetName(name string, used map[string]struct{}) string {
	base := truncateRunes(sanitizeSheetName(name), maxSheetName)

	candidate := base
	counter := 2
	for {
		if _, exists := used[strings.ToLower(candidate)]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		candidate = truncateRunes(base, maxSheetName-len(suffix)) + suffix
		counter++
	}
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Commodity"
	}
	return value
}

func roundDistance(ly float64) float64 {
	return float64(int64(ly*100+0.5)) / 100
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
