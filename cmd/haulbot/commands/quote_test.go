package commands

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/nurpe/haulbot/internal/model"
)

func TestPrintQuote(t *testing.T) {
	quote := model.Quote{
		CommodityQuantity: model.CommodityQuantity{Commodity: "Tritium", Quantity: 100},
		Origin:            "Sol",
		Destination:       "Outpost",
		DistanceLy:        80,
		BaseCost:          decimal.NewFromInt(1_000_000),
		RiskPremium:       decimal.NewFromInt(150_000),
		FuelCost:          decimal.NewFromInt(400),
		TimeSurcharge:     decimal.NewFromInt(115_000),
		Total:             decimal.NewFromInt(1_265_400),
		EstimatedHours:    2,
	}

	var out bytes.Buffer
	printQuote(&out, quote)
	assert.Contains(t, out.String(), "100 t Tritium: Sol -> Outpost (80.00 ly, ~2h)")
	assert.Contains(t, out.String(), "long haul")
	assert.Contains(t, out.String(), "1265400 CR")

	quote.TimeSurcharge = decimal.Zero
	out.Reset()
	printQuote(&out, quote)
	assert.NotContains(t, out.String(), "long haul")
}
