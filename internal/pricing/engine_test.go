package pricing

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/haulbot/internal/model"
)

func loc(name string, x, y, z float64) model.Location {
	return model.Location{Name: name, Coordinate: model.Coordinate{X: x, Y: y, Z: z}}
}

func scenarioConfig() Config {
	return Config{
		RiskPremiumRate:     0.15,
		FuelRatePerLy:       5,
		LongHaulThresholdLy: 50,
		LongHaulMultiplier:  1.1,
	}
}

func TestComputeQuote_TritiumLongHaul(t *testing.T) {
	engine := NewEngine(scenarioConfig())

	quote, err := engine.ComputeQuote(QuoteInput{
		Commodity:        "Tritium",
		Quantity:         100,
		Origin:           loc("Sol", 0, 0, 0),
		Destination:      loc("Far Reach", 80, 0, 0),
		BasePricePerUnit: decimal.NewFromInt(10000),
	})
	require.NoError(t, err)

	assert.Equal(t, 80.0, quote.DistanceLy)
	assert.True(t, quote.BaseCost.Equal(decimal.NewFromInt(1_000_000)), quote.BaseCost.String())
	assert.True(t, quote.RiskPremium.Equal(decimal.NewFromInt(150_000)), quote.RiskPremium.String())
	assert.True(t, quote.FuelCost.Equal(decimal.NewFromInt(400)), quote.FuelCost.String())
	assert.True(t, quote.TimeSurcharge.Equal(decimal.NewFromInt(115_000)), quote.TimeSurcharge.String())
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(1_265_400)), quote.Total.String())
	assert.True(t, quote.LongHaul())
	assert.Equal(t, "Tritium", quote.Commodity)
	assert.Equal(t, 100, quote.Quantity)
	assert.Equal(t, "Sol", quote.Origin)
	assert.Equal(t, "Far Reach", quote.Destination)
}

func TestComputeQuote_Deterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	in := QuoteInput{
		Commodity:        "Steel",
		Quantity:         37,
		Origin:           loc("Sol", 0, 0, 0),
		Destination:      loc("Sirius", 6.25, -1.28125, -5.75),
		BasePricePerUnit: decimal.NewFromInt(335),
	}

	first, err := engine.ComputeQuote(in)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := engine.ComputeQuote(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeQuote_SurchargeStepAtThreshold(t *testing.T) {
	engine := NewEngine(scenarioConfig())

	tests := []struct {
		name     string
		distance float64
		positive bool
	}{
		{name: "short haul", distance: 10, positive: false},
		{name: "exactly at threshold", distance: 50, positive: false},
		{name: "just over threshold", distance: 50.001, positive: true},
		{name: "long haul", distance: 500, positive: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := engine.ComputeQuote(QuoteInput{
				Commodity:        "Water",
				Quantity:         10,
				Origin:           loc("A", 0, 0, 0),
				Destination:      loc("B", 0, tt.distance, 0),
				BasePricePerUnit: decimal.NewFromInt(120),
			})
			require.NoError(t, err)
			if tt.positive {
				assert.True(t, quote.TimeSurcharge.IsPositive())
			} else {
				assert.True(t, quote.TimeSurcharge.IsZero())
			}
		})
	}
}

func TestComputeQuote_RiskPremiumIsFifteenPercent(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	rate := decimal.RequireFromString("0.15")

	for _, price := range []int64{0, 1, 7, 105, 3132, 7837} {
		for _, qty := range []int{1, 3, 100, 999} {
			quote, err := engine.ComputeQuote(QuoteInput{
				Commodity:        "Polymers",
				Quantity:         qty,
				Origin:           loc("Sol", 0, 0, 0),
				Destination:      loc("Wolf 359", 3.875, 6.46875, -1.90625),
				BasePricePerUnit: decimal.NewFromInt(price),
			})
			require.NoError(t, err)
			assert.True(t, quote.RiskPremium.Equal(quote.BaseCost.Mul(rate)),
				"price=%d qty=%d risk=%s", price, qty, quote.RiskPremium)
		}
	}
}

func TestComputeQuote_FuelIndependentOfQuantity(t *testing.T) {
	engine := NewEngine(scenarioConfig())
	in := QuoteInput{
		Commodity:        "Copper",
		Quantity:         1,
		Origin:           loc("A", 0, 0, 0),
		Destination:      loc("B", 3, 4, 0),
		BasePricePerUnit: decimal.NewFromInt(481),
	}
	small, err := engine.ComputeQuote(in)
	require.NoError(t, err)
	in.Quantity = 500
	large, err := engine.ComputeQuote(in)
	require.NoError(t, err)

	assert.True(t, small.FuelCost.Equal(decimal.NewFromInt(25)))
	assert.True(t, small.FuelCost.Equal(large.FuelCost))
}

func TestComputeQuote_TotalRoundedToWholeCredits(t *testing.T) {
	engine := NewEngine(Config{RiskPremiumRate: 0.15, FuelRatePerLy: 1, LongHaulThresholdLy: 50, LongHaulMultiplier: 1.1})

	quote, err := engine.ComputeQuote(QuoteInput{
		Commodity:        "Water",
		Quantity:         1,
		Origin:           loc("A", 0, 0, 0),
		Destination:      loc("B", 1, 1, 0),
		BasePricePerUnit: decimal.NewFromInt(3),
	})
	require.NoError(t, err)
	// 3 + 0.45 + 1.414... = 4.864...
	assert.Equal(t, "5", quote.Total.String())
}

func TestComputeQuote_Errors(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	valid := QuoteInput{
		Commodity:        "Water",
		Quantity:         1,
		Origin:           loc("Sol", 0, 0, 0),
		Destination:      loc("Sirius", 6.25, -1.28125, -5.75),
		BasePricePerUnit: decimal.NewFromInt(120),
	}

	tests := []struct {
		name   string
		mutate func(in *QuoteInput)
		want   error
	}{
		{name: "zero quantity", mutate: func(in *QuoteInput) { in.Quantity = 0 }, want: model.ErrInvalidQuantity},
		{name: "negative quantity", mutate: func(in *QuoteInput) { in.Quantity = -4 }, want: model.ErrInvalidQuantity},
		{name: "same name", mutate: func(in *QuoteInput) { in.Destination = loc("sol", 1, 1, 1) }, want: model.ErrSameLocation},
		{name: "same coordinates", mutate: func(in *QuoteInput) { in.Destination = loc("Sol Twin", 0, 0, 0) }, want: model.ErrSameLocation},
		{name: "empty commodity", mutate: func(in *QuoteInput) { in.Commodity = " " }, want: model.ErrUnknownCommodity},
		{name: "negative price", mutate: func(in *QuoteInput) { in.BasePricePerUnit = decimal.NewFromInt(-1) }, want: model.ErrUnknownCommodity},
		{name: "empty origin", mutate: func(in *QuoteInput) { in.Origin.Name = "" }, want: model.ErrUnknownLocation},
		{name: "nan coordinate", mutate: func(in *QuoteInput) { in.Destination.Coordinate.X = math.NaN() }, want: model.ErrUnknownLocation},
		{name: "infinite coordinate", mutate: func(in *QuoteInput) { in.Origin.Coordinate.Z = math.Inf(1) }, want: model.ErrUnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := engine.ComputeQuote(in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestComputeQuote_LocalTransferPolicy(t *testing.T) {
	cfg := scenarioConfig()
	cfg.AllowLocalTransfer = true
	engine := NewEngine(cfg)

	quote, err := engine.ComputeQuote(QuoteInput{
		Commodity:        "Water",
		Quantity:         2,
		Origin:           loc("Sol", 0, 0, 0),
		Destination:      loc("Sol", 0, 0, 0),
		BasePricePerUnit: decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	assert.Zero(t, quote.DistanceLy)
	assert.True(t, quote.FuelCost.IsZero())
	assert.True(t, quote.Total.Equal(decimal.NewFromInt(230)))
}

func TestEstimateDeliveryHours(t *testing.T) {
	tests := []struct {
		distance float64
		quantity int
		want     int
	}{
		{distance: 0, quantity: 1, want: 1},
		{distance: 8.6, quantity: 100, want: 1},
		// 4 jumps: 20 + 8 + 60 = 88 minutes
		{distance: 100, quantity: 120, want: 2},
		// 734 jumps: 3670 + 1468 + 50 = 5188 minutes
		{distance: 22000, quantity: 100, want: 87},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EstimateDeliveryHours(tt.distance, tt.quantity), "distance=%v qty=%d", tt.distance, tt.quantity)
	}
}
