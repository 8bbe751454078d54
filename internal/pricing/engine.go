// Package pricing turns a validated delivery request into a priced quote.
//
// The engine is a pure function of its inputs and Config: it reads no clock,
// draws no random numbers and holds no state, so it is safe for concurrent use.
package pricing

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nurpe/haulbot/internal/model"
)

const (
	DefaultRiskPremiumRate     = 0.15
	DefaultFuelRatePerLy       = 100
	DefaultLongHaulThresholdLy = 50
	DefaultLongHaulMultiplier  = 1.1

	// Whole credits.
	currencyPlaces = 0
)

type Config struct {
	RiskPremiumRate float64
	FuelRatePerLy   float64
	// Trips strictly longer than LongHaulThresholdLy pay
	// (LongHaulMultiplier - 1) x (base cost + risk premium) on top.
	LongHaulThresholdLy float64
	LongHaulMultiplier  float64
	AllowLocalTransfer  bool
}

func DefaultConfig() Config {
	return Config{
		RiskPremiumRate:     DefaultRiskPremiumRate,
		FuelRatePerLy:       DefaultFuelRatePerLy,
		LongHaulThresholdLy: DefaultLongHaulThresholdLy,
		LongHaulMultiplier:  DefaultLongHaulMultiplier,
	}
}

type QuoteInput struct {
	Commodity        string
	Quantity         int
	Origin           model.Location
	Destination      model.Location
	BasePricePerUnit decimal.Decimal
}

type Engine struct {
	cfg Config

	riskRate      decimal.Decimal
	fuelRate      decimal.Decimal
	surchargeRate decimal.Decimal
}

func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:           cfg,
		riskRate:      decimal.NewFromFloat(cfg.RiskPremiumRate),
		fuelRate:      decimal.NewFromFloat(cfg.FuelRatePerLy),
		surchargeRate: decimal.NewFromFloat(cfg.LongHaulMultiplier).Sub(decimal.NewFromInt(1)),
	}
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) ComputeQuote(in QuoteInput) (model.Quote, error) {
	if in.Quantity < 1 {
		return model.Quote{}, fmt.Errorf("%w: %d", model.ErrInvalidQuantity, in.Quantity)
	}
	if strings.TrimSpace(in.Commodity) == "" {
		return model.Quote{}, fmt.Errorf("%w: commodity name is empty", model.ErrUnknownCommodity)
	}
	if in.BasePricePerUnit.IsNegative() {
		return model.Quote{}, fmt.Errorf("%w: %s has a negative base price", model.ErrUnknownCommodity, in.Commodity)
	}
	if err := checkLocation(in.Origin); err != nil {
		return model.Quote{}, err
	}
	if err := checkLocation(in.Destination); err != nil {
		return model.Quote{}, err
	}

	distance := in.Origin.Coordinate.DistanceTo(in.Destination.Coordinate)
	if !e.cfg.AllowLocalTransfer && (distance == 0 || strings.EqualFold(in.Origin.Name, in.Destination.Name)) {
		return model.Quote{}, fmt.Errorf("%w: %s", model.ErrSameLocation, in.Destination.Name)
	}

	baseCost := in.BasePricePerUnit.Mul(decimal.NewFromInt(int64(in.Quantity)))
	riskPremium := baseCost.Mul(e.riskRate)
	fuelCost := decimal.NewFromFloat(distance).Mul(e.fuelRate)
	surcharge := decimal.Zero
	if distance > e.cfg.LongHaulThresholdLy {
		surcharge = baseCost.Add(riskPremium).Mul(e.surchargeRate)
	}
	total := baseCost.Add(riskPremium).Add(fuelCost).Add(surcharge).Round(currencyPlaces)

	return model.Quote{
		CommodityQuantity: model.CommodityQuantity{
			Commodity: in.Commodity,
			Quantity:  in.Quantity,
		},
		Origin:           in.Origin.Name,
		Destination:      in.Destination.Name,
		DistanceLy:       distance,
		BasePricePerUnit: in.BasePricePerUnit,
		BaseCost:         baseCost,
		RiskPremium:      riskPremium,
		FuelCost:         fuelCost,
		TimeSurcharge:    surcharge,
		Total:            total,
		EstimatedHours:   EstimateDeliveryHours(distance, in.Quantity),
	}, nil
}

func checkLocation(loc model.Location) error {
	if strings.TrimSpace(loc.Name) == "" {
		return fmt.Errorf("%w: location name is empty", model.ErrUnknownLocation)
	}
	if !loc.Coordinate.Finite() {
		return fmt.Errorf("%w: %s has non-finite coordinates", model.ErrUnknownLocation, loc.Name)
	}
	return nil
}

const (
	jumpRangeLy      = 30
	minutesPerJump   = 5
	bufferPerJump    = 2
	loadMinutesPerT  = 0.5
	minDeliveryHours = 1
)

// EstimateDeliveryHours assumes 30 ly jumps at 5 minutes each, 2 minutes of
// slack per jump and 30 seconds of loading per ton. One unit is one ton.
func EstimateDeliveryHours(distanceLy float64, quantity int) int {
	jumps := math.Ceil(distanceLy / jumpRangeLy)
	minutes := jumps*minutesPerJump + float64(quantity)*loadMinutesPerT + jumps*bufferPerJump
	hours := int(math.Ceil(minutes / 60))
	if hours < minDeliveryHours {
		return minDeliveryHours
	}
	return hours
}
