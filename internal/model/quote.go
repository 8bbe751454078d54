package model

import "github.com/shopspring/decimal"

type CommodityQuantity struct {
	Commodity string `json:"commodity"`
	Quantity  int    `json:"quantity"`
}

// Quote is the priced breakdown of a prospective delivery. It has no identity
// until a contract is created from it.
type Quote struct {
	CommodityQuantity
	Origin           string          `json:"origin"`
	Destination      string          `json:"destination"`
	DistanceLy       float64         `json:"distance_ly"`
	BasePricePerUnit decimal.Decimal `json:"base_price_per_unit"`
	BaseCost         decimal.Decimal `json:"base_cost"`
	RiskPremium      decimal.Decimal `json:"risk_premium"`
	FuelCost         decimal.Decimal `json:"fuel_cost"`
	TimeSurcharge    decimal.Decimal `json:"time_surcharge"`
	Total            decimal.Decimal `json:"total"`
	EstimatedHours   int             `json:"estimated_hours"`
}

func (q Quote) LongHaul() bool {
	return q.TimeSurcharge.IsPositive()
}
