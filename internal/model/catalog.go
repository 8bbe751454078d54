package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// Coordinate is a galactic position in light-years.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (c Coordinate) Finite() bool {
	for _, v := range []float64{c.X, c.Y, c.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// DistanceTo returns the Euclidean distance between two coordinates.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dx := other.X - c.X
	dy := other.Y - c.Y
	dz := other.Z - c.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

type Location struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coords"`
	SupplyHub  bool       `json:"supply_hub,omitempty"`
}

type Commodity struct {
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	BasePrice decimal.Decimal `json:"base_price"`
	Rarity    string          `json:"rarity"`
}

type CommodityGroup struct {
	Category    string      `json:"category"`
	Commodities []Commodity `json:"commodities"`
}
