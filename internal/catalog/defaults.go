package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/nurpe/haulbot/internal/model"
)

func commodity(name, category string, price int64, rarity string) model.Commodity {
	return model.Commodity{Name: name, Category: category, BasePrice: decimal.NewFromInt(price), Rarity: rarity}
}

func system(name string, x, y, z float64, hub bool) model.Location {
	return model.Location{Name: name, Coordinate: model.Coordinate{X: x, Y: y, Z: z}, SupplyHub: hub}
}

// DefaultCommodities is the colonisation commodity table used when no data
// file is present.
func DefaultCommodities() []model.Commodity {
	return []model.Commodity{
		commodity("Aluminum", "Metals", 340, "common"),
		commodity("Ceramic Composites", "Industrial Materials", 232, "common"),
		commodity("CMM Composites", "Industrial Materials", 3132, "uncommon"),
		commodity("Computer Components", "Technology", 513, "common"),
		commodity("Copper", "Metals", 481, "common"),
		commodity("Food Cartridges", "Foods", 105, "common"),
		commodity("Fruit and Vegetables", "Foods", 312, "common"),
		commodity("Insulating Membrane", "Industrial Materials", 7837, "rare"),
		commodity("Liquid Oxygen", "Chemicals", 263, "common"),
		commodity("Medical Diagnostic Equipment", "Medicines", 2848, "uncommon"),
		commodity("Non-Lethal Weapons", "Weapons", 1837, "uncommon"),
		commodity("Polymers", "Industrial Materials", 171, "common"),
		commodity("Power Generators", "Machinery", 458, "common"),
		commodity("Semiconductors", "Technology", 967, "uncommon"),
		commodity("Steel", "Metals", 335, "common"),
		commodity("Superconductors", "Technology", 6609, "rare"),
		commodity("Titanium", "Metals", 1006, "uncommon"),
		commodity("Tritium", "Chemicals", 10000, "rare"),
		commodity("Water", "Chemicals", 120, "common"),
		commodity("Water Purifiers", "Machinery", 258, "common"),
	}
}

// DefaultSystems is the star-system table used when no data file is present.
// Coordinates are galactic light-years relative to Sol.
func DefaultSystems() []model.Location {
	return []model.Location{
		system("Sol", 0, 0, 0, true),
		system("Alpha Centauri", 3.03125, -0.09375, 3.15625, false),
		system("Barnard's Star", -3.03125, 1.375, 4.9375, false),
		system("Wolf 359", 3.875, 6.46875, -1.90625, false),
		system("Lalande 21185", -1.46875, 7.375, -0.96875, false),
		system("Sirius", 6.25, -1.28125, -5.75, false),
		system("Ross 154", -1.9375, -1.84375, 9.3125, false),
		system("Epsilon Eridani", 1.9375, -7.84375, -6.6875, false),
		system("Procyon", -4.5, 2.8125, -10.0625, false),
		system("Tau Ceti", -3.5, -9.40625, -3.3125, false),
		system("Epsilon Indi", 3.125, -8.875, 7.125, false),
		system("Shinrarta Dezhra", 55.71875, 17.59375, 27.15625, true),
		system("LHS 3447", -43.1875, -5.28125, 56.15625, true),
		system("Eravate", -42.4375, -3.15625, 59.65625, true),
		system("Wolf 397", 40, 79.21875, -10.40625, true),
		system("Beta Hydri", 8.03125, -20.15625, 16.0625, true),
		system("Deciat", 122.625, -0.8125, -47.28125, false),
		system("Maia", -81.78125, -149.4375, -343.375, false),
		system("Merope", -78.59375, -149.625, -340.53125, false),
		system("Colonia", -9530.5, -910.28125, 19808.125, true),
		system("Sagittarius A*", 25.21875, -20.90625, 25899.96875, false),
		system("Beagle Point", -1111.5625, -134.21875, 65269.75, false),
	}
}
