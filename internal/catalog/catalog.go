// Package catalog holds the commodity and star-system lookup tables the
// pricing core consumes. Tables are read from JSON data files; when a file is
// missing the built-in defaults are used instead.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/nurpe/haulbot/internal/model"
)

type commodityFile struct {
	Commodities []model.Commodity `json:"commodities"`
}

type systemFile struct {
	Systems []model.Location `json:"systems"`
}

type Catalog struct {
	commodities map[string]model.Commodity
	locations   map[string]model.Location
	hubs        []model.Location
}

func New(commodities []model.Commodity, locations []model.Location) *Catalog {
	c := &Catalog{
		commodities: make(map[string]model.Commodity, len(commodities)),
		locations:   make(map[string]model.Location, len(locations)),
	}
	for _, item := range commodities {
		c.commodities[key(item.Name)] = item
	}
	for _, loc := range locations {
		c.locations[key(loc.Name)] = loc
	}
	for _, loc := range c.locations {
		if loc.SupplyHub {
			c.hubs = append(c.hubs, loc)
		}
	}
	sort.Slice(c.hubs, func(i, j int) bool { return c.hubs[i].Name < c.hubs[j].Name })
	return c
}

// Load reads both data files. A missing file falls back to the defaults; a
// file that exists but cannot be parsed is an error.
func Load(commoditiesPath, systemsPath string, log zerolog.Logger) (*Catalog, error) {
	var cf commodityFile
	found, err := readJSON(commoditiesPath, &cf)
	if err != nil {
		return nil, fmt.Errorf("load commodities %s: %w", commoditiesPath, err)
	}
	if !found {
		log.Warn().Str("path", commoditiesPath).Msg("commodities data file not found, using default pricing")
		cf.Commodities = DefaultCommodities()
	}

	var sf systemFile
	found, err = readJSON(systemsPath, &sf)
	if err != nil {
		return nil, fmt.Errorf("load systems %s: %w", systemsPath, err)
	}
	if !found {
		log.Warn().Str("path", systemsPath).Msg("systems data file not found, using default systems")
		sf.Systems = DefaultSystems()
	}

	for _, item := range cf.Commodities {
		if strings.TrimSpace(item.Name) == "" || item.BasePrice.IsNegative() {
			return nil, fmt.Errorf("load commodities %s: invalid entry %q", commoditiesPath, item.Name)
		}
	}
	for _, loc := range sf.Systems {
		if strings.TrimSpace(loc.Name) == "" || !loc.Coordinate.Finite() {
			return nil, fmt.Errorf("load systems %s: invalid entry %q", systemsPath, loc.Name)
		}
	}

	c := New(cf.Commodities, sf.Systems)
	log.Info().
		Int("commodities", len(c.commodities)).
		Int("systems", len(c.locations)).
		Int("hubs", len(c.hubs)).
		Msg("catalog loaded")
	return c, nil
}

func readJSON(path string, out any) (bool, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, out)
}

// LookupCommodity matches names case-insensitively and returns the catalog's
// canonical spelling.
func (c *Catalog) LookupCommodity(name string) (model.Commodity, error) {
	item, ok := c.commodities[key(name)]
	if !ok {
		return model.Commodity{}, fmt.Errorf("%w: %s", model.ErrUnknownCommodity, strings.TrimSpace(name))
	}
	return item, nil
}

func (c *Catalog) LookupLocation(name string) (model.Location, error) {
	loc, ok := c.locations[key(name)]
	if !ok {
		return model.Location{}, fmt.Errorf("%w: %s", model.ErrUnknownLocation, strings.TrimSpace(name))
	}
	return loc, nil
}

// NearestHub returns the supply hub closest to the destination, excluding the
// destination itself.
func (c *Catalog) NearestHub(destination model.Location) (model.Location, error) {
	best := model.Location{}
	bestDistance := math.Inf(1)
	for _, hub := range c.hubs {
		if strings.EqualFold(hub.Name, destination.Name) {
			continue
		}
		d := hub.Coordinate.DistanceTo(destination.Coordinate)
		if d < bestDistance {
			best, bestDistance = hub, d
		}
	}
	if math.IsInf(bestDistance, 1) {
		return model.Location{}, fmt.Errorf("%w: no supply hub available for %s", model.ErrUnknownLocation, destination.Name)
	}
	return best, nil
}

func (c *Catalog) Commodities() []model.Commodity {
	items := make([]model.Commodity, 0, len(c.commodities))
	for _, item := range c.commodities {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

func (c *Catalog) Systems() []model.Location {
	items := make([]model.Location, 0, len(c.locations))
	for _, loc := range c.locations {
		items = append(items, loc)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// CommodityGroups returns the catalog grouped by category, categories and
// items both sorted by name.
func (c *Catalog) CommodityGroups() []model.CommodityGroup {
	index := map[string]int{}
	var groups []model.CommodityGroup
	for _, item := range c.Commodities() {
		category := item.Category
		if category == "" {
			category = "Other"
		}
		pos, ok := index[category]
		if !ok {
			groups = append(groups, model.CommodityGroup{Category: category})
			pos = len(groups) - 1
			index[category] = pos
		}
		groups[pos].Commodities = append(groups[pos].Commodities, item)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Category < groups[j].Category })
	return groups
}

func (c *Catalog) SuggestCommodities(partial string, limit int) []string {
	names := make([]string, 0, len(c.commodities))
	for _, item := range c.commodities {
		names = append(names, item.Name)
	}
	return suggest(names, partial, limit)
}

func (c *Catalog) SuggestSystems(partial string, limit int) []string {
	names := make([]string, 0, len(c.locations))
	for _, loc := range c.locations {
		names = append(names, loc.Name)
	}
	return suggest(names, partial, limit)
}

// suggest lists prefix matches first, then substring matches.
func suggest(names []string, partial string, limit int) []string {
	partial = key(partial)
	if partial == "" || limit <= 0 {
		return nil
	}
	sort.Strings(names)

	var prefix, contains []string
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, partial):
			prefix = append(prefix, name)
		case strings.Contains(lower, partial):
			contains = append(contains, name)
		}
	}
	result := append(prefix, contains...)
	if len(result) > limit {
		result = result[:limit]
	}
	return result
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
