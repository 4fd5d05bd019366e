package economy

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// Volatility bounds for the market price draw
const (
	MinVolatility = 0.8
	MaxVolatility = 1.2
)

// PriceMode controls how often volatility is drawn
type PriceMode string

const (
	// PriceModeSpot draws a fresh volatility on every query; two calls in the
	// same tick may disagree.
	PriceModeSpot PriceMode = "spot"
	// PriceModeWeekly draws once per crop per week and reuses it.
	PriceModeWeekly PriceMode = "weekly"
)

// ParsePriceMode resolves a price mode name
func ParsePriceMode(name string) (PriceMode, error) {
	switch PriceMode(strings.ToLower(strings.TrimSpace(name))) {
	case PriceModeSpot, "":
		return PriceModeSpot, nil
	case PriceModeWeekly:
		return PriceModeWeekly, nil
	default:
		return "", fmt.Errorf("unknown price mode %q (want spot or weekly)", name)
	}
}

// SeasonalPriceModifier scales prices by season; scarcity pushes winter prices up
func SeasonalPriceModifier(season calendar.Season) float64 {
	switch season {
	case calendar.Spring:
		return 1.1
	case calendar.Summer:
		return 1.0
	case calendar.Fall:
		return 0.85
	case calendar.Winter:
		return 1.25
	default:
		return 1.0
	}
}

type weeklyKey struct {
	cropType crop.Type
	week     uint32
}

// Pricer quotes market prices. It is not safe for concurrent use; the engine
// serializes access.
type Pricer struct {
	catalog *crop.Catalog
	mode    PriceMode
	rng     *rand.Rand
	weekly  map[weeklyKey]float64
}

// NewPricer creates a pricer whose volatility comes from a source seeded with seed
func NewPricer(catalog *crop.Catalog, mode PriceMode, seed int64) *Pricer {
	if catalog == nil {
		catalog = crop.DefaultCatalog()
	}
	if mode == "" {
		mode = PriceModeSpot
	}
	return &Pricer{
		catalog: catalog,
		mode:    mode,
		rng:     rand.New(rand.NewSource(seed)),
		weekly:  make(map[weeklyKey]float64),
	}
}

// Mode returns the pricer's volatility mode
func (p *Pricer) Mode() PriceMode {
	return p.mode
}

// BasePrice returns the catalog price of a crop
func (p *Pricer) BasePrice(t crop.Type) (float64, error) {
	profile, ok := p.catalog.Profile(t)
	if !ok {
		return 0, shared.NewUnknownEntityError("crop type", string(t))
	}
	return profile.BasePrice, nil
}

// MarketPrice quotes basePrice * seasonal modifier * volatility for the given week
func (p *Pricer) MarketPrice(t crop.Type, week uint32) (float64, error) {
	base, err := p.BasePrice(t)
	if err != nil {
		return 0, err
	}
	season := calendar.SeasonForWeek(week)
	return base * SeasonalPriceModifier(season) * p.volatility(t, week), nil
}

func (p *Pricer) volatility(t crop.Type, week uint32) float64 {
	if p.mode != PriceModeWeekly {
		return p.draw()
	}

	key := weeklyKey{cropType: t, week: week}
	if v, ok := p.weekly[key]; ok {
		return v
	}
	// older weeks are never quoted again
	for k := range p.weekly {
		if k.week < week {
			delete(p.weekly, k)
		}
	}
	v := p.draw()
	p.weekly[key] = v
	return v
}

func (p *Pricer) draw() float64 {
	return MinVolatility + p.rng.Float64()*(MaxVolatility-MinVolatility)
}
