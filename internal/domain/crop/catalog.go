package crop

import (
	"fmt"
	"sort"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// Type identifies a crop variety. Valid values are the ones registered in a Catalog.
type Type string

const (
	Wheat    Type = "wheat"
	Corn     Type = "corn"
	Soybeans Type = "soybeans"
	Rice     Type = "rice"
	Potatoes Type = "potatoes"
)

// String returns the string representation of the Type
func (t Type) String() string {
	return string(t)
}

// Stage is one step of a crop's growth table
type Stage struct {
	Name          string
	DurationWeeks int
	WaterNeed     float64
	NutrientNeed  float64
}

// StageTable is the ordered list of stages a crop goes through
type StageTable []Stage

// First returns the opening stage
func (t StageTable) First() Stage {
	return t[0]
}

// Last reports whether index is the final stage
func (t StageTable) Last(index int) bool {
	return index == len(t)-1
}

// Profile carries everything the simulation needs to know about a crop type
type Profile struct {
	Type                   Type
	Stages                 StageTable
	BasePrice              float64 // money per yield unit
	YieldPerHectare        float64
	PlantingCostPerHectare float64
	SeedsPerHectare        float64
}

// Validate checks that the profile can drive a lifecycle
func (p Profile) Validate() error {
	if p.Type == "" {
		return fmt.Errorf("crop profile has empty type")
	}
	if len(p.Stages) == 0 {
		return fmt.Errorf("crop %s has no stages", p.Type)
	}
	for _, s := range p.Stages {
		if s.WaterNeed < 0 || s.NutrientNeed < 0 {
			return fmt.Errorf("crop %s stage %s has negative needs", p.Type, s.Name)
		}
	}
	if p.BasePrice <= 0 || p.YieldPerHectare <= 0 {
		return fmt.Errorf("crop %s must have positive price and yield", p.Type)
	}
	if p.PlantingCostPerHectare < 0 || p.SeedsPerHectare < 0 {
		return fmt.Errorf("crop %s has negative planting inputs", p.Type)
	}
	return nil
}

// Catalog is the registry of crop profiles keyed by type
type Catalog struct {
	profiles map[Type]Profile
}

// NewCatalog builds a catalog, rejecting invalid or duplicate profiles
func NewCatalog(profiles ...Profile) (*Catalog, error) {
	c := &Catalog{profiles: make(map[Type]Profile, len(profiles))}
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.profiles[p.Type]; exists {
			return nil, fmt.Errorf("duplicate crop profile: %s", p.Type)
		}
		c.profiles[p.Type] = p
	}
	return c, nil
}

// Profile looks up a crop type
func (c *Catalog) Profile(t Type) (Profile, bool) {
	p, ok := c.profiles[t]
	return p, ok
}

// Parse converts user input into a known Type
func (c *Catalog) Parse(name string) (Type, error) {
	t := Type(name)
	if _, ok := c.profiles[t]; !ok {
		return "", shared.NewUnknownEntityError("crop type", name)
	}
	return t, nil
}

// Types returns every registered type in alphabetical order
func (c *Catalog) Types() []Type {
	types := make([]Type, 0, len(c.profiles))
	for t := range c.profiles {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// DefaultCatalog returns the standard set of field crops
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultProfiles()...)
	if err != nil {
		panic(fmt.Sprintf("default crop catalog is invalid: %v", err))
	}
	return c
}

func defaultProfiles() []Profile {
	return []Profile{
		{
			Type: Wheat,
			Stages: StageTable{
				{Name: "seedling", DurationWeeks: 2, WaterNeed: 0.3, NutrientNeed: 0.3},
				{Name: "tillering", DurationWeeks: 3, WaterNeed: 0.4, NutrientNeed: 0.4},
				{Name: "heading", DurationWeeks: 3, WaterNeed: 0.5, NutrientNeed: 0.4},
				{Name: "ripening", DurationWeeks: 2, WaterNeed: 0.3, NutrientNeed: 0.2},
			},
			BasePrice:              6.5,
			YieldPerHectare:        60,
			PlantingCostPerHectare: 150,
			SeedsPerHectare:        1,
		},
		{
			Type: Corn,
			Stages: StageTable{
				{Name: "germination", DurationWeeks: 1, WaterNeed: 0.4, NutrientNeed: 0.3},
				{Name: "vegetative", DurationWeeks: 4, WaterNeed: 0.6, NutrientNeed: 0.5},
				{Name: "tasseling", DurationWeeks: 2, WaterNeed: 0.8, NutrientNeed: 0.6},
				{Name: "grain_fill", DurationWeeks: 3, WaterNeed: 0.6, NutrientNeed: 0.4},
				{Name: "maturity", DurationWeeks: 2, WaterNeed: 0.3, NutrientNeed: 0.2},
			},
			BasePrice:              5.0,
			YieldPerHectare:        90,
			PlantingCostPerHectare: 200,
			SeedsPerHectare:        1,
		},
		{
			Type: Soybeans,
			Stages: StageTable{
				{Name: "emergence", DurationWeeks: 1, WaterNeed: 0.3, NutrientNeed: 0.2},
				{Name: "vegetative", DurationWeeks: 4, WaterNeed: 0.5, NutrientNeed: 0.3},
				{Name: "flowering", DurationWeeks: 2, WaterNeed: 0.6, NutrientNeed: 0.4},
				{Name: "pod_fill", DurationWeeks: 3, WaterNeed: 0.6, NutrientNeed: 0.4},
				{Name: "maturity", DurationWeeks: 2, WaterNeed: 0.3, NutrientNeed: 0.2},
			},
			BasePrice:              12.0,
			YieldPerHectare:        30,
			PlantingCostPerHectare: 180,
			SeedsPerHectare:        1,
		},
		{
			Type: Rice,
			Stages: StageTable{
				{Name: "seedling", DurationWeeks: 3, WaterNeed: 0.7, NutrientNeed: 0.3},
				{Name: "tillering", DurationWeeks: 4, WaterNeed: 0.9, NutrientNeed: 0.5},
				{Name: "panicle", DurationWeeks: 3, WaterNeed: 0.9, NutrientNeed: 0.5},
				{Name: "ripening", DurationWeeks: 3, WaterNeed: 0.5, NutrientNeed: 0.2},
			},
			BasePrice:              8.0,
			YieldPerHectare:        70,
			PlantingCostPerHectare: 220,
			SeedsPerHectare:        1,
		},
		{
			Type: Potatoes,
			Stages: StageTable{
				{Name: "sprouting", DurationWeeks: 2, WaterNeed: 0.4, NutrientNeed: 0.4},
				{Name: "vegetative", DurationWeeks: 3, WaterNeed: 0.6, NutrientNeed: 0.5},
				{Name: "tuber_initiation", DurationWeeks: 2, WaterNeed: 0.7, NutrientNeed: 0.6},
				{Name: "bulking", DurationWeeks: 4, WaterNeed: 0.8, NutrientNeed: 0.5},
				{Name: "maturation", DurationWeeks: 2, WaterNeed: 0.3, NutrientNeed: 0.2},
			},
			BasePrice:              3.0,
			YieldPerHectare:        250,
			PlantingCostPerHectare: 300,
			SeedsPerHectare:        2,
		},
	}
}
