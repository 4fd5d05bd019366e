package crop

import (
	"math"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// LifecycleConfig holds the tunable per-tick rates
type LifecycleConfig struct {
	BaseGrowthRate          float64 // growth progress per tick at perfect conditions
	BaseWaterConsumption    float64 // water level lost per tick before multipliers
	BaseNutrientConsumption float64 // nutrient level lost per tick before multipliers
}

// DefaultLifecycleConfig returns the standard rates
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		BaseGrowthRate:          0.1,
		BaseWaterConsumption:    0.02,
		BaseNutrientConsumption: 0.01,
	}
}

// Multipliers scale resource consumption; they come from the environmental snapshot
type Multipliers struct {
	Water    float64
	Nutrient float64
}

// NeutralMultipliers leaves consumption at its base rate
func NeutralMultipliers() Multipliers {
	return Multipliers{Water: 1, Nutrient: 1}
}

// UpdateResult reports what happened to a crop during one tick
type UpdateResult struct {
	StageAdvanced bool
	BecameReady   bool
	Died          bool
}

// Lifecycle drives crops through their stage tables
type Lifecycle struct {
	catalog *Catalog
	cfg     LifecycleConfig
}

// NewLifecycle creates a lifecycle bound to a catalog
func NewLifecycle(catalog *Catalog, cfg LifecycleConfig) *Lifecycle {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Lifecycle{catalog: catalog, cfg: cfg}
}

// Catalog returns the catalog the lifecycle reads stage tables from
func (l *Lifecycle) Catalog() *Catalog {
	return l.catalog
}

// SeasonalGrowthModifier scales growth by season
func SeasonalGrowthModifier(season calendar.Season) float64 {
	switch season {
	case calendar.Spring:
		return 1.0
	case calendar.Summer:
		return 1.15
	case calendar.Fall:
		return 0.8
	case calendar.Winter:
		return 0.35
	default:
		return 1.0
	}
}

// Update advances one crop by one tick.
//
// A crop whose type has no stage table is left untouched and an
// UnknownEntityError is returned so the caller can log it; the crop stays in
// play. Dead crops are ignored.
func (l *Lifecycle) Update(c *Crop, seasonal float64, env Multipliers, now time.Time) (UpdateResult, error) {
	var result UpdateResult
	if c.isDead {
		return result, nil
	}

	profile, ok := l.catalog.Profile(c.cropType)
	if !ok {
		return result, shared.NewUnknownEntityError("crop type", string(c.cropType))
	}
	if c.stageIndex < 0 || c.stageIndex >= len(profile.Stages) {
		c.stageIndex = clampIndex(c.stageIndex, len(profile.Stages))
	}
	stage := profile.Stages[c.stageIndex]

	waterFactor := factor(c.waterLevel, stage.WaterNeed)
	nutrientFactor := factor(c.nutrientLevel, stage.NutrientNeed)

	if !c.readyForHarvest {
		increment := waterFactor * nutrientFactor * seasonal * l.cfg.BaseGrowthRate
		c.growthProgress = math.Min(c.growthProgress+math.Max(increment, 0), 1.0)

		if c.growthProgress >= 1.0 {
			if profile.Stages.Last(c.stageIndex) {
				c.readyForHarvest = true
				result.BecameReady = true
			} else {
				c.stageIndex++
				c.growthProgress = 0
				result.StageAdvanced = true
			}
		}
	}

	c.health = utils.Clamp01((waterFactor + nutrientFactor) / 2)

	c.waterLevel = utils.FloorZero(c.waterLevel - l.cfg.BaseWaterConsumption*env.Water)
	c.nutrientLevel = utils.FloorZero(c.nutrientLevel - l.cfg.BaseNutrientConsumption*env.Nutrient)

	if c.health <= 0 {
		c.isDead = true
		c.deathCause = CauseResourceDepletion
		c.deathTime = now
		result.Died = true
	}

	return result, nil
}

// StageName resolves the crop's current stage name
func (l *Lifecycle) StageName(c *Crop) string {
	profile, ok := l.catalog.Profile(c.cropType)
	if !ok || c.stageIndex < 0 || c.stageIndex >= len(profile.Stages) {
		return ""
	}
	return profile.Stages[c.stageIndex].Name
}

// EstimatedWeeksRemaining estimates the weeks until harvest from the stage
// durations, counting only the unfinished part of the current stage
func (l *Lifecycle) EstimatedWeeksRemaining(c *Crop) float64 {
	if c.readyForHarvest || c.isDead {
		return 0
	}
	profile, ok := l.catalog.Profile(c.cropType)
	if !ok || c.stageIndex >= len(profile.Stages) {
		return 0
	}

	remaining := float64(profile.Stages[c.stageIndex].DurationWeeks) * (1 - c.growthProgress)
	for _, s := range profile.Stages[c.stageIndex+1:] {
		remaining += float64(s.DurationWeeks)
	}
	return remaining
}

// factor is the satisfied fraction of a need, capped at 1. A zero need is always satisfied.
func factor(level, need float64) float64 {
	if need <= 0 {
		return 1.0
	}
	return math.Min(level/need, 1.0)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	return n - 1
}
