package crop

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// Fixed starting stats for a freshly planted crop
const (
	InitialHealth        = 1.0
	InitialWaterLevel    = 0.8
	InitialNutrientLevel = 0.5
)

// CauseResourceDepletion is recorded when a crop has neither water nor nutrients left.
// Health is the mean of both factors, so death always means both ran dry.
const CauseResourceDepletion = "drought and nutrient depletion"

// Crop is a planted field. It is owned by the engine's active list until it is
// harvested or dies, at which point its area becomes a land plot.
//
// Invariants:
//   - area > 0
//   - growthProgress, waterLevel, nutrientLevel and health stay within [0,1]
//   - once dead, a crop never changes again
type Crop struct {
	id              string
	cropType        Type
	area            float64
	stageIndex      int
	growthProgress  float64
	waterLevel      float64
	nutrientLevel   float64
	health          float64
	plantedWeek     uint32
	readyForHarvest bool
	isDead          bool
	deathCause      string
	deathTime       time.Time
}

// NewCrop creates a crop in its first stage with the fixed initial stats
func NewCrop(cropType Type, area float64, plantedWeek uint32) (*Crop, error) {
	if cropType == "" {
		return nil, shared.NewValidationError("crop_type", shared.ReasonUnknownCropType, "crop type cannot be empty")
	}
	if !utils.IsPositiveFinite(area) {
		return nil, shared.NewValidationError("area", shared.ReasonInvalidAmount, fmt.Sprintf("area must be positive, got %.2f", area))
	}

	return &Crop{
		id:            utils.GenerateEntityID(string(cropType)),
		cropType:      cropType,
		area:          area,
		waterLevel:    InitialWaterLevel,
		nutrientLevel: InitialNutrientLevel,
		health:        InitialHealth,
		plantedWeek:   plantedWeek,
	}, nil
}

// State is a plain value copy of a crop, used for read models and reconstruction
type State struct {
	ID              string    `json:"id"`
	Type            Type      `json:"crop_type"`
	Area            float64   `json:"area"`
	StageIndex      int       `json:"stage_index"`
	Stage           string    `json:"stage,omitempty"`
	GrowthProgress  float64   `json:"growth_progress"`
	WaterLevel      float64   `json:"water_level"`
	NutrientLevel   float64   `json:"nutrient_level"`
	Health          float64   `json:"health"`
	PlantedWeek     uint32    `json:"planted_week"`
	ReadyForHarvest bool      `json:"ready_for_harvest"`
	IsDead          bool      `json:"is_dead"`
	DeathCause      string    `json:"death_cause,omitempty"`
	DeathTime       time.Time `json:"death_time,omitempty"`
}

// ReconstructCrop rebuilds a crop from a State.
// Levels are clamped into [0,1]; this bypasses the planting rules and is meant
// for fixtures and restores.
func ReconstructCrop(s State) *Crop {
	id := s.ID
	if id == "" {
		id = utils.GenerateEntityID(string(s.Type))
	}
	return &Crop{
		id:              id,
		cropType:        s.Type,
		area:            s.Area,
		stageIndex:      s.StageIndex,
		growthProgress:  utils.Clamp01(s.GrowthProgress),
		waterLevel:      utils.Clamp01(s.WaterLevel),
		nutrientLevel:   utils.Clamp01(s.NutrientLevel),
		health:          utils.Clamp01(s.Health),
		plantedWeek:     s.PlantedWeek,
		readyForHarvest: s.ReadyForHarvest,
		isDead:          s.IsDead,
		deathCause:      s.DeathCause,
		deathTime:       s.DeathTime,
	}
}

// State returns a value copy of the crop. Stage is left empty; resolve it
// through the Lifecycle when a name is needed.
func (c *Crop) State() State {
	return State{
		ID:              c.id,
		Type:            c.cropType,
		Area:            c.area,
		StageIndex:      c.stageIndex,
		GrowthProgress:  c.growthProgress,
		WaterLevel:      c.waterLevel,
		NutrientLevel:   c.nutrientLevel,
		Health:          c.health,
		PlantedWeek:     c.plantedWeek,
		ReadyForHarvest: c.readyForHarvest,
		IsDead:          c.isDead,
		DeathCause:      c.deathCause,
		DeathTime:       c.deathTime,
	}
}

// Getters

func (c *Crop) ID() string {
	return c.id
}

func (c *Crop) Type() Type {
	return c.cropType
}

func (c *Crop) Area() float64 {
	return c.area
}

func (c *Crop) StageIndex() int {
	return c.stageIndex
}

func (c *Crop) GrowthProgress() float64 {
	return c.growthProgress
}

func (c *Crop) WaterLevel() float64 {
	return c.waterLevel
}

func (c *Crop) NutrientLevel() float64 {
	return c.nutrientLevel
}

func (c *Crop) Health() float64 {
	return c.health
}

func (c *Crop) PlantedWeek() uint32 {
	return c.plantedWeek
}

func (c *Crop) ReadyForHarvest() bool {
	return c.readyForHarvest
}

func (c *Crop) IsDead() bool {
	return c.isDead
}

func (c *Crop) DeathCause() string {
	return c.deathCause
}

func (c *Crop) DeathTime() time.Time {
	return c.deathTime
}

// Player inputs

// AddWater raises the water level, capped at 1. Dead crops are unaffected.
func (c *Crop) AddWater(amount float64) {
	if c.isDead || amount <= 0 {
		return
	}
	c.waterLevel = utils.Clamp01(c.waterLevel + amount)
}

// AddNutrients raises the nutrient level, capped at 1. Dead crops are unaffected.
func (c *Crop) AddNutrients(amount float64) {
	if c.isDead || amount <= 0 {
		return
	}
	c.nutrientLevel = utils.Clamp01(c.nutrientLevel + amount)
}

// String provides a human-readable representation
func (c *Crop) String() string {
	return fmt.Sprintf("Crop[%s, type=%s, area=%.1fha, stage=%d, progress=%.2f, health=%.2f]",
		c.id, c.cropType, c.area, c.stageIndex, c.growthProgress, c.health)
}
