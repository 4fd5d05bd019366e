package decision

import "github.com/andrescamacho/farmsim-go/internal/domain/calendar"

// Heuristic scores. They only feed reports and never drive state.
const (
	ScoreRejected       = -1.0
	ScoreChangeFarmType = 0.0

	plantBase        = 10.0
	plantSpringBonus = 5.0
	plantWinterMalus = 5.0
	careNeeded       = 8.0
	careWasteful     = 2.0
	careThreshold    = 0.5
	harvestWeight    = 10.0
	sellWeight       = 10.0
	sellBase         = 5.0
)

// ScorePlant rewards planting in spring and penalizes winter planting
func ScorePlant(season calendar.Season) float64 {
	switch season {
	case calendar.Spring:
		return plantBase + plantSpringBonus
	case calendar.Winter:
		return plantBase - plantWinterMalus
	default:
		return plantBase
	}
}

// ScoreCare scores irrigation or fertilization by how depleted the targeted
// crops were before the action
func ScoreCare(averageLevelBefore float64) float64 {
	if averageLevelBefore < careThreshold {
		return careNeeded
	}
	return careWasteful
}

// ScoreHarvest scales with the average health of the harvested crops
func ScoreHarvest(averageHealth float64) float64 {
	return harvestWeight * averageHealth
}

// ScoreSell rewards selling above the base price
func ScoreSell(price, basePrice float64) float64 {
	if basePrice <= 0 {
		return sellBase
	}
	return sellWeight*(price/basePrice-1) + sellBase
}
