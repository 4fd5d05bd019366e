package economy

import (
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
)

// CostBreakdown itemizes one week's operating costs
type CostBreakdown struct {
	Maintenance   float64 `json:"maintenance"`
	Fuel          float64 `json:"fuel"`
	FuelUnitsUsed float64 `json:"fuel_units_used"`
	Livestock     float64 `json:"livestock"`
}

// Total sums every cost line
func (c CostBreakdown) Total() float64 {
	return c.Maintenance + c.Fuel + c.Livestock
}

// WeeklyReport summarizes one week boundary
type WeeklyReport struct {
	Week          uint32          `json:"week"`
	Year          uint32          `json:"year"`
	Season        calendar.Season `json:"season"`
	Costs         CostBreakdown   `json:"costs"`
	Income        float64         `json:"income"`
	Net           float64         `json:"net"`
	BalanceBefore float64         `json:"balance_before"`
	BalanceAfter  float64         `json:"balance_after"`
	SettledAt     time.Time       `json:"settled_at"`
}

// Settle charges one week of operating costs against res.
//
// Fuel is drawn from stock first; any shortfall is bought at the fuel price.
// Money has no floor.
func Settle(res Resources, costs OperatingCosts) (Resources, CostBreakdown) {
	breakdown := CostBreakdown{
		Maintenance:   costs.MaintenancePerWeek,
		Livestock:     float64(costs.Livestock) * costs.UpkeepPerHead,
		FuelUnitsUsed: costs.FuelUnitsPerWeek,
	}

	fromStock := costs.FuelUnitsPerWeek
	if fromStock > res.Fuel {
		fromStock = res.Fuel
	}
	shortfall := costs.FuelUnitsPerWeek - fromStock
	res.Fuel -= fromStock
	breakdown.Fuel = shortfall * costs.FuelPrice

	res.Money -= breakdown.Total()
	return res.Normalize(), breakdown
}
