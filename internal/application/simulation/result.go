package simulation

import (
	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
)

// Result describes an applied or rejected decision. Only the fields relevant
// to the action are set.
type Result struct {
	Decision *decision.Decision
	Outcome  decision.Outcome
	Message  string

	Planted   *crop.State
	Harvested []HarvestedCrop
	Affected  int

	Yield      float64
	SoldAmount float64
	Price      float64
	Revenue    float64
	MoneySpent float64
	WaterUsed  float64
	Fertilizer float64
	SeedsUsed  float64
}

// HarvestedCrop is one crop removed by a harvest
type HarvestedCrop struct {
	Crop  crop.State
	Yield float64
}

// TickReport summarizes one Tick
type TickReport struct {
	Boundaries     []calendar.Boundary
	WeeksAdvanced  int
	CropsUpdated   int
	CropsDied      int
	BecameReady    int
	PlotsRecovered int
	Week           uint32
	Season         calendar.Season
}
