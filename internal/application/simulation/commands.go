package simulation

import (
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
)

// Command is the typed surface for player decisions
type Command interface {
	isCommand()
}

type PlantCommand struct {
	CropType crop.Type
	Area     float64
}

type IrrigateCommand struct {
	Filter    *crop.Type
	Intensity string
}

type FertilizeCommand struct {
	Filter *crop.Type
	Kind   string
}

type HarvestCommand struct {
	CropType crop.Type
}

type SellCommand struct {
	CropType crop.Type
	Amount   float64
}

type ChangeFarmTypeCommand struct {
	FarmType string
}

func (PlantCommand) isCommand()          {}
func (IrrigateCommand) isCommand()       {}
func (FertilizeCommand) isCommand()      {}
func (HarvestCommand) isCommand()        {}
func (SellCommand) isCommand()           {}
func (ChangeFarmTypeCommand) isCommand() {}

// Execute dispatches a command to the matching decision
func (e *Engine) Execute(cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case PlantCommand:
		return e.Plant(c.CropType, c.Area)
	case IrrigateCommand:
		return e.Irrigate(c.Filter, c.Intensity)
	case FertilizeCommand:
		return e.Fertilize(c.Filter, c.Kind)
	case HarvestCommand:
		return e.Harvest(c.CropType)
	case SellCommand:
		return e.Sell(c.CropType, c.Amount)
	case ChangeFarmTypeCommand:
		return e.ChangeFarmType(c.FarmType)
	default:
		return Result{}, fmt.Errorf("unsupported command %T", cmd)
	}
}
