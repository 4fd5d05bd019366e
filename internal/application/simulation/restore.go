package simulation

import (
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// Restoring state bypasses the decision rules: nothing is charged and no
// decision is recorded. Hosts use it to resume a run; tests use it for fixtures.

// RestoreCrop places a crop in the field, reserving its area. A crop whose
// type the catalog no longer knows is accepted and stays inert.
func (e *Engine) RestoreCrop(s crop.State) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.Type == "" {
		return "", shared.NewValidationError("crop_type", shared.ReasonUnknownCropType, "crop type cannot be empty")
	}
	if err := e.farm.land.Reserve(s.Area); err != nil {
		return "", err
	}
	if s.PlantedWeek == 0 {
		s.PlantedWeek = e.clock.Week()
	}
	c := crop.ReconstructCrop(s)
	e.farm.crops = append(e.farm.crops, c)
	return c.ID(), nil
}

// RestoreResources overwrites the resource stocks
func (e *Engine) RestoreResources(res economy.Resources) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.farm.resources = res.Normalize()
}

// RestoreInventory overwrites the held amount of one crop type
func (e *Engine) RestoreInventory(t crop.Type, amount float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.farm.inventory, t)
	e.farm.inventory.Add(t, amount)
}
