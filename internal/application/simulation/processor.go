package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/logging"
	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// DecisionProcessor validates and applies player actions.
//
// Every action validates completely before it mutates anything, so a
// rejected action leaves money, land, crops and inventory untouched. Every
// action, applied or not, is appended to the decision log and announced with
// a DecisionApplied event.
type DecisionProcessor struct {
	farm        *farm
	clock       *calendar.GameClock
	lifecycle   *crop.Lifecycle
	pricer      *economy.Pricer
	wall        shared.Clock
	recoveryNow func() time.Time
	log         *decision.Log
	bus         *events.Bus
	logger      logging.SimLogger
	runID       string
}

// Plant sows area hectares of cropType
func (p *DecisionProcessor) Plant(cropType crop.Type, area float64) (Result, error) {
	payload := map[string]interface{}{"crop_type": string(cropType), "area": area}

	profile, err := p.profile(cropType)
	if err != nil {
		return p.reject(decision.KindPlant, payload, err)
	}
	if err := p.farm.land.CanReserve(area); err != nil {
		return p.reject(decision.KindPlant, payload, err)
	}
	cost := profile.PlantingCostPerHectare * area
	if cost > p.farm.resources.Money {
		return p.reject(decision.KindPlant, payload, shared.NewValidationError("money", shared.ReasonInsufficientMoney,
			fmt.Sprintf("planting %.1f ha of %s costs %.2f, have %.2f", area, cropType, cost, p.farm.resources.Money)))
	}
	seeds := profile.SeedsPerHectare * area
	if seeds > p.farm.resources.Seeds {
		return p.reject(decision.KindPlant, payload, shared.NewValidationError("seeds", shared.ReasonInsufficientSeeds,
			fmt.Sprintf("need %.1f seeds, have %.1f", seeds, p.farm.resources.Seeds)))
	}
	c, err := crop.NewCrop(cropType, area, p.clock.Week())
	if err != nil {
		return p.reject(decision.KindPlant, payload, err)
	}

	if err := p.farm.land.Reserve(area); err != nil {
		return p.reject(decision.KindPlant, payload, err)
	}
	p.farm.resources.Money -= cost
	p.farm.resources.Seeds -= seeds
	p.farm.resources = p.farm.resources.Normalize()
	p.farm.crops = append(p.farm.crops, c)

	state := p.cropState(c)
	p.publish(events.CropPlanted, events.CropPayload{Crop: state})

	result := Result{Planted: &state, Affected: 1, MoneySpent: cost, SeedsUsed: seeds}
	return p.apply(decision.KindPlant, payload, decision.ScorePlant(p.clock.Season()), result,
		fmt.Sprintf("planted %.1f ha of %s", area, cropType))
}

// Irrigate waters every living crop matching filter (all crops when nil)
func (p *DecisionProcessor) Irrigate(filter *crop.Type, intensity string) (Result, error) {
	payload := map[string]interface{}{"intensity": intensity}
	if filter != nil {
		payload["crop_type"] = string(*filter)
	}

	level, profile, err := economy.ParseIntensity(intensity)
	if err != nil {
		return p.reject(decision.KindIrrigate, payload, err)
	}
	payload["intensity"] = string(level)
	targets, err := p.targets(filter)
	if err != nil {
		return p.reject(decision.KindIrrigate, payload, err)
	}
	water := profile.WaterPerHectare * totalArea(targets)
	if water > p.farm.resources.Water {
		return p.reject(decision.KindIrrigate, payload, shared.NewValidationError("water", shared.ReasonInsufficientWater,
			fmt.Sprintf("need %.1f water, have %.1f", water, p.farm.resources.Water)))
	}

	before := 0.0
	for _, c := range targets {
		before += c.WaterLevel()
		c.AddWater(profile.Effectiveness)
	}
	spent := water * economy.PumpingCostPerWaterUnit
	p.farm.resources.Water -= water
	p.farm.resources.Money -= spent
	p.farm.resources = p.farm.resources.Normalize()

	result := Result{Affected: len(targets), WaterUsed: water, MoneySpent: spent}
	return p.apply(decision.KindIrrigate, payload, decision.ScoreCare(before/float64(len(targets))), result,
		fmt.Sprintf("irrigated %d crops (%s)", len(targets), level))
}

// Fertilize feeds every living crop matching filter (all crops when nil)
func (p *DecisionProcessor) Fertilize(filter *crop.Type, kind string) (Result, error) {
	payload := map[string]interface{}{"fertilizer": kind}
	if filter != nil {
		payload["crop_type"] = string(*filter)
	}

	fertKind, profile, err := economy.ParseFertilizer(kind)
	if err != nil {
		return p.reject(decision.KindFertilize, payload, err)
	}
	payload["fertilizer"] = string(fertKind)
	if p.farm.preset.OrganicOnly && profile.Synthetic {
		return p.reject(decision.KindFertilize, payload, shared.NewValidationError("fertilizer", shared.ReasonSyntheticNotPermitted,
			fmt.Sprintf("%s farms cannot use %s", p.farm.preset.Type, fertKind)))
	}
	targets, err := p.targets(filter)
	if err != nil {
		return p.reject(decision.KindFertilize, payload, err)
	}
	units := profile.UnitsPerHectare * totalArea(targets)
	if units > p.farm.resources.Fertilizer {
		return p.reject(decision.KindFertilize, payload, shared.NewValidationError("fertilizer", shared.ReasonInsufficientFertilizer,
			fmt.Sprintf("need %.1f fertilizer, have %.1f", units, p.farm.resources.Fertilizer)))
	}

	before := 0.0
	for _, c := range targets {
		before += c.NutrientLevel()
		c.AddNutrients(profile.Effectiveness)
	}
	spent := units * profile.PricePerUnit
	p.farm.resources.Fertilizer -= units
	p.farm.resources.Money -= spent
	p.farm.resources = p.farm.resources.Normalize()

	result := Result{Affected: len(targets), Fertilizer: units, MoneySpent: spent}
	return p.apply(decision.KindFertilize, payload, decision.ScoreCare(before/float64(len(targets))), result,
		fmt.Sprintf("fertilized %d crops (%s)", len(targets), fertKind))
}

// Harvest gathers every ready crop of cropType
func (p *DecisionProcessor) Harvest(cropType crop.Type) (Result, error) {
	payload := map[string]interface{}{"crop_type": string(cropType)}

	profile, err := p.profile(cropType)
	if err != nil {
		return p.reject(decision.KindHarvest, payload, err)
	}
	var ready []*crop.Crop
	for _, c := range p.farm.living(&cropType) {
		if c.ReadyForHarvest() {
			ready = append(ready, c)
		}
	}
	if len(ready) == 0 {
		return p.reject(decision.KindHarvest, payload, shared.NewValidationError("crop_type", shared.ReasonNotReady,
			fmt.Sprintf("no %s is ready for harvest", cropType)))
	}

	now := p.recoveryNow()
	gone := make(map[string]bool, len(ready))
	result := Result{}
	healthSum := 0.0
	for _, c := range ready {
		yield := profile.YieldPerHectare * c.Area() * c.Health()
		labour := economy.HarvestCostPerHectare * c.Area()
		state := p.cropState(c)

		p.farm.inventory.Add(cropType, yield)
		p.farm.resources.Money -= labour
		p.farm.land.Retire(land.PlotHarvested, c.Area(), now, cropType, "")
		gone[c.ID()] = true

		healthSum += c.Health()
		result.Yield += yield
		result.MoneySpent += labour
		result.Harvested = append(result.Harvested, HarvestedCrop{Crop: state, Yield: yield})
		p.publish(events.CropHarvested, events.CropHarvestedPayload{Crop: state, Yield: yield})
	}
	p.farm.remove(gone)
	result.Affected = len(ready)
	payload["yield"] = result.Yield

	return p.apply(decision.KindHarvest, payload, decision.ScoreHarvest(healthSum/float64(len(ready))), result,
		fmt.Sprintf("harvested %.1f units of %s", result.Yield, cropType))
}

// Sell sells up to amount units of cropType at the current market price.
// Selling from an empty inventory succeeds with no effect.
func (p *DecisionProcessor) Sell(cropType crop.Type, amount float64) (Result, error) {
	payload := map[string]interface{}{"crop_type": string(cropType), "amount": amount}

	profile, err := p.profile(cropType)
	if err != nil {
		return p.reject(decision.KindSell, payload, err)
	}
	if !utils.IsPositiveFinite(amount) {
		return p.reject(decision.KindSell, payload, shared.NewValidationError("amount", shared.ReasonInvalidAmount,
			fmt.Sprintf("amount must be positive, got %.2f", amount)))
	}
	if p.farm.inventory.Get(cropType) <= 0 {
		result := Result{Outcome: decision.OutcomeNoEffect}
		return p.record(decision.KindSell, payload, decision.OutcomeNoEffect, 0, "", fmt.Sprintf("no %s in inventory", cropType), result)
	}
	price, err := p.pricer.MarketPrice(cropType, p.clock.Week())
	if err != nil {
		return p.reject(decision.KindSell, payload, err)
	}

	sold := p.farm.inventory.Remove(cropType, amount)
	revenue := sold * price
	p.farm.resources.Money += revenue
	p.farm.weekIncome += revenue
	payload["price"] = price
	payload["sold"] = sold

	result := Result{SoldAmount: sold, Price: price, Revenue: revenue, Affected: 1}
	return p.apply(decision.KindSell, payload, decision.ScoreSell(price, profile.BasePrice), result,
		fmt.Sprintf("sold %.1f %s at %.2f", sold, cropType, price))
}

// ChangeFarmType switches presets. Resources are kept; land and operating
// costs are reset to the new preset. Only allowed on an empty farm.
func (p *DecisionProcessor) ChangeFarmType(farmType string) (Result, error) {
	payload := map[string]interface{}{"farm_type": farmType}

	ft, err := economy.ParseFarmType(farmType)
	if err != nil {
		return p.reject(decision.KindChangeFarmType, payload, shared.NewValidationError("farm_type", shared.ReasonUnknownOption, err.Error()))
	}
	preset, _ := economy.PresetFor(ft)
	if len(p.farm.crops) > 0 || !p.farm.land.IsEmpty() {
		return p.reject(decision.KindChangeFarmType, payload, shared.NewValidationError("farm_type", shared.ReasonFarmNotEmpty,
			"farm type can only change with no crops planted and no land recovering"))
	}

	if err := p.farm.land.Reset(preset.FarmSize); err != nil {
		return p.reject(decision.KindChangeFarmType, payload, err)
	}
	fuelPrice := p.farm.costs.FuelPrice
	p.farm.preset = preset
	p.farm.costs = preset.Costs
	p.farm.costs.FuelPrice = fuelPrice

	return p.apply(decision.KindChangeFarmType, payload, decision.ScoreChangeFarmType, Result{Affected: 1},
		fmt.Sprintf("farm type is now %s", ft))
}

func (p *DecisionProcessor) profile(cropType crop.Type) (crop.Profile, error) {
	profile, ok := p.lifecycle.Catalog().Profile(cropType)
	if !ok {
		return crop.Profile{}, shared.NewValidationError("crop_type", shared.ReasonUnknownCropType,
			fmt.Sprintf("unknown crop type %q", cropType))
	}
	return profile, nil
}

func (p *DecisionProcessor) targets(filter *crop.Type) ([]*crop.Crop, error) {
	if filter != nil {
		if _, err := p.profile(*filter); err != nil {
			return nil, err
		}
	}
	targets := p.farm.living(filter)
	if len(targets) == 0 {
		what := "crops"
		if filter != nil {
			what = string(*filter)
		}
		return nil, shared.NewValidationError("crop_type", shared.ReasonNoMatchingCrops, "no living "+what+" to treat")
	}
	return targets, nil
}

func (p *DecisionProcessor) cropState(c *crop.Crop) crop.State {
	s := c.State()
	s.Stage = p.lifecycle.StageName(c)
	return s
}

func (p *DecisionProcessor) apply(kind decision.Kind, payload map[string]interface{}, score float64, result Result, message string) (Result, error) {
	result.Outcome = decision.OutcomeApplied
	return p.record(kind, payload, decision.OutcomeApplied, score, "", message, result)
}

// reject records a failed action and returns the validation error to the caller
func (p *DecisionProcessor) reject(kind decision.Kind, payload map[string]interface{}, cause error) (Result, error) {
	reason := ""
	var vErr *shared.ValidationError
	if errors.As(cause, &vErr) {
		reason = string(vErr.Reason)
	}
	result, _ := p.record(kind, payload, decision.OutcomeRejected, decision.ScoreRejected, reason, cause.Error(), Result{Outcome: decision.OutcomeRejected})
	return result, cause
}

func (p *DecisionProcessor) record(kind decision.Kind, payload map[string]interface{}, outcome decision.Outcome, score float64, reason, message string, result Result) (Result, error) {
	d, err := decision.NewDecision(decision.Params{
		RunID:     p.runID,
		Kind:      kind,
		Week:      p.clock.Week(),
		Payload:   payload,
		Timestamp: p.wall.Now(),
		Score:     score,
		Outcome:   outcome,
		Reason:    reason,
		Message:   message,
	})
	if err != nil {
		// the processor only builds well-formed decisions
		p.logger.Log(logging.LevelError, "Failed to record decision", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return result, nil
	}

	p.log.Append(d)
	result.Decision = d
	result.Message = message
	p.bus.Publish(events.NewDecisionApplied(d))
	return result, nil
}

func (p *DecisionProcessor) publish(t events.Type, payload interface{}) {
	p.bus.Publish(events.New(t, payload, p.wall.Now()))
}
