package steps

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/events"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/test/helpers"
)

const epsilon = 1e-9

type farmContext struct {
	engine *simulation.Engine
	wall   *shared.MockClock

	result simulation.Result
	err    error
	report simulation.TickReport

	moneyBefore  float64
	priceBefore  float64
	eventTime    time.Time
	yearAdvances int
}

func (fc *farmContext) reset() {
	*fc = farmContext{}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

// Given steps

func (fc *farmContext) aFarmOfHectares(farmType string, hectares float64) error {
	cfg := helpers.TestEngineConfig()
	ft, err := economy.ParseFarmType(farmType)
	if err != nil {
		return err
	}
	cfg.FarmType = ft
	cfg.FarmSize = hectares

	fc.wall = shared.NewMockClock(helpers.TestStart)
	fc.engine, err = simulation.New(cfg, simulation.WithWallClock(fc.wall))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	fc.engine.Subscribe(func(e events.Event) {
		if e.Type == events.YearAdvanced {
			fc.yearAdvances++
		}
	})

	state := fc.engine.Snapshot()
	if state.Clock.Week != 1 || state.Clock.Season.String() != "Spring" {
		return fmt.Errorf("expected week 1 of spring, got week %d of %s", state.Clock.Week, state.Clock.Season)
	}
	return nil
}

func (fc *farmContext) theFarmHasMoney(money float64) error {
	res := fc.engine.Snapshot().Resources
	res.Money = money
	fc.engine.RestoreResources(res)
	return nil
}

func (fc *farmContext) aStarvingCrop(cropType string, area, health float64) error {
	_, err := fc.engine.RestoreCrop(crop.State{Type: crop.Type(cropType), Area: area, Health: health})
	return err
}

func (fc *farmContext) aReadyCrop(cropType string, area, health float64) error {
	_, err := fc.engine.RestoreCrop(crop.State{
		Type:            crop.Type(cropType),
		Area:            area,
		StageIndex:      3,
		GrowthProgress:  1,
		WaterLevel:      0.5,
		NutrientLevel:   0.5,
		Health:          health,
		ReadyForHarvest: true,
	})
	return err
}

func (fc *farmContext) theInventoryHolds(amount float64, cropType string) error {
	fc.engine.RestoreInventory(crop.Type(cropType), amount)
	return nil
}

// When steps

func (fc *farmContext) iPlant(area float64, cropType string) error {
	fc.result, fc.err = fc.engine.Plant(crop.Type(cropType), area)
	return nil
}

func (fc *farmContext) iHarvest(cropType string) error {
	fc.eventTime = fc.wall.Now()
	fc.result, fc.err = fc.engine.Harvest(crop.Type(cropType))
	return nil
}

func (fc *farmContext) iSell(amount float64, cropType string) error {
	price, err := fc.engine.MarketPrice(crop.Type(cropType))
	if err != nil {
		return err
	}
	fc.priceBefore = price
	fc.moneyBefore = fc.engine.Snapshot().Resources.Money
	fc.result, fc.err = fc.engine.Sell(crop.Type(cropType), amount)
	return nil
}

func (fc *farmContext) gameHoursPass(hours int) error {
	fc.eventTime = fc.wall.Now()
	fc.report = fc.engine.Tick(time.Duration(hours) * time.Millisecond)
	return nil
}

func (fc *farmContext) gameWeeksPass(weeks int) error {
	fc.report = fc.engine.Tick(time.Duration(weeks) * helpers.TestWeek)
	return nil
}

func (fc *farmContext) wallMinutesPass(minutes int) error {
	fc.wall.Advance(time.Duration(minutes) * time.Minute)
	return nil
}

func (fc *farmContext) landRecoveryIsProcessed() error {
	fc.report = fc.engine.Tick(0)
	return nil
}

// Then steps

func (fc *farmContext) theDecisionShouldBe(outcome string) error {
	if fc.result.Decision == nil {
		return fmt.Errorf("no decision was recorded")
	}
	if got := string(fc.result.Decision.Outcome()); got != outcome {
		return fmt.Errorf("expected outcome %s, got %s (err: %v)", outcome, got, fc.err)
	}
	return nil
}

func (fc *farmContext) theDecisionShouldBeWithReason(outcome, reason string) error {
	if err := fc.theDecisionShouldBe(outcome); err != nil {
		return err
	}
	var vErr *shared.ValidationError
	if !errors.As(fc.err, &vErr) {
		return fmt.Errorf("expected a validation error, got %v", fc.err)
	}
	if string(vErr.Reason) != reason {
		return fmt.Errorf("expected reason %s, got %s", reason, vErr.Reason)
	}
	return nil
}

func (fc *farmContext) theDecisionScoreShouldBe(score float64) error {
	if fc.result.Decision == nil {
		return fmt.Errorf("no decision was recorded")
	}
	if !almostEqual(fc.result.Decision.Score(), score) {
		return fmt.Errorf("expected score %.2f, got %.2f", score, fc.result.Decision.Score())
	}
	return nil
}

func (fc *farmContext) iPlantTheFollowingCrops(table *godog.Table) error {
	for _, row := range table.Rows[1:] {
		area, err := strconv.ParseFloat(getCellValue(table, row, "hectares"), 64)
		if err != nil {
			return fmt.Errorf("bad hectares cell: %w", err)
		}
		fc.result, fc.err = fc.engine.Plant(crop.Type(getCellValue(table, row, "crop")), area)
		if fc.err != nil {
			return fmt.Errorf("planting %s failed: %w", getCellValue(table, row, "crop"), fc.err)
		}
	}
	return nil
}

func (fc *farmContext) availableLandShouldBe(hectares float64) error {
	if got := fc.engine.Snapshot().Land.Available; !almostEqual(got, hectares) {
		return fmt.Errorf("expected %.2f ha available, got %.2f", hectares, got)
	}
	return nil
}

func (fc *farmContext) cropCountShouldBe(n int) error {
	if got := len(fc.engine.Snapshot().Crops); got != n {
		return fmt.Errorf("expected %d crops, got %d", n, got)
	}
	return nil
}

func (fc *farmContext) theCropShouldBeFresh(cropType, stage string, health, water, nutrients float64) error {
	for _, c := range fc.engine.Snapshot().Crops {
		if string(c.Type) != cropType {
			continue
		}
		if c.Stage != stage || c.StageIndex != 0 {
			return fmt.Errorf("expected stage %s (index 0), got %s (index %d)", stage, c.Stage, c.StageIndex)
		}
		if !almostEqual(c.Health, health) || !almostEqual(c.WaterLevel, water) || !almostEqual(c.NutrientLevel, nutrients) {
			return fmt.Errorf("expected health %.2f water %.2f nutrients %.2f, got %.2f %.2f %.2f",
				health, water, nutrients, c.Health, c.WaterLevel, c.NutrientLevel)
		}
		return nil
	}
	return fmt.Errorf("no %s crop on the farm", cropType)
}

func (fc *farmContext) theFarmShouldBeGrowing(table *godog.Table) error {
	crops := fc.engine.Snapshot().Crops
	if len(crops) != len(table.Rows)-1 {
		return fmt.Errorf("expected %d crops, got %d", len(table.Rows)-1, len(crops))
	}
	for i, row := range table.Rows[1:] {
		c := crops[i]
		area, err := strconv.ParseFloat(getCellValue(table, row, "hectares"), 64)
		if err != nil {
			return fmt.Errorf("bad hectares cell: %w", err)
		}
		if string(c.Type) != getCellValue(table, row, "crop") || !almostEqual(c.Area, area) || c.Stage != getCellValue(table, row, "stage") {
			return fmt.Errorf("crop %d: expected %s %.1f ha in %s, got %s %.1f ha in %s",
				i, getCellValue(table, row, "crop"), area, getCellValue(table, row, "stage"), c.Type, c.Area, c.Stage)
		}
	}
	return nil
}

func (fc *farmContext) moneyShouldBe(money float64) error {
	if got := fc.engine.Snapshot().Resources.Money; !almostEqual(got, money) {
		return fmt.Errorf("expected money %.2f, got %.2f", money, got)
	}
	return nil
}

func (fc *farmContext) theCropShouldHaveDied() error {
	if fc.report.CropsDied != 1 {
		return fmt.Errorf("expected 1 crop to die, got %d", fc.report.CropsDied)
	}
	return nil
}

func (fc *farmContext) plotShouldRecoverAfter(kind string, area float64, minutes int) error {
	state := fc.engine.Snapshot().Land
	plots := state.Dead
	if kind == "harvested" {
		plots = state.Harvested
	}
	if len(plots) != 1 {
		return fmt.Errorf("expected 1 %s plot, got %d", kind, len(plots))
	}
	p := plots[0]
	if !almostEqual(p.Area, area) {
		return fmt.Errorf("expected %s plot of %.2f ha, got %.2f", kind, area, p.Area)
	}
	want := fc.eventTime.Add(time.Duration(minutes) * time.Minute)
	if !p.Deadline.Equal(want) {
		return fmt.Errorf("expected recovery at %s, got %s", want, p.Deadline)
	}
	return nil
}

func (fc *farmContext) noRecoveringLand() error {
	state := fc.engine.Snapshot().Land
	if state.Recovering != 0 || len(state.Dead) != 0 || len(state.Harvested) != 0 {
		return fmt.Errorf("expected no recovering land, got %.2f ha in %d plots", state.Recovering, len(state.Dead)+len(state.Harvested))
	}
	return nil
}

func (fc *farmContext) theHarvestShouldYield(units float64) error {
	if !almostEqual(fc.result.Yield, units) {
		return fmt.Errorf("expected yield %.2f, got %.2f", units, fc.result.Yield)
	}
	return nil
}

func (fc *farmContext) theInventoryShouldHold(units float64, cropType string) error {
	if got := fc.engine.Snapshot().Inventory.Get(crop.Type(cropType)); !almostEqual(got, units) {
		return fmt.Errorf("expected %.2f units of %s, got %.2f", units, cropType, got)
	}
	return nil
}

func (fc *farmContext) unitsShouldHaveBeenSold(units float64) error {
	if !almostEqual(fc.result.SoldAmount, units) {
		return fmt.Errorf("expected %.2f units sold, got %.2f", units, fc.result.SoldAmount)
	}
	return nil
}

func (fc *farmContext) moneyShouldHaveGrownBy(units float64, cropType string) error {
	want := fc.moneyBefore + units*fc.priceBefore
	if got := fc.engine.Snapshot().Resources.Money; math.Abs(got-want) > 1e-6 {
		return fmt.Errorf("expected money %.4f (%.0f x %.4f on top of %.2f), got %.4f", want, units, fc.priceBefore, fc.moneyBefore, got)
	}
	return nil
}

func (fc *farmContext) theCalendarShouldShow(week, year int, season string) error {
	clock := fc.engine.Snapshot().Clock
	if clock.Week != uint32(week) || clock.Year != uint32(year) || clock.Season.String() != season {
		return fmt.Errorf("expected week %d year %d %s, got week %d year %d %s",
			week, year, season, clock.Week, clock.Year, clock.Season)
	}
	return nil
}

func (fc *farmContext) theYearShouldHaveAdvancedOnce() error {
	if fc.yearAdvances != 1 {
		return fmt.Errorf("expected exactly one year rollover, got %d", fc.yearAdvances)
	}
	return nil
}

// InitializeFarmScenario registers the farm simulation steps
func InitializeFarmScenario(ctx *godog.ScenarioContext) {
	fc := &farmContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		fc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a (\w+) farm of (\d+(?:\.\d+)?) hectares in week 1 of spring$`, fc.aFarmOfHectares)
	ctx.Step(`^the farm has (\d+(?:\.\d+)?) money$`, fc.theFarmHasMoney)
	ctx.Step(`^an? (\w+) crop of (\d+(?:\.\d+)?) hectares with health (\d+(?:\.\d+)?) and no water or nutrients$`, fc.aStarvingCrop)
	ctx.Step(`^a ready (\w+) crop of (\d+(?:\.\d+)?) hectares with health (\d+(?:\.\d+)?)$`, fc.aReadyCrop)
	ctx.Step(`^the inventory holds (\d+(?:\.\d+)?) units of (\w+)$`, fc.theInventoryHolds)
	ctx.Step(`^(\d+) game weeks have passed$`, fc.gameWeeksPass)

	// When steps
	ctx.Step(`^I plant (-?\d+(?:\.\d+)?) hectares of (\w+)$`, fc.iPlant)
	ctx.Step(`^I plant the following crops:$`, fc.iPlantTheFollowingCrops)
	ctx.Step(`^I harvest (\w+)$`, fc.iHarvest)
	ctx.Step(`^I sell (\d+(?:\.\d+)?) units of (\w+)$`, fc.iSell)
	ctx.Step(`^(\d+) game hours? pass(?:es)?$`, fc.gameHoursPass)
	ctx.Step(`^(\d+) game weeks? pass(?:es)?$`, fc.gameWeeksPass)
	ctx.Step(`^(\d+) minutes of wall time pass$`, fc.wallMinutesPass)
	ctx.Step(`^land recovery is processed$`, fc.landRecoveryIsProcessed)

	// Then steps
	ctx.Step(`^the farm should be growing:$`, fc.theFarmShouldBeGrowing)
	ctx.Step(`^the decision should be "([^"]*)"$`, fc.theDecisionShouldBe)
	ctx.Step(`^the decision should be "([^"]*)" with reason "([^"]*)"$`, fc.theDecisionShouldBeWithReason)
	ctx.Step(`^the decision score should be (-?\d+(?:\.\d+)?)$`, fc.theDecisionScoreShouldBe)
	ctx.Step(`^available land should be (\d+(?:\.\d+)?) hectares$`, fc.availableLandShouldBe)
	ctx.Step(`^there should be (\d+) crops? on the farm$`, fc.cropCountShouldBe)
	ctx.Step(`^the (\w+) crop should be in stage "([^"]*)" with health (\d+(?:\.\d+)?), water (\d+(?:\.\d+)?) and nutrients (\d+(?:\.\d+)?)$`, fc.theCropShouldBeFresh)
	ctx.Step(`^money should be (\d+(?:\.\d+)?)$`, fc.moneyShouldBe)
	ctx.Step(`^the crop should have died$`, fc.theCropShouldHaveDied)
	ctx.Step(`^an? (dead|harvested) plot of (\d+(?:\.\d+)?) hectares should recover (\d+) minutes after the (?:death|harvest)$`, fc.plotShouldRecoverAfter)
	ctx.Step(`^there should be no recovering land$`, fc.noRecoveringLand)
	ctx.Step(`^the harvest should yield (\d+(?:\.\d+)?) units$`, fc.theHarvestShouldYield)
	ctx.Step(`^the inventory should hold (\d+(?:\.\d+)?) units of (\w+)$`, fc.theInventoryShouldHold)
	ctx.Step(`^(\d+(?:\.\d+)?) units should have been sold$`, fc.unitsShouldHaveBeenSold)
	ctx.Step(`^money should have grown by (\d+(?:\.\d+)?) times the (\w+) price$`, fc.moneyShouldHaveGrownBy)
	ctx.Step(`^the calendar should show week (\d+) of year (\d+) in "([^"]*)"$`, fc.theCalendarShouldShow)
	ctx.Step(`^the year should have advanced exactly once$`, fc.theYearShouldHaveAdvancedOnce)
}

// getCellValue reads a cell by column name, using the first row as the header
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, headerCell := range table.Rows[0].Cells {
		if headerCell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
			return ""
		}
	}
	return ""
}
