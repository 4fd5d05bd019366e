package land

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
	"github.com/andrescamacho/farmsim-go/pkg/utils"
)

// Invariant names reported in InvariantViolationError
const (
	InvariantAvailableNonNegative  = "available_land_non_negative"
	InvariantAvailableWithinTotal  = "available_land_within_total"
	InvariantCultivatedNonNegative = "cultivated_land_non_negative"
)

// epsilon absorbs float drift from repeated reserve/retire cycles
const epsilon = 1e-9

// ViolationHandler is notified whenever a non-strict ledger clamps a value
type ViolationHandler func(err *shared.InvariantViolationError)

// Option configures a Ledger
type Option func(*Ledger)

// WithStrictInvariants makes the ledger panic on an invariant breach instead of clamping
func WithStrictInvariants(strict bool) Option {
	return func(l *Ledger) {
		l.strict = strict
	}
}

// WithViolationHandler registers the callback used in non-strict mode
func WithViolationHandler(h ViolationHandler) Option {
	return func(l *Ledger) {
		l.onViolation = h
	}
}

// Ledger tracks how the farm's land is split between free, planted and
// recovering area.
//
// Planting reserves land (available -> cultivated). Death or harvest retires
// it into a recovery queue; recovery returns it to available. Area is never
// double counted, so available + cultivated + recovering == farmSize.
//
// The ledger is time-agnostic: callers pass timestamps from whichever clock
// channel recovery is measured on.
type Ledger struct {
	farmSize    float64
	available   float64
	cultivated  float64
	dead        []Plot
	harvested   []Plot
	windows     Windows
	strict      bool
	onViolation ViolationHandler
}

// NewLedger creates a ledger with the whole farm available
func NewLedger(farmSize float64, windows Windows, opts ...Option) (*Ledger, error) {
	if farmSize <= 0 {
		return nil, shared.NewValidationError("farm_size", shared.ReasonInvalidAmount,
			fmt.Sprintf("farm size must be positive, got %.2f", farmSize))
	}
	if windows.Dead < 0 || windows.Harvested < 0 {
		return nil, shared.NewValidationError("recovery_window", shared.ReasonInvalidAmount,
			"recovery windows cannot be negative")
	}

	l := &Ledger{
		farmSize:  farmSize,
		available: farmSize,
		windows:   windows,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// CanReserve reports whether area fits in the available land
func (l *Ledger) CanReserve(area float64) error {
	if !utils.IsPositiveFinite(area) {
		return shared.NewValidationError("area", shared.ReasonInvalidAmount,
			fmt.Sprintf("area must be positive, got %.2f", area))
	}
	if area > l.available+epsilon {
		return shared.NewValidationError("area", shared.ReasonInsufficientLand,
			fmt.Sprintf("not enough land: requested %.2f ha, available %.2f ha", area, l.available))
	}
	return nil
}

// Reserve moves area from available to cultivated. Nothing changes on error.
func (l *Ledger) Reserve(area float64) error {
	if err := l.CanReserve(area); err != nil {
		return err
	}
	l.available -= area
	if l.available > -epsilon && l.available < 0 {
		l.available = 0
	}
	l.cultivated += area
	l.checkInvariants()
	return nil
}

// Retire moves a crop's area out of cultivation into the recovery queue for
// its kind. The deadline is origin plus the kind's window.
func (l *Ledger) Retire(kind PlotKind, area float64, origin time.Time, cropType crop.Type, cause string) Plot {
	window := l.windows.forKind(kind)
	plot := Plot{
		ID:       utils.GenerateEntityID("plot"),
		Kind:     kind,
		Area:     area,
		Origin:   origin,
		Deadline: origin.Add(window),
		CropType: cropType,
		Cause:    cause,
		Window:   window,
	}

	l.cultivated -= area
	if l.cultivated < epsilon && l.cultivated > -epsilon {
		l.cultivated = 0
	}
	if l.cultivated < 0 {
		l.violate(InvariantCultivatedNonNegative, fmt.Sprintf("cultivated land went to %.4f retiring %.2f ha", l.cultivated, area))
		l.cultivated = 0
	}

	if kind == PlotHarvested {
		l.harvested = append(l.harvested, plot)
	} else {
		l.dead = append(l.dead, plot)
	}
	return plot
}

// ProcessRecovery returns every plot whose deadline has passed at now to the
// available pool, capped at the farm size, and reports the recovered plots.
// Calling it twice with the same now recovers nothing the second time.
func (l *Ledger) ProcessRecovery(now time.Time) []Plot {
	var recovered []Plot
	l.dead, recovered = l.recoverQueue(l.dead, now, recovered)
	l.harvested, recovered = l.recoverQueue(l.harvested, now, recovered)
	return recovered
}

func (l *Ledger) recoverQueue(queue []Plot, now time.Time, recovered []Plot) ([]Plot, []Plot) {
	kept := queue[:0]
	for _, p := range queue {
		if p.Ready(now) {
			l.available = utils.Clamp(l.available+p.Area, 0, l.farmSize)
			recovered = append(recovered, p)
			continue
		}
		kept = append(kept, p)
	}
	return kept, recovered
}

// Reset resizes the farm and returns every hectare to available. Callers must
// make sure nothing is planted or recovering.
func (l *Ledger) Reset(farmSize float64) error {
	if farmSize <= 0 {
		return shared.NewValidationError("farm_size", shared.ReasonInvalidAmount,
			fmt.Sprintf("farm size must be positive, got %.2f", farmSize))
	}
	l.farmSize = farmSize
	l.available = farmSize
	l.cultivated = 0
	l.dead = nil
	l.harvested = nil
	return nil
}

// IsEmpty reports whether no land is planted or recovering
func (l *Ledger) IsEmpty() bool {
	return l.cultivated == 0 && len(l.dead) == 0 && len(l.harvested) == 0
}

func (l *Ledger) checkInvariants() {
	if l.available < 0 {
		l.violate(InvariantAvailableNonNegative, fmt.Sprintf("available land is %.4f", l.available))
		l.available = 0
	}
	if l.available > l.farmSize {
		l.violate(InvariantAvailableWithinTotal, fmt.Sprintf("available land %.4f exceeds farm size %.2f", l.available, l.farmSize))
		l.available = l.farmSize
	}
}

func (l *Ledger) violate(invariant, detail string) {
	err := shared.NewInvariantViolationError(invariant, detail)
	if l.strict {
		panic(err)
	}
	if l.onViolation != nil {
		l.onViolation(err)
	}
}

// Getters

func (l *Ledger) FarmSize() float64 {
	return l.farmSize
}

func (l *Ledger) Available() float64 {
	return l.available
}

func (l *Ledger) Cultivated() float64 {
	return l.cultivated
}

// Recovering is the total area waiting in both queues
func (l *Ledger) Recovering() float64 {
	total := 0.0
	for _, p := range l.dead {
		total += p.Area
	}
	for _, p := range l.harvested {
		total += p.Area
	}
	return total
}

func (l *Ledger) Windows() Windows {
	return l.windows
}

// State is a value copy of the ledger
type State struct {
	FarmSize   float64 `json:"farm_size"`
	Available  float64 `json:"available"`
	Cultivated float64 `json:"cultivated"`
	Recovering float64 `json:"recovering"`
	Dead       []Plot  `json:"dead"`
	Harvested  []Plot  `json:"harvested"`
}

// State returns a deep copy of the ledger
func (l *Ledger) State() State {
	return State{
		FarmSize:   l.farmSize,
		Available:  l.available,
		Cultivated: l.cultivated,
		Recovering: l.Recovering(),
		Dead:       append([]Plot(nil), l.dead...),
		Harvested:  append([]Plot(nil), l.harvested...),
	}
}
