package calendar

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// BoundaryKind identifies which calendar boundary was crossed during an advance
type BoundaryKind string

const (
	BoundaryHour   BoundaryKind = "HOUR"
	BoundaryDay    BoundaryKind = "DAY"
	BoundaryWeek   BoundaryKind = "WEEK"
	BoundarySeason BoundaryKind = "SEASON"
	BoundaryYear   BoundaryKind = "YEAR"
)

// Boundary is emitted by GameClock.Advance for every boundary crossed.
// Fields not relevant to the kind are left at their zero value.
type Boundary struct {
	Kind           BoundaryKind
	Week           uint32
	Day            uint8
	Year           uint32
	Season         Season
	PreviousSeason Season
	Hours          uint64 // whole game hours crossed (BoundaryHour only)
}

// Config controls how wall time converts into game time
type Config struct {
	GameHour    time.Duration // wall-clock time per game hour
	HoursPerDay int
	DaysPerWeek int
}

// DefaultConfig returns the standard 24h/7d calendar at 2.5s per game hour
func DefaultConfig() Config {
	return Config{
		GameHour:    2500 * time.Millisecond,
		HoursPerDay: 24,
		DaysPerWeek: 7,
	}
}

// Validate checks that the calendar is well formed
func (c Config) Validate() error {
	if c.GameHour <= 0 {
		return fmt.Errorf("game hour must be positive, got %s", c.GameHour)
	}
	if c.HoursPerDay <= 0 {
		return fmt.Errorf("hours per day must be positive, got %d", c.HoursPerDay)
	}
	if c.DaysPerWeek <= 0 || c.DaysPerWeek > 255 {
		return fmt.Errorf("days per week must be in 1..255, got %d", c.DaysPerWeek)
	}
	return nil
}

// GameClock converts elapsed wall time into simulated calendar time.
//
// It exposes two time channels:
//   - WallNow: the injected real-time clock, used for wall-clock deadlines
//   - SimNow: epoch plus the sum of all elapsed durations fed to Advance,
//     which stands still while the host is not ticking
//
// Invariants:
//   - the clock is monotonic; non-positive elapsed values are ignored
//   - Season is derived from the current week on every read
//   - the year increments exactly when the week crosses a multiple of 52
type GameClock struct {
	cfg        Config
	wall       shared.Clock
	epochStart time.Time
	simElapsed time.Duration

	currentWeek uint32
	currentDay  uint8
	currentYear uint32
	lastHour    uint64
}

// NewGameClock creates a clock at week 1, day 1, year 1
func NewGameClock(cfg Config, wall shared.Clock) (*GameClock, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if wall == nil {
		wall = shared.NewRealClock()
	}

	return &GameClock{
		cfg:         cfg,
		wall:        wall,
		epochStart:  wall.Now(),
		currentWeek: 1,
		currentDay:  1,
		currentYear: 1,
	}, nil
}

// Advance moves game time forward by elapsed wall time and reports every
// boundary crossed, in order. Weeks are stepped one at a time so each crossed
// week yields its own BoundaryWeek (followed by its BoundarySeason and
// BoundaryYear when applicable).
func (c *GameClock) Advance(elapsed time.Duration) []Boundary {
	if elapsed <= 0 {
		return nil
	}

	c.simElapsed += elapsed
	hours := uint64(c.simElapsed / c.cfg.GameHour)

	var boundaries []Boundary

	if hours > c.lastHour {
		boundaries = append(boundaries, Boundary{
			Kind:  BoundaryHour,
			Hours: hours - c.lastHour,
			Week:  c.currentWeek,
		})
		c.lastHour = hours
	}

	hoursPerDay := uint64(c.cfg.HoursPerDay)
	daysPerWeek := uint64(c.cfg.DaysPerWeek)

	day := uint8((hours/hoursPerDay)%daysPerWeek + 1)
	if day != c.currentDay {
		c.currentDay = day
		boundaries = append(boundaries, Boundary{
			Kind: BoundaryDay,
			Day:  day,
			Week: c.currentWeek,
		})
	}

	weekProgress := uint32(hours/(hoursPerDay*daysPerWeek)) + 1
	for c.currentWeek < weekProgress {
		boundaries = append(boundaries, c.stepWeek()...)
	}

	return boundaries
}

// stepWeek advances exactly one week, updating week, then season, then year
func (c *GameClock) stepWeek() []Boundary {
	previousWeek := c.currentWeek
	previousSeason := c.Season()

	c.currentWeek++
	season := c.Season()

	yearCrossed := previousWeek%WeeksPerYear == 0
	if yearCrossed {
		c.currentYear++
	}

	boundaries := []Boundary{{
		Kind:   BoundaryWeek,
		Week:   c.currentWeek,
		Season: season,
		Year:   c.currentYear,
	}}

	if season != previousSeason {
		boundaries = append(boundaries, Boundary{
			Kind:           BoundarySeason,
			Week:           c.currentWeek,
			Season:         season,
			PreviousSeason: previousSeason,
			Year:           c.currentYear,
		})
	}

	if yearCrossed {
		boundaries = append(boundaries, Boundary{
			Kind:   BoundaryYear,
			Week:   c.currentWeek,
			Season: season,
			Year:   c.currentYear,
		})
	}

	return boundaries
}

// Getters

func (c *GameClock) Week() uint32 {
	return c.currentWeek
}

func (c *GameClock) Day() uint8 {
	return c.currentDay
}

func (c *GameClock) Year() uint32 {
	return c.currentYear
}

// Season derives the season from the current week
func (c *GameClock) Season() Season {
	return SeasonForWeek(c.currentWeek)
}

// SeasonWeek returns the current week inside the 1..52 annual cycle
func (c *GameClock) SeasonWeek() uint32 {
	return SeasonWeek(c.currentWeek)
}

// TotalGameHours returns the simulated hours elapsed since the epoch
func (c *GameClock) TotalGameHours() float64 {
	return float64(c.simElapsed) / float64(c.cfg.GameHour)
}

// SimElapsed returns the total wall time fed through Advance
func (c *GameClock) SimElapsed() time.Duration {
	return c.simElapsed
}

func (c *GameClock) EpochStart() time.Time {
	return c.epochStart
}

// WallNow reads the real-time channel
func (c *GameClock) WallNow() time.Time {
	return c.wall.Now()
}

// SimNow reads the simulated-elapsed channel, which only moves while ticking
func (c *GameClock) SimNow() time.Time {
	return c.epochStart.Add(c.simElapsed)
}

func (c *GameClock) Config() Config {
	return c.cfg
}

// State is a value copy of the clock for read models
type State struct {
	Week           uint32        `json:"week"`
	Day            uint8         `json:"day"`
	Year           uint32        `json:"year"`
	Season         Season        `json:"season"`
	SeasonWeek     uint32        `json:"season_week"`
	TotalGameHours float64       `json:"total_game_hours"`
	SimElapsed     time.Duration `json:"sim_elapsed"`
	EpochStart     time.Time     `json:"epoch_start"`
}

// State returns a snapshot of the clock
func (c *GameClock) State() State {
	return State{
		Week:           c.currentWeek,
		Day:            c.currentDay,
		Year:           c.currentYear,
		Season:         c.Season(),
		SeasonWeek:     c.SeasonWeek(),
		TotalGameHours: c.TotalGameHours(),
		SimElapsed:     c.simElapsed,
		EpochStart:     c.epochStart,
	}
}
