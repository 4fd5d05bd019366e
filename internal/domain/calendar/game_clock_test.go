package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/shared"
)

// One game hour per millisecond keeps week arithmetic easy to read
func newTestClock(t *testing.T) *calendar.GameClock {
	t.Helper()
	clock, err := calendar.NewGameClock(calendar.Config{
		GameHour:    time.Millisecond,
		HoursPerDay: 24,
		DaysPerWeek: 7,
	}, shared.NewMockClock(time.Time{}))
	require.NoError(t, err)
	return clock
}

const week = 168 * time.Millisecond

func kinds(boundaries []calendar.Boundary) []calendar.BoundaryKind {
	out := make([]calendar.BoundaryKind, len(boundaries))
	for i, b := range boundaries {
		out[i] = b.Kind
	}
	return out
}

func TestSeasonForWeek(t *testing.T) {
	cases := []struct {
		week   uint32
		season calendar.Season
	}{
		{1, calendar.Spring},
		{13, calendar.Spring},
		{14, calendar.Summer},
		{26, calendar.Summer},
		{27, calendar.Fall},
		{39, calendar.Fall},
		{40, calendar.Winter},
		{52, calendar.Winter},
		{53, calendar.Spring},
		{105, calendar.Spring},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.season, calendar.SeasonForWeek(tc.week), "week %d", tc.week)
	}
}

func TestGameClock_NonPositiveElapsedIsIgnored(t *testing.T) {
	clock := newTestClock(t)

	assert.Empty(t, clock.Advance(0))
	assert.Empty(t, clock.Advance(-5*time.Millisecond))
	assert.Equal(t, uint32(1), clock.Week())
	assert.Zero(t, clock.SimElapsed())
}

func TestGameClock_HourAndDayBoundaries(t *testing.T) {
	clock := newTestClock(t)

	boundaries := clock.Advance(5 * time.Millisecond)
	require.Len(t, boundaries, 1)
	assert.Equal(t, calendar.BoundaryHour, boundaries[0].Kind)
	assert.Equal(t, uint64(5), boundaries[0].Hours)

	boundaries = clock.Advance(20 * time.Millisecond)
	assert.Equal(t, []calendar.BoundaryKind{calendar.BoundaryHour, calendar.BoundaryDay}, kinds(boundaries))
	assert.Equal(t, uint8(2), clock.Day())
}

func TestGameClock_WeekBoundary(t *testing.T) {
	clock := newTestClock(t)

	boundaries := clock.Advance(week)

	assert.Contains(t, kinds(boundaries), calendar.BoundaryWeek)
	assert.Equal(t, uint32(2), clock.Week())
	assert.Equal(t, calendar.Spring, clock.Season())
}

func TestGameClock_MultipleWeeksStepOneAtATime(t *testing.T) {
	clock := newTestClock(t)

	boundaries := clock.Advance(3 * week)

	var weeks []uint32
	for _, b := range boundaries {
		if b.Kind == calendar.BoundaryWeek {
			weeks = append(weeks, b.Week)
		}
	}
	assert.Equal(t, []uint32{2, 3, 4}, weeks)
}

func TestGameClock_SeasonChange(t *testing.T) {
	clock := newTestClock(t)

	clock.Advance(12 * week) // week 13
	require.Equal(t, uint32(13), clock.Week())

	boundaries := clock.Advance(week)

	var season *calendar.Boundary
	for i := range boundaries {
		if boundaries[i].Kind == calendar.BoundarySeason {
			season = &boundaries[i]
		}
	}
	require.NotNil(t, season)
	assert.Equal(t, calendar.Spring, season.PreviousSeason)
	assert.Equal(t, calendar.Summer, season.Season)
}

func TestGameClock_YearRollover(t *testing.T) {
	clock := newTestClock(t)

	clock.Advance(51 * week)
	require.Equal(t, uint32(52), clock.Week())
	require.Equal(t, calendar.Winter, clock.Season())
	require.Equal(t, uint32(1), clock.Year())

	boundaries := clock.Advance(week)

	yearBoundaries := 0
	for _, b := range boundaries {
		if b.Kind == calendar.BoundaryYear {
			yearBoundaries++
			assert.Equal(t, uint32(2), b.Year)
		}
	}
	assert.Equal(t, 1, yearBoundaries)
	assert.Equal(t, uint32(53), clock.Week())
	assert.Equal(t, uint32(2), clock.Year())
	assert.Equal(t, uint32(1), clock.SeasonWeek())
	assert.Equal(t, calendar.Spring, clock.Season())
}

func TestGameClock_BoundaryOrderWithinWeek(t *testing.T) {
	clock := newTestClock(t)
	clock.Advance(51 * week)

	var order []calendar.BoundaryKind
	for _, b := range clock.Advance(week) {
		if b.Kind == calendar.BoundaryWeek || b.Kind == calendar.BoundarySeason || b.Kind == calendar.BoundaryYear {
			order = append(order, b.Kind)
		}
	}

	assert.Equal(t, []calendar.BoundaryKind{
		calendar.BoundaryWeek,
		calendar.BoundarySeason,
		calendar.BoundaryYear,
	}, order)
}

func TestGameClock_SimChannelOnlyMovesWhenTicking(t *testing.T) {
	wall := shared.NewMockClock(time.Time{})
	clock, err := calendar.NewGameClock(calendar.DefaultConfig(), wall)
	require.NoError(t, err)

	start := clock.SimNow()
	wall.Advance(time.Hour)

	assert.Equal(t, start, clock.SimNow())
	assert.Equal(t, start.Add(time.Hour), clock.WallNow())

	clock.Advance(10 * time.Second)
	assert.Equal(t, start.Add(10*time.Second), clock.SimNow())
}

func TestNewGameClock_RejectsInvalidConfig(t *testing.T) {
	_, err := calendar.NewGameClock(calendar.Config{GameHour: 0, HoursPerDay: 24, DaysPerWeek: 7}, nil)
	assert.Error(t, err)
}
