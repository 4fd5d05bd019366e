package calendar

import "fmt"

// Season is always derived from the current week, never stored on its own
type Season int

const (
	Spring Season = iota
	Summer
	Fall
	Winter
)

// WeeksPerYear is the length of the annual cycle used for season derivation
const WeeksPerYear = 52

// weeksPerSeason is the length of one season inside the 52 week cycle
const weeksPerSeason = 13

var seasonNames = [...]string{"Spring", "Summer", "Fall", "Winter"}

// String returns the season's display name
func (s Season) String() string {
	if s < Spring || s > Winter {
		return fmt.Sprintf("Season(%d)", int(s))
	}
	return seasonNames[s]
}

// ParseSeason parses a season name (case sensitive, as produced by String)
func ParseSeason(name string) (Season, error) {
	for i, n := range seasonNames {
		if n == name {
			return Season(i), nil
		}
	}
	return Spring, fmt.Errorf("invalid season: %s", name)
}

// SeasonWeek normalizes an absolute week number into the 1..52 annual cycle
func SeasonWeek(week uint32) uint32 {
	if week == 0 {
		return 1
	}
	return ((week - 1) % WeeksPerYear) + 1
}

// SeasonForWeek maps weeks 1-13 to Spring, 14-26 to Summer, 27-39 to Fall
// and 40-52 to Winter
func SeasonForWeek(week uint32) Season {
	return Season((SeasonWeek(week) - 1) / weeksPerSeason)
}

// YearForWeek returns the 1-based year that contains the given week
func YearForWeek(week uint32) uint32 {
	if week == 0 {
		return 1
	}
	return (week-1)/WeeksPerYear + 1
}

// MarshalText encodes the season by name
func (s Season) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a season name
func (s *Season) UnmarshalText(text []byte) error {
	parsed, err := ParseSeason(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
