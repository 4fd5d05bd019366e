package land

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
)

// PlotKind tells why a plot left cultivation
type PlotKind int

const (
	PlotDead PlotKind = iota
	PlotHarvested
)

func (k PlotKind) String() string {
	switch k {
	case PlotDead:
		return "dead"
	case PlotHarvested:
		return "harvested"
	default:
		return fmt.Sprintf("PlotKind(%d)", int(k))
	}
}

// Plot is land waiting to become available again
type Plot struct {
	ID       string        `json:"id"`
	Kind     PlotKind      `json:"kind"`
	Area     float64       `json:"area"`
	Origin   time.Time     `json:"origin"`
	Deadline time.Time     `json:"deadline"`
	CropType crop.Type     `json:"crop_type,omitempty"`
	Cause    string        `json:"cause,omitempty"`
	Window   time.Duration `json:"window"`
}

// Ready reports whether the plot's recovery window has elapsed at now
func (p Plot) Ready(now time.Time) bool {
	return !now.Before(p.Deadline)
}

// Remaining is how long until the plot recovers, never negative
func (p Plot) Remaining(now time.Time) time.Duration {
	if p.Ready(now) {
		return 0
	}
	return p.Deadline.Sub(now)
}

// Windows are the recovery delays per plot kind
type Windows struct {
	Dead      time.Duration
	Harvested time.Duration
}

// DefaultWindows returns 20 minutes for dead plots and 10 for harvested ones
func DefaultWindows() Windows {
	return Windows{
		Dead:      20 * time.Minute,
		Harvested: 10 * time.Minute,
	}
}

func (w Windows) forKind(kind PlotKind) time.Duration {
	if kind == PlotHarvested {
		return w.Harvested
	}
	return w.Dead
}
