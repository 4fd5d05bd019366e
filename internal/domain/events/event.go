package events

import (
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
	"github.com/andrescamacho/farmsim-go/internal/domain/land"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Type names an outbound event
type Type string

const (
	WeekAdvanced    Type = "clock.week_advanced"
	DayAdvanced     Type = "clock.day_advanced"
	SeasonChanged   Type = "clock.season_changed"
	YearAdvanced    Type = "clock.year_advanced"
	CropPlanted     Type = "crop.planted"
	CropDied        Type = "crop.died"
	HarvestReady    Type = "crop.harvest_ready"
	CropHarvested   Type = "crop.harvested"
	LandRecovered   Type = "land.recovered"
	WeekSettled     Type = "economy.week_settled"
	DecisionApplied Type = "decision.applied"
)

// Event is one outbound notification
type Event struct {
	Version    string      `json:"version"`
	Type       Type        `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Typed payloads

type WeekAdvancedPayload struct {
	Week   uint32          `json:"week"`
	Season calendar.Season `json:"season"`
	Year   uint32          `json:"year"`
}

type DayAdvancedPayload struct {
	Week uint32 `json:"week"`
	Day  uint8  `json:"day"`
}

type SeasonChangedPayload struct {
	From calendar.Season `json:"from"`
	To   calendar.Season `json:"to"`
	Week uint32          `json:"week"`
}

type YearAdvancedPayload struct {
	Year uint32 `json:"year"`
	Week uint32 `json:"week"`
}

type CropPayload struct {
	Crop crop.State `json:"crop"`
}

type CropDiedPayload struct {
	Crop  crop.State `json:"crop"`
	Cause string     `json:"cause"`
}

type CropHarvestedPayload struct {
	Crop  crop.State `json:"crop"`
	Yield float64    `json:"yield"`
}

type LandRecoveredPayload struct {
	Area float64       `json:"area"`
	Kind land.PlotKind `json:"kind"`
	Plot land.Plot     `json:"plot"`
}

type WeekSettledPayload struct {
	Report economy.WeeklyReport `json:"report"`
}

type DecisionAppliedPayload struct {
	DecisionID string           `json:"decision_id"`
	Kind       decision.Kind    `json:"kind"`
	Week       uint32           `json:"week"`
	Outcome    decision.Outcome `json:"outcome"`
	Score      float64          `json:"score"`
	Reason     string           `json:"reason,omitempty"`
	Message    string           `json:"message,omitempty"`
}

// New builds an event stamped with the schema version
func New(t Type, payload interface{}, at time.Time) Event {
	return Event{
		Version:    SchemaVersion,
		Type:       t,
		Payload:    payload,
		OccurredAt: at,
	}
}

// NewDecisionApplied summarizes a recorded decision
func NewDecisionApplied(d *decision.Decision) Event {
	return New(DecisionApplied, DecisionAppliedPayload{
		DecisionID: d.ID().String(),
		Kind:       d.Kind(),
		Week:       d.Week(),
		Outcome:    d.Outcome(),
		Score:      d.Score(),
		Reason:     d.Reason(),
		Message:    d.Message(),
	}, d.Timestamp())
}
