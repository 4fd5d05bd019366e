package decision

import (
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
)

// Decision is an append-only record of one player action.
// Decisions are immutable and only read for reporting and scoring.
type Decision struct {
	id        DecisionID
	runID     string
	kind      Kind
	week      uint32
	season    calendar.Season
	payload   map[string]interface{}
	timestamp time.Time
	score     float64
	outcome   Outcome
	reason    string
	message   string
}

// Params carries the fields of a new decision
type Params struct {
	RunID     string
	Kind      Kind
	Week      uint32
	Payload   map[string]interface{}
	Timestamp time.Time
	Score     float64
	Outcome   Outcome
	Reason    string
	Message   string
}

// NewDecision creates a decision with a fresh ID
func NewDecision(p Params) (*Decision, error) {
	if !p.Kind.IsValid() {
		return nil, &ErrInvalidDecision{Field: "kind", Reason: fmt.Sprintf("invalid decision kind: %s", p.Kind)}
	}
	if !p.Outcome.IsValid() {
		return nil, &ErrInvalidDecision{Field: "outcome", Reason: fmt.Sprintf("invalid outcome: %s", p.Outcome)}
	}
	if p.Week == 0 {
		return nil, &ErrInvalidDecision{Field: "week", Reason: "week starts at 1"}
	}
	if p.Timestamp.IsZero() {
		return nil, &ErrInvalidDecision{Field: "timestamp", Reason: "timestamp cannot be empty"}
	}

	return &Decision{
		id:        NewDecisionID(),
		runID:     p.RunID,
		kind:      p.Kind,
		week:      p.Week,
		season:    calendar.SeasonForWeek(p.Week),
		payload:   copyPayload(p.Payload),
		timestamp: p.Timestamp,
		score:     p.Score,
		outcome:   p.Outcome,
		reason:    p.Reason,
		message:   p.Message,
	}, nil
}

// ReconstructDecision rebuilds a decision from persistence without validation
func ReconstructDecision(id DecisionID, p Params) *Decision {
	return &Decision{
		id:        id,
		runID:     p.RunID,
		kind:      p.Kind,
		week:      p.Week,
		season:    calendar.SeasonForWeek(p.Week),
		payload:   copyPayload(p.Payload),
		timestamp: p.Timestamp,
		score:     p.Score,
		outcome:   p.Outcome,
		reason:    p.Reason,
		message:   p.Message,
	}
}

func copyPayload(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Getters (all fields are immutable)

func (d *Decision) ID() DecisionID {
	return d.id
}

func (d *Decision) RunID() string {
	return d.runID
}

func (d *Decision) Kind() Kind {
	return d.kind
}

func (d *Decision) Week() uint32 {
	return d.week
}

func (d *Decision) Season() calendar.Season {
	return d.season
}

// Payload returns a copy of the action arguments
func (d *Decision) Payload() map[string]interface{} {
	return copyPayload(d.payload)
}

func (d *Decision) Timestamp() time.Time {
	return d.timestamp
}

func (d *Decision) Score() float64 {
	return d.score
}

func (d *Decision) Outcome() Outcome {
	return d.outcome
}

// Reason is the rejection code for rejected decisions
func (d *Decision) Reason() string {
	return d.reason
}

func (d *Decision) Message() string {
	return d.message
}

func (d *Decision) Succeeded() bool {
	return d.outcome != OutcomeRejected
}

func (d *Decision) String() string {
	return fmt.Sprintf("Decision[%s, kind=%s, week=%d, outcome=%s, score=%.2f]",
		d.id, d.kind, d.week, d.outcome, d.score)
}
