package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
)

// DecisionSource is the in-memory decision log of the running engine
type DecisionSource interface {
	RunID() string
	Decisions() []*decision.Decision
}

// ListDecisionsQuery lists a run's decisions. An empty RunID means the
// running engine's run.
type ListDecisionsQuery struct {
	RunID    string
	Kind     *string
	Outcome  *string
	FromWeek *uint32
	ToWeek   *uint32
	Limit    int
	Offset   int
	OrderBy  string
}

// DecisionDTO represents a decision data transfer object
type DecisionDTO struct {
	ID        string                 `json:"id"`
	RunID     string                 `json:"run_id"`
	Kind      string                 `json:"kind"`
	Week      uint32                 `json:"week"`
	Season    string                 `json:"season"`
	Timestamp time.Time              `json:"timestamp"`
	Score     float64                `json:"score"`
	Outcome   string                 `json:"outcome"`
	Reason    string                 `json:"reason,omitempty"`
	Message   string                 `json:"message"`
	Payload   map[string]interface{} `json:"payload"`
}

// ListDecisionsResponse represents the result of the query
type ListDecisionsResponse struct {
	Decisions []*DecisionDTO
	Total     int
}

// ListDecisionsHandler reads from the archive when one is configured and
// from the running engine otherwise
type ListDecisionsHandler struct {
	decisionRepo decision.Repository
	source       DecisionSource
}

// NewListDecisionsHandler creates a new ListDecisionsHandler
func NewListDecisionsHandler(decisionRepo decision.Repository, source DecisionSource) *ListDecisionsHandler {
	return &ListDecisionsHandler{
		decisionRepo: decisionRepo,
		source:       source,
	}
}

// Handle executes the ListDecisions query
func (h *ListDecisionsHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ListDecisionsQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListDecisionsQuery")
	}

	opts, err := buildQueryOptions(query)
	if err != nil {
		return nil, err
	}

	runID := query.RunID
	if runID == "" && h.source != nil {
		runID = h.source.RunID()
	}
	if runID == "" {
		return nil, fmt.Errorf("run ID is required")
	}

	if h.decisionRepo == nil {
		return h.fromMemory(runID, opts)
	}

	decisions, err := h.decisionRepo.FindByRun(ctx, runID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	total, err := h.decisionRepo.CountByRun(ctx, runID, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count decisions: %w", err)
	}

	return &ListDecisionsResponse{Decisions: toDTOs(decisions), Total: total}, nil
}

func (h *ListDecisionsHandler) fromMemory(runID string, opts decision.QueryOptions) (*ListDecisionsResponse, error) {
	if h.source == nil || h.source.RunID() != runID {
		return nil, fmt.Errorf("run %s is not archived and not running", runID)
	}

	var matched []*decision.Decision
	for _, d := range h.source.Decisions() {
		if decision.Matches(d, opts) {
			matched = append(matched, d)
		}
	}
	if opts.OrderBy != "timestamp ASC" {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	total := len(matched)
	if opts.Offset >= len(matched) {
		matched = nil
	} else {
		matched = matched[opts.Offset:]
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return &ListDecisionsResponse{Decisions: toDTOs(matched), Total: total}, nil
}

func buildQueryOptions(query *ListDecisionsQuery) (decision.QueryOptions, error) {
	opts := decision.DefaultQueryOptions()
	if query.Kind != nil {
		kind, err := decision.ParseKind(*query.Kind)
		if err != nil {
			return opts, err
		}
		opts.Kind = &kind
	}
	if query.Outcome != nil {
		outcome, err := decision.ParseOutcome(*query.Outcome)
		if err != nil {
			return opts, err
		}
		opts.Outcome = &outcome
	}
	opts.FromWeek = query.FromWeek
	opts.ToWeek = query.ToWeek
	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	if query.Offset > 0 {
		opts.Offset = query.Offset
	}
	if query.OrderBy != "" {
		opts.OrderBy = query.OrderBy
	}
	return opts, nil
}

func toDTOs(decisions []*decision.Decision) []*DecisionDTO {
	dtos := make([]*DecisionDTO, 0, len(decisions))
	for _, d := range decisions {
		dtos = append(dtos, &DecisionDTO{
			ID:        d.ID().String(),
			RunID:     d.RunID(),
			Kind:      string(d.Kind()),
			Week:      d.Week(),
			Season:    d.Season().String(),
			Timestamp: d.Timestamp(),
			Score:     d.Score(),
			Outcome:   string(d.Outcome()),
			Reason:    d.Reason(),
			Message:   d.Message(),
			Payload:   d.Payload(),
		})
	}
	return dtos
}
