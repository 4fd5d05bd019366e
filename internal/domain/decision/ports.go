package decision

import "context"

// Repository archives decisions across runs
type Repository interface {
	// Save persists a decision
	Save(ctx context.Context, d *Decision) error

	// FindByID retrieves one decision of a run
	FindByID(ctx context.Context, id DecisionID, runID string) (*Decision, error)

	// FindByRun lists a run's decisions with optional filtering
	FindByRun(ctx context.Context, runID string, opts QueryOptions) ([]*Decision, error)

	// CountByRun counts a run's decisions matching the filters
	CountByRun(ctx context.Context, runID string, opts QueryOptions) (int, error)
}

// QueryOptions defines filtering and pagination for decision queries
type QueryOptions struct {
	Kind     *Kind
	Outcome  *Outcome
	FromWeek *uint32
	ToWeek   *uint32

	// Pagination
	Limit  int
	Offset int

	// Sorting
	OrderBy string // "timestamp ASC" or "timestamp DESC" (default DESC)
}

// DefaultQueryOptions returns default query options
func DefaultQueryOptions() QueryOptions {
	return QueryOptions{
		Limit:   50,
		Offset:  0,
		OrderBy: "timestamp DESC",
	}
}

// Matches applies the filter part of opts to one decision
func Matches(d *Decision, opts QueryOptions) bool {
	if opts.Kind != nil && d.kind != *opts.Kind {
		return false
	}
	if opts.Outcome != nil && d.outcome != *opts.Outcome {
		return false
	}
	if opts.FromWeek != nil && d.week < *opts.FromWeek {
		return false
	}
	if opts.ToWeek != nil && d.week > *opts.ToWeek {
		return false
	}
	return true
}
