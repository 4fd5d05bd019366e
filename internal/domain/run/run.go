package run

import (
	"context"
	"fmt"
	"time"
)

// Summary is the registry entry of one simulation run. It is a progress
// marker for listing and resuming archives, not a full state checkpoint.
type Summary struct {
	ID         string
	FarmType   string
	StartedAt  time.Time
	UpdatedAt  time.Time
	Week       uint32
	Year       uint32
	Money      float64
	Decisions  int
	TotalScore float64
}

// Repository stores run summaries
type Repository interface {
	// Upsert creates or refreshes a run's summary
	Upsert(ctx context.Context, s Summary) error

	// FindByID retrieves one run
	FindByID(ctx context.Context, id string) (*Summary, error)

	// List returns runs, most recently updated first. limit <= 0 lists all.
	List(ctx context.Context, limit int) ([]Summary, error)
}

// ErrRunNotFound is returned when a run lookup misses
type ErrRunNotFound struct {
	ID string
}

func (e *ErrRunNotFound) Error() string {
	return fmt.Sprintf("run not found: %s", e.ID)
}
