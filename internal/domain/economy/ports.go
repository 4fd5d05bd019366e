package economy

import "context"

// ReportRepository archives weekly settlement reports per run
type ReportRepository interface {
	Save(ctx context.Context, runID string, report WeeklyReport) error

	// FindByRun returns the run's reports ordered by week, newest first.
	// limit <= 0 returns every report.
	FindByRun(ctx context.Context, runID string, limit int) ([]WeeklyReport, error)
}
