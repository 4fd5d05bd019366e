package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/farmsim-go/internal/domain/calendar"
	"github.com/andrescamacho/farmsim-go/internal/domain/economy"
)

// GormReportRepository implements economy.ReportRepository using GORM
type GormReportRepository struct {
	db *gorm.DB
}

// NewGormReportRepository creates a new GORM weekly report repository
func NewGormReportRepository(db *gorm.DB) *GormReportRepository {
	return &GormReportRepository{db: db}
}

// Save persists a weekly report. Saving the same run and week again
// overwrites the earlier row.
func (r *GormReportRepository) Save(ctx context.Context, runID string, report economy.WeeklyReport) error {
	model := reportToModel(runID, report)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "run_id"}, {Name: "week"}},
		UpdateAll: true,
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save weekly report: %w", result.Error)
	}

	return nil
}

// FindByRun returns a run's reports, newest week first
func (r *GormReportRepository) FindByRun(ctx context.Context, runID string, limit int) ([]economy.WeeklyReport, error) {
	query := r.db.WithContext(ctx).Where("run_id = ?", runID).Order("week DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []WeeklyReportModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find weekly reports: %w", result.Error)
	}

	reports := make([]economy.WeeklyReport, 0, len(models))
	for i := range models {
		report, err := modelToReport(&models[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func reportToModel(runID string, report economy.WeeklyReport) *WeeklyReportModel {
	return &WeeklyReportModel{
		RunID:         runID,
		Week:          report.Week,
		Year:          report.Year,
		Season:        report.Season.String(),
		Maintenance:   report.Costs.Maintenance,
		Fuel:          report.Costs.Fuel,
		FuelUnitsUsed: report.Costs.FuelUnitsUsed,
		Livestock:     report.Costs.Livestock,
		Income:        report.Income,
		Net:           report.Net,
		BalanceBefore: report.BalanceBefore,
		BalanceAfter:  report.BalanceAfter,
		SettledAt:     report.SettledAt,
	}
}

func modelToReport(model *WeeklyReportModel) (economy.WeeklyReport, error) {
	season, err := calendar.ParseSeason(model.Season)
	if err != nil {
		return economy.WeeklyReport{}, fmt.Errorf("invalid season in database: %w", err)
	}

	return economy.WeeklyReport{
		Week:   model.Week,
		Year:   model.Year,
		Season: season,
		Costs: economy.CostBreakdown{
			Maintenance:   model.Maintenance,
			Fuel:          model.Fuel,
			FuelUnitsUsed: model.FuelUnitsUsed,
			Livestock:     model.Livestock,
		},
		Income:        model.Income,
		Net:           model.Net,
		BalanceBefore: model.BalanceBefore,
		BalanceAfter:  model.BalanceAfter,
		SettledAt:     model.SettledAt,
	}, nil
}
