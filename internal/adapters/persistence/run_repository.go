package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/farmsim-go/internal/domain/run"
)

// GormRunRepository implements run.Repository using GORM
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GORM run repository
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Upsert creates the run row or refreshes its progress columns
func (r *GormRunRepository) Upsert(ctx context.Context, s run.Summary) error {
	model := RunModel{
		ID:         s.ID,
		FarmType:   s.FarmType,
		StartedAt:  s.StartedAt,
		UpdatedAt:  s.UpdatedAt,
		Week:       s.Week,
		Year:       s.Year,
		Money:      s.Money,
		Decisions:  s.Decisions,
		TotalScore: s.TotalScore,
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"farm_type", "updated_at", "week", "year", "money", "decisions", "total_score"}),
	}).Create(&model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert run: %w", result.Error)
	}

	return nil
}

// FindByID retrieves one run
func (r *GormRunRepository) FindByID(ctx context.Context, id string) (*run.Summary, error) {
	var model RunModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &run.ErrRunNotFound{ID: id}
		}
		return nil, fmt.Errorf("failed to find run: %w", result.Error)
	}

	s := modelToRun(&model)
	return &s, nil
}

// List returns runs, most recently updated first
func (r *GormRunRepository) List(ctx context.Context, limit int) ([]run.Summary, error) {
	query := r.db.WithContext(ctx).Order("updated_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []RunModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to list runs: %w", result.Error)
	}

	runs := make([]run.Summary, len(models))
	for i := range models {
		runs[i] = modelToRun(&models[i])
	}
	return runs, nil
}

func modelToRun(model *RunModel) run.Summary {
	return run.Summary{
		ID:         model.ID,
		FarmType:   model.FarmType,
		StartedAt:  model.StartedAt,
		UpdatedAt:  model.UpdatedAt,
		Week:       model.Week,
		Year:       model.Year,
		Money:      model.Money,
		Decisions:  model.Decisions,
		TotalScore: model.TotalScore,
	}
}
