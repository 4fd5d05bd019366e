package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/farmsim-go/internal/domain/decision"
)

// GormDecisionRepository implements decision.Repository using GORM
type GormDecisionRepository struct {
	db *gorm.DB
}

// NewGormDecisionRepository creates a new GORM decision repository
func NewGormDecisionRepository(db *gorm.DB) *GormDecisionRepository {
	return &GormDecisionRepository{db: db}
}

// Save persists a decision
func (r *GormDecisionRepository) Save(ctx context.Context, d *decision.Decision) error {
	model, err := r.decisionToModel(d)
	if err != nil {
		return fmt.Errorf("failed to convert decision to model: %w", err)
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save decision: %w", result.Error)
	}

	return nil
}

// FindByID retrieves a decision by its ID within a run
func (r *GormDecisionRepository) FindByID(ctx context.Context, id decision.DecisionID, runID string) (*decision.Decision, error) {
	var model DecisionModel
	result := r.db.WithContext(ctx).
		Where("id = ? AND run_id = ?", id.String(), runID).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &decision.ErrDecisionNotFound{ID: id.String(), RunID: runID}
		}
		return nil, fmt.Errorf("failed to find decision: %w", result.Error)
	}

	return r.modelToDecision(&model)
}

// FindByRun retrieves a run's decisions with optional filtering
func (r *GormDecisionRepository) FindByRun(ctx context.Context, runID string, opts decision.QueryOptions) ([]*decision.Decision, error) {
	query := r.db.WithContext(ctx).Where("run_id = ?", runID)
	query = r.applyFilters(query, opts)

	orderBy := "timestamp DESC"
	if opts.OrderBy == "timestamp ASC" {
		orderBy = opts.OrderBy
	}
	query = query.Order(orderBy)

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var models []DecisionModel
	if result := query.Find(&models); result.Error != nil {
		return nil, fmt.Errorf("failed to find decisions: %w", result.Error)
	}

	decisions := make([]*decision.Decision, len(models))
	for i := range models {
		d, err := r.modelToDecision(&models[i])
		if err != nil {
			return nil, fmt.Errorf("failed to convert decision model: %w", err)
		}
		decisions[i] = d
	}

	return decisions, nil
}

// CountByRun returns the number of a run's decisions matching the filters
func (r *GormDecisionRepository) CountByRun(ctx context.Context, runID string, opts decision.QueryOptions) (int, error) {
	query := r.db.WithContext(ctx).Model(&DecisionModel{}).Where("run_id = ?", runID)
	query = r.applyFilters(query, opts)

	var count int64
	if result := query.Count(&count); result.Error != nil {
		return 0, fmt.Errorf("failed to count decisions: %w", result.Error)
	}

	return int(count), nil
}

func (r *GormDecisionRepository) applyFilters(query *gorm.DB, opts decision.QueryOptions) *gorm.DB {
	if opts.Kind != nil {
		query = query.Where("kind = ?", opts.Kind.String())
	}
	if opts.Outcome != nil {
		query = query.Where("outcome = ?", opts.Outcome.String())
	}
	if opts.FromWeek != nil {
		query = query.Where("week >= ?", *opts.FromWeek)
	}
	if opts.ToWeek != nil {
		query = query.Where("week <= ?", *opts.ToWeek)
	}
	return query
}

func (r *GormDecisionRepository) modelToDecision(model *DecisionModel) (*decision.Decision, error) {
	id, err := decision.NewDecisionIDFromString(model.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid decision ID in database: %w", err)
	}

	kind, err := decision.ParseKind(model.Kind)
	if err != nil {
		return nil, fmt.Errorf("invalid decision kind in database: %w", err)
	}

	outcome, err := decision.ParseOutcome(model.Outcome)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome in database: %w", err)
	}

	var payload map[string]interface{}
	if model.Payload != "" {
		if err := json.Unmarshal([]byte(model.Payload), &payload); err != nil {
			payload = nil
		}
	}

	return decision.ReconstructDecision(id, decision.Params{
		RunID:     model.RunID,
		Kind:      kind,
		Week:      model.Week,
		Payload:   payload,
		Timestamp: model.Timestamp,
		Score:     model.Score,
		Outcome:   outcome,
		Reason:    model.Reason,
		Message:   model.Message,
	}), nil
}

func (r *GormDecisionRepository) decisionToModel(d *decision.Decision) (*DecisionModel, error) {
	payload := ""
	if len(d.Payload()) > 0 {
		raw, err := json.Marshal(d.Payload())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		payload = string(raw)
	}

	return &DecisionModel{
		ID:        d.ID().String(),
		RunID:     d.RunID(),
		Kind:      d.Kind().String(),
		Week:      d.Week(),
		Season:    d.Season().String(),
		Timestamp: d.Timestamp(),
		Score:     d.Score(),
		Outcome:   d.Outcome().String(),
		Reason:    d.Reason(),
		Message:   d.Message(),
		Payload:   payload,
	}, nil
}
