package persistence

import (
	"time"
)

// DecisionModel represents the decisions table
type DecisionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RunID     string    `gorm:"column:run_id;not null;index:idx_decisions_run_week,priority:1"`
	Kind      string    `gorm:"column:kind;not null"`
	Week      uint32    `gorm:"column:week;not null;index:idx_decisions_run_week,priority:2"`
	Season    string    `gorm:"column:season;not null"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
	Score     float64   `gorm:"column:score;not null"`
	Outcome   string    `gorm:"column:outcome;not null"`
	Reason    string    `gorm:"column:reason"`
	Message   string    `gorm:"column:message;type:text"`
	Payload   string    `gorm:"column:payload;type:text"` // JSON stored as text
}

func (DecisionModel) TableName() string {
	return "decisions"
}

// WeeklyReportModel represents the weekly_reports table
type WeeklyReportModel struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID         string    `gorm:"column:run_id;not null;uniqueIndex:idx_reports_run_week,priority:1"`
	Week          uint32    `gorm:"column:week;not null;uniqueIndex:idx_reports_run_week,priority:2"`
	Year          uint32    `gorm:"column:year;not null"`
	Season        string    `gorm:"column:season;not null"`
	Maintenance   float64   `gorm:"column:maintenance;not null;default:0"`
	Fuel          float64   `gorm:"column:fuel;not null;default:0"`
	FuelUnitsUsed float64   `gorm:"column:fuel_units_used;not null;default:0"`
	Livestock     float64   `gorm:"column:livestock;not null;default:0"`
	Income        float64   `gorm:"column:income;not null;default:0"`
	Net           float64   `gorm:"column:net;not null;default:0"`
	BalanceBefore float64   `gorm:"column:balance_before;not null"`
	BalanceAfter  float64   `gorm:"column:balance_after;not null"`
	SettledAt     time.Time `gorm:"column:settled_at;not null"`
}

func (WeeklyReportModel) TableName() string {
	return "weekly_reports"
}

// RunModel represents the runs table
type RunModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	FarmType   string    `gorm:"column:farm_type;not null"`
	StartedAt  time.Time `gorm:"column:started_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;index;autoUpdateTime:false"`
	Week       uint32    `gorm:"column:week;not null"`
	Year       uint32    `gorm:"column:year;not null"`
	Money      float64   `gorm:"column:money;not null"`
	Decisions  int       `gorm:"column:decisions;not null;default:0"`
	TotalScore float64   `gorm:"column:total_score;not null;default:0"`
}

func (RunModel) TableName() string {
	return "runs"
}
