package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/farmsim-go/internal/adapters/persistence"
)

// TestRepositories holds real archive repositories over one test database
type TestRepositories struct {
	DB           *gorm.DB
	DecisionRepo *persistence.GormDecisionRepository
	ReportRepo   *persistence.GormReportRepository
	RunRepo      *persistence.GormRunRepository
}

// NewTestRepositories creates every archive repository on db
func NewTestRepositories(db *gorm.DB) *TestRepositories {
	return &TestRepositories{
		DB:           db,
		DecisionRepo: persistence.NewGormDecisionRepository(db),
		ReportRepo:   persistence.NewGormReportRepository(db),
		RunRepo:      persistence.NewGormRunRepository(db),
	}
}
