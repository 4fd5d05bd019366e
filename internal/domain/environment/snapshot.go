package environment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
)

// Quality labels describe how trustworthy a snapshot is
const (
	QualityObserved  = "observed"
	QualityEstimated = "estimated"
	QualityDefault   = "default"
)

// Snapshot is the normalized view of satellite-derived field conditions.
// The simulation only reads the two consumption multipliers; the remaining
// fields are carried for reporting.
type Snapshot struct {
	SoilMoisture                  float64   `json:"soil_moisture" validate:"gte=0,lte=1"`
	VegetationHealth              float64   `json:"vegetation_health" validate:"gte=-1,lte=1"`
	Temperature                   float64   `json:"temperature" validate:"gte=-60,lte=60"`
	WaterConsumptionMultiplier    float64   `json:"water_consumption_multiplier" validate:"gt=0,lte=10"`
	NutrientConsumptionMultiplier float64   `json:"nutrient_consumption_multiplier" validate:"gt=0,lte=10"`
	Quality                       string    `json:"quality" validate:"required"`
	ObservedAt                    time.Time `json:"observed_at"`
}

// Default is the snapshot in effect before any provider has reported
func Default() Snapshot {
	return Snapshot{
		SoilMoisture:                  0.5,
		VegetationHealth:              0.5,
		Temperature:                   18,
		WaterConsumptionMultiplier:    1,
		NutrientConsumptionMultiplier: 1,
		Quality:                       QualityDefault,
	}
}

// Multipliers extracts the consumption multipliers used by the crop lifecycle
func (s Snapshot) Multipliers() crop.Multipliers {
	return crop.Multipliers{
		Water:    s.WaterConsumptionMultiplier,
		Nutrient: s.NutrientConsumptionMultiplier,
	}
}

var validate = validator.New()

// Validate checks the snapshot ranges
func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			var messages []string
			for _, e := range validationErrs {
				messages = append(messages, fmt.Sprintf("%s failed %s (value: %v)", e.Field(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("invalid environmental snapshot: %s", strings.Join(messages, "; "))
		}
		return err
	}
	return nil
}

// Provider supplies snapshots from an external source. Fetch may block on I/O
// and must honor ctx.
type Provider interface {
	Fetch(ctx context.Context) (Snapshot, error)
}
