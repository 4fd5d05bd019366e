package queries

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
)

// GetHarvestForecastQuery asks when each living crop will be ready
type GetHarvestForecastQuery struct{}

// ForecastDTO is the outlook for one crop
type ForecastDTO struct {
	CropID         string  `json:"crop_id"`
	CropType       string  `json:"crop_type"`
	Area           float64 `json:"area"`
	Stage          string  `json:"stage"`
	Health         float64 `json:"health"`
	Ready          bool    `json:"ready"`
	WeeksRemaining float64 `json:"weeks_remaining"`
	ExpectedWeek   uint32  `json:"expected_week"`
}

// GetHarvestForecastResponse lists crops soonest first
type GetHarvestForecastResponse struct {
	Forecasts []ForecastDTO
}

// GetHarvestForecastHandler handles the GetHarvestForecast query
type GetHarvestForecastHandler struct {
	source StateSource
}

// NewGetHarvestForecastHandler creates a new GetHarvestForecastHandler
func NewGetHarvestForecastHandler(source StateSource) *GetHarvestForecastHandler {
	return &GetHarvestForecastHandler{source: source}
}

// Handle executes the GetHarvestForecast query
func (h *GetHarvestForecastHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetHarvestForecastQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetHarvestForecastQuery")
	}

	state := h.source.Snapshot()
	forecasts := make([]ForecastDTO, 0, len(state.Crops))
	for _, c := range state.Crops {
		if c.IsDead {
			continue
		}
		forecasts = append(forecasts, ForecastDTO{
			CropID:         c.ID,
			CropType:       string(c.Type),
			Area:           c.Area,
			Stage:          c.Stage,
			Health:         c.Health,
			Ready:          c.ReadyForHarvest,
			WeeksRemaining: c.EstimatedWeeksRemaining,
			ExpectedWeek:   state.Clock.Week + uint32(math.Ceil(c.EstimatedWeeksRemaining)),
		})
	}
	sort.SliceStable(forecasts, func(i, j int) bool {
		return forecasts[i].WeeksRemaining < forecasts[j].WeeksRemaining
	})

	return &GetHarvestForecastResponse{Forecasts: forecasts}, nil
}
