package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/application/simulation"
)

// StateSource exposes the engine's read model
type StateSource interface {
	Snapshot() simulation.State
}

// GetFarmStatusQuery asks for the full farm snapshot
type GetFarmStatusQuery struct{}

// GetFarmStatusResponse wraps the snapshot
type GetFarmStatusResponse struct {
	State simulation.State
}

// GetFarmStatusHandler handles the GetFarmStatus query
type GetFarmStatusHandler struct {
	source StateSource
}

// NewGetFarmStatusHandler creates a new GetFarmStatusHandler
func NewGetFarmStatusHandler(source StateSource) *GetFarmStatusHandler {
	return &GetFarmStatusHandler{source: source}
}

// Handle executes the GetFarmStatus query
func (h *GetFarmStatusHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*GetFarmStatusQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFarmStatusQuery")
	}
	return &GetFarmStatusResponse{State: h.source.Snapshot()}, nil
}
