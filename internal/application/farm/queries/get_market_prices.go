package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
	"github.com/andrescamacho/farmsim-go/internal/domain/crop"
)

// PriceSource quotes crop prices
type PriceSource interface {
	Catalog() *crop.Catalog
	MarketPrice(cropType crop.Type) (float64, error)
}

// GetMarketPricesQuery asks for the current quote of every crop, or one crop
// when CropType is set
type GetMarketPricesQuery struct {
	CropType string
}

// PriceDTO is one market quote
type PriceDTO struct {
	CropType  string  `json:"crop_type"`
	Price     float64 `json:"price"`
	BasePrice float64 `json:"base_price"`
	Ratio     float64 `json:"ratio"`
}

// GetMarketPricesResponse lists quotes in catalog order
type GetMarketPricesResponse struct {
	Prices []PriceDTO
}

// GetMarketPricesHandler handles the GetMarketPrices query
type GetMarketPricesHandler struct {
	source PriceSource
}

// NewGetMarketPricesHandler creates a new GetMarketPricesHandler
func NewGetMarketPricesHandler(source PriceSource) *GetMarketPricesHandler {
	return &GetMarketPricesHandler{source: source}
}

// Handle executes the GetMarketPrices query
func (h *GetMarketPricesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetMarketPricesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetMarketPricesQuery")
	}

	catalog := h.source.Catalog()
	types := catalog.Types()
	if query.CropType != "" {
		t, err := catalog.Parse(query.CropType)
		if err != nil {
			return nil, err
		}
		types = []crop.Type{t}
	}

	prices := make([]PriceDTO, 0, len(types))
	for _, t := range types {
		profile, _ := catalog.Profile(t)
		price, err := h.source.MarketPrice(t)
		if err != nil {
			return nil, fmt.Errorf("failed to quote %s: %w", t, err)
		}
		prices = append(prices, PriceDTO{
			CropType:  string(t),
			Price:     price,
			BasePrice: profile.BasePrice,
			Ratio:     price / profile.BasePrice,
		})
	}

	return &GetMarketPricesResponse{Prices: prices}, nil
}
