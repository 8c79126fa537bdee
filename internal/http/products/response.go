package products

import (
	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

type productResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Price         int64     `json:"price"`
	Cost          int64     `json:"cost"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
	Unit          string    `json:"unit"`
}

func toResponse(p ledger.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Price:         p.Price,
		Cost:          p.Cost,
		Stock:         p.Stock,
		MinStockLevel: p.MinStockLevel,
		Unit:          p.Unit,
	}
}

func toResponseList(products []ledger.Product) []productResponse {
	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = toResponse(p)
	}

	return resp
}
