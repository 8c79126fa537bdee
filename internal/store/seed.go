package store

import (
	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

// SeedProducts is the catalog a fresh installation starts with. IDs are
// fixed so repeated seeding is stable.
func SeedProducts() []ledger.Product {
	return []ledger.Product{
		{
			ID:            uuid.MustParse("7b1f3c1e-0f6a-4f3e-9c67-0d9b64d3a101"),
			Name:          "Kopi Arabika Premium",
			SKU:           "COF-001",
			Price:         75000,
			Cost:          45000,
			Stock:         50,
			MinStockLevel: 10,
			Unit:          "kg",
		},
		{
			ID:            uuid.MustParse("3a9d2b74-5c1d-47a8-8f02-6f1f2a9cd102"),
			Name:          "Gula Aren Organik",
			SKU:           "SGR-002",
			Price:         25000,
			Cost:          15000,
			Stock:         100,
			MinStockLevel: 20,
			Unit:          "pack",
		},
		{
			ID:            uuid.MustParse("c4e8a6f0-92b3-4d15-bf71-58e03c7de103"),
			Name:          "Paper Cup 12oz",
			SKU:           "PC-003",
			Price:         1000,
			Cost:          500,
			Stock:         500,
			MinStockLevel: 100,
			Unit:          "pcs",
		},
		{
			ID:            uuid.MustParse("e5b79c28-1a44-4e0b-a2c9-77f81b20d104"),
			Name:          "Susu UHT Full Cream",
			SKU:           "MLK-004",
			Price:         18000,
			Cost:          14000,
			Stock:         5,
			MinStockLevel: 12,
			Unit:          "liter",
		},
	}
}
