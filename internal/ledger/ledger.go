package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the type of transaction (sale or purchase).
type Type string

const (
	TypeSale     Type = "SALE"
	TypePurchase Type = "PURCHASE"
)

// PaymentMethod represents how a transaction was settled.
// Credit sales become receivables; credit purchases become payables.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
)

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusCompleted Status = "COMPLETED"
	StatusPending   Status = "PENDING"
)

// Product is a catalog entry. Stock is mutated only by committing a
// transaction that references it; it must never go negative.
// Price and Cost are amounts in minor currency units.
type Product struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	SKU           string    `json:"sku"`
	Price         int64     `json:"price"`
	Cost          int64     `json:"cost"`
	Stock         int       `json:"stock"`
	MinStockLevel int       `json:"min_stock_level"`
	Unit          string    `json:"unit"`
}

// BelowMinStock reports whether the product is at or under its reorder point.
func (p Product) BelowMinStock() bool {
	return p.Stock <= p.MinStockLevel
}

// Item is a single line within a transaction. ProductName and
// PriceAtMoment are snapshots taken at commit time; they are never
// re-derived from the current catalog.
type Item struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	PriceAtMoment int64     `json:"price_at_moment"`
	Total         int64     `json:"total"`
}

// Transaction is one committed entry in the ledger. The ledger is
// append-only; entries are stored most-recent-first.
type Transaction struct {
	ID              uuid.UUID     `json:"id"`
	Date            time.Time     `json:"date"`
	Type            Type          `json:"type"`
	Items           []Item        `json:"items"`
	TotalAmount     int64         `json:"total_amount"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	Counterparty    string        `json:"counterparty"`
	Status          Status        `json:"status"`
	ReferenceNumber string        `json:"reference_number"`
}

// Summary is derived from the full ledger on demand; it is a view,
// never a stored value.
type Summary struct {
	Revenue     int64
	Expenses    int64
	Receivables int64
	Payables    int64
}
