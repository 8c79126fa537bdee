package transactions

import (
	"time"

	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

type itemResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      int       `json:"quantity"`
	PriceAtMoment int64     `json:"price_at_moment"`
	Total         int64     `json:"total"`
}

type transactionResponse struct {
	ID              uuid.UUID            `json:"id"`
	Date            time.Time            `json:"date"`
	Type            ledger.Type          `json:"type"`
	Items           []itemResponse       `json:"items"`
	TotalAmount     int64                `json:"total_amount"`
	PaymentMethod   ledger.PaymentMethod `json:"payment_method"`
	Counterparty    string               `json:"counterparty"`
	Status          ledger.Status        `json:"status"`
	ReferenceNumber string               `json:"reference_number"`
}

func toResponse(tx ledger.Transaction) transactionResponse {
	items := make([]itemResponse, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemResponse{
			ProductID:     it.ProductID,
			ProductName:   it.ProductName,
			Quantity:      it.Quantity,
			PriceAtMoment: it.PriceAtMoment,
			Total:         it.Total,
		}
	}

	return transactionResponse{
		ID:              tx.ID,
		Date:            tx.Date,
		Type:            tx.Type,
		Items:           items,
		TotalAmount:     tx.TotalAmount,
		PaymentMethod:   tx.PaymentMethod,
		Counterparty:    tx.Counterparty,
		Status:          tx.Status,
		ReferenceNumber: tx.ReferenceNumber,
	}
}

func toResponseList(txs []ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
