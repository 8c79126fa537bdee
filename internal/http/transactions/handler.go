package transactions

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/lapakhq/lapak/internal/ledger"
)

var validate = validator.New()

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.commit)
	r.Get("/", h.list)
}

type commitItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
	// Omitted means catalog price; zero is a valid override.
	UnitPrice *int64 `json:"unit_price" validate:"omitempty,gte=0"`
}

type commitRequest struct {
	Type          ledger.Type          `json:"type" validate:"required,oneof=SALE PURCHASE"`
	PaymentMethod ledger.PaymentMethod `json:"payment_method" validate:"required,oneof=CASH CREDIT"`
	Counterparty  string               `json:"counterparty" validate:"required"`
	Items         []commitItemRequest  `json:"items" validate:"required,min=1,dive"`
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items := make([]ledger.DraftItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = ledger.DraftItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
	}

	tx, err := h.svc.Commit(r.Context(), ledger.Draft{
		Type:          req.Type,
		PaymentMethod: req.PaymentMethod,
		Counterparty:  req.Counterparty,
		Items:         items,
	})
	if err != nil {
		var stockErr *ledger.InsufficientStockError
		if errors.As(err, &stockErr) {
			http.Error(w, stockErr.Error(), http.StatusConflict)
			return
		}

		var unknownErr *ledger.UnknownProductError
		if errors.As(err, &unknownErr) {
			http.Error(w, unknownErr.Error(), http.StatusUnprocessableEntity)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(*tx)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		t := ledger.Type(s)
		if t != ledger.TypeSale && t != ledger.TypePurchase {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = &t
	}

	txs, err := h.svc.Transactions(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponseList(txs)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type summaryResponse struct {
	Revenue     int64 `json:"revenue"`
	Expenses    int64 `json:"expenses"`
	Receivables int64 `json:"receivables"`
	Payables    int64 `json:"payables"`
}

// Summary is mounted at /summary, outside the transactions subtree.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.svc.Summary(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(summaryResponse{
		Revenue:     sum.Revenue,
		Expenses:    sum.Expenses,
		Receivables: sum.Receivables,
		Payables:    sum.Payables,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
