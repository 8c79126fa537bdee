package products

import (
	"encoding/json"
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
	r.Get("/", h.list)
	r.Put("/", h.save)
	r.Get("/low-stock", h.lowStock)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.Products(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(products))
}

type saveRequest struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name" validate:"required"`
	SKU           string    `json:"sku" validate:"required"`
	Price         int64     `json:"price" validate:"gte=0"`
	Cost          int64     `json:"cost" validate:"gte=0"`
	Stock         int       `json:"stock" validate:"gte=0"`
	MinStockLevel int       `json:"min_stock_level" validate:"gte=0"`
	Unit          string    `json:"unit"`
}

// save upserts a product: a zero ID creates, a known ID updates.
func (h *Handler) save(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	product, err := h.svc.SaveProduct(r.Context(), ledger.Product{
		ID:            req.ID,
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		Cost:          req.Cost,
		Stock:         req.Stock,
		MinStockLevel: req.MinStockLevel,
		Unit:          req.Unit,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponse(*product))
}

func (h *Handler) lowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.LowStock(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, toResponseList(products))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
