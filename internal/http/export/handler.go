package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lapakhq/lapak/internal/ledger"
	"github.com/lapakhq/lapak/internal/report"
)

type Handler struct {
	reports *report.Service
}

func NewHandler(reports *report.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/transactions", h.transactions)
}

func (h *Handler) transactions(w http.ResponseWriter, r *http.Request) {
	filter := ledger.ListFilter{}

	if s := r.URL.Query().Get("type"); s != "" {
		t := ledger.Type(s)
		if t != ledger.TypeSale && t != ledger.TypePurchase {
			http.Error(w, "invalid type", http.StatusBadRequest)
			return
		}

		filter.Type = &t
	}

	filename := fmt.Sprintf("transactions_%s.csv", time.Now().Format("20060102"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	// Headers are already out by the time rows stream, so a mid-write
	// failure can only be logged.
	if err := h.reports.WriteTransactionsCSV(r.Context(), w, filter); err != nil {
		slog.Error("failed to write transactions csv", "error", err)
	}
}
