package audit

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lapakhq/lapak/internal/advisor"
	"github.com/lapakhq/lapak/internal/ledger"
)

type Handler struct {
	svc     *ledger.Service
	advisor advisor.HealthAdvisor
}

func NewHandler(svc *ledger.Service, adv advisor.HealthAdvisor) *Handler {
	return &Handler{svc: svc, advisor: adv}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.run)
}

type runResponse struct {
	RanAt    time.Time         `json:"ran_at"`
	Findings []advisor.Finding `json:"findings"`
}

// run snapshots the ledger and catalog, hands them to the advisor and
// returns whatever findings come back. The advisor degrades internally,
// so the only failure mode here is not being able to read state.
func (h *Handler) run(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.Transactions(r.Context(), ledger.ListFilter{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	products, err := h.svc.Products(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	findings := h.advisor.AnalyzeBusinessHealth(r.Context(), txs, products)

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(runResponse{
		RanAt:    time.Now(),
		Findings: findings,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
