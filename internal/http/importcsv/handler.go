package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lapakhq/lapak/internal/importer"
	"github.com/lapakhq/lapak/internal/ledger"
)

const maxUploadSize = 10 << 20 // 10 MB

type Handler struct {
	parser *importer.Parser
	svc    *ledger.Service
}

func NewHandler(parser *importer.Parser, svc *ledger.Service) *Handler {
	return &Handler{parser: parser, svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/products", h.products)
}

type importResponse struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func (h *Handler) products(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	parsed, err := h.parser.Parse(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	created, updated, err := h.svc.ImportProducts(r.Context(), parsed)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("catalog import applied", "created", created, "updated", updated)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importResponse{Created: created, Updated: updated}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
