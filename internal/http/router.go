package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/lapakhq/lapak/internal/http/audit"
	"github.com/lapakhq/lapak/internal/http/export"
	"github.com/lapakhq/lapak/internal/http/importcsv"
	"github.com/lapakhq/lapak/internal/http/products"
	"github.com/lapakhq/lapak/internal/http/transactions"
)

func New(
	transactionsV1 *transactions.Handler,
	productsV1 *products.Handler,
	auditV1 *audit.Handler,
	importV1 *importcsv.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	// Browser clients may be served from another origin.
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
		})

		r.Get("/summary", transactionsV1.Summary)

		r.Route("/products", productsV1.Routes)

		r.Route("/audit", auditV1.Routes)

		r.Route("/import", importV1.Routes)

		r.Route("/export", exportV1.Routes)
	})

	return router
}
