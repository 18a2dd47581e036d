package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/ledgerline/ledgerline/internal/importsession"
)

// NewRouter assembles the chi router with the full middleware chain and all
// API routes. Every route below /api requires a principal.
func NewRouter(gateway Gateway, sessions *importsession.Manager, log zerolog.Logger) http.Handler {
	accounts := NewAccountsHandler(gateway, log)
	transactions := NewTransactionsHandler(gateway, log)
	dashboard := NewDashboardHandler(gateway, log)
	imports := NewImportHandler(sessions, gateway, log)

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(log))
	r.Use(Recovery(log))

	r.Route("/api", func(r chi.Router) {
		r.Use(Principal)

		r.Get("/accounts", accounts.List)
		r.Post("/accounts", accounts.Create)

		r.Post("/transactions", transactions.Create)
		r.Post("/transactions/bulk", transactions.BulkCreate)
		r.Get("/transactions/list", transactions.List)
		r.Get("/transactions/recent", transactions.Recent)

		r.Get("/dashboard", dashboard.Report)

		r.Route("/import/sessions", func(r chi.Router) {
			r.Post("/", imports.Create)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Post("/file", imports.UploadFile)
				r.Put("/mapping", imports.SetMapping)
				r.Post("/apply", imports.Apply)
				r.Get("/preview", imports.Preview)
				r.Post("/submit", imports.Submit)
			})
		})
	})

	return r
}
