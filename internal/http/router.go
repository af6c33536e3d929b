package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/gastos/internal/api"
	"github.com/MrJamesThe3rd/gastos/internal/auth"
	"github.com/MrJamesThe3rd/gastos/internal/http/export"
	"github.com/MrJamesThe3rd/gastos/internal/http/httputil"
	"github.com/MrJamesThe3rd/gastos/internal/http/importcsv"
	"github.com/MrJamesThe3rd/gastos/internal/http/matching"
	"github.com/MrJamesThe3rd/gastos/internal/http/receipt"
	"github.com/MrJamesThe3rd/gastos/internal/http/sheet"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	Auth        *auth.Authenticator
	DB          Pinger
	CORSOrigins []string
}

// New builds the API router. receiptsV1 may be nil when no receipt storage
// is configured.
func New(
	opts Options,
	sheetsV1 *sheet.Handler,
	importV1 *importcsv.Handler,
	receiptsV1 *receipt.Handler,
	exportV1 *export.Handler,
	matchingV1 *matching.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", health(opts.DB))

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(opts.Auth.Middleware)

		r.Route("/expense-sheets", func(r chi.Router) {
			sheetsV1.Routes(r)
			r.Route("/{id}/import", importV1.Routes)
		})

		r.Route("/receipts", func(r chi.Router) {
			if receiptsV1 == nil {
				r.HandleFunc("/", unavailable("receipt storage is not configured"))
				r.HandleFunc("/*", unavailable("receipt storage is not configured"))
				return
			}

			receiptsV1.Routes(r)
		})

		r.Route("/export", exportV1.Routes)

		r.Route("/matching", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			matchingV1.Routes(r)
		})
	})

	return router
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			httputil.JSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: "database unavailable"})
			return
		}

		httputil.JSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}

func unavailable(msg string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.Detail(w, http.StatusServiceUnavailable, msg)
	}
}
