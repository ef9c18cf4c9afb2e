package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/dannyaudian/payroll-indonesia-go/internal/handler/http/middleware"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(jwtService jwt.Service, taxHandler TaxHandler, historyHandler HistoryHandler) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "payroll-indonesia"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Requires a service token
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/tax", func(r chi.Router) {
				r.Post("/categorize", taxHandler.Categorize)
				r.Post("/progressive", taxHandler.CalculateProgressive)
				r.Post("/ter", taxHandler.CalculateTER)
				r.Post("/december", taxHandler.CalculateDecember)
				r.Post("/ter-december", taxHandler.CalculateDecemberFromSlips)
				r.Post("/bpjs", taxHandler.CalculateBPJS)
			})

			r.Route("/history", func(r chi.Router) {
				r.Post("/sync", historyHandler.Sync)
				r.Post("/cancel", historyHandler.CascadeCancel)
				r.Get("/{employee}/{fiscal_year}", historyHandler.Get)
			})
		})
	})
	return r
}
