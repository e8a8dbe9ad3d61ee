package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Simplici0/tourpricing/internal/config"
	"github.com/Simplici0/tourpricing/internal/db"
	"github.com/Simplici0/tourpricing/internal/migrations"
	"github.com/Simplici0/tourpricing/internal/seed"
	"github.com/Simplici0/tourpricing/internal/snapshot"
	"github.com/Simplici0/tourpricing/internal/store"
)

type server struct {
	store      *store.Store
	storageKey string
	defaults   snapshot.Snapshot
}

func main() {
	cfg := config.Load()
	ctx := context.Background()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	defaults, err := snapshot.LoadPreset(cfg.PresetPath)
	if err != nil {
		log.Fatalf("failed to load preset: %v", err)
	}

	if cfg.IsDev() {
		stats, err := seed.Run(ctx, database, seed.Config{StorageKey: cfg.StorageKey, Defaults: defaults})
		if err != nil {
			log.Fatalf("failed to seed database: %v", err)
		}
		log.Printf("seed finished: %d inserts", stats.Inserts)
	}

	srv := &server{
		store:      store.New(database),
		storageKey: cfg.StorageKey,
		defaults:   defaults,
	}

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           newRouter(srv, cfg.AllowedOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func newRouter(srv *server, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", srv.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/inputs", srv.handleInputsGet)
		r.Post("/inputs", srv.handleInputsSave)
		r.Post("/inputs/reset", srv.handleInputsReset)
		r.Post("/calc", srv.handleCalc)
		r.Get("/result", srv.handleResult)
		r.Get("/margins", srv.handleMargins)
		r.Get("/report", srv.handleReport)
		r.Post("/scenarios", srv.handleScenarioCreate)
		r.Get("/scenarios", srv.handleScenariosList)
		r.Get("/scenarios/{id}", srv.handleScenarioDetail)
		r.Get("/scenarios/{id}/text", srv.handleScenarioText)
	})

	return r
}
