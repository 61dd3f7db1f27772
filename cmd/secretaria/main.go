package main

import (
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/faz-ai-biz/secretaria/internal/api/handlers"
	"github.com/faz-ai-biz/secretaria/internal/auth/google"
	"github.com/faz-ai-biz/secretaria/internal/config"
	"github.com/faz-ai-biz/secretaria/internal/db"
	"github.com/faz-ai-biz/secretaria/internal/logging"
	"github.com/faz-ai-biz/secretaria/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := db.InitDB(cfg.Database.DSN)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Calendar.TimeZone)
	if err != nil {
		log.Fatalf("Invalid calendar time zone %q: %v", cfg.Calendar.TimeZone, err)
	}
	calendarFactory := handlers.NewCalendarFactory(loc, cfg.Calendar.ID)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(logging.RequestID)

	r.Get("/healthz", handlers.HealthHandler())

	r.Route("/api/v1", func(r chi.Router) {
		// Client records, keyed by email
		r.Get("/clientes", handlers.ListClientsHandler(database))
		r.Post("/clientes/{email}", handlers.CreateClientHandler(database))
		r.Get("/clientes/{email}", handlers.GetClientHandler(database))
		r.Put("/clientes/{email}", handlers.UpdateClientHandler(database))
		r.Patch("/clientes/{email}", handlers.UpdateClientHandler(database))
		r.Delete("/clientes/{email}", handlers.DeleteClientHandler(database))

		// OAuth flow
		r.Get("/calendar/authorize/{email}", google.HandleAuthorize(database, cfg.Google))
		r.Get("/calendar/oauth2callback", google.HandleCallback(database, cfg.Google))

		// Calendar proxy
		r.Get("/calendar/{email}/events/{date}", handlers.ListEventsHandler(database, calendarFactory))
		r.Post("/calendar/{email}/events", handlers.CreateEventHandler(database, calendarFactory))
		r.Delete("/calendar/{email}/events/{eventID}", handlers.DeleteEventHandler(database, calendarFactory))
		r.Post("/calendar/{email}/check-conflicts", handlers.CheckConflictsHandler(database, calendarFactory))
	})

	addr := cfg.Server.Addr()
	log.Printf("secretaria %s listening on http://%s", version.Version, addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
