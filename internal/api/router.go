package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// NewRouter builds the Chi router with all routes configured. Every data
// endpoint is public (the frontend is a static site on another origin, so
// CORS is wide open), rate limited to 60 requests per minute per IP.
func NewRouter(handlers *Handlers, db dbPinger, redisClient redisPinger, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.LimitByIP(60, time.Minute))

	r.Get("/healthz", HealthHandlerFunc(db, redisClient, log))

	r.Get("/location", handlers.GetLocation)
	r.Get("/weather", handlers.GetWeather)
	r.Get("/meetups", handlers.GetMeetups)
	r.Get("/movies", handlers.GetMovies)
	r.Get("/yelp", handlers.GetYelp)
	r.Get("/trails", handlers.GetTrails)

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
