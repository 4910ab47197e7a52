package api

import (
	"context"

	"city-explorer/internal/explorer"
)

// Store defines the repository operations needed by handlers: one
// list/insert pair per resource kind plus location lookup/insert.
type Store interface {
	LocationByQuery(ctx context.Context, query string) (*explorer.Location, error)
	InsertLocation(ctx context.Context, loc *explorer.Location) (int64, error)

	ListWeather(ctx context.Context, locationID int64) ([]explorer.Weather, error)
	InsertWeather(ctx context.Context, w explorer.Weather) error

	ListMeetups(ctx context.Context, locationID int64) ([]explorer.Meetup, error)
	InsertMeetup(ctx context.Context, m explorer.Meetup) error

	ListMovies(ctx context.Context, locationID int64) ([]explorer.Movie, error)
	InsertMovie(ctx context.Context, m explorer.Movie) error

	ListBusinesses(ctx context.Context, locationID int64) ([]explorer.Business, error)
	InsertBusiness(ctx context.Context, b explorer.Business) error

	ListTrails(ctx context.Context, locationID int64) ([]explorer.Trail, error)
	InsertTrail(ctx context.Context, t explorer.Trail) error
}

// RecordCache defines the hot-cache operations needed by handlers.
type RecordCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Fetcher defines the upstream API aggregation needed by handlers.
type Fetcher interface {
	Geocode(ctx context.Context, query string) (*explorer.Location, error)
	Forecast(ctx context.Context, lat, lng float64) ([]explorer.Weather, error)
	Events(ctx context.Context, lat, lng float64) ([]explorer.Meetup, error)
	Movies(ctx context.Context, query string) ([]explorer.Movie, error)
	Businesses(ctx context.Context, lat, lng float64) ([]explorer.Business, error)
	Trails(ctx context.Context, lat, lng float64) ([]explorer.Trail, error)
}
