package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"city-explorer/internal/explorer"
)

// Querier abstracts the subset of pgxpool.Pool used by Repository.
// This allows injection of a mock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides database access for locations and their resource records.
type Repository struct {
	q Querier
}

// NewRepository constructs a Repository backed by the given pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{q: pool}
}

// NewRepositoryWithQuerier constructs a Repository with a custom Querier (for tests).
func NewRepositoryWithQuerier(q Querier) *Repository {
	return &Repository{q: q}
}

// LocationByQuery retrieves the stored location for a search query.
// Returns nil, nil when the query has never been resolved.
func (r *Repository) LocationByQuery(ctx context.Context, query string) (*explorer.Location, error) {
	const q = `
		SELECT id, search_query, formatted_query, latitude, longitude
		FROM locations
		WHERE search_query = $1
	`

	var loc explorer.Location
	err := r.q.QueryRow(ctx, q, query).Scan(
		&loc.ID,
		&loc.SearchQuery,
		&loc.FormattedQuery,
		&loc.Latitude,
		&loc.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying location for %q: %w", query, err)
	}

	return &loc, nil
}

// InsertLocation stores a freshly geocoded location and returns its id.
// Concurrent resolutions of the same query race to this statement; the
// unique index on search_query turns the loser into an update, so both
// callers end up with the same row.
func (r *Repository) InsertLocation(ctx context.Context, loc *explorer.Location) (int64, error) {
	const q = `
		INSERT INTO locations (search_query, formatted_query, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (search_query) DO UPDATE
		SET formatted_query = EXCLUDED.formatted_query,
		    latitude        = EXCLUDED.latitude,
		    longitude       = EXCLUDED.longitude
		RETURNING id
	`

	var id int64
	err := r.q.QueryRow(ctx, q, loc.SearchQuery, loc.FormattedQuery, loc.Latitude, loc.Longitude).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting location for %q: %w", loc.SearchQuery, err)
	}

	return id, nil
}

// ListWeather returns the stored forecast rows for a location.
func (r *Repository) ListWeather(ctx context.Context, locationID int64) ([]explorer.Weather, error) {
	const q = `
		SELECT id, forecast, time, location_id
		FROM weathers
		WHERE location_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, q, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying weathers for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var records []explorer.Weather
	for rows.Next() {
		var w explorer.Weather
		if err := rows.Scan(&w.ID, &w.Forecast, &w.Time, &w.LocationID); err != nil {
			return nil, fmt.Errorf("scanning weather row: %w", err)
		}
		records = append(records, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating weather rows: %w", err)
	}

	return records, nil
}

// InsertWeather stores one forecast row.
func (r *Repository) InsertWeather(ctx context.Context, w explorer.Weather) error {
	const q = `
		INSERT INTO weathers (forecast, time, location_id)
		VALUES ($1, $2, $3)
	`

	if _, err := r.q.Exec(ctx, q, w.Forecast, w.Time, w.LocationID); err != nil {
		return fmt.Errorf("inserting weather for location %d: %w", w.LocationID, err)
	}

	return nil
}

// ListMeetups returns the stored meetup rows for a location.
func (r *Repository) ListMeetups(ctx context.Context, locationID int64) ([]explorer.Meetup, error) {
	const q = `
		SELECT id, link, name, creation_date, host, location_id
		FROM meetups
		WHERE location_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, q, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying meetups for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var records []explorer.Meetup
	for rows.Next() {
		var m explorer.Meetup
		if err := rows.Scan(&m.ID, &m.Link, &m.Name, &m.CreationDate, &m.Host, &m.LocationID); err != nil {
			return nil, fmt.Errorf("scanning meetup row: %w", err)
		}
		records = append(records, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetup rows: %w", err)
	}

	return records, nil
}

// InsertMeetup stores one meetup row.
func (r *Repository) InsertMeetup(ctx context.Context, m explorer.Meetup) error {
	const q = `
		INSERT INTO meetups (link, name, creation_date, host, location_id)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.q.Exec(ctx, q, m.Link, m.Name, m.CreationDate, m.Host, m.LocationID); err != nil {
		return fmt.Errorf("inserting meetup for location %d: %w", m.LocationID, err)
	}

	return nil
}

// ListMovies returns the stored movie rows for a location.
func (r *Repository) ListMovies(ctx context.Context, locationID int64) ([]explorer.Movie, error) {
	const q = `
		SELECT id, title, released_on, total_votes, average_votes, popularity, image_url, location_id
		FROM movies
		WHERE location_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, q, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying movies for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var records []explorer.Movie
	for rows.Next() {
		var m explorer.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.ReleasedOn, &m.TotalVotes, &m.AverageVotes, &m.Popularity, &m.ImageURL, &m.LocationID); err != nil {
			return nil, fmt.Errorf("scanning movie row: %w", err)
		}
		records = append(records, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating movie rows: %w", err)
	}

	return records, nil
}

// InsertMovie stores one movie row.
func (r *Repository) InsertMovie(ctx context.Context, m explorer.Movie) error {
	const q = `
		INSERT INTO movies (title, released_on, total_votes, average_votes, popularity, image_url, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	if _, err := r.q.Exec(ctx, q, m.Title, m.ReleasedOn, m.TotalVotes, m.AverageVotes, m.Popularity, m.ImageURL, m.LocationID); err != nil {
		return fmt.Errorf("inserting movie for location %d: %w", m.LocationID, err)
	}

	return nil
}

// ListBusinesses returns the stored yelp rows for a location.
func (r *Repository) ListBusinesses(ctx context.Context, locationID int64) ([]explorer.Business, error) {
	const q = `
		SELECT id, url, name, rating, price, image_url, location_id
		FROM yelp
		WHERE location_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, q, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying yelp rows for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var records []explorer.Business
	for rows.Next() {
		var b explorer.Business
		if err := rows.Scan(&b.ID, &b.URL, &b.Name, &b.Rating, &b.Price, &b.ImageURL, &b.LocationID); err != nil {
			return nil, fmt.Errorf("scanning yelp row: %w", err)
		}
		records = append(records, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating yelp rows: %w", err)
	}

	return records, nil
}

// InsertBusiness stores one yelp row.
func (r *Repository) InsertBusiness(ctx context.Context, b explorer.Business) error {
	const q = `
		INSERT INTO yelp (url, name, rating, price, image_url, location_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := r.q.Exec(ctx, q, b.URL, b.Name, b.Rating, b.Price, b.ImageURL, b.LocationID); err != nil {
		return fmt.Errorf("inserting yelp row for location %d: %w", b.LocationID, err)
	}

	return nil
}

// ListTrails returns the stored hike rows for a location.
func (r *Repository) ListTrails(ctx context.Context, locationID int64) ([]explorer.Trail, error) {
	const q = `
		SELECT id, trail_url, name, location, length, condition_date, condition_time,
		       conditions, stars, star_votes, summary, location_id
		FROM hikes
		WHERE location_id = $1
		ORDER BY id
	`

	rows, err := r.q.Query(ctx, q, locationID)
	if err != nil {
		return nil, fmt.Errorf("querying hikes for location %d: %w", locationID, err)
	}
	defer rows.Close()

	var records []explorer.Trail
	for rows.Next() {
		var t explorer.Trail
		if err := rows.Scan(&t.ID, &t.TrailURL, &t.Name, &t.Location, &t.Length, &t.ConditionDate,
			&t.ConditionTime, &t.Conditions, &t.Stars, &t.StarVotes, &t.Summary, &t.LocationID); err != nil {
			return nil, fmt.Errorf("scanning hike row: %w", err)
		}
		records = append(records, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hike rows: %w", err)
	}

	return records, nil
}

// InsertTrail stores one hike row.
func (r *Repository) InsertTrail(ctx context.Context, t explorer.Trail) error {
	const q = `
		INSERT INTO hikes (trail_url, name, location, length, condition_date, condition_time,
		                   conditions, stars, star_votes, summary, location_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	if _, err := r.q.Exec(ctx, q, t.TrailURL, t.Name, t.Location, t.Length, t.ConditionDate,
		t.ConditionTime, t.Conditions, t.Stars, t.StarVotes, t.Summary, t.LocationID); err != nil {
		return fmt.Errorf("inserting hike for location %d: %w", t.LocationID, err)
	}

	return nil
}
