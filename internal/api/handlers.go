package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"city-explorer/internal/cache"
	"city-explorer/internal/explorer"
)

// persistTimeout bounds the background insert fan-out after a cache miss.
const persistTimeout = 30 * time.Second

// resolveTimeout bounds a location resolution once it is detached from the
// request that started it.
const resolveTimeout = 15 * time.Second

// errorBody is the uniform plain-text 500 response. Internal error kinds
// are only distinguished in the logs.
const errorBody = "Sorry, something went wrong"

// errBadRequest marks errors caused by the client's query parameters, so the
// logs don't attribute them to the store.
var errBadRequest = errors.New("bad request")

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	repo    Store
	cache   RecordCache
	fetcher Fetcher
	log     *slog.Logger
	flights singleflight.Group
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(repo Store, recordCache RecordCache, fetcher Fetcher, log *slog.Logger) *Handlers {
	return &Handlers{
		repo:    repo,
		cache:   recordCache,
		fetcher: fetcher,
		log:     log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail logs the error with its classified kind and sends the uniform 500.
func (h *Handlers) fail(w http.ResponseWriter, resource string, err error) {
	var kind string
	var malformed *explorer.MalformedPayloadError
	var upstream *explorer.UpstreamError
	switch {
	case errors.Is(err, errBadRequest):
		kind = "bad_request"
	case errors.Is(err, explorer.ErrNoGeocodeResult):
		kind = "no_geocode_result"
	case errors.As(err, &malformed):
		kind = "malformed_upstream_payload"
	case errors.As(err, &upstream):
		kind = "upstream_fetch"
	default:
		kind = "store"
	}

	h.log.Error("request failed", "resource", resource, "kind", kind, "err", err)
	http.Error(w, errorBody, http.StatusInternalServerError)
}

// parseRef decodes the `data` query parameter the frontend sends to the
// five resource endpoints: a URL-encoded JSON object holding the id and
// coordinates of a resolved location.
func parseRef(r *http.Request) (explorer.LocationRef, error) {
	var ref explorer.LocationRef

	raw := r.URL.Query().Get("data")
	if raw == "" {
		return ref, fmt.Errorf("%w: missing data parameter", errBadRequest)
	}
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return ref, fmt.Errorf("%w: decoding data parameter: %v", errBadRequest, err)
	}
	if ref.ID == 0 {
		return ref, fmt.Errorf("%w: data parameter has no location id", errBadRequest)
	}

	return ref, nil
}

// GetLocation handles GET /location?data=<query>.
// Redis hit → return. Store hit → warm Redis, return. Neither → geocode,
// insert, return with the new id. Concurrent resolutions of the same query
// are collapsed by singleflight, so a burst of identical novel queries
// costs one geocode call and one insert.
func (h *Handlers) GetLocation(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("data")
	if query == "" {
		h.fail(w, "location", fmt.Errorf("%w: missing data parameter", errBadRequest))
		return
	}

	key := cache.LocationKey(query)
	// Followers share the leader's result, so the flight runs detached from
	// the leader's context: a leader disconnect must not fail the queue.
	v, err, _ := h.flights.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), resolveTimeout)
		defer cancel()
		return h.resolveLocation(ctx, key, query)
	})
	if err != nil {
		h.fail(w, "location", err)
		return
	}

	writeJSON(w, http.StatusOK, v)
}

func (h *Handlers) resolveLocation(ctx context.Context, key, query string) (*explorer.Location, error) {
	var cached explorer.Location
	hit, err := h.cache.Get(ctx, key, &cached)
	if err != nil {
		h.log.Warn("cache get failed", "key", key, "err", err)
	}
	if hit {
		return &cached, nil
	}

	loc, err := h.repo.LocationByQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if loc != nil {
		if err := h.cache.Set(ctx, key, loc); err != nil {
			h.log.Warn("cache set failed after store hit", "key", key, "err", err)
		}
		return loc, nil
	}

	fresh, err := h.fetcher.Geocode(ctx, query)
	if err != nil {
		return nil, err
	}

	id, err := h.repo.InsertLocation(ctx, fresh)
	if err != nil {
		return nil, err
	}
	fresh.ID = id

	if err := h.cache.Set(ctx, key, fresh); err != nil {
		h.log.Warn("cache set failed after geocode", "key", key, "err", err)
	}

	return fresh, nil
}

// listResource is the cache-aside protocol shared by the five resource
// endpoints: Redis hit → respond; store rows → warm Redis, respond;
// otherwise fetch upstream, respond with the normalized records, and
// persist them in the background without gating the response.
func listResource[T any](h *Handlers, w http.ResponseWriter, r *http.Request, kind string,
	stored func(ctx context.Context, locationID int64) ([]T, error),
	fetch func(ctx context.Context, ref explorer.LocationRef) ([]T, error),
	insert func(ctx context.Context, rec T) error,
) {
	ref, err := parseRef(r)
	if err != nil {
		h.fail(w, kind, err)
		return
	}

	ctx := r.Context()
	key := cache.ResourceKey(kind, ref.ID)

	var cached []T
	hit, err := h.cache.Get(ctx, key, &cached)
	if err != nil {
		h.log.Warn("cache get failed", "key", key, "err", err)
	}
	if hit && len(cached) > 0 {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	rows, err := stored(ctx, ref.ID)
	if err != nil {
		h.fail(w, kind, err)
		return
	}
	if len(rows) > 0 {
		if err := h.cache.Set(ctx, key, rows); err != nil {
			h.log.Warn("cache set failed after store hit", "key", key, "err", err)
		}
		writeJSON(w, http.StatusOK, rows)
		return
	}

	fresh, err := fetch(ctx, ref)
	if err != nil {
		h.fail(w, kind, err)
		return
	}

	persistAsync(h, ctx, kind, key, fresh, insert)
	writeJSON(w, http.StatusOK, fresh)
}

// persistAsync inserts the freshly fetched records and warms Redis on a
// detached context. Best-effort: each failure is logged, no failure aborts
// a sibling insert, and the caller never waits on any of it.
func persistAsync[T any](h *Handlers, ctx context.Context, kind, key string, records []T,
	insert func(ctx context.Context, rec T) error,
) {
	bg := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(bg, persistTimeout)
		defer cancel()

		var g errgroup.Group
		for _, rec := range records {
			g.Go(func() error {
				if err := insert(ctx, rec); err != nil {
					h.log.Error("persist failed", "kind", kind, "err", err)
				}
				return nil
			})
		}
		_ = g.Wait()

		if err := h.cache.Set(ctx, key, records); err != nil {
			h.log.Warn("cache set failed after fetch", "key", key, "err", err)
		}
	}()
}

// GetWeather handles GET /weather.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	listResource(h, w, r, "weather", h.repo.ListWeather,
		func(ctx context.Context, ref explorer.LocationRef) ([]explorer.Weather, error) {
			records, err := h.fetcher.Forecast(ctx, ref.Latitude, ref.Longitude)
			if err != nil {
				return nil, err
			}
			for i := range records {
				records[i].LocationID = ref.ID
			}
			return records, nil
		},
		h.repo.InsertWeather,
	)
}

// GetMeetups handles GET /meetups.
func (h *Handlers) GetMeetups(w http.ResponseWriter, r *http.Request) {
	listResource(h, w, r, "meetups", h.repo.ListMeetups,
		func(ctx context.Context, ref explorer.LocationRef) ([]explorer.Meetup, error) {
			records, err := h.fetcher.Events(ctx, ref.Latitude, ref.Longitude)
			if err != nil {
				return nil, err
			}
			for i := range records {
				records[i].LocationID = ref.ID
			}
			return records, nil
		},
		h.repo.InsertMeetup,
	)
}

// GetMovies handles GET /movies. Movies search by the location's original
// search string rather than its coordinates.
func (h *Handlers) GetMovies(w http.ResponseWriter, r *http.Request) {
	listResource(h, w, r, "movies", h.repo.ListMovies,
		func(ctx context.Context, ref explorer.LocationRef) ([]explorer.Movie, error) {
			if ref.SearchQuery == "" {
				return nil, fmt.Errorf("%w: data parameter has no search_query", errBadRequest)
			}
			records, err := h.fetcher.Movies(ctx, ref.SearchQuery)
			if err != nil {
				return nil, err
			}
			for i := range records {
				records[i].LocationID = ref.ID
			}
			return records, nil
		},
		h.repo.InsertMovie,
	)
}

// GetYelp handles GET /yelp.
func (h *Handlers) GetYelp(w http.ResponseWriter, r *http.Request) {
	listResource(h, w, r, "yelp", h.repo.ListBusinesses,
		func(ctx context.Context, ref explorer.LocationRef) ([]explorer.Business, error) {
			records, err := h.fetcher.Businesses(ctx, ref.Latitude, ref.Longitude)
			if err != nil {
				return nil, err
			}
			for i := range records {
				records[i].LocationID = ref.ID
			}
			return records, nil
		},
		h.repo.InsertBusiness,
	)
}

// GetTrails handles GET /trails.
func (h *Handlers) GetTrails(w http.ResponseWriter, r *http.Request) {
	listResource(h, w, r, "trails", h.repo.ListTrails,
		func(ctx context.Context, ref explorer.LocationRef) ([]explorer.Trail, error) {
			records, err := h.fetcher.Trails(ctx, ref.Latitude, ref.Longitude)
			if err != nil {
				return nil, err
			}
			for i := range records {
				records[i].LocationID = ref.ID
			}
			return records, nil
		},
		h.repo.InsertTrail,
	)
}

type dbPinger interface {
	Ping(ctx context.Context) error
}

type redisPinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlerFunc returns an http.HandlerFunc that checks db and redis
// connectivity; 200 if both answer, 503 otherwise.
func HealthHandlerFunc(db dbPinger, redis redisPinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		dbStatus := "ok"
		redisStatus := "ok"

		if err := db.Ping(ctx); err != nil {
			log.Error("health check: db ping failed", "err", err)
			dbStatus = "error"
			status = http.StatusServiceUnavailable
		}

		if err := redis.Ping(ctx); err != nil {
			log.Error("health check: redis ping failed", "err", err)
			redisStatus = "error"
			status = http.StatusServiceUnavailable
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}

		writeJSON(w, status, map[string]string{
			"status": overall,
			"db":     dbStatus,
			"redis":  redisStatus,
		})
	}
}
