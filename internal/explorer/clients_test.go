package explorer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"city-explorer/internal/explorer"
)

func jsonHandler(t *testing.T, body any) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func errorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// day matches the client rendering of a unix timestamp.
func day(sec int64) string {
	return time.Unix(sec, 0).Format("Mon Jan 02 2006")
}

// ---- GeocodeClient ----

func geocodeBody() map[string]any {
	return map[string]any{
		"results": []map[string]any{
			{
				"formatted_address": "Seattle, WA, USA",
				"geometry": map[string]any{
					"location": map[string]any{"lat": 47.66, "lng": -122.3},
				},
			},
		},
	}
}

func TestGeocodeClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, geocodeBody()))
	defer srv.Close()

	c := explorer.NewGeocodeClientWithURL(srv.URL, "key")
	loc, err := c.Fetch(context.Background(), "98105")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "98105", loc.SearchQuery)
	assert.Equal(t, "Seattle, WA, USA", loc.FormattedQuery)
	assert.Equal(t, 47.66, loc.Latitude)
	assert.Equal(t, -122.3, loc.Longitude)
	assert.Zero(t, loc.ID, "id is assigned by the store, not the upstream")
}

func TestGeocodeClient_NoResults(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{"results": []any{}}))
	defer srv.Close()

	c := explorer.NewGeocodeClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), "zzzzz")
	require.ErrorIs(t, err, explorer.ErrNoGeocodeResult)
}

func TestGeocodeClient_MissingAddress(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"results": []map[string]any{{"geometry": map[string]any{}}},
	}))
	defer srv.Close()

	c := explorer.NewGeocodeClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), "98105")

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "formatted_address", malformed.Field)
}

func TestGeocodeClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(errorHandler())
	defer srv.Close()

	c := explorer.NewGeocodeClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), "98105")

	var upstream *explorer.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "geocode", upstream.Source)
}

// ---- WeatherClient ----

func weatherBody() map[string]any {
	return map[string]any{
		"daily": map[string]any{
			"data": []map[string]any{
				{"summary": "Clear throughout the day.", "time": 1540015200},
				{"summary": "Light rain in the morning.", "time": 1540101600},
			},
		},
	}
}

func TestWeatherClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, weatherBody()))
	defer srv.Close()

	c := explorer.NewWeatherClientWithURL(srv.URL, "key")
	days, err := c.Fetch(context.Background(), 47.66, -122.3)
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "Clear throughout the day.", days[0].Forecast)
	assert.Equal(t, day(1540015200), days[0].Time)
	assert.Equal(t, day(1540101600), days[1].Time)
}

func TestWeatherClient_MissingTime(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"daily": map[string]any{
			"data": []map[string]any{{"summary": "Cloudy."}},
		},
	}))
	defer srv.Close()

	c := explorer.NewWeatherClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), 47.66, -122.3)

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "time", malformed.Field)
}

func TestWeatherClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(errorHandler())
	defer srv.Close()

	c := explorer.NewWeatherClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), 47.66, -122.3)
	require.Error(t, err)
}

// ---- MeetupClient ----

func meetupBody() map[string]any {
	return map[string]any{
		"events": []map[string]any{
			{
				"link": "https://example.test/event/1",
				"group": map[string]any{
					"name":    "Seattle Gophers",
					"created": 1392771500000,
					"who":     "Gophers",
				},
			},
		},
	}
}

func TestMeetupClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, meetupBody()))
	defer srv.Close()

	c := explorer.NewMeetupClientWithURL(srv.URL, "key")
	meetups, err := c.Fetch(context.Background(), 47.66, -122.3)
	require.NoError(t, err)
	require.Len(t, meetups, 1)
	assert.Equal(t, "Seattle Gophers", meetups[0].Name)
	assert.Equal(t, "Gophers", meetups[0].Host)
	assert.Equal(t, day(1392771500), meetups[0].CreationDate)
}

func TestMeetupClient_MissingGroupName(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"events": []map[string]any{{"link": "https://example.test/event/2"}},
	}))
	defer srv.Close()

	c := explorer.NewMeetupClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), 47.66, -122.3)

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "group.name", malformed.Field)
}

// ---- MovieClient ----

func movieBody() map[string]any {
	return map[string]any{
		"results": []map[string]any{
			{
				"title":         "Sleepless in Seattle",
				"release_date":  "1993-06-24",
				"vote_count":    900,
				"vote_average":  6.6,
				"popularity":    12.7,
				"backdrop_path": "/abc123.jpg",
			},
		},
	}
}

func TestMovieClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, movieBody()))
	defer srv.Close()

	c := explorer.NewMovieClientWithURL(srv.URL, "key")
	movies, err := c.Fetch(context.Background(), "seattle")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Sleepless in Seattle", movies[0].Title)
	assert.Equal(t, "1993-06-24", movies[0].ReleasedOn)
	assert.Equal(t, 900, movies[0].TotalVotes)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/abc123.jpg", movies[0].ImageURL)
}

func TestMovieClient_MissingTitle(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"results": []map[string]any{{"popularity": 1.0}},
	}))
	defer srv.Close()

	c := explorer.NewMovieClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), "seattle")

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
}

// ---- YelpClient ----

func yelpBody() map[string]any {
	return map[string]any{
		"businesses": []map[string]any{
			{
				"url":       "https://example.test/biz/pike-place",
				"name":      "Pike Place Chowder",
				"rating":    4.5,
				"price":     "$$",
				"image_url": "https://example.test/img.jpg",
			},
		},
	}
}

func TestYelpClient_Fetch(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		jsonHandler(t, yelpBody())(w, r)
	}))
	defer srv.Close()

	c := explorer.NewYelpClientWithURL(srv.URL, "yelp-secret")
	businesses, err := c.Fetch(context.Background(), 47.66, -122.3)
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, "Pike Place Chowder", businesses[0].Name)
	assert.Equal(t, "$$", businesses[0].Price)
	assert.Equal(t, "Bearer yelp-secret", gotAuth)
}

func TestYelpClient_MissingName(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"businesses": []map[string]any{{"rating": 3.0}},
	}))
	defer srv.Close()

	c := explorer.NewYelpClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), 47.66, -122.3)

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
}

// ---- TrailClient ----

func trailBody() map[string]any {
	return map[string]any{
		"trails": []map[string]any{
			{
				"url":              "https://example.test/trail/7",
				"name":             "Rattlesnake Ledge",
				"location":         "North Bend, Washington",
				"length":           5.3,
				"conditionDate":    "2018-07-21 14:12:33",
				"conditionDetails": "Dry",
				"stars":            4.4,
				"starVotes":        200,
				"summary":          "A steady climb to a ledge.",
			},
			{
				"url":           "https://example.test/trail/8",
				"name":          "Twin Falls",
				"conditionDate": "2018-07-22",
			},
		},
	}
}

func TestTrailClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, trailBody()))
	defer srv.Close()

	c := explorer.NewTrailClientWithURL(srv.URL, "key")
	trails, err := c.Fetch(context.Background(), 47.66, -122.3)
	require.NoError(t, err)
	require.Len(t, trails, 2)

	assert.Equal(t, "Rattlesnake Ledge", trails[0].Name)
	assert.Equal(t, "2018-07-21", trails[0].ConditionDate)
	assert.Equal(t, "14:12:33", trails[0].ConditionTime)
	assert.Equal(t, "Dry", trails[0].Conditions)

	// A conditionDate without a time part leaves the time empty.
	assert.Equal(t, "2018-07-22", trails[1].ConditionDate)
	assert.Empty(t, trails[1].ConditionTime)
}

func TestTrailClient_MissingName(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, map[string]any{
		"trails": []map[string]any{{"summary": "no name"}},
	}))
	defer srv.Close()

	c := explorer.NewTrailClientWithURL(srv.URL, "key")
	_, err := c.Fetch(context.Background(), 47.66, -122.3)

	var malformed *explorer.MalformedPayloadError
	require.ErrorAs(t, err, &malformed)
}

// ---- Fetcher ----

func TestFetcher_Delegation(t *testing.T) {
	geoSrv := httptest.NewServer(jsonHandler(t, geocodeBody()))
	defer geoSrv.Close()

	weatherSrv := httptest.NewServer(jsonHandler(t, weatherBody()))
	defer weatherSrv.Close()

	meetupSrv := httptest.NewServer(jsonHandler(t, meetupBody()))
	defer meetupSrv.Close()

	movieSrv := httptest.NewServer(jsonHandler(t, movieBody()))
	defer movieSrv.Close()

	yelpSrv := httptest.NewServer(jsonHandler(t, yelpBody()))
	defer yelpSrv.Close()

	trailSrv := httptest.NewServer(jsonHandler(t, trailBody()))
	defer trailSrv.Close()

	f := explorer.NewFetcherWithClients(
		explorer.NewGeocodeClientWithURL(geoSrv.URL, "k"),
		explorer.NewWeatherClientWithURL(weatherSrv.URL, "k"),
		explorer.NewMeetupClientWithURL(meetupSrv.URL, "k"),
		explorer.NewMovieClientWithURL(movieSrv.URL, "k"),
		explorer.NewYelpClientWithURL(yelpSrv.URL, "k"),
		explorer.NewTrailClientWithURL(trailSrv.URL, "k"),
	)

	ctx := context.Background()

	loc, err := f.Geocode(ctx, "98105")
	require.NoError(t, err)
	assert.Equal(t, "Seattle, WA, USA", loc.FormattedQuery)

	days, err := f.Forecast(ctx, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	assert.Len(t, days, 2)

	meetups, err := f.Events(ctx, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	assert.Len(t, meetups, 1)

	movies, err := f.Movies(ctx, "seattle")
	require.NoError(t, err)
	assert.Len(t, movies, 1)

	businesses, err := f.Businesses(ctx, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	assert.Len(t, businesses, 1)

	trails, err := f.Trails(ctx, loc.Latitude, loc.Longitude)
	require.NoError(t, err)
	assert.Len(t, trails, 2)
}

func TestClient_Timeout(t *testing.T) {
	slowSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer slowSrv.Close()

	c := explorer.NewWeatherClientWithURL(slowSrv.URL, "key")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := c.Fetch(ctx, 47.66, -122.3)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
