package explorer

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// MovieClient searches The Movie Database for titles matching a query.
type MovieClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const (
	movieDefaultURL   = "https://api.themoviedb.org/3/search/movie"
	movieImageBaseURL = "https://image.tmdb.org/t/p/original"
)

// NewMovieClient constructs a MovieClient with the given API key.
func NewMovieClient(apiKey string) *MovieClient {
	return &MovieClient{apiKey: apiKey, baseURL: movieDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewMovieClientWithURL constructs a MovieClient pointing at a custom base URL (for tests).
func NewMovieClientWithURL(baseURL, apiKey string) *MovieClient {
	return &MovieClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type movieSearchResponse struct {
	Results []struct {
		Title        string  `json:"title"`
		ReleaseDate  string  `json:"release_date"`
		VoteCount    int     `json:"vote_count"`
		VoteAverage  float64 `json:"vote_average"`
		Popularity   float64 `json:"popularity"`
		BackdropPath string  `json:"backdrop_path"`
	} `json:"results"`
}

// Fetch searches movies by the location's original search string. Unlike the
// other resources this one keys off text, not coordinates.
func (c *MovieClient) Fetch(ctx context.Context, query string) ([]Movie, error) {
	endpoint := c.baseURL +
		"?query=" + url.QueryEscape(query) +
		"&page=1&include_adult=false&language=en-US&api_key=" + c.apiKey

	var raw movieSearchResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, "", &raw); err != nil {
		return nil, &UpstreamError{Source: "movies", Err: err}
	}

	movies := make([]Movie, 0, len(raw.Results))
	for _, m := range raw.Results {
		if m.Title == "" {
			return nil, &MalformedPayloadError{Source: "movies", Field: "title"}
		}
		movies = append(movies, Movie{
			Title:        m.Title,
			ReleasedOn:   m.ReleaseDate,
			TotalVotes:   m.VoteCount,
			AverageVotes: m.VoteAverage,
			Popularity:   m.Popularity,
			ImageURL:     movieImageBaseURL + m.BackdropPath,
		})
	}

	return movies, nil
}
