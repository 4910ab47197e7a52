package explorer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// WeatherClient fetches the daily forecast from a Dark Sky compatible API.
type WeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const weatherDefaultURL = "https://api.darksky.net/forecast"

// NewWeatherClient constructs a WeatherClient with the given API key.
func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{apiKey: apiKey, baseURL: weatherDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewWeatherClientWithURL constructs a WeatherClient pointing at a custom base URL (for tests).
func NewWeatherClientWithURL(baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type forecastResponse struct {
	Daily struct {
		Data []struct {
			Summary string `json:"summary"`
			Time    int64  `json:"time"`
		} `json:"data"`
	} `json:"daily"`
}

// Fetch retrieves one Weather record per forecast day for the coordinates.
func (c *WeatherClient) Fetch(ctx context.Context, lat, lng float64) ([]Weather, error) {
	endpoint := fmt.Sprintf("%s/%s/%f,%f", c.baseURL, c.apiKey, lat, lng)

	var raw forecastResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, "", &raw); err != nil {
		return nil, &UpstreamError{Source: "weather", Err: err}
	}

	days := make([]Weather, 0, len(raw.Daily.Data))
	for _, day := range raw.Daily.Data {
		if day.Time == 0 {
			return nil, &MalformedPayloadError{Source: "weather", Field: "time"}
		}
		days = append(days, Weather{
			Forecast: day.Summary,
			Time:     dayString(time.Unix(day.Time, 0)),
		})
	}

	return days, nil
}
