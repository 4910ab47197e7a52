package explorer

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"
)

// GeocodeClient resolves free-text queries via the Google Geocoding API.
type GeocodeClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const geocodeDefaultURL = "https://maps.googleapis.com/maps/api/geocode/json"

// NewGeocodeClient constructs a GeocodeClient with the given API key.
func NewGeocodeClient(apiKey string) *GeocodeClient {
	return &GeocodeClient{apiKey: apiKey, baseURL: geocodeDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewGeocodeClientWithURL constructs a GeocodeClient pointing at a custom base URL (for tests).
func NewGeocodeClientWithURL(baseURL, apiKey string) *GeocodeClient {
	return &GeocodeClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type geocodeResponse struct {
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Fetch resolves query to a Location built from the first geocode result.
// Returns ErrNoGeocodeResult when the API has nothing for the query.
func (c *GeocodeClient) Fetch(ctx context.Context, query string) (*Location, error) {
	endpoint := c.baseURL + "?address=" + url.QueryEscape(query) + "&key=" + c.apiKey

	var raw geocodeResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, "", &raw); err != nil {
		return nil, &UpstreamError{Source: "geocode", Err: err}
	}

	if len(raw.Results) == 0 {
		return nil, ErrNoGeocodeResult
	}

	first := raw.Results[0]
	if first.FormattedAddress == "" {
		return nil, &MalformedPayloadError{Source: "geocode", Field: "formatted_address"}
	}

	return &Location{
		SearchQuery:    query,
		FormattedQuery: first.FormattedAddress,
		Latitude:       first.Geometry.Location.Lat,
		Longitude:      first.Geometry.Location.Lng,
	}, nil
}
