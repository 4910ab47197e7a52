package explorer

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"
)

// YelpClient searches Yelp for businesses near a coordinate. Yelp is the
// one upstream that authenticates with a bearer header rather than a query
// parameter.
type YelpClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const yelpDefaultURL = "https://api.yelp.com/v3/businesses/search"

// NewYelpClient constructs a YelpClient with the given API key.
func NewYelpClient(apiKey string) *YelpClient {
	return &YelpClient{apiKey: apiKey, baseURL: yelpDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewYelpClientWithURL constructs a YelpClient pointing at a custom base URL (for tests).
func NewYelpClientWithURL(baseURL, apiKey string) *YelpClient {
	return &YelpClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type yelpSearchResponse struct {
	Businesses []struct {
		URL      string  `json:"url"`
		Name     string  `json:"name"`
		Rating   float64 `json:"rating"`
		Price    string  `json:"price"`
		ImageURL string  `json:"image_url"`
	} `json:"businesses"`
}

// Fetch retrieves business listings near the coordinates.
func (c *YelpClient) Fetch(ctx context.Context, lat, lng float64) ([]Business, error) {
	endpoint := fmt.Sprintf("%s?latitude=%f&longitude=%f", c.baseURL, lat, lng)

	var raw yelpSearchResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, c.apiKey, &raw); err != nil {
		return nil, &UpstreamError{Source: "yelp", Err: err}
	}

	businesses := make([]Business, 0, len(raw.Businesses))
	for _, b := range raw.Businesses {
		if b.Name == "" {
			return nil, &MalformedPayloadError{Source: "yelp", Field: "name"}
		}
		businesses = append(businesses, Business{
			URL:      b.URL,
			Name:     b.Name,
			Rating:   b.Rating,
			Price:    b.Price,
			ImageURL: b.ImageURL,
		})
	}

	return businesses, nil
}
