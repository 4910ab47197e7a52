package explorer

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"
)

// TrailClient fetches nearby hiking trails from the Hiking Project API.
type TrailClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const trailDefaultURL = "https://www.hikingproject.com/data/get-trails"

// NewTrailClient constructs a TrailClient with the given API key.
func NewTrailClient(apiKey string) *TrailClient {
	return &TrailClient{apiKey: apiKey, baseURL: trailDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewTrailClientWithURL constructs a TrailClient pointing at a custom base URL (for tests).
func NewTrailClientWithURL(baseURL, apiKey string) *TrailClient {
	return &TrailClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type trailsResponse struct {
	Trails []struct {
		URL              string  `json:"url"`
		Name             string  `json:"name"`
		Location         string  `json:"location"`
		Length           float64 `json:"length"`
		ConditionDate    string  `json:"conditionDate"` // "2018-07-21 14:12:33"
		ConditionDetails string  `json:"conditionDetails"`
		Stars            float64 `json:"stars"`
		StarVotes        int     `json:"starVotes"`
		Summary          string  `json:"summary"`
	} `json:"trails"`
}

// Fetch retrieves trails within 10 miles of the coordinates.
func (c *TrailClient) Fetch(ctx context.Context, lat, lng float64) ([]Trail, error) {
	endpoint := fmt.Sprintf("%s?lat=%f&lon=%f&maxDistance=10&key=%s", c.baseURL, lat, lng, c.apiKey)

	var raw trailsResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, "", &raw); err != nil {
		return nil, &UpstreamError{Source: "trails", Err: err}
	}

	trails := make([]Trail, 0, len(raw.Trails))
	for _, t := range raw.Trails {
		if t.Name == "" {
			return nil, &MalformedPayloadError{Source: "trails", Field: "name"}
		}
		// conditionDate carries date and time in one field; a missing time
		// part leaves ConditionTime empty.
		date, clock, _ := strings.Cut(t.ConditionDate, " ")
		trails = append(trails, Trail{
			TrailURL:      t.URL,
			Name:          t.Name,
			Location:      t.Location,
			Length:        t.Length,
			ConditionDate: date,
			ConditionTime: clock,
			Conditions:    t.ConditionDetails,
			Stars:         t.Stars,
			StarVotes:     t.StarVotes,
			Summary:       t.Summary,
		})
	}

	return trails, nil
}
