package explorer

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// MeetupClient fetches upcoming events near a coordinate from the Meetup API.
type MeetupClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

const meetupDefaultURL = "https://api.meetup.com/find/upcoming_events"

// NewMeetupClient constructs a MeetupClient with the given API key.
func NewMeetupClient(apiKey string) *MeetupClient {
	return &MeetupClient{apiKey: apiKey, baseURL: meetupDefaultURL, client: newHTTPClient(), limiter: newLimiter()}
}

// NewMeetupClientWithURL constructs a MeetupClient pointing at a custom base URL (for tests).
func NewMeetupClientWithURL(baseURL, apiKey string) *MeetupClient {
	return &MeetupClient{apiKey: apiKey, baseURL: baseURL, client: newHTTPClient(), limiter: newLimiter()}
}

type meetupResponse struct {
	Events []struct {
		Link  string `json:"link"`
		Group struct {
			Name    string `json:"name"`
			Created int64  `json:"created"` // unix milliseconds
			Who     string `json:"who"`
		} `json:"group"`
	} `json:"events"`
}

// Fetch retrieves up to 20 upcoming events near the coordinates.
func (c *MeetupClient) Fetch(ctx context.Context, lat, lng float64) ([]Meetup, error) {
	endpoint := fmt.Sprintf(
		"%s?sign=true&photo-host=public&page=20&lat=%f&lon=%f&key=%s",
		c.baseURL, lat, lng, c.apiKey,
	)

	var raw meetupResponse
	if err := doGet(ctx, c.client, c.limiter, endpoint, "", &raw); err != nil {
		return nil, &UpstreamError{Source: "meetups", Err: err}
	}

	meetups := make([]Meetup, 0, len(raw.Events))
	for _, ev := range raw.Events {
		if ev.Group.Name == "" {
			return nil, &MalformedPayloadError{Source: "meetups", Field: "group.name"}
		}
		meetups = append(meetups, Meetup{
			Link:         ev.Link,
			Name:         ev.Group.Name,
			CreationDate: dayString(time.UnixMilli(ev.Group.Created)),
			Host:         ev.Group.Who,
		})
	}

	return meetups, nil
}
