package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const httpTimeout = 10 * time.Second

// Each client throttles its own upstream: 5 requests/sec with a burst of 5
// keeps us well inside every provider's free tier.
const (
	upstreamRPS   = 5
	upstreamBurst = 5
)

// newHTTPClient returns an http.Client with a 10-second timeout.
func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// newLimiter returns the per-client upstream rate limiter.
func newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(upstreamRPS), upstreamBurst)
}

// doGet waits on the limiter, performs a GET request, and decodes the JSON
// response into dst. A non-empty bearer token is sent as an Authorization
// header (Yelp authenticates that way instead of a query parameter).
func doGet(ctx context.Context, client *http.Client, limiter *rate.Limiter, rawURL, bearer string, dst any) error {
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", rawURL, err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", rawURL, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}

	return nil
}

// dayString renders a unix timestamp the way the frontend expects,
// e.g. "Mon Jan 02 2006".
func dayString(t time.Time) string {
	return t.Format("Mon Jan 02 2006")
}
