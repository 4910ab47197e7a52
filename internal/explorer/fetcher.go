package explorer

import "context"

// geocodeFetcher is the interface satisfied by GeocodeClient.
type geocodeFetcher interface {
	Fetch(ctx context.Context, query string) (*Location, error)
}

// weatherFetcher is the interface satisfied by WeatherClient.
type weatherFetcher interface {
	Fetch(ctx context.Context, lat, lng float64) ([]Weather, error)
}

// meetupFetcher is the interface satisfied by MeetupClient.
type meetupFetcher interface {
	Fetch(ctx context.Context, lat, lng float64) ([]Meetup, error)
}

// movieFetcher is the interface satisfied by MovieClient.
type movieFetcher interface {
	Fetch(ctx context.Context, query string) ([]Movie, error)
}

// yelpFetcher is the interface satisfied by YelpClient.
type yelpFetcher interface {
	Fetch(ctx context.Context, lat, lng float64) ([]Business, error)
}

// trailFetcher is the interface satisfied by TrailClient.
type trailFetcher interface {
	Fetch(ctx context.Context, lat, lng float64) ([]Trail, error)
}

// APIKeys holds one key per upstream API.
type APIKeys struct {
	Geocode string
	Weather string
	Meetup  string
	Movie   string
	Yelp    string
	Trail   string
}

// Fetcher bundles the six upstream clients behind one dependency.
type Fetcher struct {
	geocode geocodeFetcher
	weather weatherFetcher
	meetups meetupFetcher
	movies  movieFetcher
	yelp    yelpFetcher
	trails  trailFetcher
}

// NewFetcher constructs a Fetcher with all six API clients using production URLs.
func NewFetcher(keys APIKeys) *Fetcher {
	return &Fetcher{
		geocode: NewGeocodeClient(keys.Geocode),
		weather: NewWeatherClient(keys.Weather),
		meetups: NewMeetupClient(keys.Meetup),
		movies:  NewMovieClient(keys.Movie),
		yelp:    NewYelpClient(keys.Yelp),
		trails:  NewTrailClient(keys.Trail),
	}
}

// NewFetcherWithClients constructs a Fetcher with injectable clients (used in tests).
func NewFetcherWithClients(g geocodeFetcher, w weatherFetcher, me meetupFetcher, mo movieFetcher, y yelpFetcher, t trailFetcher) *Fetcher {
	return &Fetcher{geocode: g, weather: w, meetups: me, movies: mo, yelp: y, trails: t}
}

// Geocode resolves a free-text query to a Location.
func (f *Fetcher) Geocode(ctx context.Context, query string) (*Location, error) {
	return f.geocode.Fetch(ctx, query)
}

// Forecast fetches the daily weather for a coordinate.
func (f *Fetcher) Forecast(ctx context.Context, lat, lng float64) ([]Weather, error) {
	return f.weather.Fetch(ctx, lat, lng)
}

// Events fetches upcoming meetups near a coordinate.
func (f *Fetcher) Events(ctx context.Context, lat, lng float64) ([]Meetup, error) {
	return f.meetups.Fetch(ctx, lat, lng)
}

// Movies searches movies for a location's search string.
func (f *Fetcher) Movies(ctx context.Context, query string) ([]Movie, error) {
	return f.movies.Fetch(ctx, query)
}

// Businesses fetches business listings near a coordinate.
func (f *Fetcher) Businesses(ctx context.Context, lat, lng float64) ([]Business, error) {
	return f.yelp.Fetch(ctx, lat, lng)
}

// Trails fetches hiking trails near a coordinate.
func (f *Fetcher) Trails(ctx context.Context, lat, lng float64) ([]Trail, error) {
	return f.trails.Fetch(ctx, lat, lng)
}
