package explorer

// Location is a geocoded result for a free-text search query.
// SearchQuery is the cache key: one stored row per distinct query string.
type Location struct {
	ID             int64   `json:"id,omitempty"`
	SearchQuery    string  `json:"search_query"`
	FormattedQuery string  `json:"formatted_query"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// LocationRef is the reference the frontend passes to the five resource
// endpoints: the id and coordinates of a previously resolved Location,
// plus the original search string (used only by the movie search).
type LocationRef struct {
	ID          int64   `json:"id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	SearchQuery string  `json:"search_query,omitempty"`
}

// Weather is one forecast day for a location.
type Weather struct {
	ID         int64  `json:"id,omitempty"`
	Forecast   string `json:"forecast"`
	Time       string `json:"time"`
	LocationID int64  `json:"location_id,omitempty"`
}

// Meetup is one upcoming event near a location.
type Meetup struct {
	ID           int64  `json:"id,omitempty"`
	Link         string `json:"link"`
	Name         string `json:"name"`
	CreationDate string `json:"creation_date"`
	Host         string `json:"host"`
	LocationID   int64  `json:"location_id,omitempty"`
}

// Movie is one movie related to a location's search query.
type Movie struct {
	ID           int64   `json:"id,omitempty"`
	Title        string  `json:"title"`
	ReleasedOn   string  `json:"released_on"`
	TotalVotes   int     `json:"total_votes"`
	AverageVotes float64 `json:"average_votes"`
	Popularity   float64 `json:"popularity"`
	ImageURL     string  `json:"image_url"`
	LocationID   int64   `json:"location_id,omitempty"`
}

// Business is one business listing near a location.
type Business struct {
	ID         int64   `json:"id,omitempty"`
	URL        string  `json:"url"`
	Name       string  `json:"name"`
	Rating     float64 `json:"rating"`
	Price      string  `json:"price"`
	ImageURL   string  `json:"image_url"`
	LocationID int64   `json:"location_id,omitempty"`
}

// Trail is one hiking trail near a location.
type Trail struct {
	ID            int64   `json:"id,omitempty"`
	TrailURL      string  `json:"trail_url"`
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Length        float64 `json:"length"`
	ConditionDate string  `json:"condition_date"`
	ConditionTime string  `json:"condition_time"`
	Conditions    string  `json:"conditions"`
	Stars         float64 `json:"stars"`
	StarVotes     int     `json:"star_votes"`
	Summary       string  `json:"summary"`
	LocationID    int64   `json:"location_id,omitempty"`
}
