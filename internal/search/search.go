package search

// Suggestion is a single autocomplete hit returned to the caller.
type Suggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Postcode string `json:"postcode,omitempty"`
}

// Query describes an autocomplete request.
type Query struct {
	Text  string
	Limit int
}

// Response is the envelope returned by the locations endpoint.
type Response struct {
	Suggestions []Suggestion `json:"suggestions"`
	Total       int          `json:"total"`
	Query       string       `json:"query"`
}

// Searcher can execute a location lookup.
type Searcher interface {
	Search(q Query) ([]Suggestion, int, error)
	Healthy() bool
}

// LocationRecord is the data we index for a location.
type LocationRecord struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`
}
