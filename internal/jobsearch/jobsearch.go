package jobsearch

import "context"

// Listing is the normalized representation of one job posting. Every field is
// individually optional because the upstream provider's schema varies; an
// absent field stays nil rather than being inferred.
type Listing struct {
	Title       *string `json:"title"`
	CompanyName *string `json:"companyName"`
	Location    *string `json:"location"`
	Link        *string `json:"link"`
}

// Searcher fetches job listings for a search term. Implementations must
// return an empty slice without contacting the service when term is empty.
type Searcher interface {
	Search(ctx context.Context, term, location string, maxResults int) ([]Listing, error)
}
