package websearch

import "context"

// Searcher defines the contract for real-time web search backends.
type Searcher interface {
	// Search runs the question against the web and returns a textual summary.
	// An empty string with a nil error means the search produced nothing usable.
	Search(ctx context.Context, question string) (string, error)
}
