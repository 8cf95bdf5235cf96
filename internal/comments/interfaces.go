package comments

import "context"

// Resolver translates a vanity alias into a SteamID64.
type Resolver interface {
	Resolve(ctx context.Context, alias string) (string, error)
}

// FeedFetcher retrieves the comment feed for a SteamID64.
type FeedFetcher interface {
	Fetch(ctx context.Context, steamID string) (FeedDocument, error)
}

// Extractor turns a feed document into ordered, deduplicated records.
type Extractor interface {
	Extract(doc FeedDocument) ([]Record, error)
}

// Enricher fills in fields the markup left empty. Implementations must return
// the input slice untouched on failure.
type Enricher interface {
	Enrich(ctx context.Context, records []Record) ([]Record, error)
}
