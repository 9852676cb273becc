package news

import (
	"context"
	"time"
)

// Fetcher executes a single GET and returns the body plus the
// effective URL. Implementations enforce the connection ceilings and
// the fetch timeout; they do not retry and do not classify HTTP status
// codes as errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (FetchResult, error)
}

// Store persists story artifacts under <story_id>/<file_name> and
// exposes the dedup marker check.
type Store interface {
	Exists(storyID string) bool
	Save(ctx context.Context, storyID, fileName string, data []byte) error
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces iteration IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
