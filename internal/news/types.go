// Package news defines core types shared across subsystems.
package news

// Story is one front-page entry. ID is the stable identifier assigned
// by the source site and doubles as the archive directory name.
type Story struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// FetchResult is the raw outcome of a single GET.
type FetchResult struct {
	// Body is the response body as returned by the server. Status codes
	// are not inspected; an error page body is a valid result.
	Body []byte
	// EffectiveURL is the URL after any redirects.
	EffectiveURL string
}

// StoryState is the terminal state of a story worker run.
type StoryState string

// Story worker terminal states.
const (
	StorySkipped  StoryState = "skipped"
	StoryArchived StoryState = "archived"
	StoryFailed   StoryState = "failed"
)

// StoryOutcome summarizes one story worker run.
type StoryOutcome struct {
	Story       Story
	State       StoryState
	LinksSaved  int
	LinksFailed int
	Err         error
}
