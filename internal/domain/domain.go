package domain

// Novel stores information about a series scraped from the group page
type Novel struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Chapter stores a single chapter entry scraped from a novel page.
// Number is the identity of a chapter within its novel and may carry a
// fractional part for side chapters (12.5).
type Chapter struct {
	Number    float64 `json:"number"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Timestamp string  `json:"timestamp"`
}

// Release is a chapter annotated with its parent novel, ready for
// notification delivery.
type Release struct {
	Chapter
	NovelID    string
	NovelTitle string
	NovelURL   string
	CoverURL   string
}

// NovelState holds the cached chapter list for one novel. Chapters is
// replaced wholesale on every successful parse, newest first.
type NovelState struct {
	Chapters  []Chapter `json:"chapters"`
	LastCheck string    `json:"last_check,omitempty"`
}

// Snapshot is the persisted cache of the last successful run.
type Snapshot struct {
	Novels    map[string]NovelState `json:"novels"`
	LastCheck string                `json:"last_check,omitempty"`
}

// NewSnapshot returns the empty default shape used when no cache exists
// or the cache file cannot be read.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Novels: make(map[string]NovelState),
	}
}

// NovelStatus is one row of the status board scraped from the group
// showcase pages. LastUpdate is display-ready: a Discord relative
// timestamp ("<t:123:R>") when the page carried a machine-readable time,
// otherwise whatever human-readable text the page showed.
type NovelStatus struct {
	Title      string
	URL        string
	Status     string
	LastUpdate string
}
