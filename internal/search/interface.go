package search

import "github.com/pders01/rdash/internal/download"

// Searcher defines the minimal search API used by the TUI.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// Indexer is fed every full list the reconciler receives. Each call
// replaces the documents of that kind.
type Indexer interface {
	IndexMedia(items []download.MediaItem) error
	IndexDownloads(downloads []download.Download) error
}

// Index is what the TUI holds: something it can both feed and query.
type Index interface {
	Searcher
	Indexer
}

// DebugStatser provides lightweight stats for visibility/debugging.
// Implemented by engines that can report index doc counts, etc.
type DebugStatser interface {
	DocCount() (int, error)
}

// Result is one hit. Exactly one of Media and Download is set.
type Result struct {
	Media    *download.MediaItem
	Download *download.Download
	Score    float64
	Matches  []Match
}

func (r *Result) IsMedia() bool {
	return r.Media != nil
}

// Title is the label shown in the results list.
func (r *Result) Title() string {
	if r.Media != nil {
		return r.Media.Name()
	}
	if r.Download != nil {
		return r.Download.DisplayName()
	}
	return ""
}

// Match represents where text was found
type Match struct {
	Field  string
	Text   string
	Weight float64
}
