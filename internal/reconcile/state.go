// Package reconcile owns the client-side download and media cache. Apply is
// a pure function from (state, event) to (state, effects); Reconciler wraps
// it with the per-session selection set.
package reconcile

import "github.com/pders01/rdash/internal/download"

// State is the cached view of the server. Values are never mutated after
// construction; Apply returns a new State when anything changes.
type State struct {
	downloads []download.Download
	index     map[download.ID]int
	media     []download.MediaItem
}

func NewState() State {
	return State{index: map[download.ID]int{}}
}

// Downloads returns the cached downloads in list order.
func (s State) Downloads() []download.Download {
	out := make([]download.Download, len(s.downloads))
	copy(out, s.downloads)
	return out
}

func (s State) Download(id download.ID) (download.Download, bool) {
	i, ok := s.index[id]
	if !ok {
		return download.Download{}, false
	}
	return s.downloads[i], true
}

func (s State) Has(id download.ID) bool {
	_, ok := s.index[id]
	return ok
}

func (s State) DownloadCount() int {
	return len(s.downloads)
}

// Media returns the cached media collection in list order.
func (s State) Media() []download.MediaItem {
	out := make([]download.MediaItem, len(s.media))
	copy(out, s.media)
	return out
}

func (s State) MediaCount() int {
	return len(s.media)
}

func (s State) withDownloads(list []download.Download) State {
	next := State{
		downloads: make([]download.Download, 0, len(list)),
		index:     make(map[download.ID]int, len(list)),
		media:     s.media,
	}
	for _, d := range list {
		if _, dup := next.index[d.ID]; dup {
			continue
		}
		d.Progress = download.ClampProgress(d.Progress)
		next.index[d.ID] = len(next.downloads)
		next.downloads = append(next.downloads, d)
	}
	return next
}

// withRow replaces the row at i. The index is shared since ids don't move.
func (s State) withRow(i int, d download.Download) State {
	rows := make([]download.Download, len(s.downloads))
	copy(rows, s.downloads)
	rows[i] = d
	return State{downloads: rows, index: s.index, media: s.media}
}

func (s State) without(id download.ID) State {
	rows := make([]download.Download, 0, len(s.downloads))
	for _, d := range s.downloads {
		if d.ID != id {
			rows = append(rows, d)
		}
	}
	return s.withDownloads(rows)
}

func (s State) withMedia(items []download.MediaItem) State {
	media := make([]download.MediaItem, len(items))
	copy(media, items)
	return State{downloads: s.downloads, index: s.index, media: media}
}
