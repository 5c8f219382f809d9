package reconcile

import (
	"github.com/pders01/rdash/internal/download"
)

// Apply folds one event into the state. It has no side effects; the
// returned Effects describe the renders and fetches the caller owes.
func Apply(s State, ev Event) (State, Effects) {
	if s.index == nil {
		s = NewState().withMedia(s.media)
	}

	switch ev := ev.(type) {
	case DownloadPatched:
		return applyPatch(s, ev.Patch)

	case DownloadsChanged:
		return s, Effects{RefreshDownloads: true}

	case DownloadsLoaded:
		return s.withDownloads(ev.Downloads), Effects{RenderDownloads: true}

	case DownloadRemoved:
		if !s.Has(ev.ID) {
			return s, Effects{}
		}
		return s.without(ev.ID), Effects{RenderDownloads: true}

	case MediaChanged:
		return s, Effects{RefreshMedia: true}

	case MediaLoaded:
		return s.withMedia(ev.Items), Effects{RenderMedia: true}

	case Malformed:
		err := ev.Err
		if err == nil {
			err = download.ErrMalformedPatch
		}
		return s, Effects{Dropped: err}
	}

	return s, Effects{}
}

func applyPatch(s State, p download.Patch) (State, Effects) {
	i, ok := s.index[p.ID]
	if !ok {
		// New ids only enter through a full refresh.
		return s, Effects{RefreshDownloads: true}
	}

	next := s.withRow(i, p.Apply(s.downloads[i]))
	eff := Effects{RenderRows: []download.ID{p.ID}}
	if p.Status != nil && ActionFor(*p.Status) == PatchAndRefresh {
		eff.RefreshDownloads = true
	}
	return next, eff
}
