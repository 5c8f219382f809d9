package stream

import (
	"github.com/r3labs/sse/v2"

	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
)

// Named events emitted by the backend.
const (
	EventDownload      = "download"
	EventRefreshMovies = "refresh-movies"
)

// Decode turns one SSE frame into a reconciler event. ok is false for
// frames the client ignores: keepalives and unknown event names.
func Decode(ev *sse.Event) (reconcile.Event, bool) {
	if ev == nil {
		return nil, false
	}

	switch name := string(ev.Event); name {
	case EventDownload:
		p, err := download.DecodePatch(ev.Data)
		if err != nil {
			return reconcile.Malformed{Event: name, Err: err}, true
		}
		return reconcile.DownloadPatched{Patch: p}, true

	case EventRefreshMovies:
		return reconcile.MediaChanged{}, true

	default:
		if len(ev.Comment) == 0 {
			debuglog.Debugf("stream: ignoring event %q", name)
		}
		return nil, false
	}
}
