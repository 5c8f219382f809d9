package reconcile

import (
	"fmt"

	"github.com/pders01/rdash/internal/download"
)

// Event is anything the reconciler can be fed: pushed stream events,
// fetch results, and follow-ups from completed actions.
type Event interface {
	isEvent()
}

// DownloadPatched carries a partial record pushed by the server.
type DownloadPatched struct {
	Patch download.Patch
}

// DownloadsChanged asks for a full downloads refresh.
type DownloadsChanged struct{}

// DownloadsLoaded is the result of a full downloads fetch.
type DownloadsLoaded struct {
	Downloads []download.Download
}

// DownloadRemoved drops one row after a confirmed, successful delete.
type DownloadRemoved struct {
	ID download.ID
}

// MediaChanged is the server's signal that the collection changed.
type MediaChanged struct{}

// MediaLoaded is the result of a full media fetch.
type MediaLoaded struct {
	Items []download.MediaItem
}

// Malformed wraps a pushed payload that could not be decoded.
type Malformed struct {
	Event string
	Err   error
}

func (DownloadPatched) isEvent()  {}
func (DownloadsChanged) isEvent() {}
func (DownloadsLoaded) isEvent()  {}
func (DownloadRemoved) isEvent()  {}
func (MediaChanged) isEvent()     {}
func (MediaLoaded) isEvent()      {}
func (Malformed) isEvent()        {}

// Effects lists what the caller must do after an event was applied.
type Effects struct {
	// RenderRows are rows to re-render in place.
	RenderRows       []download.ID
	RenderDownloads  bool
	RenderMedia      bool
	RefreshDownloads bool
	RefreshMedia     bool
	// Dropped is set when the event was discarded.
	Dropped error
	// SelectionClosed is set by Reconciler when a refresh removed the
	// download the open selection belonged to.
	SelectionClosed bool
}

func (e Effects) Empty() bool {
	return len(e.RenderRows) == 0 && !e.RenderDownloads && !e.RenderMedia &&
		!e.RefreshDownloads && !e.RefreshMedia && e.Dropped == nil && !e.SelectionClosed
}

func (e Effects) String() string {
	return fmt.Sprintf("rows=%v downloads=%t media=%t refreshDownloads=%t refreshMedia=%t dropped=%v selectionClosed=%t",
		e.RenderRows, e.RenderDownloads, e.RenderMedia, e.RefreshDownloads, e.RefreshMedia, e.Dropped, e.SelectionClosed)
}
