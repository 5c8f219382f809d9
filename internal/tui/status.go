package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgRefreshing      = "Refreshing…"
	MsgAddingMagnet    = "Adding magnet…"
	MsgUploading       = "Uploading torrent…"
	MsgSelecting       = "Starting download…"
	MsgDeleting        = "Deleting…"
	MsgLoadingFiles    = "Loading files…"
	MsgRendering       = "Rendering…"
	MsgNoResults       = "No results"
	MsgDownloadAdded   = "Download added"
	MsgDownloadDeleted = "Download deleted"
	MsgFileDeleted     = "File deleted"
	MsgFilesSelected   = "Files selected"
	MsgSelectionGone   = "Download left the list"
	MsgNotAwaiting     = "Download is not waiting for file selection"
)

// MsgTitles is the media panel count.
func MsgTitles(n int) string {
	return fmt.Sprintf("%d titles", n)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgOpening(name string) string {
	return fmt.Sprintf("Opening '%s'", strings.TrimSpace(name))
}

func MsgSearchEngine(engine string, docs int) string {
	if docs < 0 {
		return "Search: " + engine
	}
	return fmt.Sprintf("Search: %s • idx: %d", engine, docs)
}
