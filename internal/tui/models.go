package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/rdash/internal/action"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
	"github.com/pders01/rdash/internal/search"
)

type View int

const (
	ViewDownloads View = iota
	ViewMedia
	ViewAddMagnet
	ViewAddTorrent
	ViewFileSelect
	ViewDeleteConfirm
	ViewAlert
	ViewDetail
	ViewSearch
)

func (v View) String() string {
	switch v {
	case ViewDownloads:
		return "downloads"
	case ViewMedia:
		return "media"
	case ViewAddMagnet:
		return "add magnet"
	case ViewAddTorrent:
		return "add torrent"
	case ViewFileSelect:
		return "select files"
	case ViewDeleteConfirm:
		return "delete"
	case ViewAlert:
		return "alert"
	case ViewDetail:
		return "detail"
	case ViewSearch:
		return "search"
	default:
		return "unknown"
	}
}

// isTab reports whether v is one of the two top-level lists.
func (v View) isTab() bool {
	return v == ViewDownloads || v == ViewMedia
}

type downloadItem struct {
	download download.Download
	bar      string
}

func newDownloadItem(d download.Download, bar *progress.Model) downloadItem {
	item := downloadItem{download: d}
	if bar != nil && d.Status.Transferring() {
		item.bar = bar.ViewAs(download.ClampProgress(d.Progress) / 100)
	}
	return item
}

func (i downloadItem) Title() string { return i.download.DisplayName() }

func (i downloadItem) Description() string {
	text := download.StatusText(i.download)
	style := lipgloss.NewStyle().Foreground(MutedColor)
	switch i.download.Status {
	case download.StatusError:
		style = lipgloss.NewStyle().Foreground(ErrorColor)
	case download.StatusComplete:
		style = lipgloss.NewStyle().Foreground(SuccessColor)
	case download.StatusAwaitingSelection:
		style = lipgloss.NewStyle().Foreground(UnreadColor)
	}
	if i.bar != "" {
		return i.bar + " " + style.Render(text)
	}
	return style.Render(text)
}

func (i downloadItem) FilterValue() string {
	return i.download.DisplayName() + " " + string(i.download.Status)
}

type mediaItem struct {
	item  download.MediaItem
	local bool
}

func (i mediaItem) Title() string { return i.item.Name() }

func (i mediaItem) Description() string {
	var parts []string
	if i.item.Size > 0 {
		parts = append(parts, humanBytes(i.item.Size))
	}
	if i.item.FileType != "" {
		parts = append(parts, i.item.FileType)
	}
	if i.local {
		parts = append(parts, "local")
	}
	parts = append(parts, truncateMiddle(i.item.Path, 60))
	return renderMuted(strings.Join(parts, " • "))
}

func (i mediaItem) FilterValue() string { return i.item.Name() }

type searchResultItem struct {
	result *search.Result
}

func (i searchResultItem) Title() string {
	if i.result.IsMedia() {
		return lipgloss.NewStyle().Foreground(SecondaryColor).Bold(true).Render("▶ " + i.result.Title())
	}
	return lipgloss.NewStyle().Foreground(TextColor).Render("↓ " + i.result.Title())
}

func (i searchResultItem) Description() string {
	if i.result.IsMedia() {
		return renderMuted(truncateMiddle(i.result.Media.Path, 60))
	}
	return renderMuted(download.StatusText(*i.result.Download))
}

func (i searchResultItem) FilterValue() string { return i.result.Title() }

// deleteTarget is the row a DeleteConfirm view is asking about.
type deleteTarget struct {
	id    download.ID
	path  string
	label string
	from  View
}

func (t deleteTarget) request() action.Request {
	if t.from == ViewMedia {
		return action.DeleteMedia{Path: t.path, Confirmed: true}
	}
	return action.DeleteDownload{ID: t.id, Confirmed: true}
}

// matches reports whether req is the delete this target asked about.
func (t deleteTarget) matches(req action.Request) bool {
	switch r := req.(type) {
	case action.DeleteDownload:
		return t.from != ViewMedia && t.id == r.ID
	case action.DeleteMedia:
		return t.from == ViewMedia && t.path == r.Path
	}
	return false
}

func (t deleteTarget) heading() string {
	if t.from == ViewMedia {
		return "⚠ Delete File"
	}
	return "⚠ Delete Download"
}

type downloadsLoadedMsg struct {
	downloads []download.Download
	err       error
}

type mediaLoadedMsg struct {
	items []download.MediaItem
	err   error
}

type filesLoadedMsg struct {
	id    download.ID
	files []download.File
	err   error
}

type streamEventMsg struct {
	event reconcile.Event
}

type streamClosedMsg struct{}

// actionDoneMsg carries the request alongside its outcome so the result is
// applied to the session that submitted it, not whichever one is open now.
type actionDoneMsg struct {
	req     action.Request
	outcome action.Outcome
}

type detailRenderedMsg struct {
	id      download.ID
	content string
}

type searchResultsMsg struct {
	query   string
	results []*search.Result
}

type searchDebounceFireMsg struct {
	seq int
}

type mediaOpenedMsg struct {
	name string
	err  error
}

type errorMsg struct {
	err error
}
