package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/media"
)

const searchLimit = 20

// refreshDownloads starts a list fetch unless one is already in flight, in
// which case a single trailing fetch is queued.
func (a *App) refreshDownloads() tea.Cmd {
	if !a.downloadsRefresh.Request() {
		return nil
	}
	return a.fetchDownloads()
}

func (a *App) refreshMedia() tea.Cmd {
	if !a.mediaRefresh.Request() {
		return nil
	}
	return a.fetchMedia()
}

func (a *App) fetchDownloads() tea.Cmd {
	ctx, client := a.ctx, a.client
	return func() tea.Msg {
		downloads, err := client.Downloads(ctx)
		return downloadsLoadedMsg{downloads: downloads, err: err}
	}
}

func (a *App) fetchMedia() tea.Cmd {
	ctx, client := a.ctx, a.client
	return func() tea.Msg {
		items, err := client.Media(ctx)
		return mediaLoadedMsg{items: items, err: err}
	}
}

func (a *App) fetchFiles(id download.ID) tea.Cmd {
	ctx, client := a.ctx, a.client
	return func() tea.Msg {
		files, err := client.Files(ctx, id)
		return filesLoadedMsg{id: id, files: files, err: err}
	}
}

// listen waits for the next pushed event. Update re-arms it after each one.
func (a *App) listen() tea.Cmd {
	events := a.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: ev}
	}
}

func detailMarkdown(d download.Download) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.DisplayName())
	fmt.Fprintf(&b, "*%s*\n\n", download.StatusText(d))
	b.WriteString("| Field | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| ID | `%s` |\n", d.ID)
	fmt.Fprintf(&b, "| Status | %s |\n", d.Status)
	if d.Status.Transferring() || d.Status == download.StatusComplete {
		fmt.Fprintf(&b, "| Progress | %s%% |\n", download.FormatProgress(d.Progress))
	}
	if d.SubtitleStatus != "" {
		fmt.Fprintf(&b, "| Subtitles | %s |\n", d.SubtitleStatus)
	}
	if d.ErrorMessage != "" {
		fmt.Fprintf(&b, "\n---\n\n**Error:** %s\n", d.ErrorMessage)
	}
	return b.String()
}

// renderDetail renders d as markdown off the loop. The renderer is resolved
// here so only Update touches the cached instance.
func (a *App) renderDetail(d download.Download) tea.Cmd {
	r, err := a.getRenderer()
	if err != nil {
		content := "Error initializing renderer: " + err.Error()
		return func() tea.Msg { return detailRenderedMsg{id: d.ID, content: content} }
	}
	return func() tea.Msg {
		rendered, err := r.Render(detailMarkdown(d))
		if err != nil {
			return detailRenderedMsg{id: d.ID, content: fmt.Sprintf("Failed to render download: %s\n\nPress Escape to go back.", err)}
		}
		return detailRenderedMsg{id: d.ID, content: rendered}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	index := a.index
	return func() tea.Msg {
		results, err := index.Search(query, searchLimit)
		if err != nil {
			return errorMsg{err: wrapErr("search", err)}
		}
		return searchResultsMsg{query: query, results: results}
	}
}

func (a *App) openMedia(item download.MediaItem) tea.Cmd {
	launcher := a.launcher
	return func() tea.Msg {
		err := launcher.Open(item)
		if errors.Is(err, media.ErrNotLocal) {
			err = fmt.Errorf("%w (configure media.path_prefix to map server paths)", err)
		}
		return mediaOpenedMsg{name: item.Name(), err: err}
	}
}

func humanBytes(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}
