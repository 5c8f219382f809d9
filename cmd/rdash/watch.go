package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pders01/rdash/internal/debuglog"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
	"github.com/pders01/rdash/internal/stream"
)

func newWatchCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print live download updates without the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := g.client()
			events := stream.NewClient(client.StreamURL(), g.cfg.Server.UserAgent, g.cfg.Stream).Start(ctx)
			return newWatcher(client, cmd.OutOrStdout()).run(ctx, events)
		},
	}
}

type lister interface {
	Downloads(ctx context.Context) ([]download.Download, error)
	Media(ctx context.Context) ([]download.MediaItem, error)
}

type fetched struct {
	media bool
	event reconcile.Event
	err   error
}

// watcher is the dashboard's reconcile loop with a line printer in place of
// the views. All state is owned by run's goroutine.
type watcher struct {
	lists lister
	out   io.Writer
	rec   *reconcile.Reconciler

	downloads reconcile.Refresher
	media     reconcile.Refresher
	results   chan fetched
}

func newWatcher(lists lister, out io.Writer) *watcher {
	return &watcher{
		lists:   lists,
		out:     out,
		rec:     reconcile.New(),
		results: make(chan fetched),
	}
}

// run blocks until ctx is cancelled or events is closed.
func (w *watcher) run(ctx context.Context, events <-chan reconcile.Event) error {
	w.refreshDownloads(ctx)
	w.refreshMedia(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			w.dispatch(ctx, ev)
		case r := <-w.results:
			w.landed(ctx, r)
		}
	}
}

func (w *watcher) landed(ctx context.Context, r fetched) {
	refresher, fetch := &w.downloads, w.fetchDownloads
	name := "downloads"
	if r.media {
		refresher, fetch, name = &w.media, w.fetchMedia, "media"
	}
	if refresher.Done() {
		fetch(ctx)
	}
	if r.err != nil {
		debuglog.Errorf("watch: refreshing %s: %v", name, r.err)
		fmt.Fprintf(w.out, "! refreshing %s failed: %v\n", name, r.err)
		return
	}
	w.dispatch(ctx, r.event)
}

func (w *watcher) dispatch(ctx context.Context, ev reconcile.Event) {
	eff := w.rec.Dispatch(ev)
	if eff.Dropped != nil {
		debuglog.Warnf("watch: dropped event: %v", eff.Dropped)
	}

	state := w.rec.State()
	for _, id := range eff.RenderRows {
		if d, ok := state.Download(id); ok {
			fmt.Fprintf(w.out, "%s  %s: %s\n", d.ID, d.DisplayName(), download.StatusText(d))
		}
	}
	if eff.RenderDownloads {
		fmt.Fprintf(w.out, "downloads: %d\n", state.DownloadCount())
	}
	if eff.RenderMedia {
		fmt.Fprintf(w.out, "media: %d titles\n", state.MediaCount())
	}
	if eff.RefreshDownloads {
		w.refreshDownloads(ctx)
	}
	if eff.RefreshMedia {
		w.refreshMedia(ctx)
	}
}

func (w *watcher) refreshDownloads(ctx context.Context) {
	if w.downloads.Request() {
		w.fetchDownloads(ctx)
	}
}

func (w *watcher) refreshMedia(ctx context.Context) {
	if w.media.Request() {
		w.fetchMedia(ctx)
	}
}

func (w *watcher) fetchDownloads(ctx context.Context) {
	go func() {
		list, err := w.lists.Downloads(ctx)
		w.deliver(ctx, fetched{event: reconcile.DownloadsLoaded{Downloads: list}, err: err})
	}()
}

func (w *watcher) fetchMedia(ctx context.Context) {
	go func() {
		items, err := w.lists.Media(ctx)
		w.deliver(ctx, fetched{media: true, event: reconcile.MediaLoaded{Items: items}, err: err})
	}()
}

func (w *watcher) deliver(ctx context.Context, r fetched) {
	select {
	case w.results <- r:
	case <-ctx.Done():
	}
}
