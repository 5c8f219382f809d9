package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/rdash/internal/download"
)

func status(s download.Status) *download.Status { return &s }
func progress(p float64) *float64               { return &p }
func str(s string) *string                      { return &s }

func loaded(rows ...download.Download) State {
	s, _ := Apply(NewState(), DownloadsLoaded{Downloads: rows})
	return s
}

func TestPatchOnlyStatusesDoNotRefresh(t *testing.T) {
	for _, st := range []download.Status{download.StatusPending, download.StatusProcessing, download.StatusDownloading} {
		t.Run(string(st), func(t *testing.T) {
			s := loaded(download.Download{ID: "a", Status: download.StatusPending})

			next, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Status: status(st), Progress: progress(12)}})

			assert.False(t, eff.RefreshDownloads)
			assert.False(t, eff.RenderDownloads)
			assert.Equal(t, []download.ID{"a"}, eff.RenderRows)
			d, ok := next.Download("a")
			require.True(t, ok)
			assert.Equal(t, st, d.Status)
			assert.InDelta(t, 12.0, d.Progress, 0.001)
		})
	}
}

func TestShapeChangingStatusesRefreshOnce(t *testing.T) {
	for _, st := range []download.Status{
		download.StatusAwaitingSelection,
		download.StatusSubtitles,
		download.StatusComplete,
		download.StatusError,
	} {
		t.Run(string(st), func(t *testing.T) {
			s := loaded(download.Download{ID: "a", Status: download.StatusDownloading})

			_, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Status: status(st)}})

			assert.True(t, eff.RefreshDownloads)
			assert.Equal(t, []download.ID{"a"}, eff.RenderRows)
		})
	}
}

func TestUnknownIDRefreshesWithoutRow(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading})

	next, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "zzz", Status: status(download.StatusDownloading), Name: str("ghost")}})

	assert.True(t, eff.RefreshDownloads)
	assert.Empty(t, eff.RenderRows)
	assert.False(t, next.Has("zzz"))
	assert.Equal(t, 1, next.DownloadCount())
}

func TestUnknownStatusIsPatchOnly(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading})

	next, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Status: status("paused")}})

	assert.False(t, eff.RefreshDownloads)
	d, _ := next.Download("a")
	assert.Equal(t, "paused", download.StatusText(d))
}

func TestProgressThenCompleteScenario(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading, Progress: 40})

	s, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Status: status(download.StatusDownloading), Progress: progress(55)}})
	assert.False(t, eff.RefreshDownloads)
	d, _ := s.Download("a")
	assert.Equal(t, "Downloading to disk (55.0%)", download.StatusText(d))

	refreshes := 0
	s, eff = Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Status: status(download.StatusComplete)}})
	if eff.RefreshDownloads {
		refreshes++
	}
	assert.Equal(t, 1, refreshes)
	d, _ = s.Download("a")
	assert.Equal(t, download.StatusComplete, d.Status)
}

func TestPatchKeepsAbsentFields(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading, Progress: 40, Name: "Sintel"})

	next, _ := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Progress: progress(41), Name: str("")}})

	d, _ := next.Download("a")
	assert.Equal(t, "Sintel", d.Name)
	assert.Equal(t, download.StatusDownloading, d.Status)
	assert.InDelta(t, 41.0, d.Progress, 0.001)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading, Progress: 10})

	_, _ = Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Progress: progress(90)}})
	_, _ = Apply(s, DownloadRemoved{ID: "a"})

	d, ok := s.Download("a")
	require.True(t, ok)
	assert.InDelta(t, 10.0, d.Progress, 0.001)
}

func TestDownloadsLoadedReplacesAndDedups(t *testing.T) {
	s := loaded(download.Download{ID: "old"})

	next, eff := Apply(s, DownloadsLoaded{Downloads: []download.Download{
		{ID: "a", Name: "first", Progress: 140},
		{ID: "b"},
		{ID: "a", Name: "second"},
	}})

	assert.True(t, eff.RenderDownloads)
	assert.False(t, next.Has("old"))
	rows := next.Downloads()
	require.Len(t, rows, 2)
	assert.Equal(t, "first", rows[0].Name)
	assert.InDelta(t, 100.0, rows[0].Progress, 0.001)
}

func TestRefreshAfterPatchIsAuthoritative(t *testing.T) {
	s := loaded(download.Download{ID: "a", Status: download.StatusDownloading, Progress: 10})
	s, _ = Apply(s, DownloadPatched{Patch: download.Patch{ID: "a", Progress: progress(80)}})

	s, _ = Apply(s, DownloadsLoaded{Downloads: []download.Download{{ID: "a", Status: download.StatusDownloading, Progress: 60}}})

	d, _ := s.Download("a")
	assert.InDelta(t, 60.0, d.Progress, 0.001)
}

func TestDownloadRemoved(t *testing.T) {
	s := loaded(download.Download{ID: "a"}, download.Download{ID: "b"}, download.Download{ID: "c"})

	next, eff := Apply(s, DownloadRemoved{ID: "b"})
	assert.True(t, eff.RenderDownloads)
	var ids []download.ID
	for _, d := range next.Downloads() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []download.ID{"a", "c"}, ids)
	_, ok := next.Download("c")
	assert.True(t, ok)

	same, eff := Apply(next, DownloadRemoved{ID: "b"})
	assert.True(t, eff.Empty())
	assert.Equal(t, 2, same.DownloadCount())
}

func TestMediaEvents(t *testing.T) {
	s := NewState()

	_, eff := Apply(s, MediaChanged{})
	assert.True(t, eff.RefreshMedia)
	assert.False(t, eff.RenderMedia)

	s, eff = Apply(s, MediaLoaded{Items: []download.MediaItem{{Path: "/m/a.mkv"}, {Path: "/m/b.mkv"}}})
	assert.True(t, eff.RenderMedia)
	assert.Equal(t, 2, s.MediaCount())

	s, _ = Apply(s, MediaLoaded{})
	assert.Equal(t, 0, s.MediaCount())
}

func TestDownloadsChanged(t *testing.T) {
	_, eff := Apply(NewState(), DownloadsChanged{})
	assert.True(t, eff.RefreshDownloads)
}

func TestMalformedIsDropped(t *testing.T) {
	s := loaded(download.Download{ID: "a"})
	boom := errors.New("bad json")

	next, eff := Apply(s, Malformed{Event: "download", Err: boom})

	assert.ErrorIs(t, eff.Dropped, boom)
	assert.False(t, eff.RefreshDownloads)
	assert.Equal(t, s.Downloads(), next.Downloads())

	_, eff = Apply(s, Malformed{})
	assert.ErrorIs(t, eff.Dropped, download.ErrMalformedPatch)
}

func TestZeroStateIsUsable(t *testing.T) {
	var s State
	next, eff := Apply(s, DownloadPatched{Patch: download.Patch{ID: "a"}})
	assert.True(t, eff.RefreshDownloads)
	assert.Equal(t, 0, next.DownloadCount())
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		status download.Status
		want   PatchAction
	}{
		{download.StatusPending, PatchOnly},
		{download.StatusProcessing, PatchOnly},
		{download.StatusDownloading, PatchOnly},
		{download.StatusAwaitingSelection, PatchAndRefresh},
		{download.StatusSubtitles, PatchAndRefresh},
		{download.StatusComplete, PatchAndRefresh},
		{download.StatusError, PatchAndRefresh},
		{"something-new", PatchOnly},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ActionFor(tt.status), tt.status)
	}
}
