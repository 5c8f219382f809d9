package download

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePatch(t *testing.T) {
	t.Run("numeric id and full payload", func(t *testing.T) {
		p, err := DecodePatch([]byte(`{"id":42,"status":"downloading","progress":40.5,"name":"Movie.mkv"}`))
		require.NoError(t, err)
		assert.Equal(t, ID("42"), p.ID)
		require.NotNil(t, p.Status)
		assert.Equal(t, StatusDownloading, *p.Status)
		require.NotNil(t, p.Progress)
		assert.InDelta(t, 40.5, *p.Progress, 0.001)
		assert.Nil(t, p.SubtitleStatus)
	})

	t.Run("string id", func(t *testing.T) {
		p, err := DecodePatch([]byte(`{"id":"a","status":"complete"}`))
		require.NoError(t, err)
		assert.Equal(t, ID("a"), p.ID)
		assert.Nil(t, p.Progress)
	})

	t.Run("progress is clamped", func(t *testing.T) {
		p, err := DecodePatch([]byte(`{"id":"a","progress":140}`))
		require.NoError(t, err)
		assert.Equal(t, 100.0, *p.Progress)
	})

	malformed := map[string]string{
		"empty":      ``,
		"not object": `[1,2]`,
		"bad json":   `{"id":`,
		"missing id": `{"status":"pending"}`,
		"null id":    `{"id":null}`,
		"bool id":    `{"id":true}`,
	}
	for name, payload := range malformed {
		t.Run("malformed "+name, func(t *testing.T) {
			_, err := DecodePatch([]byte(payload))
			assert.True(t, errors.Is(err, ErrMalformedPatch), "got %v", err)
		})
	}
}

func TestPatchApply(t *testing.T) {
	cached := Download{ID: "a", Status: StatusDownloading, Progress: 40, Name: "Movie"}

	status := StatusDownloading
	progress := 55.0
	empty := ""
	got := Patch{ID: "a", Status: &status, Progress: &progress, Name: &empty}.Apply(cached)

	assert.Equal(t, 55.0, got.Progress)
	assert.Equal(t, "Movie", got.Name, "empty name must not clear the cached one")

	name := "Movie (2024)"
	got = Patch{ID: "a", Name: &name}.Apply(got)
	assert.Equal(t, "Movie (2024)", got.Name)
	assert.Equal(t, StatusDownloading, got.Status, "absent status keeps cached value")
}

func TestPatchApplyStatusDropsStaleText(t *testing.T) {
	failed := Download{ID: "a", Status: StatusError, ErrorMessage: "tracker timeout"}

	pending := StatusPending
	got := Patch{ID: "a", Status: &pending}.Apply(failed)
	assert.Empty(t, got.ErrorMessage, "a retried download no longer shows the old error")

	subs := StatusSubtitles
	fetching := "Downloading subtitles..."
	got = Patch{ID: "a", Status: &subs, SubtitleStatus: &fetching}.Apply(got)
	assert.Equal(t, fetching, got.SubtitleStatus)

	complete := StatusComplete
	got = Patch{ID: "a", Status: &complete}.Apply(got)
	assert.Equal(t, fetching, got.SubtitleStatus, "complete keeps the subtitle line until the server replaces it")

	errStatus := StatusError
	msg := "disk full"
	got = Patch{ID: "a", Status: &errStatus, ErrorMessage: &msg}.Apply(got)
	assert.Equal(t, "disk full", got.ErrorMessage)
	assert.Empty(t, got.SubtitleStatus)

	progress := 10.0
	got = Patch{ID: "a", Progress: &progress}.Apply(got)
	assert.Equal(t, "disk full", got.ErrorMessage, "a patch without status leaves the text alone")
}

func TestMediaItemName(t *testing.T) {
	tests := map[string]string{
		"/media/movies/Film.mkv":      "Film.mkv",
		"Film.mkv":                    "Film.mkv",
		`C:\media\Film.mkv`:           "Film.mkv",
		"/media/movies/Season 1/":     "Season 1",
		"/media/movies/Film.en.srt":   "Film.en.srt",
	}
	for path, want := range tests {
		assert.Equal(t, want, MediaItem{Path: path}.Name(), path)
	}
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Download #7", Download{ID: "7"}.DisplayName())
	assert.Equal(t, "Film", Download{ID: "7", Name: "Film"}.DisplayName())
}
