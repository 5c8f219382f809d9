package action

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/rdash/internal/api"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
)

type call struct {
	method string
	args   []any
}

type fakeBackend struct {
	calls []call
	err   error
}

func (f *fakeBackend) record(method string, args ...any) error {
	f.calls = append(f.calls, call{method: method, args: args})
	return f.err
}

func (f *fakeBackend) AddMagnet(_ context.Context, magnet string, subs bool) error {
	return f.record("AddMagnet", magnet, subs)
}

func (f *fakeBackend) AddTorrentFile(_ context.Context, name string, r io.Reader, subs bool) error {
	data, _ := io.ReadAll(r)
	return f.record("AddTorrentFile", name, string(data), subs)
}

func (f *fakeBackend) SelectFiles(_ context.Context, id download.ID, ids []string) error {
	return f.record("SelectFiles", id, ids)
}

func (f *fakeBackend) DeleteDownload(_ context.Context, id download.ID) error {
	return f.record("DeleteDownload", id)
}

func (f *fakeBackend) DeleteMedia(_ context.Context, path string) error {
	return f.record("DeleteMedia", path)
}

const magnet = "magnet:?xt=urn:btih:c12fe1c06bba254a9dc9f519b335aa7c1367a88a"

func TestEmptyMagnetSendsNothing(t *testing.T) {
	b := &fakeBackend{}
	s := NewSubmitter(b)

	o := s.Do(context.Background(), AddMagnet{Magnet: "   "})

	require.Error(t, o.Err)
	var verr *ValidationError
	assert.ErrorAs(t, o.Err, &verr)
	assert.Equal(t, "magnet", verr.Field)
	assert.Equal(t, "Magnet link cannot be empty", o.Message())
	assert.Empty(t, b.calls)
	assert.False(t, s.Busy(KindAddMagnet))
}

func TestZeroFilesSelectedSendsNothing(t *testing.T) {
	b := &fakeBackend{}
	s := NewSubmitter(b)

	o := s.Do(context.Background(), SelectFiles{DownloadID: "a"})

	var verr *ValidationError
	require.ErrorAs(t, o.Err, &verr)
	assert.Equal(t, "Please select at least one file", o.Message())
	assert.Empty(t, b.calls)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	b := &fakeBackend{}
	s := NewSubmitter(b)

	o := s.Do(context.Background(), DeleteDownload{ID: "a"})
	assert.ErrorIs(t, o.Err, ErrNotConfirmed)

	o = s.Do(context.Background(), DeleteMedia{Path: "/m/a.mkv"})
	assert.ErrorIs(t, o.Err, ErrNotConfirmed)
	assert.Empty(t, b.calls)
}

func TestSuccessfulOutcomesCarryFollowUps(t *testing.T) {
	dir := t.TempDir()
	torrent := filepath.Join(dir, "ubuntu.torrent")
	require.NoError(t, os.WriteFile(torrent, []byte("d8:announce"), 0o644))

	tests := []struct {
		name string
		req  Request
		want reconcile.Event
		call call
	}{
		{
			name: "magnet",
			req:  AddMagnet{Magnet: magnet, DownloadSubs: true},
			want: reconcile.DownloadsChanged{},
			call: call{"AddMagnet", []any{magnet, true}},
		},
		{
			name: "torrent file",
			req:  AddTorrentFile{Path: torrent},
			want: reconcile.DownloadsChanged{},
			call: call{"AddTorrentFile", []any{"ubuntu.torrent", "d8:announce", false}},
		},
		{
			name: "select files",
			req:  SelectFiles{DownloadID: "7", FileIDs: []string{"1", "3"}},
			want: reconcile.DownloadsChanged{},
			call: call{"SelectFiles", []any{download.ID("7"), []string{"1", "3"}}},
		},
		{
			name: "delete download",
			req:  DeleteDownload{ID: "7", Confirmed: true},
			want: reconcile.DownloadRemoved{ID: "7"},
			call: call{"DeleteDownload", []any{download.ID("7")}},
		},
		{
			name: "delete media",
			req:  DeleteMedia{Path: "/m/a.mkv", Confirmed: true},
			want: reconcile.MediaChanged{},
			call: call{"DeleteMedia", []any{"/m/a.mkv"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{}
			s := NewSubmitter(b)

			o := s.Do(context.Background(), tt.req)

			require.NoError(t, o.Err)
			assert.True(t, o.OK())
			assert.Empty(t, o.Message())
			assert.Equal(t, tt.want, o.Event)
			assert.Equal(t, []call{tt.call}, b.calls)
			assert.False(t, s.Busy(tt.req.Kind()))
		})
	}
}

func TestBusyRejectsSecondSubmission(t *testing.T) {
	b := &fakeBackend{}
	s := NewSubmitter(b)

	run, err := s.Prepare(AddMagnet{Magnet: magnet})
	require.NoError(t, err)
	assert.True(t, s.Busy(KindAddMagnet))

	_, err = s.Prepare(AddMagnet{Magnet: magnet})
	assert.ErrorIs(t, err, ErrBusy)

	// other kinds are independent
	other, err := s.Prepare(DeleteDownload{ID: "a", Confirmed: true})
	require.NoError(t, err)
	s.Complete(other(context.Background()))

	o := run(context.Background())
	s.Complete(o)
	assert.False(t, s.Busy(KindAddMagnet))
	assert.Len(t, b.calls, 2)
}

func TestFailureClearsBusyAndUsesServerMessage(t *testing.T) {
	b := &fakeBackend{err: &api.Error{StatusCode: 400, Message: "Invalid magnet link"}}
	s := NewSubmitter(b)

	o := s.Do(context.Background(), AddMagnet{Magnet: magnet})

	require.Error(t, o.Err)
	assert.Nil(t, o.Event)
	assert.Equal(t, "Invalid magnet link", o.Message())
	assert.False(t, s.Busy(KindAddMagnet))
	assert.Len(t, b.calls, 1)
}

func TestFallbackMessages(t *testing.T) {
	tests := []struct {
		kind Kind
		err  error
		want string
	}{
		{KindAddMagnet, &api.Error{StatusCode: 500}, "Failed to add magnet"},
		{KindAddTorrent, errors.New("connection refused"), "Failed to add torrent"},
		{KindSelectFiles, &api.Error{StatusCode: 502}, "Failed to select files"},
		{KindDeleteDownload, &api.Error{StatusCode: 404}, "Failed to delete download"},
		{KindDeleteMedia, &api.Error{StatusCode: 500, Message: ""}, "Failed to delete file"},
		{KindDeleteMedia, ErrBusy, "Request already in progress"},
	}
	for _, tt := range tests {
		o := Outcome{Kind: tt.kind, Err: tt.err}
		assert.Equal(t, tt.want, o.Message(), tt.kind.String())
	}
}

func TestTorrentValidation(t *testing.T) {
	b := &fakeBackend{}
	s := NewSubmitter(b)

	o := s.Do(context.Background(), AddTorrentFile{Path: filepath.Join(t.TempDir(), "missing.torrent")})

	var verr *ValidationError
	require.ErrorAs(t, o.Err, &verr)
	assert.Equal(t, "torrent", verr.Field)
	assert.Empty(t, b.calls)
}
