package stream

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/rdash/internal/config"
	"github.com/pders01/rdash/internal/download"
	"github.com/pders01/rdash/internal/reconcile"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		ev    *sse.Event
		ok    bool
		check func(t *testing.T, e reconcile.Event)
	}{
		{
			name: "download patch",
			ev:   &sse.Event{Event: []byte("download"), Data: []byte(`{"id":7,"status":"downloading","progress":12.5}`)},
			ok:   true,
			check: func(t *testing.T, e reconcile.Event) {
				p, isPatch := e.(reconcile.DownloadPatched)
				require.True(t, isPatch)
				assert.Equal(t, download.ID("7"), p.Patch.ID)
				require.NotNil(t, p.Patch.Progress)
				assert.InDelta(t, 12.5, *p.Patch.Progress, 0.001)
			},
		},
		{
			name: "refresh movies ignores payload",
			ev:   &sse.Event{Event: []byte("refresh-movies"), Data: []byte("whatever")},
			ok:   true,
			check: func(t *testing.T, e reconcile.Event) {
				assert.Equal(t, reconcile.MediaChanged{}, e)
			},
		},
		{
			name: "malformed download",
			ev:   &sse.Event{Event: []byte("download"), Data: []byte(`[1,2]`)},
			ok:   true,
			check: func(t *testing.T, e reconcile.Event) {
				m, isMalformed := e.(reconcile.Malformed)
				require.True(t, isMalformed)
				assert.True(t, errors.Is(m.Err, download.ErrMalformedPatch))
			},
		},
		{
			name: "unknown event",
			ev:   &sse.Event{Event: []byte("ping"), Data: []byte("{}")},
		},
		{
			name: "keepalive comment",
			ev:   &sse.Event{Comment: []byte("keepalive")},
		},
		{
			name: "nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Decode(tt.ev)
			assert.Equal(t, tt.ok, ok)
			if tt.check != nil {
				tt.check(t, e)
			}
		})
	}
}

// sseServer writes frames to each subscriber and then closes the stream.
func sseServer(t *testing.T, frames string, conns *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/downloads/stream", r.URL.Path)
		conns.Add(1)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, frames)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunDeliversEventsInOrder(t *testing.T) {
	var conns atomic.Int32
	srv := sseServer(t, "event: download\ndata: {\"id\":\"a\",\"progress\":55}\n\n"+
		": keepalive\n\n"+
		"event: refresh-movies\ndata: \n\n"+
		"event: download\ndata: nope\n\n", &conns)

	c := NewClient(srv.URL+"/api/downloads/stream", "rdash-test/1.0", config.TestConfig().Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu  sync.Mutex
		got []reconcile.Event
	)
	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, func(e reconcile.Event) {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, e)
		})
	}()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 3
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	first := append([]reconcile.Event(nil), got[:3]...)
	mu.Unlock()

	_, isPatch := first[0].(reconcile.DownloadPatched)
	assert.True(t, isPatch)
	assert.Equal(t, reconcile.MediaChanged{}, first[1])
	_, isMalformed := first[2].(reconcile.Malformed)
	assert.True(t, isMalformed)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunResubscribesAfterServerClose(t *testing.T) {
	var conns atomic.Int32
	srv := sseServer(t, "event: refresh-movies\ndata: \n\n", &conns)

	c := NewClient(srv.URL+"/api/downloads/stream", "", config.TestConfig().Stream)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Start(ctx)

	for i := 0; i < 3; i++ {
		select {
		case e := <-events:
			assert.Equal(t, reconcile.MediaChanged{}, e)
		case <-time.After(2 * time.Second):
			t.Fatalf("no event %d", i)
		}
	}
	assert.GreaterOrEqual(t, conns.Load(), int32(2))

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, open := <-events:
			return !open
		default:
			return false
		}
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRunRetriesUnreachableServer(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: refresh-movies\ndata: \n\n")
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "", config.TestConfig().Stream)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := c.Start(ctx)
	select {
	case e := <-events:
		assert.Equal(t, reconcile.MediaChanged{}, e)
	case <-time.After(3 * time.Second):
		t.Fatal("stream never recovered")
	}
	assert.GreaterOrEqual(t, hits.Load(), int32(3))
}
