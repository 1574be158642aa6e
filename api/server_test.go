package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/matt-g-everett/ledreel/stream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	status stream.Status
}

func (f *fakeSource) Status() stream.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func newTestApi(t *testing.T) (*Api, *httptest.Server) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>preview</h1>"), 0o644))

	var config stream.Config
	config.API.StaticDir = dir
	source := &fakeSource{status: stream.Status{Animation: "countdown", FrameIndex: 40, FrameCount: 73}}

	a := NewApi(config, source)
	server := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		a.Close()
		server.Close()
	})
	return a, server
}

func TestStatusEndpoint(t *testing.T) {
	_, server := newTestApi(t)

	resp, err := http.Get(server.URL + "/status")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	var s stream.Status
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, "countdown", s.Animation)
	assert.Equal(t, 40, s.FrameIndex)

	resp, err = http.Post(server.URL+"/status", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestStaticFiles(t *testing.T) {
	_, server := newTestApi(t)

	resp, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServeReportsListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	var config stream.Config
	config.API.Addr = l.Addr().String()
	a := NewApi(config, &fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	assert.Error(t, a.Serve(ctx), "address already in use")
}

func TestServeStopsWithContext(t *testing.T) {
	var config stream.Config
	config.API.Addr = "127.0.0.1:0"
	a := NewApi(config, &fakeSource{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestWebsocketBroadcast(t *testing.T) {
	a, server := newTestApi(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var s stream.Status
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&s))
	assert.Equal(t, 40, s.FrameIndex, "current status on connect")

	require.Eventually(t, func() bool { return a.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)
	a.Broadcast(stream.Status{Animation: "countdown", FrameIndex: 41, FramesProcessed: 2})

	require.NoError(t, conn.ReadJSON(&s))
	assert.Equal(t, 41, s.FrameIndex)
	assert.Equal(t, 2, s.FramesProcessed)

	conn.Close()
	assert.Eventually(t, func() bool { return a.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}
