package httpserver_test

import (
	"bufio"
	"bytes"
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushrelay/pkg/httpserver"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

// startServer runs srv in the background and returns its bound address.
func startServer(t *testing.T, srv *httpserver.Server, started <-chan net.Addr, h http.Handler) (string, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), h) }()
	select {
	case addr := <-started:
		return addr.String(), done
	case err := <-done:
		require.FailNow(t, "server did not start", "%v", err)
	case <-time.After(2 * time.Second):
		require.FailNow(t, "server did not start in time")
	}
	return "", done
}

func startHook(ch chan<- net.Addr) httpserver.Option {
	return httpserver.WithStartHook(func(_ *slog.Logger, addr net.Addr) { ch <- addr })
}

func waitDone(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		require.NoError(t, err, "run")
	case <-time.After(2 * time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestRunAndCancel(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		startHook(started),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, okHandler()) }()
	addr := <-started

	resp, err := http.Get("http://" + addr.String())
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, addr.String(), srv.Addr().String())

	cancel()
	waitDone(t, done)
	require.NoError(t, srv.Shutdown(context.Background()), "repeated shutdown")
}

func TestManualShutdown(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	var stopped atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStopHook(func(*slog.Logger) { stopped.Store(true) }),
		startHook(started),
	)
	_, done := startServer(t, srv, started, okHandler())

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
	assert.True(t, stopped.Load(), "stop hook not executed")
}

func TestShutdownHookEndsLongLivedHandlers(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	release := make(chan struct{})
	var hookCalled atomic.Bool
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(2*time.Second),
		httpserver.WithShutdownHook(func() {
			hookCalled.Store(true)
			close(release)
		}),
		startHook(started),
	)

	streaming := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("open\n"))
		w.(http.Flusher).Flush()
		close(streaming)
		<-release
	})
	addr, done := startServer(t, srv, started, h)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	defer resp.Body.Close()
	line, err := bufio.NewReader(resp.Body).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "open\n", line)
	<-streaming

	start := time.Now()
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.Less(t, time.Since(start), time.Second, "shutdown waited for the timeout")
	assert.True(t, hookCalled.Load())
	waitDone(t, done)
}

func TestShutdownTimeoutClosesConnections(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		startHook(started),
	)

	streaming := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.(http.Flusher).Flush()
		close(streaming)
		<-r.Context().Done()
	})
	addr, done := startServer(t, srv, started, h)

	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	defer resp.Body.Close()
	<-streaming

	err = srv.Shutdown(context.Background())
	assert.ErrorIs(t, err, httpserver.ErrShutdown)
	waitDone(t, done)
}

func TestStartError(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr(":invalid"))
	err := srv.Run(context.Background(), okHandler())
	require.Error(t, err)
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.Nil(t, srv.Addr())
}

func TestAlreadyRunning(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(50*time.Millisecond),
		startHook(started),
	)
	_, done := startServer(t, srv, started, okHandler())

	err := srv.Run(context.Background(), okHandler())
	assert.ErrorIs(t, err, httpserver.ErrStart)
	assert.ErrorIs(t, err, httpserver.ErrAlreadyRunning)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)

	err = srv.Run(context.Background(), okHandler())
	assert.ErrorIs(t, err, httpserver.ErrServerClosed)
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"shutdown hook", func() { httpserver.WithShutdownHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}

	assert.NotPanics(t, func() { httpserver.WithLogger(nil) })
}

func TestConfig(t *testing.T) {
	t.Parallel()

	cfg := httpserver.Config{Host: "0.0.0.0", Port: 3000}
	assert.Equal(t, "0.0.0.0:3000", cfg.Addr())

	cfg = httpserver.Config{Host: "::1", Port: 8080}
	assert.Equal(t, "[::1]:8080", cfg.Addr())
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	started := make(chan net.Addr, 1)
	srv := httpserver.NewFromConfig(
		httpserver.Config{Host: "127.0.0.1", Port: 0, ShutdownTimeout: 50 * time.Millisecond},
		startHook(started),
	)
	addr, done := startServer(t, srv, started, okHandler())
	host, _, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)

	require.NoError(t, srv.Shutdown(context.Background()))
	waitDone(t, done)
}

func TestAnnounceHook(t *testing.T) {
	t.Parallel()
	buf := &bytes.Buffer{}
	log := slog.New(slog.NewTextHandler(buf, nil))

	httpserver.AnnounceHook("10.1.2.3")(log, &net.TCPAddr{IP: net.IPv4(10, 1, 2, 3), Port: 3000})
	assert.Contains(t, buf.String(), "Server is running on http://10.1.2.3:3000")
}

func TestAdvertisedHost(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "192.168.0.5", httpserver.AdvertisedHost("192.168.0.5"))
	assert.Equal(t, "example.local", httpserver.AdvertisedHost("example.local"))

	// The wildcard resolves to some concrete address, whatever the network looks like.
	got := httpserver.AdvertisedHost("0.0.0.0")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "0.0.0.0", got)
	assert.NotNil(t, net.ParseIP(got))
}
