package relay_test

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pushrelay/modules/relay"
	"github.com/dmitrymomot/pushrelay/pkg/broadcast"
	"github.com/dmitrymomot/pushrelay/pkg/notifications"
	"github.com/dmitrymomot/pushrelay/pkg/requestid"
)

type iconTable map[string]string

func (t iconTable) Lookup(name string) (string, bool) {
	v, ok := t[strings.TrimSpace(name)]
	return v, ok
}

func newRouter(t *testing.T) (http.Handler, *notifications.Service) {
	t.Helper()
	log := slog.New(slog.DiscardHandler)
	svc := notifications.NewService(
		notifications.NewMemoryStorage(),
		broadcast.NewMemoryBroadcaster[notifications.Notification](),
		notifications.WithLogger(log),
		notifications.WithIconResolver(iconTable{"bell.png": "QkVMTA=="}),
	)
	t.Cleanup(func() { _ = svc.Close() })
	return relay.Router(relay.RouterOptions{Service: svc, Logger: log}), svc
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestCreate(t *testing.T) {
	t.Parallel()

	t.Run("post returns 201 with record", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		rec := do(t, h, http.MethodPost, "/", `{"title":"  Build failed ","color":"red"}`)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		got := decode[map[string]any](t, rec)
		assert.Equal(t, "Build failed", got["title"])
		assert.Equal(t, "red", got["color"])
		assert.Contains(t, got, "message")
		assert.Nil(t, got["message"])
		assert.Nil(t, got["url"])
		assert.Nil(t, got["icon"])
		assert.NotEmpty(t, got["id"])
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, got["createdAt"])

		latest := do(t, h, http.MethodGet, "/latest", "")
		require.Equal(t, http.StatusOK, latest.Code)
		assert.JSONEq(t, rec.Body.String(), latest.Body.String())
	})

	t.Run("get send returns 200 with record", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		q := url.Values{"title": {"Deploy done"}, "message": {"prod ✓"}, "icon": {"bell.png"}}
		rec := do(t, h, http.MethodGet, "/send?"+q.Encode(), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		got := decode[notifications.Notification](t, rec)
		assert.Equal(t, "Deploy done", got.Title)
		require.NotNil(t, got.Message)
		assert.Equal(t, "prod ✓", *got.Message)
		require.NotNil(t, got.Icon)
		assert.Equal(t, "QkVMTA==", *got.Icon)
	})

	t.Run("both entry points store the same shape", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		post := decode[map[string]any](t, do(t, h, http.MethodPost, "/", `{"title":"x","url":"https://a.b","icon":"unknown"}`))
		get := decode[map[string]any](t, do(t, h, http.MethodGet, "/send?title=x&url=https://a.b&icon=unknown", ""))

		for _, m := range []map[string]any{post, get} {
			delete(m, "id")
			delete(m, "createdAt")
		}
		assert.Equal(t, post, get)
		assert.Equal(t, "unknown", post["icon"])
	})

	t.Run("missing or blank title is 400", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		cases := []struct {
			method, target, body string
		}{
			{http.MethodPost, "/", `{"title":"   "}`},
			{http.MethodPost, "/", `{"message":"no title"}`},
			{http.MethodPost, "/", `{"title":null}`},
			{http.MethodGet, "/send?title=%20", ""},
			{http.MethodGet, "/send?message=hi", ""},
		}
		for _, c := range cases {
			rec := do(t, h, c.method, c.target, c.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, c.target+" "+c.body)
			env := decode[map[string]any](t, rec)
			assert.Equal(t, "error", env["status"])
			assert.Equal(t, "'title' field is required", env["message"])
		}

		list := do(t, h, http.MethodGet, "/", "")
		assert.Equal(t, "[]", list.Body.String())
	})

	t.Run("malformed payload is 422", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		for _, body := range []string{`{"title":`, `[1,2]`, `{"title":42}`} {
			rec := do(t, h, http.MethodPost, "/", body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, body)
			env := decode[map[string]any](t, rec)
			assert.Equal(t, "Invalid request payload", env["message"])
			assert.NotEmpty(t, env["errors"])
			assert.Equal(t, "/", env["path"])
		}

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("title=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestQueries(t *testing.T) {
	t.Parallel()

	t.Run("empty history", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		list := do(t, h, http.MethodGet, "/", "")
		require.Equal(t, http.StatusOK, list.Code)
		assert.Equal(t, "[]", list.Body.String())

		latest := do(t, h, http.MethodGet, "/latest", "")
		require.Equal(t, http.StatusNotFound, latest.Code)
		assert.JSONEq(t, `{"status":"error","message":"Not Found","path":"/latest"}`, latest.Body.String())
	})

	t.Run("history in creation order", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)

		for _, title := range []string{"a", "b", "c"} {
			require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/", `{"title":"`+title+`"}`).Code)
		}

		list := decode[[]notifications.Notification](t, do(t, h, http.MethodGet, "/", ""))
		require.Len(t, list, 3)
		assert.Equal(t, "a", list[0].Title)
		assert.Equal(t, "c", list[2].Title)

		latest := decode[notifications.Notification](t, do(t, h, http.MethodGet, "/latest", ""))
		assert.Equal(t, list[2], latest)
	})

	t.Run("health", func(t *testing.T) {
		t.Parallel()
		h, _ := newRouter(t)
		do(t, h, http.MethodPost, "/", `{"title":"a"}`)

		rec := do(t, h, http.MethodGet, "/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","notifications":1,"subscribers":0}`, rec.Body.String())
	})
}

func TestRouting(t *testing.T) {
	t.Parallel()
	h, _ := newRouter(t)

	rec := do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Not Found","path":"/nope"}`, rec.Body.String())

	rec = do(t, h, http.MethodDelete, "/latest", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Method Not Allowed","path":"/latest"}`, rec.Body.String())

	assert.NotEmpty(t, rec.Header().Get(requestid.Header))
}

func TestCORS(t *testing.T) {
	t.Parallel()
	h, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type failingService struct {
	relay.NotificationService
}

func (failingService) List(context.Context) ([]notifications.Notification, error) {
	return nil, errors.New("storage offline: secret-dsn")
}

func (failingService) Stats(context.Context) (notifications.Stats, error) {
	return notifications.Stats{}, errors.New("storage offline")
}

func TestUnexpectedErrors(t *testing.T) {
	t.Parallel()
	h := relay.Router(relay.RouterOptions{Service: failingService{}, Logger: slog.New(slog.DiscardHandler)})

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":"error","message":"Internal server error","path":"/"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "secret-dsn")

	rec = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// sseReader reads "data:" payloads from an event stream.
type sseReader struct {
	r *bufio.Reader
}

func (s *sseReader) next(t *testing.T) string {
	t.Helper()
	type result struct {
		data string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var data []string
		for {
			line, err := s.r.ReadString('\n')
			if err != nil {
				ch <- result{err: err}
				return
			}
			line = strings.TrimRight(line, "\n")
			if line == "" {
				ch <- result{data: strings.Join(data, "\n")}
				return
			}
			data = append(data, strings.TrimPrefix(line, "data: "))
		}
	}()
	select {
	case res := <-ch:
		require.NoError(t, res.err)
		return res.data
	case <-time.After(2 * time.Second):
		require.FailNow(t, "no event received")
		return ""
	}
}

func openStream(t *testing.T, ctx context.Context, baseURL string) (*http.Response, *sseReader) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp, &sseReader{r: bufio.NewReader(resp.Body)}
}

func TestEvents(t *testing.T) {
	t.Parallel()

	t.Run("stream delivers live notifications", func(t *testing.T) {
		t.Parallel()
		h, svc := newRouter(t)
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		resp, stream := openStream(t, ctx, srv.URL)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
		assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))
		assert.Equal(t, "no", resp.Header.Get("X-Accel-Buffering"))
		assert.Equal(t, "Connected", stream.next(t))

		post, err := http.Post(srv.URL+"/", "application/json", strings.NewReader(`{"title":"Build failed","color":"red"}`))
		require.NoError(t, err)
		body, _ := io.ReadAll(post.Body)
		_ = post.Body.Close()
		require.Equal(t, http.StatusCreated, post.StatusCode)

		assert.JSONEq(t, string(body), stream.next(t))

		get, err := http.Get(srv.URL + "/send?title=second")
		require.NoError(t, err)
		_ = get.Body.Close()

		var second notifications.Notification
		require.NoError(t, json.Unmarshal([]byte(stream.next(t)), &second))
		assert.Equal(t, "second", second.Title)

		stats, err := svc.Stats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Subscribers)

		cancel()
		require.Eventually(t, func() bool {
			s, _ := svc.Stats(context.Background())
			return s.Subscribers == 0
		}, 2*time.Second, 10*time.Millisecond, "disconnect must deregister the subscriber")
	})

	t.Run("every stream gets every notification in order", func(t *testing.T) {
		t.Parallel()
		h, svc := newRouter(t)
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		streams := make([]*sseReader, 3)
		for i := range streams {
			_, streams[i] = openStream(t, ctx, srv.URL)
			require.Equal(t, "Connected", streams[i].next(t))
		}

		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 5 {
					resp, err := http.Get(srv.URL + "/send?title=n")
					if assert.NoError(t, err) {
						_ = resp.Body.Close()
					}
				}
			}()
		}
		wg.Wait()

		history, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, history, 20)

		for _, s := range streams {
			for _, want := range history {
				var got notifications.Notification
				require.NoError(t, json.Unmarshal([]byte(s.next(t)), &got))
				require.Equal(t, want.ID, got.ID)
			}
		}
	})

	t.Run("service close ends open streams", func(t *testing.T) {
		t.Parallel()
		h, svc := newRouter(t)
		srv := httptest.NewServer(h)
		t.Cleanup(srv.Close)

		_, stream := openStream(t, context.Background(), srv.URL)
		require.Equal(t, "Connected", stream.next(t))

		require.NoError(t, svc.Close())

		done := make(chan error, 1)
		go func() {
			_, err := io.ReadAll(stream.r)
			done <- err
		}()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("stream stayed open after close")
		}
	})
}
