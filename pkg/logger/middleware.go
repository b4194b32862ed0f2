package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// maxLoggedBody caps how much of a request body is read for logging.
const maxLoggedBody = 64 << 10

// Middleware logs one record per incoming request and one per completed response.
// The request body is logged compactly (JSON bodies re-encoded, anything else as text)
// and handed back to the next handler unchanged.
func Middleware(log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := r.Context()

			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			}
			if body := peekBody(r); body != nil {
				attrs = append(attrs, slog.Any("body", body))
			}
			log.LogAttrs(ctx, slog.LevelInfo, "request", attrs...)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAttrs(ctx, slog.LevelInfo, "response",
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				Duration(time.Since(start)),
			)
		})
	}
}

// peekBody reads up to maxLoggedBody bytes and restores r.Body so the full
// payload is still available downstream.
func peekBody(r *http.Request) any {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	head, err := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	if err != nil || len(head) == 0 {
		return nil
	}

	var compact bytes.Buffer
	if json.Valid(head) && json.Compact(&compact, head) == nil {
		return json.RawMessage(compact.Bytes())
	}
	return string(head)
}
