package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"
)

// StreamContext is the Context of an event stream.
type StreamContext interface {
	Context

	// Send writes one event carrying data and flushes it to the client.
	// Multi-line data is split into several "data:" lines.
	Send(data []byte) error
}

// SSEHandler owns an event stream for its whole lifetime.
// The stream ends when the handler returns.
type SSEHandler func(stream StreamContext) error

type sseResponse struct {
	handler SSEHandler
}

// Render writes the stream headers, flushes them and runs the handler.
// The connection's write deadline is cleared, so a server WriteTimeout does
// not cut long-lived streams. Errors returned after the headers were sent are
// joined with ErrResponseCommitted.
func (s sseResponse) Render(w http.ResponseWriter, r *http.Request) error {
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		return errors.Join(ErrResponseCommitted, ErrStreamingUnsupported, err)
	}

	stream := &streamContext{Context: NewContext(w, r), rc: rc}
	if err := s.handler(stream); err != nil {
		return errors.Join(ErrResponseCommitted, err)
	}
	return nil
}

// SSE creates a text/event-stream response driven by handler.
//
//	return handler.SSE(func(stream handler.StreamContext) error {
//		return svc.Stream(stream, stream)
//	})
func SSE(handler SSEHandler) Response {
	return sseResponse{handler: handler}
}

type streamContext struct {
	Context
	rc  *http.ResponseController
	buf bytes.Buffer
}

func (c *streamContext) Send(data []byte) error {
	c.buf.Reset()
	for line := range bytes.Lines(data) {
		c.buf.WriteString("data: ")
		c.buf.Write(bytes.TrimRight(line, "\r\n"))
		c.buf.WriteByte('\n')
	}
	if len(data) == 0 {
		c.buf.WriteString("data: \n")
	}
	c.buf.WriteByte('\n')

	if _, err := c.ResponseWriter().Write(c.buf.Bytes()); err != nil {
		return err
	}
	return c.rc.Flush()
}
