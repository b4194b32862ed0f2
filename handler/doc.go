// Package handler provides typed HTTP handlers with pluggable binding,
// JSON and event-stream responses and a JSON error envelope.
//
// A HandlerFunc receives a Context and a request value filled by the configured
// binders, and returns a Response:
//
//	type createRequest struct {
//		Title string `json:"title" query:"title"`
//	}
//
//	func create(ctx handler.Context, req createRequest) handler.Response {
//		n, err := svc.Create(ctx, toInput(req))
//		if err != nil {
//			return handler.Error(err)
//		}
//		return handler.JSON(n, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/", handler.Wrap(create,
//		handler.WithBinder[createRequest](binder.JSON()),
//		handler.WithErrorHandler[createRequest](handler.NewErrorHandler(log)),
//	))
//
// # Responses
//
//	handler.JSON(v)                 // 200 with v encoded as is
//	handler.JSON(v, WithJSONStatus(201))
//	handler.Error(err)              // delegates to the error handler
//	handler.SSE(fn)                 // text/event-stream, fn owns the connection
//
// # Errors
//
// NewErrorHandler maps errors onto ErrorEnvelope responses:
// validation errors become 400, binding errors 422, HTTPError values their own
// code and everything else 500 with a generic message. Errors from a stream
// whose headers are already sent are only logged, and a cancelled request
// context is treated as a client disconnect.
package handler
