// Package binder decodes HTTP requests into Go structs.
//
// JSON decodes a request body; Query fills struct fields tagged `query:"name"`
// from the URL query. Both return errors wrapping one of the package sentinels
// (ErrInvalidJSON, ErrUnsupportedMediaType, ErrInvalidQuery) as a *Error, which
// carries per-field details for the client.
//
//	type createRequest struct {
//		Title   string  `json:"title" query:"title"`
//		Message *string `json:"message" query:"message"`
//	}
//
//	r.Post("/", handler.Wrap(create, handler.WithBinder(binder.JSON())))
//	r.Get("/send", handler.Wrap(create, handler.WithBinder(binder.Query())))
package binder
