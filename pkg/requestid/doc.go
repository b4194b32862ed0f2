// Package requestid tags every HTTP request with a correlation identifier.
//
// Middleware reuses a well-formed "X-Request-ID" header sent by the client or
// generates a UUID, stores the value in the request context and echoes it in
// the response header. LogExtractor feeds the identifier into logger.New so
// every record written while serving the request carries request_id.
//
//	log := logger.New(logger.WithContextExtractors(requestid.LogExtractor()))
//	r.Use(requestid.Middleware)
package requestid
