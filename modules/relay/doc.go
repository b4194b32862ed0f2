// Package relay mounts the push relay HTTP API.
//
// Routes:
//
//	POST /         create a notification from a JSON body (201)
//	GET  /send     create a notification from query parameters (200)
//	GET  /         full history, oldest first
//	GET  /latest   most recent notification or 404
//	GET  /events   text/event-stream of notifications created while connected
//	GET  /health   liveness with history and subscriber counts
//
// Both creation routes bind into the same request type and share one intake
// path, so they store and broadcast identical records.
package relay
