// Package httpserver constructs the process's HTTP server. Per-request
// deadlines live in the router's timeout middleware; the limits here guard
// the connection itself against slow or stalled clients.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. WriteTimeout must outlast the router's 30s
// handler timeout so the middleware, not the server, cuts off slow
// assessments with a proper error body.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      35 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
