package httpserver

import (
	"net/http"
	"time"
)

// New builds the API server. Per-route deadlines come from the timeout
// middleware; WriteTimeout stays generous because certificate downloads
// stream proxied PDF bodies.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
}
