package bootstrap

import (
	"net/http"
	"time"
)

// NewServer serves app on addr. Shutdown closes the app's streams first so
// open SSE connections do not hold the server until the deadline.
func NewServer(addr string, app *App) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv.RegisterOnShutdown(app.Close)
	return srv
}
