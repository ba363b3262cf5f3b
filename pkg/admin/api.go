package admin

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/offerdesk/offerd/pkg/config"
	"github.com/offerdesk/offerd/pkg/logging"
	"github.com/offerdesk/offerd/pkg/store"
)

// shutdownTimeout bounds how long Stop waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

// API serves the offer endpoints and the embedded admin page.
type API struct {
	offers     store.OfferStore
	sessions   *sessionAuth
	httpServer *http.Server
	port       int
	startTime  time.Time
	version    string
	log        *slog.Logger
}

// Option configures an API.
type Option func(*API)

// WithVersion sets the version string reported by the health endpoint.
func WithVersion(version string) Option {
	return func(a *API) {
		a.version = version
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an API serving offers from the given store, authenticated
// against the users in cfg.
func New(cfg config.Config, offers store.OfferStore, opts ...Option) (*API, error) {
	api := &API{
		offers: offers,
		port:   cfg.Port,
		log:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(api)
	}

	sessions, err := newSessionAuth(cfg, api.log.Warn)
	if err != nil {
		return nil, err
	}
	api.sessions = sessions

	api.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", api.port),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return api, nil
}

// Handler returns the full middleware-wrapped handler. Exposed so tests
// can drive the API through httptest without a listener.
func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	a.registerRoutes(mux)
	return chainMiddleware(mux,
		securityHeadersMiddleware,
		requestLogMiddleware(a.log),
		a.sessions.middleware,
	)
}

// Start starts the HTTP server.
func (a *API) Start() error {
	a.startTime = time.Now()
	a.log.Info("starting offer admin API", "port", a.port)
	go func() {
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("offer admin API error", "error", err)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (a *API) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return a.httpServer.Shutdown(ctx)
}

// Uptime returns how long the API has been running.
func (a *API) Uptime() time.Duration {
	return time.Since(a.startTime)
}
