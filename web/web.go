// Package web wires the handlers onto the router and runs the HTTP server.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yacinebz/go-crud-soft-delete/web/handlers"
	"github.com/yacinebz/go-crud-soft-delete/web/middleware"
)

const shutdownTimeout = 10 * time.Second

// Config carries the server settings and the handler dependencies.
type Config struct {
	Addr string
	Deps handlers.Dependencies
}

// NewRouter builds the full route table. The bare numeric pattern on the
// user detail route keeps it from shadowing /users/ and /produits/.
func NewRouter(deps handlers.Dependencies) *mux.Router {
	group := handlers.NewHandlerGroup(deps)

	router := mux.NewRouter()

	router.HandleFunc("/", group.Health.Root).Methods(http.MethodGet)
	router.HandleFunc("/health/redis", group.Health.Redis).Methods(http.MethodGet)
	router.HandleFunc("/health/elasticsearch", group.Health.Elasticsearch).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users/", group.Users.Create).Methods(http.MethodPost)
	api.HandleFunc("/users/", group.Users.List).Methods(http.MethodGet)
	api.HandleFunc("/users/deleted", group.Users.ListDeleted).Methods(http.MethodGet)
	api.HandleFunc("/users/search/", group.Users.Search).Methods(http.MethodGet)
	api.HandleFunc("/users/{user_id:[0-9]+}", group.Users.UpdateEmail).Methods(http.MethodPut)
	api.HandleFunc("/users/{user_id:[0-9]+}/soft", group.Users.SoftDelete).Methods(http.MethodDelete)
	api.HandleFunc("/users/{user_id:[0-9]+}/hard", group.Users.HardDelete).Methods(http.MethodDelete)
	api.HandleFunc("/users/{user_id:[0-9]+}/restore", group.Users.Restore).Methods(http.MethodPut)
	api.HandleFunc("/{user_id:[0-9]+}", group.Users.Get).Methods(http.MethodGet)

	api.HandleFunc("/produits/", group.Products.Create).Methods(http.MethodPost)
	api.HandleFunc("/produits/", group.Products.List).Methods(http.MethodGet)
	api.HandleFunc("/produits/{product_id:[0-9]+}", group.Products.Get).Methods(http.MethodGet)

	return router
}

// Start runs the server until the context is cancelled, then drains
// in-flight requests within the shutdown timeout.
func Start(ctx context.Context, cfg Config) error {
	logger := cfg.Deps.Logger
	if logger == nil {
		logger = zap.NewNop()
		cfg.Deps.Logger = logger
	}

	handler := middleware.Chain(
		NewRouter(cfg.Deps),
		middleware.RequestID,
		middleware.RequestLogger(logger),
		middleware.Metrics,
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down http server")

		return srv.Shutdown(shutdownCtx)
	}
}
