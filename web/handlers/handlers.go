// Package handlers maps the HTTP surface onto the store, the cache and the
// search index. User endpoints speak the StandardResponse envelope; product
// endpoints return resources and APIError directly. The split is inherited
// behavior, not a convention to copy elsewhere.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/yacinebz/go-crud-soft-delete/internal/database"
	"github.com/yacinebz/go-crud-soft-delete/models"
	"github.com/yacinebz/go-crud-soft-delete/search"
)

// Cache is the cache-aside contract the handlers consume.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// Searcher is the search-index contract the handlers consume.
type Searcher interface {
	IndexUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, query string) ([]search.UserDocument, error)
	Health(ctx context.Context) (string, error)
}

// Dependencies aggregates the shared services used by handlers.
type Dependencies struct {
	Logger   *zap.Logger
	DB       *database.Db
	Cache    Cache
	Search   Searcher
	CacheTTL time.Duration
}

// HandlerGroup groups all handler categories for routing setup.
type HandlerGroup struct {
	Users    *UserHandlers
	Products *ProductHandlers
	Health   *HealthHandlers
}

// NewHandlerGroup constructs a HandlerGroup with initialized handlers.
func NewHandlerGroup(deps Dependencies) *HandlerGroup {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &HandlerGroup{
		Users:    &UserHandlers{Deps: deps},
		Products: &ProductHandlers{Deps: deps},
		Health:   &HealthHandlers{Deps: deps},
	}
}

// UserHandlers contains the user endpoints.
type UserHandlers struct{ Deps Dependencies }

// ProductHandlers contains the product endpoints.
type ProductHandlers struct{ Deps Dependencies }

// HealthHandlers contains the connectivity probes and the root endpoint.
type HealthHandlers struct{ Deps Dependencies }

func renderJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// renderEnvelope writes a StandardResponse. The HTTP status line mirrors
// the envelope code.
func renderEnvelope(w http.ResponseWriter, code int, message string, data any) {
	renderJSON(w, code, models.StandardResponse{Code: code, Message: message, Data: data})
}
