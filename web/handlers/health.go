package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

// Root handles GET / as a liveness banner.
func (h *HealthHandlers) Root(w http.ResponseWriter, _ *http.Request) {
	renderJSON(w, http.StatusOK, map[string]string{"message": "API Ready"})
}

// Redis handles GET /health/redis by pinging the cache backend.
func (h *HealthHandlers) Redis(w http.ResponseWriter, r *http.Request) {
	if err := h.Deps.Cache.Ping(r.Context()); err != nil {
		h.Deps.Logger.Warn("redis health check failed", zap.Error(err))
		renderJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"details": err.Error(),
		})

		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"status": "connected",
		"pong":   true,
	})
}

// Elasticsearch handles GET /health/elasticsearch by querying cluster health.
func (h *HealthHandlers) Elasticsearch(w http.ResponseWriter, r *http.Request) {
	status, err := h.Deps.Search.Health(r.Context())
	if err != nil {
		h.Deps.Logger.Warn("elasticsearch health check failed", zap.Error(err))
		renderJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "error",
			"details": err.Error(),
		})

		return
	}

	renderJSON(w, http.StatusOK, map[string]any{
		"status":         "connected",
		"cluster_health": status,
	})
}
