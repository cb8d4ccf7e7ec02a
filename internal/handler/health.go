package handler

import (
	"net/http"

	"github.com/routewise/pmconfig/internal/registry"
)

// HealthHandler reports whether a configuration model is loaded and serving.
func HealthHandler(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := reg.Current()
		if cfg == nil {
			RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "no configuration loaded",
			})
			return
		}
		RespondJSON(w, http.StatusOK, map[string]any{
			"status":     "healthy",
			"connectors": len(cfg.Connectors),
		})
	}
}
