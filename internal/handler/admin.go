package handler

import (
	"net/http"
	"strconv"

	"github.com/routewise/pmconfig/internal/auth"
	"github.com/routewise/pmconfig/internal/domain"
	"github.com/routewise/pmconfig/internal/service"
)

// AdminHandler serves the operator surface: reloads and load history.
type AdminHandler struct {
	svc *service.ConfigService
}

// NewAdminHandler creates an admin handler.
func NewAdminHandler(svc *service.ConfigService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// Reload re-parses the configuration document and swaps it in atomically.
// A rejected document leaves the active model untouched and returns the full
// error list.
func (h *AdminHandler) Reload(w http.ResponseWriter, r *http.Request) {
	actor := "unknown"
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		actor = claims.Subject
	}

	result, err := h.svc.Reload(r.Context(), actor)
	if err != nil {
		RespondError(w, domain.ErrConfigRejected(err))
		return
	}
	RespondJSON(w, http.StatusOK, result)
}

// ListLoads returns recent load attempts, newest first.
func (h *AdminHandler) ListLoads(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	loads, err := h.svc.History(r.Context(), limit)
	if err != nil {
		RespondError(w, domain.ErrInternal("list config loads", err))
		return
	}
	if loads == nil {
		loads = []domain.ConfigLoad{}
	}
	RespondJSON(w, http.StatusOK, map[string]any{
		"audit_enabled": h.svc.AuditEnabled(),
		"loads":         loads,
	})
}
