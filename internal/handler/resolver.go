package handler

import (
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/routewise/pmconfig/internal/domain"
	"github.com/routewise/pmconfig/internal/policy"
	"github.com/routewise/pmconfig/internal/registry"
)

// ResolverHandler serves the per-transaction resolver queries consumed by the
// routing engine.
type ResolverHandler struct {
	reg *registry.Registry
}

// NewResolverHandler creates a resolver handler backed by the registry.
func NewResolverHandler(reg *registry.Registry) *ResolverHandler {
	return &ResolverHandler{reg: reg}
}

type eligibilityRequest struct {
	Connector         string `json:"connector"`
	PaymentMethod     string `json:"payment_method"`
	PaymentMethodType string `json:"payment_method_type"`
	Country           string `json:"country"`
	Currency          string `json:"currency"`
	CaptureMethod     string `json:"capture_method,omitempty"`
}

// CheckEligibility resolves whether a connector may process the given
// payment method, country and currency.
func (h *ResolverHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	var req eligibilityRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if req.Connector == "" || req.PaymentMethod == "" || req.PaymentMethodType == "" {
		RespondError(w, domain.ErrValidation("connector, payment_method and payment_method_type are required"))
		return
	}

	result := policy.EvaluateEligibility(
		h.reg.Current(),
		req.Connector, req.PaymentMethod, req.PaymentMethodType,
		req.Country, req.Currency,
		policy.FlowAttributes{CaptureMethod: req.CaptureMethod},
	)
	RespondJSON(w, http.StatusOK, result)
}

// ListConnectors returns every configured connector name.
func (h *ResolverHandler) ListConnectors(w http.ResponseWriter, r *http.Request) {
	cfg := h.reg.Current()
	names := make([]string, 0, len(cfg.Connectors))
	for name := range cfg.Connectors {
		names = append(names, name)
	}
	sort.Strings(names)
	RespondJSON(w, http.StatusOK, map[string]any{"connectors": names})
}

// GetConnector returns the endpoint URLs for one connector.
func (h *ResolverHandler) GetConnector(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ep, ok := h.reg.Current().Connectors[name]
	if !ok {
		RespondError(w, domain.ErrNotFound("connector", name))
		return
	}
	RespondJSON(w, http.StatusOK, ep)
}

// MandateSupport reports create and update mandate capability for a
// (payment method, subtype, connector) triple. Both matrices are consulted
// independently.
func (h *ResolverHandler) MandateSupport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := q.Get("payment_method")
	subtype := q.Get("payment_method_type")
	connector := q.Get("connector")
	if category == "" || subtype == "" || connector == "" {
		RespondError(w, domain.ErrValidation("payment_method, payment_method_type and connector are required"))
		return
	}

	cfg := h.reg.Current()
	RespondJSON(w, http.StatusOK, map[string]bool{
		"create": policy.SupportsMandateCreation(cfg, category, subtype, connector),
		"update": policy.SupportsMandateUpdate(cfg, category, subtype, connector),
	})
}

// GetTokenization returns the tokenization rule for a connector.
func (h *ResolverHandler) GetTokenization(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "connector")
	rule, ok := policy.TokenizationRuleFor(h.reg.Current(), name)
	if !ok {
		RespondError(w, domain.ErrNotFound("tokenization rule", name))
		return
	}
	RespondJSON(w, http.StatusOK, rule)
}

// GetTenant returns one tenant's configuration.
func (h *ResolverHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tenant, ok := h.reg.Current().Multitenancy.Tenants[id]
	if !ok {
		RespondError(w, domain.ErrNotFound("tenant", id))
		return
	}
	RespondJSON(w, http.StatusOK, tenant)
}
