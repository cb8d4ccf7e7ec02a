// Package policy implements the read-side resolvers the routing engine
// consults per transaction: payment-method eligibility, mandate capability
// and tokenization rules. Every resolver is a pure lookup over the loaded
// model; unknown keys resolve to a documented default, never an error, so
// the hot routing path stays exception-free.
package policy

import "github.com/routewise/pmconfig/internal/domain"

// FlowAttributes carries the optional per-transaction attributes that
// exclusion filters can match against.
type FlowAttributes struct {
	CaptureMethod string `json:"capture_method,omitempty"`
}

// Evaluation is the result of an eligibility check.
type Evaluation struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"`
}

// EvaluateEligibility decides whether a connector may process the given
// payment method in the given country and currency.
//
// The filter tables are sparse on purpose: most connectors only list filters
// for a subset of what they support. A pair with no filter entry is therefore
// eligible as soon as the connector appears in the capability set for the
// category (default-allow). The connector-agnostic default table applies only
// when the connector has no entry of its own for the subtype.
func EvaluateEligibility(cfg *domain.Config, connector, category, subtype, country, currency string, flow FlowAttributes) Evaluation {
	if !cfg.Supported[capabilityKey(category)].Has(connector) {
		return Evaluation{Eligible: false, Reason: "connector " + connector + " does not support category " + category}
	}

	filter, ok := cfg.PMFilters[connector][subtype]
	if !ok {
		filter, ok = cfg.PMFilters[domain.DefaultFilterKey][subtype]
		if !ok {
			return Evaluation{Eligible: true}
		}
	}

	// Allow-list axes are conjunctive; an absent axis matches everything.
	if filter.Countries != nil && !filter.Countries.Has(country) {
		return Evaluation{Eligible: false, Reason: "country " + country + " not in allowed list"}
	}
	if filter.Currencies != nil && !filter.Currencies.Has(currency) {
		return Evaluation{Eligible: false, Reason: "currency " + currency + " not in allowed list"}
	}

	// Exclusions apply after the allow-list: they can only subtract.
	if ex := filter.NotAvailableFlows; ex != nil {
		if ex.CaptureMethod != "" && ex.CaptureMethod == flow.CaptureMethod {
			return Evaluation{Eligible: false, Reason: "capture method " + flow.CaptureMethod + " not available"}
		}
	}

	return Evaluation{Eligible: true}
}

// capabilityKey maps a payment-method category to its key in the
// connectors.supported table, which pluralizes some category names.
func capabilityKey(category string) string {
	switch category {
	case "card":
		return "cards"
	case "wallet":
		return "wallets"
	case "reward":
		return "rewards"
	default:
		return category
	}
}
