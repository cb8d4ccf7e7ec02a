package policy

import "github.com/routewise/pmconfig/internal/domain"

// SupportsMandateCreation reports whether the connector can create a
// recurring mandate for the given payment method. Unknown combinations
// resolve to false.
func SupportsMandateCreation(cfg *domain.Config, category, subtype, connector string) bool {
	return cfg.Mandates.CreateSupported[category][subtype].Has(connector)
}

// SupportsMandateUpdate reports whether the connector can update an existing
// mandate. The update matrix is independent of the creation matrix; callers
// must not infer one from the other.
func SupportsMandateUpdate(cfg *domain.Config, category, subtype, connector string) bool {
	return cfg.Mandates.UpdateSupported[category][subtype].Has(connector)
}
