package policy

import "github.com/routewise/pmconfig/internal/domain"

// TokenizationRuleFor returns the connector-level tokenization rule, if any.
func TokenizationRuleFor(cfg *domain.Config, connector string) (domain.TokenizationRule, bool) {
	rule, ok := cfg.Tokenization[connector]
	return rule, ok
}

// TokenizationEnabledFor reports whether the connector tokenizes the given
// payment-method type. The type-scoped sub-rule overrides the connector-level
// rule for the types it lists; every other type inherits the connector rule.
func TokenizationEnabledFor(cfg *domain.Config, connector, paymentMethodType string) bool {
	rule, ok := cfg.Tokenization[connector]
	if !ok {
		return false
	}
	if sub := rule.PaymentMethodType; sub != nil {
		listed := sub.List.Has(paymentMethodType)
		switch sub.Mode {
		case domain.PMTypeDisableOnly:
			if listed {
				return false
			}
		case domain.PMTypeEnableOnly:
			if !listed {
				return false
			}
		}
	}
	return true
}
