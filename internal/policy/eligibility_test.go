package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/routewise/pmconfig/internal/domain"
)

func eligibilityFixture() *domain.Config {
	return &domain.Config{
		Supported: map[string]domain.StringSet{
			"cards":         domain.NewStringSet("mollie", "noon", "stripe", "zen"),
			"wallets":       domain.NewStringSet("adyen", "stripe"),
			"rewards":       domain.NewStringSet("zen"),
			"bank_redirect": domain.NewStringSet("adyen", "mollie", "stripe"),
			"bank_debit":    domain.NewStringSet("stripe"),
		},
		PMFilters: map[string]map[string]domain.PMFilter{
			domain.DefaultFilterKey: {
				"ach": {Countries: domain.NewStringSet("US"), Currencies: domain.NewStringSet("USD")},
			},
			"adyen": {
				"ideal": {Countries: domain.NewStringSet("NL"), Currencies: domain.NewStringSet("EUR")},
			},
			"mollie": {
				"credit": {NotAvailableFlows: &domain.FlowExclusion{CaptureMethod: "manual"}},
			},
			"zen": {
				"credit": {
					Countries:         domain.NewStringSet("DE", "PL", "US"),
					Currencies:        domain.NewStringSet("EUR", "PLN", "USD"),
					NotAvailableFlows: &domain.FlowExclusion{CaptureMethod: "manual"},
				},
			},
			"stripe": {
				"sepa": {Countries: domain.NewStringSet("DE", "NL"), Currencies: domain.NewStringSet("EUR")},
			},
		},
	}
}

func TestEvaluateEligibility_AllowList(t *testing.T) {
	cfg := eligibilityFixture()

	t.Run("country and currency match", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "NL", "EUR", FlowAttributes{})
		assert.True(t, ev.Eligible)
		assert.Empty(t, ev.Reason)
	})

	t.Run("country outside list", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "US", "USD", FlowAttributes{})
		assert.False(t, ev.Eligible)
		assert.Contains(t, ev.Reason, "country")
	})

	t.Run("currency outside list", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "NL", "USD", FlowAttributes{})
		assert.False(t, ev.Eligible)
		assert.Contains(t, ev.Reason, "currency")
	})
}

func TestEvaluateEligibility_CapabilityGate(t *testing.T) {
	cfg := eligibilityFixture()

	t.Run("connector missing from capability set", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "zen", "bank_redirect", "ideal", "NL", "EUR", FlowAttributes{})
		assert.False(t, ev.Eligible)
		assert.Contains(t, ev.Reason, "does not support")
	})

	t.Run("unknown connector", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "ghost", "card", "credit", "NL", "EUR", FlowAttributes{})
		assert.False(t, ev.Eligible)
	})

	t.Run("category names map to pluralized sets", func(t *testing.T) {
		assert.True(t, EvaluateEligibility(cfg, "stripe", "wallet", "google_pay", "US", "USD", FlowAttributes{}).Eligible)
		assert.True(t, EvaluateEligibility(cfg, "zen", "reward", "classic", "US", "USD", FlowAttributes{}).Eligible)
	})
}

func TestEvaluateEligibility_DefaultAllow(t *testing.T) {
	cfg := eligibilityFixture()

	// noon has no filter for credit and there is no default entry for it
	// either, so capability membership alone decides.
	ev := EvaluateEligibility(cfg, "noon", "card", "credit", "ZW", "ZWL", FlowAttributes{})
	assert.True(t, ev.Eligible)
}

func TestEvaluateEligibility_DefaultTableFallback(t *testing.T) {
	cfg := eligibilityFixture()

	t.Run("falls back when connector has no entry", func(t *testing.T) {
		assert.True(t, EvaluateEligibility(cfg, "stripe", "bank_debit", "ach", "US", "USD", FlowAttributes{}).Eligible)
		assert.False(t, EvaluateEligibility(cfg, "stripe", "bank_debit", "ach", "DE", "EUR", FlowAttributes{}).Eligible)
	})

	t.Run("own entry wins over default", func(t *testing.T) {
		cfg.PMFilters["stripe"]["ach"] = domain.PMFilter{
			Countries:  domain.NewStringSet("GB", "US"),
			Currencies: domain.NewStringSet("GBP", "USD"),
		}
		assert.True(t, EvaluateEligibility(cfg, "stripe", "bank_debit", "ach", "GB", "GBP", FlowAttributes{}).Eligible)
	})
}

func TestEvaluateEligibility_GrowingAllowListOnlyAdds(t *testing.T) {
	cfg := eligibilityFixture()

	assert.False(t, EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "BE", "EUR", FlowAttributes{}).Eligible)

	filter := cfg.PMFilters["adyen"]["ideal"]
	filter.Countries = domain.NewStringSet("NL", "BE")
	cfg.PMFilters["adyen"]["ideal"] = filter

	// The new country becomes eligible; nothing already eligible flips.
	assert.True(t, EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "BE", "EUR", FlowAttributes{}).Eligible)
	assert.True(t, EvaluateEligibility(cfg, "adyen", "bank_redirect", "ideal", "NL", "EUR", FlowAttributes{}).Eligible)
}

func TestEvaluateEligibility_Exclusions(t *testing.T) {
	cfg := eligibilityFixture()

	t.Run("excluded capture method", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "mollie", "card", "credit", "NL", "EUR", FlowAttributes{CaptureMethod: "manual"})
		assert.False(t, ev.Eligible)
		assert.Contains(t, ev.Reason, "capture method")
	})

	t.Run("other capture methods pass", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "mollie", "card", "credit", "NL", "EUR", FlowAttributes{CaptureMethod: "automatic"})
		assert.True(t, ev.Eligible)
	})

	t.Run("absent flow attribute passes", func(t *testing.T) {
		ev := EvaluateEligibility(cfg, "mollie", "card", "credit", "NL", "EUR", FlowAttributes{})
		assert.True(t, ev.Eligible)
	})

	t.Run("exclusion subtracts from an allow-list match", func(t *testing.T) {
		assert.True(t, EvaluateEligibility(cfg, "zen", "card", "credit", "DE", "EUR", FlowAttributes{CaptureMethod: "automatic"}).Eligible)
		assert.False(t, EvaluateEligibility(cfg, "zen", "card", "credit", "DE", "EUR", FlowAttributes{CaptureMethod: "manual"}).Eligible)
		assert.False(t, EvaluateEligibility(cfg, "zen", "card", "credit", "FR", "EUR", FlowAttributes{CaptureMethod: "automatic"}).Eligible)
	})
}
