package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/routewise/pmconfig/internal/domain"
)

func tokenizationFixture() *domain.Config {
	return &domain.Config{
		Tokenization: map[string]domain.TokenizationRule{
			"braintree": {LongLivedToken: false, PaymentMethod: "card"},
			"stripe": {
				PaymentMethod: "wallet",
				PaymentMethodType: &domain.PaymentMethodTypeFilter{
					Mode: domain.PMTypeDisableOnly,
					List: domain.NewStringSet("google_pay"),
				},
			},
			"checkout": {
				PaymentMethod: "wallet",
				PaymentMethodType: &domain.PaymentMethodTypeFilter{
					Mode: domain.PMTypeEnableOnly,
					List: domain.NewStringSet("apple_pay"),
				},
			},
		},
	}
}

func TestTokenizationRuleFor(t *testing.T) {
	cfg := tokenizationFixture()

	rule, ok := TokenizationRuleFor(cfg, "braintree")
	require.True(t, ok)
	assert.Equal(t, "card", rule.PaymentMethod)

	_, ok = TokenizationRuleFor(cfg, "mollie")
	assert.False(t, ok)
}

func TestTokenizationEnabledFor(t *testing.T) {
	cfg := tokenizationFixture()

	t.Run("connector without sub-rule", func(t *testing.T) {
		assert.True(t, TokenizationEnabledFor(cfg, "braintree", "credit"))
	})

	t.Run("disable_only suppresses listed types", func(t *testing.T) {
		assert.False(t, TokenizationEnabledFor(cfg, "stripe", "google_pay"))
		assert.True(t, TokenizationEnabledFor(cfg, "stripe", "apple_pay"))
	})

	t.Run("enable_only limits to listed types", func(t *testing.T) {
		assert.True(t, TokenizationEnabledFor(cfg, "checkout", "apple_pay"))
		assert.False(t, TokenizationEnabledFor(cfg, "checkout", "google_pay"))
	})

	t.Run("connector without rule", func(t *testing.T) {
		assert.False(t, TokenizationEnabledFor(cfg, "ghost", "credit"))
	})
}
