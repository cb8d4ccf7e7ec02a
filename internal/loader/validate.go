package loader

import (
	"fmt"

	"github.com/routewise/pmconfig/internal/domain"
)

// validate runs the semantic validation pass over a built model, appending
// every problem found to errs. It never stops at the first failure.
func validate(cfg *domain.Config, errs *domain.ValidationErrors) {
	validateConnectors(cfg, errs)
	validateFilters(cfg, errs)
	validateTokenization(cfg, errs)
	validateMandates(cfg, errs)
	validateMultitenancy(cfg, errs)
	validateScalars(cfg, errs)
}

func validateConnectors(cfg *domain.Config, errs *domain.ValidationErrors) {
	for name, ep := range cfg.Connectors {
		if !ep.HasURL() {
			errs.Add("connectors."+name, "at least one base URL is required")
		}
	}
	for category, set := range cfg.Supported {
		for connector := range set {
			if _, ok := cfg.Connectors[connector]; !ok {
				errs.Add("connectors.supported."+category, "unknown connector %q", connector)
			}
		}
	}
}

func validateFilters(cfg *domain.Config, errs *domain.ValidationErrors) {
	for connector, bySubtype := range cfg.PMFilters {
		if connector != domain.DefaultFilterKey {
			if _, ok := cfg.Connectors[connector]; !ok {
				errs.Add("pm_filters."+connector, "unknown connector %q", connector)
			}
		}
		for subtype, f := range bySubtype {
			key := fmt.Sprintf("pm_filters.%s.%s", connector, subtype)
			for code := range f.Countries {
				if err := domain.ValidateCountry(code); err != nil {
					errs.Add(key+".country", "%v", err)
				}
			}
			for code := range f.Currencies {
				if err := domain.ValidateCurrency(code); err != nil {
					errs.Add(key+".currency", "%v", err)
				}
			}
		}
	}
}

func validateTokenization(cfg *domain.Config, errs *domain.ValidationErrors) {
	for connector := range cfg.Tokenization {
		if _, ok := cfg.Connectors[connector]; !ok {
			errs.Add("tokenization."+connector, "unknown connector %q", connector)
		}
	}
}

func validateMandates(cfg *domain.Config, errs *domain.ValidationErrors) {
	checkMatrix := func(section string, matrix map[string]map[string]domain.StringSet) {
		for category, bySubtype := range matrix {
			for subtype, set := range bySubtype {
				key := fmt.Sprintf("mandates.%s.%s.%s", section, category, subtype)
				for connector := range set {
					if _, ok := cfg.Connectors[connector]; !ok {
						errs.Add(key, "unknown connector %q", connector)
					}
				}
			}
		}
	}
	checkMatrix("supported_payment_methods", cfg.Mandates.CreateSupported)
	checkMatrix("update_mandate_supported", cfg.Mandates.UpdateSupported)

	// Update support without creation support means the connector could never
	// have issued the mandate it claims to update.
	for category, bySubtype := range cfg.Mandates.UpdateSupported {
		for subtype, updateSet := range bySubtype {
			createSet := cfg.Mandates.CreateSupported[category][subtype]
			for connector := range updateSet {
				if !createSet.Has(connector) {
					errs.Add(fmt.Sprintf("mandates.update_mandate_supported.%s.%s", category, subtype),
						"connector %q is missing from supported_payment_methods", connector)
				}
			}
		}
	}
}

func validateMultitenancy(cfg *domain.Config, errs *domain.ValidationErrors) {
	if !cfg.Multitenancy.Enabled {
		return
	}
	if cfg.Multitenancy.GlobalTenant.TenantID == "" {
		errs.Add("multitenancy.global_tenant.tenant_id", "required when multitenancy is enabled")
	}
	if cfg.Multitenancy.GlobalTenant.Schema == "" {
		errs.Add("multitenancy.global_tenant.schema", "required when multitenancy is enabled")
	}
	for id, tenant := range cfg.Multitenancy.Tenants {
		if tenant.Schema == "" {
			errs.Add(fmt.Sprintf("multitenancy.tenants.%s.schema", id), "must not be empty")
		}
		if tenant.BaseURL == "" {
			errs.Add(fmt.Sprintf("multitenancy.tenants.%s.base_url", id), "must not be empty")
		}
	}
}

func validateScalars(cfg *domain.Config, errs *domain.ValidationErrors) {
	positives := []struct {
		field string
		value int64
	}{
		{"server.port", int64(cfg.Server.Port)},
		{"server.workers", int64(cfg.Server.Workers)},
		{"server.request_body_limit", int64(cfg.Server.RequestBodyLimit)},
		{"proxy.idle_pool_connection_timeout", int64(cfg.Proxy.IdlePoolConnectionTimeout)},
		{"locker.ttl_for_storage_in_secs", int64(cfg.Locker.TTLForStorageInSecs)},
		{"refund.max_attempts", int64(cfg.Refund.MaxAttempts)},
		{"refund.max_age", int64(cfg.Refund.MaxAge)},
		{"forex_api.call_delay", cfg.ForexAPI.CallDelay},
		{"forex_api.api_timeout", cfg.ForexAPI.APITimeout},
		{"forex_api.local_fetch_retry_count", int64(cfg.ForexAPI.LocalFetchRetryCount)},
		{"cors.max_age", int64(cfg.CORS.MaxAge)},
		{"dummy_connector.payment_ttl", cfg.DummyConnector.PaymentTTL},
		{"dummy_connector.payment_duration", cfg.DummyConnector.PaymentDuration},
		{"email.allowed_unverified_days", int64(cfg.Email.AllowedUnverifiedDays)},
	}
	for _, p := range positives {
		if err := domain.ValidatePositive(p.field, p.value); err != nil {
			errs.Add(p.field, "%v", err)
		}
	}
}
