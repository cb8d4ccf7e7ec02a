package loader

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/routewise/pmconfig/internal/domain"
)

// Marshal re-serializes a model back into the document format. Country,
// currency and connector lists are written sorted; a load of the output
// yields a model with identical sets.
func Marshal(cfg *domain.Config) ([]byte, error) {
	raw := rawDocument{
		Server: rawServer{
			Host:             cfg.Server.Host,
			Port:             cfg.Server.Port,
			Workers:          cfg.Server.Workers,
			RequestBodyLimit: cfg.Server.RequestBodyLimit,
		},
		Proxy:  rawProxy{IdlePoolConnectionTimeout: cfg.Proxy.IdlePoolConnectionTimeout},
		Locker: rawLocker{Host: cfg.Locker.Host, MockLocker: cfg.Locker.MockLocker, TTLForStorageInSecs: cfg.Locker.TTLForStorageInSecs},
		Refund: rawRefund{MaxAttempts: cfg.Refund.MaxAttempts, MaxAge: cfg.Refund.MaxAge},
		ForexAPI: rawForex{
			CallDelay:            cfg.ForexAPI.CallDelay,
			APITimeout:           cfg.ForexAPI.APITimeout,
			LocalFetchRetryCount: cfg.ForexAPI.LocalFetchRetryCount,
		},
		Webhooks: rawWebhooks{OutgoingEnabled: cfg.Webhooks.OutgoingEnabled},
		CORS: rawCORS{
			MaxAge:         cfg.CORS.MaxAge,
			WildcardOrigin: cfg.CORS.WildcardOrigin,
			AllowedMethods: cfg.CORS.AllowedMethods.Sorted(),
		},
		Analytics: rawAnalytics{Source: cfg.Analytics.Source},
		DummyConnector: rawDummyConnector{
			Enabled:         cfg.DummyConnector.Enabled,
			PaymentTTL:      cfg.DummyConnector.PaymentTTL,
			PaymentDuration: cfg.DummyConnector.PaymentDuration,
		},
		Email: rawEmail{
			SenderEmail:           cfg.Email.SenderEmail,
			AWSRegion:             cfg.Email.AWSRegion,
			AllowedUnverifiedDays: cfg.Email.AllowedUnverifiedDays,
		},
		Connectors:   marshalConnectors(cfg),
		PMFilters:    marshalFilters(cfg),
		Tokenization: marshalTokenization(cfg),
		Mandates: rawMandates{
			SupportedPaymentMethods: marshalMandateMatrix(cfg.Mandates.CreateSupported),
			UpdateMandateSupported:  marshalMandateMatrix(cfg.Mandates.UpdateSupported),
		},
		Multitenancy: marshalMultitenancy(cfg),
	}

	data, err := toml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func marshalConnectors(cfg *domain.Config) map[string]map[string]any {
	out := make(map[string]map[string]any, len(cfg.Connectors)+1)
	for name, ep := range cfg.Connectors {
		table := make(map[string]any)
		if ep.BaseURL != "" {
			table["base_url"] = ep.BaseURL
		}
		if ep.SecondaryBaseURL != "" {
			table["secondary_base_url"] = ep.SecondaryBaseURL
		}
		if ep.ThirdBaseURL != "" {
			table["third_base_url"] = ep.ThirdBaseURL
		}
		if ep.PayoutBaseURL != "" {
			table["payout_base_url"] = ep.PayoutBaseURL
		}
		if ep.DisputeBaseURL != "" {
			table["dispute_base_url"] = ep.DisputeBaseURL
		}
		if ep.FileUploadBaseURL != "" {
			table["base_url_file_upload"] = ep.FileUploadBaseURL
		}
		out[name] = table
	}
	if len(cfg.Supported) > 0 {
		supported := make(map[string]any, len(cfg.Supported))
		for category, set := range cfg.Supported {
			supported[category] = set.Sorted()
		}
		out["supported"] = supported
	}
	return out
}

func marshalFilters(cfg *domain.Config) map[string]map[string]rawFilter {
	out := make(map[string]map[string]rawFilter, len(cfg.PMFilters))
	for connector, bySubtype := range cfg.PMFilters {
		table := make(map[string]rawFilter, len(bySubtype))
		for subtype, f := range bySubtype {
			rf := rawFilter{
				Country:  f.Countries.Join(),
				Currency: f.Currencies.Join(),
			}
			if f.NotAvailableFlows != nil {
				rf.NotAvailableFlows = &rawFlowExclusion{CaptureMethod: f.NotAvailableFlows.CaptureMethod}
			}
			table[subtype] = rf
		}
		out[connector] = table
	}
	return out
}

func marshalTokenization(cfg *domain.Config) map[string]rawTokenization {
	out := make(map[string]rawTokenization, len(cfg.Tokenization))
	for connector, rule := range cfg.Tokenization {
		rt := rawTokenization{
			LongLivedToken:         rule.LongLivedToken,
			PaymentMethod:          rule.PaymentMethod,
			ApplePayPreDecryptFlow: rule.ApplePayPreDecryptFlow,
		}
		if rule.PaymentMethodType != nil {
			rt.PaymentMethodType = &rawPMTypeFilter{
				Type: string(rule.PaymentMethodType.Mode),
				List: rule.PaymentMethodType.List.Join(),
			}
		}
		out[connector] = rt
	}
	return out
}

func marshalMandateMatrix(matrix map[string]map[string]domain.StringSet) map[string]map[string]rawConnectorList {
	out := make(map[string]map[string]rawConnectorList, len(matrix))
	for category, bySubtype := range matrix {
		table := make(map[string]rawConnectorList, len(bySubtype))
		for subtype, set := range bySubtype {
			table[subtype] = rawConnectorList{ConnectorList: set.Join()}
		}
		out[category] = table
	}
	return out
}

func marshalMultitenancy(cfg *domain.Config) rawMultitenancy {
	mt := rawMultitenancy{
		Enabled:      cfg.Multitenancy.Enabled,
		GlobalTenant: marshalTenant(cfg.Multitenancy.GlobalTenant),
		Tenants:      make(map[string]rawTenant, len(cfg.Multitenancy.Tenants)),
	}
	for id, tenant := range cfg.Multitenancy.Tenants {
		mt.Tenants[id] = marshalTenant(tenant)
	}
	return mt
}

func marshalTenant(t domain.Tenant) rawTenant {
	return rawTenant{
		TenantID:           t.TenantID,
		BaseURL:            t.BaseURL,
		Schema:             t.Schema,
		AccountsSchema:     t.AccountsSchema,
		RedisKeyPrefix:     t.RedisKeyPrefix,
		ClickhouseDatabase: t.ClickhouseDatabase,
		User:               rawTenantUser{ControlCenterURL: t.User.ControlCenterURL},
	}
}
