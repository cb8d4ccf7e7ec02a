package loader

import (
	"fmt"

	"github.com/routewise/pmconfig/internal/domain"
)

// rawDocument mirrors the on-disk TOML layout. Section and key names must
// stay exactly as deployed documents spell them.
type rawDocument struct {
	Server         rawServer         `toml:"server"`
	Proxy          rawProxy          `toml:"proxy"`
	Locker         rawLocker         `toml:"locker"`
	Refund         rawRefund         `toml:"refund"`
	ForexAPI       rawForex          `toml:"forex_api"`
	Webhooks       rawWebhooks       `toml:"webhooks"`
	CORS           rawCORS           `toml:"cors"`
	Analytics      rawAnalytics      `toml:"analytics"`
	DummyConnector rawDummyConnector `toml:"dummy_connector"`
	Email          rawEmail          `toml:"email"`

	// connectors mixes per-connector endpoint tables with the special
	// "supported" capability table, so it is decoded loosely and shaped in
	// buildConnectors.
	Connectors map[string]map[string]any `toml:"connectors"`

	PMFilters    map[string]map[string]rawFilter `toml:"pm_filters"`
	Tokenization map[string]rawTokenization      `toml:"tokenization"`
	Mandates     rawMandates                     `toml:"mandates"`
	Multitenancy rawMultitenancy                 `toml:"multitenancy"`
}

type rawServer struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	Workers          int    `toml:"workers"`
	RequestBodyLimit int    `toml:"request_body_limit"`
}

type rawProxy struct {
	IdlePoolConnectionTimeout int `toml:"idle_pool_connection_timeout"`
}

type rawLocker struct {
	Host                string `toml:"host"`
	MockLocker          bool   `toml:"mock_locker"`
	TTLForStorageInSecs int    `toml:"ttl_for_storage_in_secs"`
}

type rawRefund struct {
	MaxAttempts int `toml:"max_attempts"`
	MaxAge      int `toml:"max_age"`
}

type rawForex struct {
	CallDelay            int64 `toml:"call_delay"`
	APITimeout           int64 `toml:"api_timeout"`
	LocalFetchRetryCount int   `toml:"local_fetch_retry_count"`
}

type rawWebhooks struct {
	OutgoingEnabled bool `toml:"outgoing_enabled"`
}

type rawCORS struct {
	MaxAge         int      `toml:"max_age"`
	WildcardOrigin bool     `toml:"wildcard_origin"`
	AllowedMethods []string `toml:"allowed_methods"`
}

type rawAnalytics struct {
	Source string `toml:"source"`
}

type rawDummyConnector struct {
	Enabled         bool  `toml:"enabled"`
	PaymentTTL      int64 `toml:"payment_ttl"`
	PaymentDuration int64 `toml:"payment_duration"`
}

type rawEmail struct {
	SenderEmail           string `toml:"sender_email"`
	AWSRegion             string `toml:"aws_region"`
	AllowedUnverifiedDays int    `toml:"allowed_unverified_days"`
}

type rawFilter struct {
	Country           string            `toml:"country"`
	Currency          string            `toml:"currency"`
	NotAvailableFlows *rawFlowExclusion `toml:"not_available_flows"`
}

type rawFlowExclusion struct {
	CaptureMethod string `toml:"capture_method"`
}

type rawTokenization struct {
	LongLivedToken         bool             `toml:"long_lived_token"`
	PaymentMethod          string           `toml:"payment_method"`
	PaymentMethodType      *rawPMTypeFilter `toml:"payment_method_type"`
	ApplePayPreDecryptFlow string           `toml:"apple_pay_pre_decrypt_flow"`
}

type rawPMTypeFilter struct {
	Type string `toml:"type"`
	List string `toml:"list"`
}

type rawMandates struct {
	SupportedPaymentMethods map[string]map[string]rawConnectorList `toml:"supported_payment_methods"`
	UpdateMandateSupported  map[string]map[string]rawConnectorList `toml:"update_mandate_supported"`
}

type rawConnectorList struct {
	ConnectorList string `toml:"connector_list"`
}

type rawMultitenancy struct {
	Enabled      bool                 `toml:"enabled"`
	GlobalTenant rawTenant            `toml:"global_tenant"`
	Tenants      map[string]rawTenant `toml:"tenants"`
}

type rawTenant struct {
	TenantID           string        `toml:"tenant_id"`
	BaseURL            string        `toml:"base_url"`
	Schema             string        `toml:"schema"`
	AccountsSchema     string        `toml:"accounts_schema"`
	RedisKeyPrefix     string        `toml:"redis_key_prefix"`
	ClickhouseDatabase string        `toml:"clickhouse_database"`
	User               rawTenantUser `toml:"user"`
}

type rawTenantUser struct {
	ControlCenterURL string `toml:"control_center_url"`
}

// applyDefaults fills unset numeric settings with their operational defaults.
// An explicit zero in the document is treated the same as unset, matching
// how env-tag defaults behave elsewhere in the platform.
func (d *rawDocument) applyDefaults() {
	if d.Server.Host == "" {
		d.Server.Host = "127.0.0.1"
	}
	if d.Server.Port == 0 {
		d.Server.Port = 8080
	}
	if d.Server.Workers == 0 {
		d.Server.Workers = 8
	}
	if d.Server.RequestBodyLimit == 0 {
		d.Server.RequestBodyLimit = 32768
	}
	if d.Proxy.IdlePoolConnectionTimeout == 0 {
		d.Proxy.IdlePoolConnectionTimeout = 90
	}
	if d.Locker.TTLForStorageInSecs == 0 {
		d.Locker.TTLForStorageInSecs = 220
	}
	if d.Refund.MaxAttempts == 0 {
		d.Refund.MaxAttempts = 10
	}
	if d.Refund.MaxAge == 0 {
		d.Refund.MaxAge = 365
	}
	if d.ForexAPI.CallDelay == 0 {
		d.ForexAPI.CallDelay = 21600
	}
	if d.ForexAPI.APITimeout == 0 {
		d.ForexAPI.APITimeout = 20
	}
	if d.ForexAPI.LocalFetchRetryCount == 0 {
		d.ForexAPI.LocalFetchRetryCount = 5
	}
	if d.CORS.MaxAge == 0 {
		d.CORS.MaxAge = 30
	}
	if len(d.CORS.AllowedMethods) == 0 {
		d.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE"}
	}
	if d.DummyConnector.PaymentTTL == 0 {
		d.DummyConnector.PaymentTTL = 172800
	}
	if d.DummyConnector.PaymentDuration == 0 {
		d.DummyConnector.PaymentDuration = 1000
	}
	if d.Email.AllowedUnverifiedDays == 0 {
		d.Email.AllowedUnverifiedDays = 1
	}
}

// build converts the raw document into the typed model, collecting shape
// problems (wrong value types, malformed lists) into errs.
func (d *rawDocument) build(errs *domain.ValidationErrors) *domain.Config {
	cfg := &domain.Config{
		Server: domain.ServerSettings{
			Host:             d.Server.Host,
			Port:             d.Server.Port,
			Workers:          d.Server.Workers,
			RequestBodyLimit: d.Server.RequestBodyLimit,
		},
		Proxy:  domain.ProxySettings{IdlePoolConnectionTimeout: d.Proxy.IdlePoolConnectionTimeout},
		Locker: domain.LockerSettings{Host: d.Locker.Host, MockLocker: d.Locker.MockLocker, TTLForStorageInSecs: d.Locker.TTLForStorageInSecs},
		Refund: domain.RefundSettings{MaxAttempts: d.Refund.MaxAttempts, MaxAge: d.Refund.MaxAge},
		ForexAPI: domain.ForexSettings{
			CallDelay:            d.ForexAPI.CallDelay,
			APITimeout:           d.ForexAPI.APITimeout,
			LocalFetchRetryCount: d.ForexAPI.LocalFetchRetryCount,
		},
		Webhooks: domain.WebhookSettings{OutgoingEnabled: d.Webhooks.OutgoingEnabled},
		CORS: domain.CORSSettings{
			MaxAge:         d.CORS.MaxAge,
			WildcardOrigin: d.CORS.WildcardOrigin,
			AllowedMethods: domain.NewStringSet(d.CORS.AllowedMethods...),
		},
		Analytics: domain.AnalyticsSettings{Source: d.Analytics.Source},
		DummyConnector: domain.DummyConnectorSettings{
			Enabled:         d.DummyConnector.Enabled,
			PaymentTTL:      d.DummyConnector.PaymentTTL,
			PaymentDuration: d.DummyConnector.PaymentDuration,
		},
		Email: domain.EmailSettings{
			SenderEmail:           d.Email.SenderEmail,
			AWSRegion:             d.Email.AWSRegion,
			AllowedUnverifiedDays: d.Email.AllowedUnverifiedDays,
		},
	}

	cfg.Connectors, cfg.Supported = d.buildConnectors(errs)
	cfg.PMFilters = d.buildFilters(errs)
	cfg.Tokenization = d.buildTokenization(errs)
	cfg.Mandates = d.buildMandates()
	cfg.Multitenancy = d.buildMultitenancy()
	return cfg
}

// buildConnectors splits the connectors table into endpoint definitions and
// the "supported" capability sets.
func (d *rawDocument) buildConnectors(errs *domain.ValidationErrors) (map[string]domain.ConnectorEndpoint, map[string]domain.StringSet) {
	endpoints := make(map[string]domain.ConnectorEndpoint, len(d.Connectors))
	supported := make(map[string]domain.StringSet)

	for name, table := range d.Connectors {
		if name == "supported" {
			for category, v := range table {
				items, ok := v.([]any)
				if !ok {
					errs.Add(fmt.Sprintf("connectors.supported.%s", category), "expected an array of connector names")
					continue
				}
				set := make(domain.StringSet, len(items))
				for _, item := range items {
					s, ok := item.(string)
					if !ok {
						errs.Add(fmt.Sprintf("connectors.supported.%s", category), "connector names must be strings")
						continue
					}
					set[s] = struct{}{}
				}
				supported[category] = set
			}
			continue
		}

		var ep domain.ConnectorEndpoint
		for key, v := range table {
			s, ok := v.(string)
			if !ok {
				errs.Add(fmt.Sprintf("connectors.%s.%s", name, key), "expected a string URL")
				continue
			}
			switch key {
			case "base_url":
				ep.BaseURL = s
			case "secondary_base_url":
				ep.SecondaryBaseURL = s
			case "third_base_url":
				ep.ThirdBaseURL = s
			case "payout_base_url":
				ep.PayoutBaseURL = s
			case "dispute_base_url":
				ep.DisputeBaseURL = s
			case "base_url_file_upload":
				ep.FileUploadBaseURL = s
			}
		}
		endpoints[name] = ep
	}
	return endpoints, supported
}

func (d *rawDocument) buildFilters(errs *domain.ValidationErrors) map[string]map[string]domain.PMFilter {
	filters := make(map[string]map[string]domain.PMFilter, len(d.PMFilters))
	for connector, bySubtype := range d.PMFilters {
		out := make(map[string]domain.PMFilter, len(bySubtype))
		for subtype, rf := range bySubtype {
			f := domain.PMFilter{
				Countries:  domain.ParseList(rf.Country),
				Currencies: domain.ParseList(rf.Currency),
			}
			// A written list must contain at least one code; absent is the
			// only way to say match-all.
			if rf.Country != "" && f.Countries == nil {
				errs.Add(fmt.Sprintf("pm_filters.%s.%s.country", connector, subtype), "list is present but empty")
			}
			if rf.Currency != "" && f.Currencies == nil {
				errs.Add(fmt.Sprintf("pm_filters.%s.%s.currency", connector, subtype), "list is present but empty")
			}
			if rf.NotAvailableFlows != nil {
				f.NotAvailableFlows = &domain.FlowExclusion{CaptureMethod: rf.NotAvailableFlows.CaptureMethod}
			}
			out[subtype] = f
		}
		filters[connector] = out
	}
	return filters
}

func (d *rawDocument) buildTokenization(errs *domain.ValidationErrors) map[string]domain.TokenizationRule {
	rules := make(map[string]domain.TokenizationRule, len(d.Tokenization))
	for connector, rt := range d.Tokenization {
		rule := domain.TokenizationRule{
			LongLivedToken:         rt.LongLivedToken,
			PaymentMethod:          rt.PaymentMethod,
			ApplePayPreDecryptFlow: rt.ApplePayPreDecryptFlow,
		}
		if rt.PaymentMethodType != nil {
			mode := domain.PMTypeFilterMode(rt.PaymentMethodType.Type)
			if mode != domain.PMTypeEnableOnly && mode != domain.PMTypeDisableOnly {
				errs.Add(fmt.Sprintf("tokenization.%s.payment_method_type.type", connector),
					"must be %q or %q, got %q", domain.PMTypeEnableOnly, domain.PMTypeDisableOnly, rt.PaymentMethodType.Type)
			}
			rule.PaymentMethodType = &domain.PaymentMethodTypeFilter{
				Mode: mode,
				List: domain.ParseList(rt.PaymentMethodType.List),
			}
		}
		rules[connector] = rule
	}
	return rules
}

func (d *rawDocument) buildMandates() domain.MandateMatrices {
	return domain.MandateMatrices{
		CreateSupported: buildMandateMatrix(d.Mandates.SupportedPaymentMethods),
		UpdateSupported: buildMandateMatrix(d.Mandates.UpdateMandateSupported),
	}
}

func buildMandateMatrix(raw map[string]map[string]rawConnectorList) map[string]map[string]domain.StringSet {
	matrix := make(map[string]map[string]domain.StringSet, len(raw))
	for category, bySubtype := range raw {
		out := make(map[string]domain.StringSet, len(bySubtype))
		for subtype, cl := range bySubtype {
			out[subtype] = domain.ParseList(cl.ConnectorList)
		}
		matrix[category] = out
	}
	return matrix
}

func (d *rawDocument) buildMultitenancy() domain.Multitenancy {
	mt := domain.Multitenancy{
		Enabled:      d.Multitenancy.Enabled,
		GlobalTenant: buildTenant(d.Multitenancy.GlobalTenant),
		Tenants:      make(map[string]domain.Tenant, len(d.Multitenancy.Tenants)),
	}
	for id, rt := range d.Multitenancy.Tenants {
		mt.Tenants[id] = buildTenant(rt)
	}
	return mt
}

func buildTenant(rt rawTenant) domain.Tenant {
	return domain.Tenant{
		TenantID:           rt.TenantID,
		BaseURL:            rt.BaseURL,
		Schema:             rt.Schema,
		AccountsSchema:     rt.AccountsSchema,
		RedisKeyPrefix:     rt.RedisKeyPrefix,
		ClickhouseDatabase: rt.ClickhouseDatabase,
		User:               domain.TenantUser{ControlCenterURL: rt.User.ControlCenterURL},
	}
}
