package domain

// DefaultFilterKey is the pm_filters table that applies when a connector has
// no entry of its own for a payment-method subtype.
const DefaultFilterKey = "default"

// Config is the fully resolved orchestration configuration. It is built once
// by the loader and never mutated afterwards; concurrent reads are safe
// without synchronization.
type Config struct {
	Server         ServerSettings
	Proxy          ProxySettings
	Locker         LockerSettings
	Refund         RefundSettings
	ForexAPI       ForexSettings
	Webhooks       WebhookSettings
	CORS           CORSSettings
	Analytics      AnalyticsSettings
	DummyConnector DummyConnectorSettings
	Email          EmailSettings

	// Connectors maps connector name to its API endpoints.
	Connectors map[string]ConnectorEndpoint

	// Supported maps a payment-method category (cards, wallets,
	// bank_redirect, ...) to the set of connectors that support it.
	Supported map[string]StringSet

	// PMFilters maps connector name (or DefaultFilterKey) to per-subtype
	// eligibility filters.
	PMFilters map[string]map[string]PMFilter

	Tokenization map[string]TokenizationRule
	Mandates     MandateMatrices
	Multitenancy Multitenancy
}

// ConnectorEndpoint holds the base URLs for a single connector integration.
type ConnectorEndpoint struct {
	BaseURL           string `json:"base_url,omitempty"`
	SecondaryBaseURL  string `json:"secondary_base_url,omitempty"`
	ThirdBaseURL      string `json:"third_base_url,omitempty"`
	PayoutBaseURL     string `json:"payout_base_url,omitempty"`
	DisputeBaseURL    string `json:"dispute_base_url,omitempty"`
	FileUploadBaseURL string `json:"base_url_file_upload,omitempty"`
}

// HasURL reports whether at least one endpoint URL is configured.
func (e ConnectorEndpoint) HasURL() bool {
	return e.BaseURL != "" || e.SecondaryBaseURL != "" || e.ThirdBaseURL != "" ||
		e.PayoutBaseURL != "" || e.DisputeBaseURL != "" || e.FileUploadBaseURL != ""
}

// PMFilter restricts where a (connector, payment-method subtype) pair may be
// used. A filter can carry an allow-list, a flow exclusion, or both; the
// exclusion only ever subtracts from what the allow-list admits.
//
// A nil Countries or Currencies set means that axis is unconstrained.
type PMFilter struct {
	Countries         StringSet      `json:"countries,omitempty"`
	Currencies        StringSet      `json:"currencies,omitempty"`
	NotAvailableFlows *FlowExclusion `json:"not_available_flows,omitempty"`
}

// HasAllowList reports whether the filter constrains country or currency.
func (f PMFilter) HasAllowList() bool {
	return f.Countries != nil || f.Currencies != nil
}

// FlowExclusion marks flow attributes for which the combination is never
// available, regardless of country or currency.
type FlowExclusion struct {
	CaptureMethod string `json:"capture_method,omitempty"`
}

// TokenizationRule describes how a connector handles stored payment tokens.
type TokenizationRule struct {
	LongLivedToken         bool                     `json:"long_lived_token"`
	PaymentMethod          string                   `json:"payment_method"`
	PaymentMethodType      *PaymentMethodTypeFilter `json:"payment_method_type,omitempty"`
	ApplePayPreDecryptFlow string                   `json:"apple_pay_pre_decrypt_flow,omitempty"`
}

// PMTypeFilterMode selects how a PaymentMethodTypeFilter list is interpreted.
type PMTypeFilterMode string

const (
	PMTypeEnableOnly  PMTypeFilterMode = "enable_only"
	PMTypeDisableOnly PMTypeFilterMode = "disable_only"
)

// PaymentMethodTypeFilter scopes a tokenization rule to specific
// payment-method types, overriding the connector-level rule for those types.
type PaymentMethodTypeFilter struct {
	Mode PMTypeFilterMode `json:"type"`
	List StringSet        `json:"list"`
}

// MandateMatrices holds the connector support matrices for recurring
// mandates. Creation and update support are independent: callers must consult
// both, neither implies the other.
type MandateMatrices struct {
	// CreateSupported: category -> subtype -> connectors that can create a
	// mandate for it.
	CreateSupported map[string]map[string]StringSet

	// UpdateSupported: category -> subtype -> connectors that can update an
	// existing mandate.
	UpdateSupported map[string]map[string]StringSet
}

// Multitenancy carries tenant isolation settings.
type Multitenancy struct {
	Enabled      bool              `json:"enabled"`
	GlobalTenant Tenant            `json:"global_tenant"`
	Tenants      map[string]Tenant `json:"tenants"`
}

// Tenant is one isolated customer/organization boundary.
type Tenant struct {
	TenantID           string     `json:"tenant_id,omitempty"`
	BaseURL            string     `json:"base_url"`
	Schema             string     `json:"schema"`
	AccountsSchema     string     `json:"accounts_schema,omitempty"`
	RedisKeyPrefix     string     `json:"redis_key_prefix"`
	ClickhouseDatabase string     `json:"clickhouse_database,omitempty"`
	User               TenantUser `json:"user"`
}

// TenantUser is the per-tenant user-facing sub-configuration.
type TenantUser struct {
	ControlCenterURL string `json:"control_center_url"`
}

// Scalar settings sections. Each is read by exactly one external subsystem;
// there are no cross-section relationships.

type ServerSettings struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	Workers          int    `json:"workers"`
	RequestBodyLimit int    `json:"request_body_limit"`
}

type ProxySettings struct {
	IdlePoolConnectionTimeout int `json:"idle_pool_connection_timeout"`
}

type LockerSettings struct {
	Host                string `json:"host"`
	MockLocker          bool   `json:"mock_locker"`
	TTLForStorageInSecs int    `json:"ttl_for_storage_in_secs"`
}

type RefundSettings struct {
	MaxAttempts int `json:"max_attempts"`
	MaxAge      int `json:"max_age"`
}

type ForexSettings struct {
	CallDelay            int64 `json:"call_delay"`
	APITimeout           int64 `json:"api_timeout"`
	LocalFetchRetryCount int   `json:"local_fetch_retry_count"`
}

type WebhookSettings struct {
	OutgoingEnabled bool `json:"outgoing_enabled"`
}

type CORSSettings struct {
	MaxAge         int       `json:"max_age"`
	WildcardOrigin bool      `json:"wildcard_origin"`
	AllowedMethods StringSet `json:"allowed_methods"`
}

type AnalyticsSettings struct {
	Source string `json:"source"`
}

type DummyConnectorSettings struct {
	Enabled         bool  `json:"enabled"`
	PaymentTTL      int64 `json:"payment_ttl"`
	PaymentDuration int64 `json:"payment_duration"`
}

type EmailSettings struct {
	SenderEmail           string `json:"sender_email"`
	AWSRegion             string `json:"aws_region"`
	AllowedUnverifiedDays int    `json:"allowed_unverified_days"`
}
