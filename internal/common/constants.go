package common

import "time"

// Agent API endpoints, relative to the configured base URL
const (
	EndpointPortfolio   = "/portfolio"
	EndpointPositions   = "/positions"
	EndpointTradesToday = "/trades/today"
	EndpointWatchlist   = "/watchlist"
	EndpointStrategies  = "/strategies"
	EndpointPerformance = "/performance"
)

// Resource names used as metric labels and log fields
const (
	ResourcePortfolio   = "portfolio"
	ResourcePositions   = "positions"
	ResourceTrades      = "trades"
	ResourceWatchlist   = "watchlist"
	ResourceStrategies  = "strategies"
	ResourcePerformance = "performance"
)

// ResourceByEndpoint maps each agent endpoint to its resource name
var ResourceByEndpoint = map[string]string{
	EndpointPortfolio:   ResourcePortfolio,
	EndpointPositions:   ResourcePositions,
	EndpointTradesToday: ResourceTrades,
	EndpointWatchlist:   ResourceWatchlist,
	EndpointStrategies:  ResourceStrategies,
	EndpointPerformance: ResourcePerformance,
}

// Environment variable keys
const (
	EnvConfigFile            = "CONFIG_FILE"
	EnvEnvFile               = "ENV_FILE"
	EnvBaseURL               = "API_URL"
	EnvPollInterval          = "POLL_INTERVAL"
	EnvRESTTimeout           = "REST_TIMEOUT"
	EnvDashboardPort         = "DASHBOARD_PORT"
	EnvMetricsPort           = "METRICS_PORT"
	EnvLogLevel              = "LOG_LEVEL"
	EnvLogPretty             = "LOG_PRETTY"
	EnvLocale                = "LOCALE"
	EnvCurrencySymbol        = "CURRENCY_SYMBOL"
	EnvDefaultPortfolioValue = "DEFAULT_PORTFOLIO_VALUE"
)

// Configuration defaults
const (
	DefaultBaseURL              = "http://localhost:5000/api"
	DefaultPollInterval         = 30 * time.Second
	DefaultRESTTimeout          = 10 * time.Second
	DefaultDashboardPort        = 3000
	DefaultMetricsPort          = 9090
	DefaultLogLevel             = "info"
	DefaultLocale               = "de-DE"
	DefaultCurrencySymbol       = "$"
	DefaultPortfolioValue       = 10000.0
	DefaultEnvFile              = ".env"
	DefaultSubscriberBufferSize = 4
)

// Common error messages
const (
	ErrMsgBaseURLRequired = "base URL is required"
	ErrMsgBaseURLInvalid  = "base URL must be an absolute http(s) URL"
)

// Validation constants
const (
	MinPort = 1024
	MaxPort = 65535
)
