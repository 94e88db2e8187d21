package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"tradeforge-dashboard/internal/common"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	BaseURL               string
	PollInterval          time.Duration
	RESTTimeout           time.Duration
	DashboardPort         int
	MetricsPort           int
	LogLevel              string
	LogPretty             bool
	Locale                string
	CurrencySymbol        string
	DefaultPortfolioValue float64
}

type ConfigFile struct {
	API struct {
		BaseURL     string `yaml:"baseURL"`
		RESTTimeout string `yaml:"restTimeout"`
	} `yaml:"api"`

	Sync struct {
		PollInterval          string  `yaml:"pollInterval"`
		DefaultPortfolioValue float64 `yaml:"defaultPortfolioValue"`
	} `yaml:"sync"`

	Display struct {
		Locale         string `yaml:"locale"`
		CurrencySymbol string `yaml:"currencySymbol"`
	} `yaml:"display"`

	System struct {
		DashboardPort int    `yaml:"dashboardPort"`
		MetricsPort   int    `yaml:"metricsPort"`
		LogLevel      string `yaml:"logLevel"`
		LogPretty     bool   `yaml:"logPretty"`
	} `yaml:"system"`
}

func Load() (Settings, error) {
	if err := loadEnvFile(getEnvOrDefault(common.EnvEnvFile, common.DefaultEnvFile)); err != nil {
		return Settings{}, err
	}

	// Try to load from YAML file first
	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}

	return loadFromEnv()
}

// loadEnvFile populates the process environment from a dotenv file without
// overriding variables that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	poll, err := time.ParseDuration(config.Sync.PollInterval)
	if err != nil {
		poll = common.DefaultPollInterval
	}

	restTimeout, err := time.ParseDuration(config.API.RESTTimeout)
	if err != nil {
		restTimeout = common.DefaultRESTTimeout
	}

	settings := Settings{
		BaseURL:               getEnvOrDefault(common.EnvBaseURL, stringOr(config.API.BaseURL, common.DefaultBaseURL)),
		PollInterval:          getDurationOrDefault(common.EnvPollInterval, poll),
		RESTTimeout:           getDurationOrDefault(common.EnvRESTTimeout, restTimeout),
		DashboardPort:         getIntFromEnvOrConfig(common.EnvDashboardPort, config.System.DashboardPort, common.DefaultDashboardPort),
		MetricsPort:           getIntFromEnvOrConfig(common.EnvMetricsPort, config.System.MetricsPort, common.DefaultMetricsPort),
		LogLevel:              getEnvOrDefault(common.EnvLogLevel, stringOr(config.System.LogLevel, common.DefaultLogLevel)),
		LogPretty:             getBoolOrDefault(common.EnvLogPretty, config.System.LogPretty),
		Locale:                getEnvOrDefault(common.EnvLocale, stringOr(config.Display.Locale, common.DefaultLocale)),
		CurrencySymbol:        getEnvOrDefault(common.EnvCurrencySymbol, stringOr(config.Display.CurrencySymbol, common.DefaultCurrencySymbol)),
		DefaultPortfolioValue: getFloatFromEnvOrConfig(common.EnvDefaultPortfolioValue, config.Sync.DefaultPortfolioValue, common.DefaultPortfolioValue),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func loadFromEnv() (Settings, error) {
	settings := Settings{
		BaseURL:               getEnvOrDefault(common.EnvBaseURL, common.DefaultBaseURL),
		PollInterval:          getDurationOrDefault(common.EnvPollInterval, common.DefaultPollInterval),
		RESTTimeout:           getDurationOrDefault(common.EnvRESTTimeout, common.DefaultRESTTimeout),
		DashboardPort:         getIntOrDefault(common.EnvDashboardPort, common.DefaultDashboardPort),
		MetricsPort:           getIntOrDefault(common.EnvMetricsPort, common.DefaultMetricsPort),
		LogLevel:              getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
		LogPretty:             getBoolOrDefault(common.EnvLogPretty, false),
		Locale:                getEnvOrDefault(common.EnvLocale, common.DefaultLocale),
		CurrencySymbol:        getEnvOrDefault(common.EnvCurrencySymbol, common.DefaultCurrencySymbol),
		DefaultPortfolioValue: getFloatOrDefault(common.EnvDefaultPortfolioValue, common.DefaultPortfolioValue),
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return settings, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func stringOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloatOrDefault(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getIntFromEnvOrConfig(key string, configValue, defaultValue int) int {
	if configValue != 0 {
		defaultValue = configValue
	}
	return getIntOrDefault(key, defaultValue)
}

func getFloatFromEnvOrConfig(key string, configValue, defaultValue float64) float64 {
	if configValue != 0 {
		defaultValue = configValue
	}
	return getFloatOrDefault(key, defaultValue)
}

// ValidateBaseURL checks that raw is an absolute http(s) URL and returns it
// without trailing slashes, ready to prefix endpoint paths.
func ValidateBaseURL(raw string) (string, error) {
	if raw == "" {
		return "", errors.New(common.ErrMsgBaseURLRequired)
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.New(common.ErrMsgBaseURLInvalid)
	}
	return strings.TrimRight(raw, "/"), nil
}

// validateSettings checks ranges of every configuration value
func validateSettings(settings *Settings) error {
	baseURL, err := ValidateBaseURL(settings.BaseURL)
	if err != nil {
		return err
	}
	settings.BaseURL = baseURL

	if settings.PollInterval < time.Second || settings.PollInterval > time.Hour {
		return fmt.Errorf("poll interval must be between 1s and 1h, got %v", settings.PollInterval)
	}
	if settings.RESTTimeout < time.Second || settings.RESTTimeout > time.Minute {
		return fmt.Errorf("REST timeout must be between 1s and 1m, got %v", settings.RESTTimeout)
	}

	if settings.DashboardPort < common.MinPort || settings.DashboardPort > common.MaxPort {
		return fmt.Errorf("dashboard port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.DashboardPort)
	}
	if settings.MetricsPort < common.MinPort || settings.MetricsPort > common.MaxPort {
		return fmt.Errorf("metrics port must be between %d and %d, got %d", common.MinPort, common.MaxPort, settings.MetricsPort)
	}
	if settings.DashboardPort == settings.MetricsPort {
		return fmt.Errorf("dashboard and metrics ports must differ, both are %d", settings.DashboardPort)
	}

	if settings.DefaultPortfolioValue <= 0 {
		return fmt.Errorf("default portfolio value must be positive, got %f", settings.DefaultPortfolioValue)
	}
	if strings.TrimSpace(settings.Locale) == "" {
		return fmt.Errorf("locale cannot be empty")
	}

	return nil
}
