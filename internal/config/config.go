package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Logger      LoggerConfig      `mapstructure:"logger"`
	Deployments DeploymentsConfig `mapstructure:"deployments"`
	Source      SourceConfig      `mapstructure:"source"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Output      OutputConfig      `mapstructure:"output"`
	Verify      VerifyConfig      `mapstructure:"verify"`
	Server      ServerConfig      `mapstructure:"server"`
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
	Output   string `mapstructure:"output"`
}

// DeploymentsConfig selects which deployments get copied into the address files.
type DeploymentsConfig struct {
	// CopyDeployments set to false keeps the committed addresses/deployed/*.json files as-is.
	CopyDeployments bool         `mapstructure:"copy_deployments"`
	Core            FilterConfig `mapstructure:"core"`
	Strats          FilterConfig `mapstructure:"strats"`
}

// FilterConfig is the version query applied to one category of contracts.
type FilterConfig struct {
	VersionRangePattern string `mapstructure:"version_range_pattern"`
	// Released is nil when both released and unreleased versions are accepted.
	Released *bool `mapstructure:"released"`
}

// SourceConfig locates the deployments data set. Dir wins over URL when both are set.
type SourceConfig struct {
	Dir     string        `mapstructure:"dir"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds settings for the caching layer.
type CacheConfig struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// OutputConfig holds where address files are written.
type OutputConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// VerifyConfig holds settings for the on-chain code check of aggregated addresses.
type VerifyConfig struct {
	Enabled    bool              `mapstructure:"enabled"`
	Timeout    time.Duration     `mapstructure:"timeout"`
	MaxWorkers int               `mapstructure:"max_workers"`
	RPCURLs    map[string]string `mapstructure:"rpc_urls"`
}

// ServerConfig holds HTTP server configuration for the address API.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "mangrove-addresses")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("deployments.copy_deployments", false)
	v.SetDefault("deployments.core.version_range_pattern", "^2.0.0")
	v.SetDefault("deployments.strats.version_range_pattern", "^2.0.0")
	v.SetDefault("source.dir", "")
	v.SetDefault("source.url", "https://cdn.jsdelivr.net/npm/@mangrovedao/mangrove-deployments@latest/dist/deployments")
	v.SetDefault("source.timeout", "15s")
	v.SetDefault("cache.default_expiration", "30m")
	v.SetDefault("cache.cleanup_interval", "1h")
	v.SetDefault("output.base_dir", ".")
	v.SetDefault("verify.enabled", false)
	v.SetDefault("verify.timeout", "10s")
	v.SetDefault("verify.max_workers", 5)
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.refresh_interval", "15m")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		fmt.Printf("Warning: Config file not found in %s or '.', using defaults/env vars\n", configPath)
	}

	v.SetEnvPrefix("MANGROVE_ADDRESSES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// No defaults for the release filters: unset must stay nil ("any").
	for _, key := range []string{"deployments.core.released", "deployments.strats.released"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c SourceConfig) GetTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 15 * time.Second
	}
	return c.Timeout
}

func (c CacheConfig) GetDefaultExpiration() time.Duration {
	return c.DefaultExpiration
}

func (c CacheConfig) GetCleanupInterval() time.Duration {
	return c.CleanupInterval
}

func (c VerifyConfig) GetTimeout() time.Duration {
	return c.Timeout
}

func (c ServerConfig) GetRefreshInterval() time.Duration {
	return c.RefreshInterval
}
