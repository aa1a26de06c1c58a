package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Dimont/diogoboilerplate/app"
	"github.com/Dimont/diogoboilerplate/app/health"
)

const (
	envPrefix      = "ESCROWD"
	configFileName = "escrowd"
	configFileType = "toml"

	FlagHome         = "home"
	FlagDBBackend    = "db-backend"
	FlagBech32Prefix = "bech32-prefix"
	FlagChainID      = "chain-id"
	FlagLogLevel     = "log-level"
	FlagLogFormat    = "log-format"
)

// Config is the escrowd configuration, read from flags, ESCROWD_* environment
// variables and $HOME/.escrowd/config/escrowd.toml in that order of precedence.
type Config struct {
	Home         string `mapstructure:"home"`
	DBBackend    string `mapstructure:"db_backend"`
	Bech32Prefix string `mapstructure:"bech32_prefix"`
	ChainID      string `mapstructure:"chain_id"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`

	Serve     ServeConfig     `mapstructure:"serve"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServeConfig configures the status server.
type ServeConfig struct {
	Address          string        `mapstructure:"address"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateLimitClients int           `mapstructure:"rate_limit_clients"`
	RateLimitTTL     time.Duration `mapstructure:"rate_limit_ttl"`
	CORSOrigins      []string      `mapstructure:"cors_origins"`
	CacheDuration    time.Duration `mapstructure:"cache_duration"`
	MaxResponseTime  time.Duration `mapstructure:"max_response_time"`
}

// TelemetryConfig configures tracing and metrics export.
type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	OTLPEndpoint      string  `mapstructure:"otlp_endpoint"`
	PrometheusEnabled bool    `mapstructure:"prometheus_enabled"`
	SampleRate        float64 `mapstructure:"sample_rate"`
}

func setDefaults(v *viper.Viper) {
	serverCfg := health.DefaultServerConfig()
	healthCfg := health.DefaultConfig()

	v.SetDefault("home", app.DefaultNodeHome)
	v.SetDefault("db_backend", string(dbm.GoLevelDBBackend))
	v.SetDefault("bech32_prefix", app.AccountAddressPrefix)
	v.SetDefault("chain_id", app.DefaultChainID)
	v.SetDefault("log_level", zerolog.InfoLevel.String())
	v.SetDefault("log_format", "plain")

	v.SetDefault("serve.address", "127.0.0.1:36661")
	v.SetDefault("serve.rate_limit", serverCfg.RateLimit)
	v.SetDefault("serve.rate_limit_clients", serverCfg.RateLimitClients)
	v.SetDefault("serve.rate_limit_ttl", serverCfg.RateLimitTTL)
	v.SetDefault("serve.cors_origins", serverCfg.CORSOrigins)
	v.SetDefault("serve.cache_duration", healthCfg.CacheDuration)
	v.SetDefault("serve.max_response_time", healthCfg.MaxResponseTime)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.prometheus_enabled", true)
	v.SetDefault("telemetry.sample_rate", 1.0)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"home":          FlagHome,
		"db_backend":    FlagDBBackend,
		"bech32_prefix": FlagBech32Prefix,
		"chain_id":      FlagChainID,
		"log_level":     FlagLogLevel,
		"log_format":    FlagLogFormat,
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return err
		}
	}
	return nil
}

// configPath returns the location of the config file under home.
func configPath(home string) string {
	return filepath.Join(home, "config", configFileName+"."+configFileType)
}

// LoadConfig resolves the configuration. A missing config file is not an error.
func LoadConfig(v *viper.Viper) (Config, error) {
	v.SetConfigFile(configPath(v.GetString("home")))
	v.SetConfigType(configFileType)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the configuration for values the node cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Home) == "" {
		return errors.New("home directory cannot be empty")
	}
	if strings.TrimSpace(c.Bech32Prefix) == "" {
		return errors.New("bech32 prefix cannot be empty")
	}
	switch dbm.BackendType(c.DBBackend) {
	case dbm.GoLevelDBBackend, dbm.MemDBBackend:
	default:
		return fmt.Errorf("unsupported db backend %q", c.DBBackend)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	switch c.LogFormat {
	case "plain", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.LogFormat)
	}
	if c.Telemetry.SampleRate < 0 || c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("telemetry sample rate must be within [0, 1], got %v", c.Telemetry.SampleRate)
	}
	return nil
}

// NewLogger builds the node logger from the log settings.
func (c Config) NewLogger() log.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	opts := []log.Option{log.LevelOption(level)}
	if c.LogFormat == "json" {
		opts = append(opts, log.OutputJSONOption())
	}
	return log.NewLogger(os.Stderr, opts...)
}

func (c Config) telemetryConfig() app.TelemetryConfig {
	return app.TelemetryConfig{
		Enabled:           c.Telemetry.Enabled,
		OTLPEndpoint:      c.Telemetry.OTLPEndpoint,
		PrometheusEnabled: c.Telemetry.PrometheusEnabled,
		SampleRate:        c.Telemetry.SampleRate,
	}
}

func (c Config) healthConfig(version string) health.Config {
	return health.Config{
		Version:         version,
		MaxResponseTime: c.Serve.MaxResponseTime,
		CacheDuration:   c.Serve.CacheDuration,
	}
}

func (c Config) serverConfig() health.ServerConfig {
	return health.ServerConfig{
		CORSOrigins:      c.Serve.CORSOrigins,
		RateLimit:        c.Serve.RateLimit,
		RateLimitClients: c.Serve.RateLimitClients,
		RateLimitTTL:     c.Serve.RateLimitTTL,
	}
}
