// Package config loads alerter configuration from an optional file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"solana-launch-alerts/internal/solana"
)

// Config holds all configuration for the alerter.
type Config struct {
	Solana   SolanaConfig   `mapstructure:"solana"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Market   MarketConfig   `mapstructure:"market"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	NATS     NATSConfig     `mapstructure:"nats"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// SolanaConfig holds node endpoints and the watched program.
type SolanaConfig struct {
	RPCURL    string `mapstructure:"rpc_url"`
	WSURL     string `mapstructure:"ws_url"`
	ProgramID string `mapstructure:"program_id"`
}

// TelegramConfig holds Bot API credentials.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIURL   string `mapstructure:"api_url"`
}

// Enabled reports whether Telegram delivery is configured.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}

// MarketConfig holds market-data API settings.
type MarketConfig struct {
	APIKey    string  `mapstructure:"api_key"`
	BaseURL   string  `mapstructure:"base_url"`
	Chain     string  `mapstructure:"chain"`
	RateLimit float64 `mapstructure:"rate_limit"`
}

// ScoringConfig holds the alert gate.
type ScoringConfig struct {
	Threshold int      `mapstructure:"threshold"`
	Denylist  []string `mapstructure:"denylist"`
}

// PipelineConfig bounds concurrent processing.
type PipelineConfig struct {
	MaxInFlight int64  `mapstructure:"max_in_flight"`
	Overflow    string `mapstructure:"overflow"`
}

// NATSConfig enables the NATS sink when URL is set.
type NATSConfig struct {
	URL     string `mapstructure:"url"`
	Subject string `mapstructure:"subject"`
}

// KafkaConfig enables the Kafka sink when Brokers is set.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// RedisConfig enables the creator balance cache when URL is set.
type RedisConfig struct {
	URL string        `mapstructure:"url"`
	TTL time.Duration `mapstructure:"ttl"`
}

// MetricsConfig holds the metrics listener address. Empty disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from file and environment variables.
// Every key maps to an environment variable with dots replaced by
// underscores, e.g. scoring.threshold -> SCORING_THRESHOLD.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("solana.rpc_url", "https://api.mainnet-beta.solana.com")
	v.SetDefault("solana.ws_url", "wss://api.mainnet-beta.solana.com")
	v.SetDefault("solana.program_id", solana.PumpFun)

	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.api_url", "https://api.telegram.org")

	v.SetDefault("market.api_key", "")
	v.SetDefault("market.base_url", "https://public-api.birdeye.so")
	v.SetDefault("market.chain", "solana")
	v.SetDefault("market.rate_limit", 5)

	v.SetDefault("scoring.threshold", 70)
	v.SetDefault("scoring.denylist", []string{"scam"})

	v.SetDefault("pipeline.max_in_flight", 64)
	v.SetDefault("pipeline.overflow", "drop")

	v.SetDefault("nats.url", "")
	v.SetDefault("nats.subject", "launches.alerts")

	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "launch-alerts")

	v.SetDefault("redis.url", "")
	v.SetDefault("redis.ttl", "60s")

	v.SetDefault("metrics.addr", ":9090")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override file config.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("scoring.threshold", "SCORING_THRESHOLD", "CONFIDENCE_THRESHOLD"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for values the alerter cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Solana.RPCURL == "" {
		errs = append(errs, errors.New("solana.rpc_url is required"))
	}
	if c.Solana.WSURL == "" {
		errs = append(errs, errors.New("solana.ws_url is required"))
	}
	if _, err := solana.ParsePublicKey(c.Solana.ProgramID); err != nil {
		errs = append(errs, fmt.Errorf("solana.program_id: %w", err))
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		errs = append(errs, errors.New("telegram.bot_token and telegram.chat_id must be set together"))
	}
	if c.Market.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("market.rate_limit must not be negative, got %v", c.Market.RateLimit))
	}
	if c.Scoring.Threshold < 0 || c.Scoring.Threshold > 100 {
		errs = append(errs, fmt.Errorf("scoring.threshold must be in [0,100], got %d", c.Scoring.Threshold))
	}
	if c.Pipeline.MaxInFlight <= 0 {
		errs = append(errs, fmt.Errorf("pipeline.max_in_flight must be positive, got %d", c.Pipeline.MaxInFlight))
	}
	if c.Pipeline.Overflow != "drop" && c.Pipeline.Overflow != "block" {
		errs = append(errs, fmt.Errorf("pipeline.overflow must be drop or block, got %q", c.Pipeline.Overflow))
	}

	return errors.Join(errs...)
}
