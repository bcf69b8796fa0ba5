package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-launch-alerts/internal/solana"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.Solana.RPCURL)
	assert.Equal(t, solana.PumpFun, cfg.Solana.ProgramID)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIURL)
	assert.False(t, cfg.Telegram.Enabled())
	assert.Equal(t, "solana", cfg.Market.Chain)
	assert.Equal(t, 5.0, cfg.Market.RateLimit)
	assert.Equal(t, 70, cfg.Scoring.Threshold)
	assert.Equal(t, []string{"scam"}, cfg.Scoring.Denylist)
	assert.Equal(t, int64(64), cfg.Pipeline.MaxInFlight)
	assert.Equal(t, "drop", cfg.Pipeline.Overflow)
	assert.Equal(t, "launches.alerts", cfg.NATS.Subject)
	assert.Equal(t, "launch-alerts", cfg.Kafka.Topic)
	assert.Equal(t, 60*time.Second, cfg.Redis.TTL)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "http://localhost:8899")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-1001")
	t.Setenv("MARKET_API_KEY", "key")
	t.Setenv("SCORING_DENYLIST", "scam,rug")
	t.Setenv("PIPELINE_OVERFLOW", "block")
	t.Setenv("REDIS_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8899", cfg.Solana.RPCURL)
	assert.True(t, cfg.Telegram.Enabled())
	assert.Equal(t, "key", cfg.Market.APIKey)
	assert.Equal(t, []string{"scam", "rug"}, cfg.Scoring.Denylist)
	assert.Equal(t, "block", cfg.Pipeline.Overflow)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
}

func TestLoad_ThresholdAlias(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "80")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Scoring.Threshold)

	t.Setenv("SCORING_THRESHOLD", "60")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Scoring.Threshold, "SCORING_THRESHOLD wins over the alias")
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
scoring:
  threshold: 90
  denylist: [scam, honeypot]
pipeline:
  max_in_flight: 8
kafka:
  brokers: "k1:9092,k2:9092"
`), 0o600))

	t.Setenv("PIPELINE_MAX_IN_FLIGHT", "16")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Scoring.Threshold)
	assert.Equal(t, []string{"scam", "honeypot"}, cfg.Scoring.Denylist)
	assert.Equal(t, int64(16), cfg.Pipeline.MaxInFlight, "env overrides file")
	assert.Equal(t, "k1:9092,k2:9092", cfg.Kafka.Brokers)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing rpc", func(c *Config) { c.Solana.RPCURL = "" }, "solana.rpc_url"},
		{"bad program", func(c *Config) { c.Solana.ProgramID = "not-a-key" }, "solana.program_id"},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "x" }, "telegram.bot_token"},
		{"threshold too high", func(c *Config) { c.Scoring.Threshold = 101 }, "scoring.threshold"},
		{"no slots", func(c *Config) { c.Pipeline.MaxInFlight = 0 }, "pipeline.max_in_flight"},
		{"unknown overflow", func(c *Config) { c.Pipeline.Overflow = "queue" }, "pipeline.overflow"},
		{"negative rate", func(c *Config) { c.Market.RateLimit = -1 }, "market.rate_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
