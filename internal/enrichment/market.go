package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/observability"
)

// Market-data client defaults.
const (
	DefaultMarketBaseURL   = "https://public-api.birdeye.so"
	DefaultMarketChain     = "solana"
	DefaultMarketRateLimit = 5
	DefaultMarketTimeout   = 10 * time.Second

	tokenOverviewPath = "/defi/token_overview"
)

// MarketSource returns a best-effort market snapshot for a token.
type MarketSource interface {
	Snapshot(ctx context.Context, mint string) domain.MarketSnapshot
}

// MarketConfig configures MarketEnricher.
type MarketConfig struct {
	BaseURL   string
	APIKey    string
	Chain     string
	RateLimit float64 // requests per second; <= 0 disables limiting
	Timeout   time.Duration
	Logger    *log.Logger
}

// MarketEnricher fetches price and market cap from a token overview endpoint.
type MarketEnricher struct {
	baseURL string
	apiKey  string
	chain   string
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewMarketEnricher creates a market enricher, filling defaults for empty fields.
func NewMarketEnricher(cfg MarketConfig) *MarketEnricher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultMarketBaseURL
	}
	if cfg.Chain == "" {
		cfg.Chain = DefaultMarketChain
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultMarketTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := int(cfg.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &MarketEnricher{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		chain:   cfg.Chain,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  cfg.Logger,
	}
}

type tokenOverviewResponse struct {
	Data *struct {
		Price *decimal.Decimal `json:"price"`
		MC    *decimal.Decimal `json:"mc"`
	} `json:"data"`
}

// Snapshot never fails. Any error, including a missing price or mc, is logged
// and yields a snapshot with both fields absent.
func (m *MarketEnricher) Snapshot(ctx context.Context, mint string) domain.MarketSnapshot {
	snap, err := m.fetch(ctx, mint)
	if err != nil {
		observability.RecordLookupError("market")
		m.logger.Printf("[market] %s: %v", mint, err)
		return domain.MarketSnapshot{}
	}
	return snap
}

func (m *MarketEnricher) fetch(ctx context.Context, mint string) (domain.MarketSnapshot, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return domain.MarketSnapshot{}, fmt.Errorf("%w: rate limit: %v", domain.ErrEnrichmentUnavailable, err)
		}
	}

	endpoint := m.baseURL + tokenOverviewPath + "?" + url.Values{"address": {mint}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("%w: create request: %v", domain.ErrEnrichmentUnavailable, err)
	}
	req.Header.Set("X-API-KEY", m.apiKey)
	req.Header.Set("x-chain", m.chain)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := m.client.Do(req)
	observability.RecordMarketLatency(time.Since(start).Seconds())
	if err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("%w: %v", domain.ErrEnrichmentUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.MarketSnapshot{}, fmt.Errorf("%w: HTTP %d: %s", domain.ErrEnrichmentUnavailable, resp.StatusCode, string(body))
	}

	var overview tokenOverviewResponse
	if err := json.NewDecoder(resp.Body).Decode(&overview); err != nil {
		return domain.MarketSnapshot{}, fmt.Errorf("%w: decode: %v", domain.ErrEnrichmentUnavailable, err)
	}
	if overview.Data == nil || overview.Data.Price == nil || overview.Data.MC == nil {
		return domain.MarketSnapshot{}, fmt.Errorf("%w: price or mc missing from response", domain.ErrEnrichmentUnavailable)
	}

	return domain.MarketSnapshot{Price: overview.Data.Price, MarketCap: overview.Data.MC}, nil
}
