package enrichment

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"solana-launch-alerts/internal/observability"
)

// DefaultBalanceTTL is how long a cached creator balance is trusted.
const DefaultBalanceTTL = 60 * time.Second

const balanceKeyPrefix = "launch-alerts:balance:"

// CachedBalanceFetcher keeps creator balances in Redis for a short TTL.
// Redis failures fall through to the underlying fetcher.
type CachedBalanceFetcher struct {
	next   BalanceFetcher
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedBalanceFetcher wraps next with a Redis cache. A nil client disables caching.
func NewCachedBalanceFetcher(next BalanceFetcher, client *redis.Client, ttl time.Duration, logger *log.Logger) *CachedBalanceFetcher {
	if ttl <= 0 {
		ttl = DefaultBalanceTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedBalanceFetcher{next: next, redis: client, ttl: ttl, logger: logger}
}

// GetBalance returns the cached balance or fetches and stores it.
func (f *CachedBalanceFetcher) GetBalance(ctx context.Context, pubkey string) (uint64, error) {
	if f.redis == nil {
		return f.next.GetBalance(ctx, pubkey)
	}

	key := balanceKeyPrefix + pubkey
	cached, err := f.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		if balance, perr := strconv.ParseUint(cached, 10, 64); perr == nil {
			observability.RecordCacheResult("hit")
			return balance, nil
		}
		observability.RecordCacheResult("error")
	case errors.Is(err, redis.Nil):
		observability.RecordCacheResult("miss")
	default:
		observability.RecordCacheResult("error")
		f.logger.Printf("[cache] get %s: %v", pubkey, err)
	}

	balance, err := f.next.GetBalance(ctx, pubkey)
	if err != nil {
		return 0, err
	}

	if err := f.redis.Set(ctx, key, strconv.FormatUint(balance, 10), f.ttl).Err(); err != nil {
		f.logger.Printf("[cache] set %s: %v", pubkey, err)
	}
	return balance, nil
}
