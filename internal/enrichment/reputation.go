package enrichment

import (
	"context"
	"fmt"

	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/solana"
)

// MinReputableBalance is the creator balance, in lamports, that counts as reputable.
const MinReputableBalance uint64 = solana.LamportsPerSOL

// BalanceFetcher returns an account's native balance in lamports.
// solana.HTTPClient and CachedBalanceFetcher implement it.
type BalanceFetcher interface {
	GetBalance(ctx context.Context, pubkey string) (uint64, error)
}

// ReputationChecker classifies creators by balance.
type ReputationChecker struct {
	balances   BalanceFetcher
	minBalance uint64
}

// NewReputationChecker creates a checker with the default 1 SOL threshold.
func NewReputationChecker(balances BalanceFetcher) *ReputationChecker {
	return &ReputationChecker{balances: balances, minBalance: MinReputableBalance}
}

// IsReputable reports whether the creator holds at least the minimum balance.
// Lookup failures are returned wrapped in domain.ErrReputationLookupFailed;
// the caller decides the fallback.
func (c *ReputationChecker) IsReputable(ctx context.Context, creator solana.PublicKey) (bool, error) {
	balance, err := c.balances.GetBalance(ctx, creator.String())
	if err != nil {
		return false, fmt.Errorf("%w: creator %s: %v", domain.ErrReputationLookupFailed, creator, err)
	}
	return balance >= c.minBalance, nil
}
