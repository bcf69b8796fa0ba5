package stub

import (
	"context"
	"errors"
	"sync"

	"solana-launch-alerts/internal/solana"
)

// ErrNotFound is returned when no balance is registered for an account.
var ErrNotFound = errors.New("not found")

var _ solana.RPCClient = (*RPCClient)(nil)

// RPCClient implements solana.RPCClient for testing.
// It is safe for concurrent use.
type RPCClient struct {
	mu       sync.Mutex
	balances map[string]uint64
	errs     map[string]error
	calls    map[string]int
	slot     int64
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		balances: make(map[string]uint64),
		errs:     make(map[string]error),
		calls:    make(map[string]int),
	}
}

// SetBalance registers the lamport balance of an account.
func (c *RPCClient) SetBalance(pubkey string, lamports uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.balances[pubkey] = lamports
}

// FailBalance makes GetBalance for pubkey return err.
func (c *RPCClient) FailBalance(pubkey string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[pubkey] = err
}

// SetSlot sets the value returned by GetSlot.
func (c *RPCClient) SetSlot(slot int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slot = slot
}

// Calls returns how many times GetBalance was called for pubkey.
func (c *RPCClient) Calls(pubkey string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[pubkey]
}

// GetBalance returns the registered balance for pubkey.
func (c *RPCClient) GetBalance(ctx context.Context, pubkey string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls[pubkey]++
	if err, ok := c.errs[pubkey]; ok {
		return 0, err
	}
	balance, ok := c.balances[pubkey]
	if !ok {
		return 0, ErrNotFound
	}
	return balance, nil
}

// GetSlot returns the configured slot.
func (c *RPCClient) GetSlot(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slot, nil
}
