package solana

import "context"

// RPCClient defines the Solana JSON-RPC calls used by the alerter.
type RPCClient interface {
	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey string) (uint64, error)

	// GetSlot returns the current slot.
	GetSlot(ctx context.Context) (int64, error)
}
