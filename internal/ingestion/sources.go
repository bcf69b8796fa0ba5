// Package ingestion supplies log notifications to the alert pipeline,
// live from a WebSocket subscription or recorded from a file.
package ingestion

import (
	"context"

	"solana-launch-alerts/internal/solana"
)

// Source provides a stream of log notifications.
type Source interface {
	// Subscribe returns a channel that is closed when the source is exhausted
	// or ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan solana.LogNotification, error)
}
