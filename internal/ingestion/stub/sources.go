package stub

import (
	"context"
	"sync"

	"solana-launch-alerts/internal/solana"
)

// Source emits a fixed list of notifications, then closes the stream.
// Implements ingestion.Source.
type Source struct {
	mu            sync.Mutex
	notifications []solana.LogNotification
	err           error
	subscriptions int
}

// NewSource creates a stub source.
func NewSource(notifications []solana.LogNotification) *Source {
	return &Source{notifications: notifications}
}

// FailSubscribe makes the next Subscribe calls return err.
func (s *Source) FailSubscribe(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Subscriptions returns how many times Subscribe succeeded.
func (s *Source) Subscriptions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subscriptions
}

// Subscribe returns a channel that yields copies of the notifications in order.
func (s *Source) Subscribe(ctx context.Context) (<-chan solana.LogNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}
	s.subscriptions++

	pending := append([]solana.LogNotification(nil), s.notifications...)
	out := make(chan solana.LogNotification)
	go func() {
		defer close(out)
		for _, n := range pending {
			select {
			case out <- n:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
