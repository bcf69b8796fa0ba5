package ingestion

import (
	"context"
	"errors"
	"log"

	"solana-launch-alerts/internal/solana"
)

// DefaultStreamBuffer is the capacity of the notification channel.
const DefaultStreamBuffer = 1000

// WSSource streams live notifications that mention one program.
type WSSource struct {
	ws      solana.WSClient
	program string
	buffer  int
	logger  *log.Logger
}

// WSSourceOptions configures WSSource.
type WSSourceOptions struct {
	Program string
	Buffer  int // Default: DefaultStreamBuffer
	Logger  *log.Logger
}

// NewWSSource creates a WebSocket-backed source.
func NewWSSource(ws solana.WSClient, opts WSSourceOptions) *WSSource {
	buffer := opts.Buffer
	if buffer <= 0 {
		buffer = DefaultStreamBuffer
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &WSSource{
		ws:      ws,
		program: opts.Program,
		buffer:  buffer,
		logger:  logger,
	}
}

// Subscribe subscribes to the program's logs and forwards them into a
// buffered channel, so a slow reader does not stall the socket reader.
func (s *WSSource) Subscribe(ctx context.Context) (<-chan solana.LogNotification, error) {
	if s.program == "" {
		return nil, errors.New("ws source: program is required")
	}

	logsCh, err := s.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{s.program}})
	if err != nil {
		return nil, err
	}
	s.logger.Printf("[ws-source] subscribed to program: %s", s.program)

	out := make(chan solana.LogNotification, s.buffer)
	go func() {
		defer func() {
			close(out)
			s.logger.Println("[ws-source] stream closed")
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case notif, ok := <-logsCh:
				if !ok {
					return
				}
				select {
				case out <- notif:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
