package ingestion

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"solana-launch-alerts/internal/solana"
)

// maxLineSize bounds one recorded notification.
const maxLineSize = 4 << 20

// ReplaySource replays notifications recorded as JSON lines, one
// solana.LogNotification per line. Blank lines and lines starting with '#'
// are skipped; undecodable lines are logged and skipped.
type ReplaySource struct {
	open   func() (io.ReadCloser, error)
	logger *log.Logger
}

// NewReplaySource replays from r.
func NewReplaySource(r io.Reader, logger *log.Logger) *ReplaySource {
	return newReplaySource(func() (io.ReadCloser, error) { return io.NopCloser(r), nil }, logger)
}

// NewFileReplaySource replays from the file at path.
func NewFileReplaySource(path string, logger *log.Logger) *ReplaySource {
	return newReplaySource(func() (io.ReadCloser, error) { return os.Open(path) }, logger)
}

func newReplaySource(open func() (io.ReadCloser, error), logger *log.Logger) *ReplaySource {
	if logger == nil {
		logger = log.Default()
	}
	return &ReplaySource{open: open, logger: logger}
}

// Subscribe streams the recorded notifications in order.
// The returned channel is unbuffered, so a slow consumer paces the replay.
func (s *ReplaySource) Subscribe(ctx context.Context) (<-chan solana.LogNotification, error) {
	rc, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}

	out := make(chan solana.LogNotification)
	go func() {
		defer close(out)
		defer rc.Close()

		scanner := bufio.NewScanner(rc)
		scanner.Buffer(make([]byte, 64<<10), maxLineSize)

		lineNo, sent := 0, 0
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			var notif solana.LogNotification
			if err := json.Unmarshal([]byte(line), &notif); err != nil {
				s.logger.Printf("[replay] line %d: %v", lineNo, err)
				continue
			}

			select {
			case out <- notif:
				sent++
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			s.logger.Printf("[replay] read: %v", err)
		}
		s.logger.Printf("[replay] replayed %d notifications", sent)
	}()

	return out, nil
}

// WriteJSONL records notifications in the format ReplaySource reads.
func WriteJSONL(w io.Writer, notifications []solana.LogNotification) error {
	enc := json.NewEncoder(w)
	for _, n := range notifications {
		if err := enc.Encode(n); err != nil {
			return err
		}
	}
	return nil
}
