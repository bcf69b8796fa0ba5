package alert

import (
	"context"
	"errors"
	"log"
	"sync"

	"solana-launch-alerts/internal/observability"
)

// LogNotifier writes alerts to a logger. Used for dry runs.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a log notifier. A nil logger uses log.Default().
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default()
	}
	return &LogNotifier{logger: logger}
}

// Name implements Notifier.
func (n *LogNotifier) Name() string { return "log" }

// Notify logs the alert text.
func (n *LogNotifier) Notify(_ context.Context, a Alert) error {
	n.logger.Printf("[alert] %s\n%s", a.ID, a.Text())
	return nil
}

// MultiNotifier delivers each alert to every sink concurrently.
// A failing sink does not stop delivery to the others.
type MultiNotifier struct {
	sinks []Notifier
}

// NewMultiNotifier fans alerts out to sinks.
func NewMultiNotifier(sinks ...Notifier) *MultiNotifier {
	return &MultiNotifier{sinks: sinks}
}

// Name implements Notifier.
func (m *MultiNotifier) Name() string { return "multi" }

// Len returns the number of sinks.
func (m *MultiNotifier) Len() int { return len(m.sinks) }

// Notify delivers to all sinks and joins their errors.
func (m *MultiNotifier) Notify(ctx context.Context, a Alert) error {
	errs := make([]error, len(m.sinks))

	var wg sync.WaitGroup
	for i, sink := range m.sinks {
		wg.Add(1)
		go func(i int, sink Notifier) {
			defer wg.Done()
			err := sink.Notify(ctx, a)
			observability.RecordDelivery(sink.Name(), err)
			errs[i] = err
		}(i, sink)
	}
	wg.Wait()

	return errors.Join(errs...)
}
