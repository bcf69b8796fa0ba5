// Package pipeline turns log notifications into alert decisions:
// decode, derive, enrich, score, gate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"solana-launch-alerts/internal/alert"
	"solana-launch-alerts/internal/discovery"
	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/enrichment"
	"solana-launch-alerts/internal/observability"
	"solana-launch-alerts/internal/scoring"
	"solana-launch-alerts/internal/solana"
)

// Stage is the state of one pipeline instance.
type Stage string

// Pipeline stages. Alerted, Suppressed, Dropped and Ignored are terminal.
const (
	StageReceived   Stage = "received"
	StageDecoded    Stage = "decoded"
	StageEnriching  Stage = "enriching"
	StageScored     Stage = "scored"
	StageAlerted    Stage = "alerted"
	StageSuppressed Stage = "suppressed"
	StageDropped    Stage = "dropped"
	StageIgnored    Stage = "ignored"
)

// OverflowPolicy decides what Run does when every slot is busy.
type OverflowPolicy string

// Overflow policies.
const (
	OverflowDrop  OverflowPolicy = "drop"
	OverflowBlock OverflowPolicy = "block"
)

// DefaultMaxInFlight bounds concurrent pipeline instances.
const DefaultMaxInFlight = 64

var (
	// ErrOverflow is reported for notifications dropped at capacity.
	ErrOverflow = errors.New("pipeline at capacity")

	// ErrPanic is reported for instances that panicked.
	ErrPanic = errors.New("pipeline panic")
)

// ReputationSource classifies a creator.
type ReputationSource interface {
	IsReputable(ctx context.Context, creator solana.PublicKey) (bool, error)
}

// Options holds the pipeline's collaborators and limits.
type Options struct {
	Deriver     enrichment.Deriver
	Reputation  ReputationSource
	Market      enrichment.MarketSource
	Notifier    alert.Notifier
	Scorer      *scoring.Scorer // Default: scoring.NewScorer(nil)
	Threshold   int             // Used as given; 0 alerts on every decoded event
	MaxInFlight int64           // Default: DefaultMaxInFlight
	Overflow    OverflowPolicy  // Default: OverflowDrop
	Logger      *log.Logger

	// OnResult, if set, receives every result produced by Run. It must be safe for concurrent use.
	OnResult func(Result)
}

// Result is the outcome of one pipeline instance.
type Result struct {
	Signature  string
	Slot       int64
	Stage      Stage
	Event      *domain.CreationEvent
	Derived    domain.Lookup[domain.DerivedAddress]
	Market     domain.MarketSnapshot
	Reputation domain.Lookup[bool]
	Score      domain.Score
	Alert      *alert.Alert
	Err        error
}

// Pipeline processes creation events. It is safe for concurrent use.
type Pipeline struct {
	deriver    enrichment.Deriver
	reputation ReputationSource
	market     enrichment.MarketSource
	notifier   alert.Notifier
	scorer     *scoring.Scorer
	threshold  int
	overflow   OverflowPolicy
	sem        *semaphore.Weighted
	onResult   func(Result)
	logger     *log.Logger
}

// New creates a pipeline.
func New(opts Options) (*Pipeline, error) {
	switch {
	case opts.Deriver == nil:
		return nil, errors.New("pipeline: deriver is required")
	case opts.Reputation == nil:
		return nil, errors.New("pipeline: reputation source is required")
	case opts.Market == nil:
		return nil, errors.New("pipeline: market source is required")
	case opts.Notifier == nil:
		return nil, errors.New("pipeline: notifier is required")
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}

	if opts.Threshold < 0 || opts.Threshold > domain.MaxScore {
		return nil, fmt.Errorf("pipeline: threshold %d outside [0,%d]", opts.Threshold, domain.MaxScore)
	}

	maxInFlight := opts.MaxInFlight
	if maxInFlight <= 0 {
		maxInFlight = DefaultMaxInFlight
	}

	overflow := opts.Overflow
	switch overflow {
	case "":
		overflow = OverflowDrop
	case OverflowDrop, OverflowBlock:
	default:
		return nil, fmt.Errorf("pipeline: unknown overflow policy %q", overflow)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Pipeline{
		deriver:    opts.Deriver,
		reputation: opts.Reputation,
		market:     opts.Market,
		notifier:   opts.Notifier,
		scorer:     scorer,
		threshold:  opts.Threshold,
		overflow:   overflow,
		sem:        semaphore.NewWeighted(maxInFlight),
		onResult:   opts.OnResult,
		logger:     logger,
	}, nil
}

// Threshold returns the alert threshold in use.
func (p *Pipeline) Threshold() int {
	return p.threshold
}

// Process runs one notification through the pipeline and returns its outcome.
// Panics are recovered and reported as StageDropped.
func (p *Pipeline) Process(ctx context.Context, n solana.LogNotification) (res Result) {
	start := time.Now()
	res = Result{Signature: n.Signature, Slot: n.Slot, Stage: StageReceived}

	defer func() {
		if r := recover(); r != nil {
			observability.RecordPanic()
			res.Stage = StageDropped
			res.Err = fmt.Errorf("%w: %v", ErrPanic, r)
			p.logger.Printf("[pipeline] dropped %s: %v", n.Signature, res.Err)
		}
		observability.RecordOutcome(string(res.Stage), time.Since(start))
	}()

	if n.Failed() {
		res.Stage = StageIgnored
		return res
	}

	event, ok, err := discovery.ParseCreateLogs(n.Logs)
	if !ok {
		res.Stage = StageIgnored
		return res
	}
	observability.RecordCreationEvent()
	if err != nil {
		res.Stage = StageDropped
		res.Err = err
		p.logger.Printf("[pipeline] dropped %s: %v", n.Signature, err)
		return res
	}
	res.Event = event
	res.Stage = StageDecoded

	res.Stage = StageEnriching
	res.Derived, res.Market, res.Reputation = p.enrich(ctx, event)

	if !res.Derived.Ok() {
		observability.RecordLookupError("derivation")
		res.Stage = StageDropped
		res.Err = res.Derived.Err
		p.logger.Printf("[pipeline] dropped %s (%q): %v", n.Signature, event.Name, res.Err)
		return res
	}
	if !res.Reputation.Ok() {
		observability.RecordLookupError("reputation")
		p.logger.Printf("[pipeline] %s (%q): %v, scoring as not reputable", n.Signature, event.Name, res.Reputation.Err)
	}

	res.Score = p.scorer.Evaluate(event, res.Reputation)
	res.Stage = StageScored
	observability.RecordScore(res.Score.Total)

	if !scoring.Meets(res.Score.Total, p.threshold) {
		res.Stage = StageSuppressed
		p.logger.Printf("[pipeline] suppressed %s (%q): score %d < %d", n.Signature, event.Name, res.Score.Total, p.threshold)
		return res
	}

	a := alert.New(n.Signature, n.Slot, event, res.Derived.Value, res.Market, res.Score)
	res.Alert = &a
	res.Stage = StageAlerted
	if err := p.notifier.Notify(ctx, a); err != nil {
		res.Err = err
		p.logger.Printf("[pipeline] alert %s (%q) not delivered: %v", n.Signature, event.Name, err)
		return res
	}
	p.logger.Printf("[pipeline] alerted %s (%q): score %d", n.Signature, event.Name, res.Score.Total)
	return res
}

// enrich runs the three lookups concurrently and waits for all of them.
func (p *Pipeline) enrich(ctx context.Context, event *domain.CreationEvent) (
	derived domain.Lookup[domain.DerivedAddress],
	market domain.MarketSnapshot,
	reputation domain.Lookup[bool],
) {
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		defer p.recoverLookup("derive", func(err error) {
			derived = domain.Lookup[domain.DerivedAddress]{Err: fmt.Errorf("%w: %w", domain.ErrDerivationFailed, err)}
		})
		derived = domain.Resolve(p.deriver.Derive(ctx, event))
	}()

	go func() {
		defer wg.Done()
		defer p.recoverLookup("market", func(error) {
			market = domain.MarketSnapshot{}
		})
		market = p.market.Snapshot(ctx, event.Mint.String())
	}()

	go func() {
		defer wg.Done()
		defer p.recoverLookup("reputation", func(err error) {
			reputation = domain.Lookup[bool]{Err: fmt.Errorf("%w: %w", domain.ErrReputationLookupFailed, err)}
		})
		reputation = domain.Resolve(p.reputation.IsReputable(ctx, event.Creator))
	}()

	wg.Wait()
	return derived, market, reputation
}

func (p *Pipeline) recoverLookup(name string, fail func(error)) {
	if r := recover(); r != nil {
		observability.RecordPanic()
		err := fmt.Errorf("%w: %s: %v", ErrPanic, name, r)
		p.logger.Printf("[pipeline] %v", err)
		fail(err)
	}
}

// Overflow returns the overflow policy in use.
func (p *Pipeline) Overflow() OverflowPolicy {
	return p.overflow
}

// Run consumes notifications until the channel closes or ctx is cancelled,
// processing each one in its own goroutine. It returns after every
// in-flight instance has finished.
func (p *Pipeline) Run(ctx context.Context, notifications <-chan solana.LogNotification) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	p.logger.Printf("[pipeline] running, threshold %d, overflow %s", p.threshold, p.overflow)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case n, ok := <-notifications:
			if !ok {
				p.logger.Println("[pipeline] notification stream closed")
				return nil
			}
			observability.RecordNotification()

			// Non-creation traffic never takes a slot.
			if n.Failed() || !discovery.IsCreate(n.Logs) {
				p.report(p.Process(ctx, n))
				continue
			}

			if !p.acquire(ctx) {
				if err := ctx.Err(); err != nil {
					return err
				}
				observability.RecordOverflowDrop()
				observability.RecordOutcome(string(StageDropped), 0)
				p.logger.Printf("[pipeline] dropped %s: %v", n.Signature, ErrOverflow)
				p.report(Result{Signature: n.Signature, Slot: n.Slot, Stage: StageDropped, Err: ErrOverflow})
				continue
			}

			wg.Add(1)
			go func(n solana.LogNotification) {
				defer wg.Done()
				defer p.sem.Release(1)
				observability.IncInFlight()
				defer observability.DecInFlight()

				p.report(p.Process(ctx, n))
			}(n)
		}
	}
}

func (p *Pipeline) acquire(ctx context.Context) bool {
	if p.overflow == OverflowBlock {
		return p.sem.Acquire(ctx, 1) == nil
	}
	return p.sem.TryAcquire(1)
}

func (p *Pipeline) report(res Result) {
	if p.onResult != nil {
		p.onResult(res)
	}
}
