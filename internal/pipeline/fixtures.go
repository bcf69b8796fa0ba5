package pipeline

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/mr-tron/base58"

	"solana-launch-alerts/internal/discovery"
	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/solana"
)

// Fixtures generates synthetic notifications for replays and tests.
// The same seed always yields the same sequence.
type Fixtures struct {
	faker *gofakeit.Faker
	slot  int64
}

// NewFixtures creates a generator seeded with seed.
func NewFixtures(seed int64) *Fixtures {
	return &Fixtures{faker: gofakeit.New(seed), slot: 250_000_000}
}

// Key returns a random public key.
func (f *Fixtures) Key() solana.PublicKey {
	var pk solana.PublicKey
	for i := range pk {
		pk[i] = f.faker.Uint8()
	}
	return pk
}

// Signature returns a random base58 transaction signature.
func (f *Fixtures) Signature() string {
	sig := make([]byte, 64)
	for i := range sig {
		sig[i] = f.faker.Uint8()
	}
	return base58.Encode(sig)
}

// GoodEvent returns an event whose metadata earns every metadata point.
func (f *Fixtures) GoodEvent() *domain.CreationEvent {
	name := strings.ReplaceAll(f.faker.Company(), "scam", "")
	if len(name) <= 3 {
		name += " Coin"
	}
	return &domain.CreationEvent{
		Name:         name,
		Symbol:       strings.ToUpper(f.faker.LetterN(uint(f.faker.Number(2, 6)))),
		URI:          fmt.Sprintf("https://%s/%s.json", f.faker.DomainName(), f.faker.UUID()),
		Mint:         f.Key(),
		BondingCurve: f.Key(),
		Creator:      f.Key(),
	}
}

// Event returns an event with randomly good or bad metadata.
func (f *Fixtures) Event() *domain.CreationEvent {
	e := f.GoodEvent()
	if f.faker.Bool() {
		e.Name = f.faker.LetterN(uint(f.faker.Number(1, 3)))
	}
	if f.faker.Bool() {
		e.Symbol = f.faker.Letter()
	}
	if f.faker.Bool() {
		e.URI = "http://" + f.faker.DomainName()
	}
	return e
}

// Notification wraps an event in the log lines the program emits.
func (f *Fixtures) Notification(e *domain.CreationEvent) solana.LogNotification {
	f.slot += int64(f.faker.Number(1, 3))
	return solana.LogNotification{
		Signature: f.Signature(),
		Slot:      f.slot,
		Logs:      discovery.EncodeCreateLogs(e),
	}
}

// Trade returns a notification without a creation marker.
func (f *Fixtures) Trade() solana.LogNotification {
	f.slot++
	instruction := "Buy"
	if f.faker.Bool() {
		instruction = "Sell"
	}
	return solana.LogNotification{
		Signature: f.Signature(),
		Slot:      f.slot,
		Logs: []string{
			"Program " + solana.PumpFun + " invoke [1]",
			"Program log: Instruction: " + instruction,
			"Program " + solana.PumpFun + " success",
		},
	}
}

// Stream returns n notifications mixing creations, trades and failed transactions.
func (f *Fixtures) Stream(n int) []solana.LogNotification {
	out := make([]solana.LogNotification, 0, n)
	for i := 0; i < n; i++ {
		switch roll := f.faker.Number(0, 9); {
		case roll < 4:
			out = append(out, f.Notification(f.Event()))
		case roll < 9:
			out = append(out, f.Trade())
		default:
			failed := f.Notification(f.Event())
			failed.Err = map[string]any{"InstructionError": []any{0, "Custom"}}
			out = append(out, failed)
		}
	}
	return out
}
