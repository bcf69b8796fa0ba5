// Package alert formats launch alerts and delivers them to notification sinks.
package alert

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"solana-launch-alerts/internal/domain"
)

// NotAvailable replaces market values the enrichment source did not return.
const NotAvailable = "N/A"

// Alert is one outbound launch alert.
type Alert struct {
	ID             string           `json:"id"`
	Signature      string           `json:"signature"`
	Slot           int64            `json:"slot"`
	Name           string           `json:"name"`
	Symbol         string           `json:"symbol"`
	URI            string           `json:"uri"`
	Mint           string           `json:"mint"`
	BondingCurve   string           `json:"bonding_curve"`
	DerivedAddress string           `json:"derived_address"`
	Creator        string           `json:"creator"`
	Price          *decimal.Decimal `json:"price"`
	MarketCap      *decimal.Decimal `json:"market_cap"`
	Score          int              `json:"score"`
	CreatedAt      time.Time        `json:"created_at"`
}

// New builds an alert from the outcome of one pipeline pass.
func New(signature string, slot int64, event *domain.CreationEvent, derived domain.DerivedAddress, market domain.MarketSnapshot, score domain.Score) Alert {
	return Alert{
		ID:             uuid.NewString(),
		Signature:      signature,
		Slot:           slot,
		Name:           event.Name,
		Symbol:         event.Symbol,
		URI:            event.URI,
		Mint:           event.Mint.String(),
		BondingCurve:   event.BondingCurve.String(),
		DerivedAddress: derived.Address.String(),
		Creator:        event.Creator.String(),
		Price:          market.Price,
		MarketCap:      market.MarketCap,
		Score:          score.Total,
		CreatedAt:      time.Now().UTC(),
	}
}

// Text renders the alert as a plain-text chat message.
func (a Alert) Text() string {
	var b strings.Builder
	b.WriteString("New token launch\n\n")
	fmt.Fprintf(&b, "Name: %s\n", a.Name)
	fmt.Fprintf(&b, "Symbol: %s\n", a.Symbol)
	fmt.Fprintf(&b, "Metadata: %s\n", a.URI)
	fmt.Fprintf(&b, "Mint: %s\n", a.Mint)
	fmt.Fprintf(&b, "Bonding curve: %s\n", a.BondingCurve)
	fmt.Fprintf(&b, "Curve token account: %s\n", a.DerivedAddress)
	fmt.Fprintf(&b, "Creator: %s\n", a.Creator)
	fmt.Fprintf(&b, "Price: %s\n", formatDecimal(a.Price))
	fmt.Fprintf(&b, "Market cap: %s\n", formatDecimal(a.MarketCap))
	fmt.Fprintf(&b, "Confidence: %d/100\n", a.Score)
	fmt.Fprintf(&b, "Signature: %s", a.Signature)
	return b.String()
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return NotAvailable
	}
	return d.String()
}

// Notifier delivers alerts to one sink. Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(ctx context.Context, a Alert) error
	Name() string
}
