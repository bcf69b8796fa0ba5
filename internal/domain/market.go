package domain

import "github.com/shopspring/decimal"

// MarketSnapshot holds best-effort market data for a token.
// A nil field means the source had no value; it is never read as zero.
type MarketSnapshot struct {
	Price     *decimal.Decimal
	MarketCap *decimal.Decimal
}

// Empty reports whether neither field is known.
func (s MarketSnapshot) Empty() bool {
	return s.Price == nil && s.MarketCap == nil
}
