package domain

import "solana-launch-alerts/internal/solana"

// CreationEvent is a decoded token-creation event.
// It lives for one pipeline pass and is never mutated after decode.
type CreationEvent struct {
	Name         string
	Symbol       string
	URI          string
	Mint         solana.PublicKey
	BondingCurve solana.PublicKey
	Creator      solana.PublicKey
}

// DerivedAddress is the bonding curve's associated token account for the mint.
type DerivedAddress struct {
	Address solana.PublicKey
	Bump    uint8
}
