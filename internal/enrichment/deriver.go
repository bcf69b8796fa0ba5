// Package enrichment resolves the external lookups a creation event needs
// before scoring: derived address, creator reputation and market data.
package enrichment

import (
	"context"
	"fmt"

	"solana-launch-alerts/internal/domain"
	"solana-launch-alerts/internal/solana"
)

// Deriver computes the derived address for a creation event.
type Deriver interface {
	Derive(ctx context.Context, event *domain.CreationEvent) (domain.DerivedAddress, error)
}

// PDADeriver derives the bonding curve's associated token account locally.
type PDADeriver struct {
	tokenProgram      solana.PublicKey
	associatedProgram solana.PublicKey
}

// NewPDADeriver creates a deriver for the given token and associated-token programs.
func NewPDADeriver(tokenProgram, associatedProgram solana.PublicKey) *PDADeriver {
	return &PDADeriver{
		tokenProgram:      tokenProgram,
		associatedProgram: associatedProgram,
	}
}

// NewDefaultDeriver uses the SPL token and associated token programs.
func NewDefaultDeriver() *PDADeriver {
	return NewPDADeriver(
		solana.MustPublicKey(solana.TokenProgram),
		solana.MustPublicKey(solana.AssociatedTokenProgram),
	)
}

// Derive searches seeds {bondingCurve, tokenProgram, mint} for an off-curve address.
func (d *PDADeriver) Derive(ctx context.Context, event *domain.CreationEvent) (domain.DerivedAddress, error) {
	if err := ctx.Err(); err != nil {
		return domain.DerivedAddress{}, fmt.Errorf("%w: %v", domain.ErrDerivationFailed, err)
	}

	seeds := [][]byte{event.BondingCurve[:], d.tokenProgram[:], event.Mint[:]}
	addr, bump, err := solana.FindProgramAddress(seeds, d.associatedProgram)
	if err != nil {
		return domain.DerivedAddress{}, fmt.Errorf("%w: mint %s: %v", domain.ErrDerivationFailed, event.Mint, err)
	}
	return domain.DerivedAddress{Address: addr, Bump: bump}, nil
}
