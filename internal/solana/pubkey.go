package solana

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Well-known program IDs.
const (
	// TokenProgram is the SPL Token program ID.
	TokenProgram = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
	// AssociatedTokenProgram is the SPL Associated Token Account program ID.
	AssociatedTokenProgram = "ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL"
	// PumpFun is the pump.fun program ID.
	PumpFun = "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
)

// LamportsPerSOL is the number of lamports in one SOL.
const LamportsPerSOL = 1_000_000_000

// PublicKeyLength is the size of an account address in bytes.
const PublicKeyLength = 32

// PDA derivation limits.
const (
	MaxSeeds      = 16
	MaxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"
)

var (
	// ErrMaxSeedLength is returned when a seed exceeds MaxSeedLength or too many seeds are given.
	ErrMaxSeedLength = errors.New("max seed length exceeded")
	// ErrNoViableBump is returned when every bump in [0,255] yields an on-curve point.
	ErrNoViableBump = errors.New("unable to find a viable program address bump seed")
	// ErrOnCurve is returned by CreateProgramAddress when the hash is a valid ed25519 point.
	ErrOnCurve = errors.New("derived address is on the ed25519 curve")
)

// PublicKey is a 32-byte Solana account address.
type PublicKey [PublicKeyLength]byte

// PublicKeyFromBytes copies b into a PublicKey. b must be exactly 32 bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != PublicKeyLength {
		return pk, fmt.Errorf("invalid public key length %d", len(b))
	}
	copy(pk[:], b)
	return pk, nil
}

// ParsePublicKey decodes a base58 address.
func ParsePublicKey(s string) (PublicKey, error) {
	decoded, err := base58.Decode(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("decode base58 %q: %w", s, err)
	}
	return PublicKeyFromBytes(decoded)
}

// MustPublicKey is ParsePublicKey for compile-time constants.
func MustPublicKey(s string) PublicKey {
	pk, err := ParsePublicKey(s)
	if err != nil {
		panic(err)
	}
	return pk
}

// String returns the base58 form.
func (pk PublicKey) String() string {
	return base58.Encode(pk[:])
}

// IsZero reports whether every byte is zero.
func (pk PublicKey) IsZero() bool {
	return pk == PublicKey{}
}

// IsOnCurve reports whether b decodes to a point on the ed25519 curve.
func IsOnCurve(b []byte) bool {
	if len(b) != PublicKeyLength {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}

// CreateProgramAddress hashes seeds with programID and fails if the result is on-curve.
// The bump, if any, must already be the last seed.
func CreateProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, error) {
	if len(seeds) > MaxSeeds {
		return PublicKey{}, ErrMaxSeedLength
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return PublicKey{}, ErrMaxSeedLength
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	var addr PublicKey
	copy(addr[:], h.Sum(nil))

	if IsOnCurve(addr[:]) {
		return PublicKey{}, ErrOnCurve
	}
	return addr, nil
}

// FindProgramAddress searches bump seeds from 255 down to 0 and returns the
// first off-curve address with the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID PublicKey) (PublicKey, uint8, error) {
	// bump occupies one seed slot
	if len(seeds) > MaxSeeds-1 {
		return PublicKey{}, 0, ErrMaxSeedLength
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := CreateProgramAddress(withBump, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return PublicKey{}, 0, err
		}
	}

	return PublicKey{}, 0, ErrNoViableBump
}

// FindAssociatedTokenAddress derives the associated token account of owner for mint.
func FindAssociatedTokenAddress(owner, mint PublicKey) (PublicKey, uint8, error) {
	tokenProgram := MustPublicKey(TokenProgram)
	return FindProgramAddress(
		[][]byte{owner[:], tokenProgram[:], mint[:]},
		MustPublicKey(AssociatedTokenProgram),
	)
}
