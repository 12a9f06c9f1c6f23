package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"math"

	"github.com/jdgcs/ed25519/edwards25519"
	"github.com/pkg/errors"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrTooManySeeds          = errors.New("too many seeds")
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")

	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrDerivationExhausted indicates no bump seed in [0, 255] produced an
	// off-curve address for the given (program, seeds) pair. The odds of this
	// are vanishingly small; callers should treat it as fatal.
	ErrDerivationExhausted = errors.New("derivation exhausted all bump seeds")
)

// swappable for tests that need to force on-curve hashes
var programHashCtor = sha256.New

// CreateProgramAddress derives an address owned by a program from a set of
// seeds.
//
// Program addresses are 32-byte values that _do not_ lie on the ed25519
// curve, which guarantees no private key exists for them. If hashing the
// seeds happens to produce a valid curve point, ErrInvalidPublicKey is
// returned and the caller should retry with a different bump seed.
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L158
func CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	if len(seeds) > maxSeeds {
		return nil, ErrTooManySeeds
	}

	h := programHashCtor()
	for _, s := range seeds {
		if len(s) > maxSeedLength {
			return nil, ErrMaxSeedLengthExceeded
		}

		h.Write(s)
	}
	h.Write(program)
	h.Write([]byte("ProgramDerivedAddress"))

	var pub [32]byte
	copy(pub[:], h.Sum(nil))

	// The derived value must be _rejected_ if it's a valid compressed
	// EdwardsPoint. The stdlib doesn't expose point decompression, so the
	// check leans on the edwards25519 internals from a standalone library.
	//
	// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L182-L187
	var A edwards25519.ExtendedGroupElement
	if A.FromBytes(&pub) {
		return nil, ErrInvalidPublicKey
	}

	return pub[:], nil
}

// FindProgramAddressAndBump searches for the canonical program derived
// address for a set of seeds, by appending a bump seed starting at 255 and
// walking down to 0 until the hash lands off-curve. The search is pure; the
// same (program, seeds) always yields the same (address, bump).
//
// Reference: https://github.com/solana-labs/solana/blob/5548e599fe4920b71766e0ad1d121755ce9c63d5/sdk/program/src/pubkey.rs#L234
func FindProgramAddressAndBump(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	bumpSeed := []byte{math.MaxUint8}
	for i := 0; i <= math.MaxUint8; i++ {
		pub, err := CreateProgramAddress(program, append(seeds, bumpSeed)...)
		if err == nil {
			return pub, bumpSeed[0], nil
		}
		if err != ErrInvalidPublicKey {
			return nil, 0, err
		}

		bumpSeed[0]--
	}

	return nil, 0, ErrDerivationExhausted
}

// FindProgramAddress is FindProgramAddressAndBump without the bump seed.
func FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	pub, _, err := FindProgramAddressAndBump(program, seeds...)
	return pub, err
}
