package token

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana/binary"
)

// AccountState is the lifecycle state of a token account.
type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Serialized sizes of the token program's account types.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs
const (
	MintSize    = 82
	AccountSize = 165
)

// Optional fields are encoded as a 4 byte presence flag followed by the value.
const optionSize = 4

// Mint is the deserialized state of a token mint.
type Mint struct {
	// Authority allowed to mint new tokens. Set only at creation; once
	// absent, the supply is fixed.
	MintAuthority ed25519.PublicKey

	// Total supply of tokens, in quarks.
	Supply uint64

	// Number of base 10 digits to the right of the decimal place.
	Decimals byte

	IsInitialized bool

	// Authority allowed to freeze token accounts, if any.
	FreezeAuthority ed25519.PublicKey
}

func (m *Mint) Marshal() []byte {
	b := make([]byte, MintSize)

	var offset int
	binary.PutOptionalKey32(b, m.MintAuthority, &offset, optionSize)
	binary.PutUint64(b[offset:], m.Supply, &offset)
	b[offset] = m.Decimals
	offset++
	if m.IsInitialized {
		b[offset] = 1
	}
	offset++
	binary.PutOptionalKey32(b[offset:], m.FreezeAuthority, &offset, optionSize)

	return b
}

func (m *Mint) Unmarshal(b []byte) bool {
	if len(b) != MintSize {
		return false
	}

	var offset int
	binary.GetOptionalKey32(b, &m.MintAuthority, &offset, optionSize)
	binary.GetUint64(b[offset:], &m.Supply, &offset)
	m.Decimals = b[offset]
	offset++
	m.IsInitialized = b[offset] == 1
	offset++
	binary.GetOptionalKey32(b[offset:], &m.FreezeAuthority, &offset, optionSize)

	return true
}

// Account is the deserialized state of a token account.
type Account struct {
	// The mint this account holds balances of.
	Mint ed25519.PublicKey

	// The owner of this account.
	Owner ed25519.PublicKey

	// Balance, in quarks.
	Amount uint64

	// If set, Delegate may transfer up to DelegatedAmount from the account.
	Delegate ed25519.PublicKey

	State AccountState

	// Set for wrapped SOL accounts, holding the rent exempt reserve the
	// balance may not drop below.
	IsNative *uint64

	DelegatedAmount uint64

	// Authority allowed to close the account, if any.
	CloseAuthority ed25519.PublicKey
}

func (a *Account) Marshal() []byte {
	b := make([]byte, AccountSize)

	var offset int
	binary.PutKey32(b, a.Mint, &offset)
	binary.PutKey32(b[offset:], a.Owner, &offset)
	binary.PutUint64(b[offset:], a.Amount, &offset)
	binary.PutOptionalKey32(b[offset:], a.Delegate, &offset, optionSize)
	b[offset] = byte(a.State)
	offset++
	binary.PutOptionalUint64(b[offset:], a.IsNative, &offset, optionSize)
	binary.PutUint64(b[offset:], a.DelegatedAmount, &offset)
	binary.PutOptionalKey32(b[offset:], a.CloseAuthority, &offset, optionSize)

	return b
}

func (a *Account) Unmarshal(b []byte) bool {
	if len(b) != AccountSize {
		return false
	}

	var offset int
	binary.GetKey32(b, &a.Mint, &offset)
	binary.GetKey32(b[offset:], &a.Owner, &offset)
	binary.GetUint64(b[offset:], &a.Amount, &offset)
	binary.GetOptionalKey32(b[offset:], &a.Delegate, &offset, optionSize)
	a.State = AccountState(b[offset])
	offset++
	binary.GetOptionalUint64(b[offset:], &a.IsNative, &offset, optionSize)
	binary.GetUint64(b[offset:], &a.DelegatedAmount, &offset)
	binary.GetOptionalKey32(b[offset:], &a.CloseAuthority, &offset, optionSize)

	return true
}
