package token

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filledKey(v byte) ed25519.PublicKey {
	key := make(ed25519.PublicKey, ed25519.PublicKeySize)
	for i := range key {
		key[i] = v
	}
	return key
}

func TestAccount_Unmarshal(t *testing.T) {
	// account data pulled from mainnet
	data, err := hex.DecodeString("118a08c9d4cc46c576282e0daf050bbdb04f03313e35e5db3f3def69fa1eeec42b15a9cd4bef2cd809e464570d2a6cbd9bcc64e32ea4ebbcf748757bbb3dd5bd000084e2506ce67c000000000000000000000000000000000000000000000000000000000000000000000000010000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	mint, err := base58.Decode("2BU1Xgyzqixhjaq9Pa5cNsaa1gSejLeNtDaDRv29qoZm")
	require.NoError(t, err)

	var a Account
	require.True(t, a.Unmarshal(data))
	assert.Equal(t, mint, []byte(a.Mint))
	assert.Equal(t, uint64(9e13*1e5), a.Amount)
	assert.Empty(t, a.Delegate)
	assert.Empty(t, a.CloseAuthority)

	var roundTripped Account
	require.True(t, roundTripped.Unmarshal(a.Marshal()))
	assert.Equal(t, a, roundTripped)
}

func TestAccount_RoundTrip(t *testing.T) {
	isNative := uint64(2)
	expected := Account{
		Mint:           filledKey(1),
		Owner:          filledKey(2),
		Amount:         10,
		Delegate:       filledKey(3),
		State:          AccountStateFrozen,
		IsNative:       &isNative,
		CloseAuthority: filledKey(2),
	}

	var actual Account
	require.True(t, actual.Unmarshal(expected.Marshal()))
	assert.Equal(t, expected, actual)
}

func TestMint_RoundTrip(t *testing.T) {
	expected := Mint{
		MintAuthority:   filledKey(1),
		Supply:          15_000_000_000,
		Decimals:        9,
		IsInitialized:   true,
		FreezeAuthority: filledKey(2),
	}

	var actual Mint
	require.True(t, actual.Unmarshal(expected.Marshal()))
	assert.Equal(t, expected, actual)

	expected.FreezeAuthority = nil
	var noFreeze Mint
	require.True(t, noFreeze.Unmarshal(expected.Marshal()))
	assert.Empty(t, noFreeze.FreezeAuthority)
}

func TestMint_Uninitialized(t *testing.T) {
	var mint Mint
	require.True(t, mint.Unmarshal(make([]byte, MintSize)))
	assert.False(t, mint.IsInitialized)
	assert.Empty(t, mint.MintAuthority)
	assert.Zero(t, mint.Supply)

	assert.False(t, mint.Unmarshal(make([]byte, MintSize-1)))
}
