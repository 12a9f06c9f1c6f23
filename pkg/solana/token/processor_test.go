package token

import (
	"crypto/ed25519"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelprotocol/review-program/pkg/solana"
)

type testInvokeContext struct {
	program  ed25519.PublicKey
	accounts []*solana.AccountInfo
}

func (c *testInvokeContext) ProgramID() ed25519.PublicKey {
	return c.program
}

func (c *testInvokeContext) AccountCount() int {
	return len(c.accounts)
}

func (c *testInvokeContext) Account(index int) (*solana.AccountInfo, error) {
	if index >= len(c.accounts) {
		return nil, solana.ErrNotEnoughAccountKeys
	}
	return c.accounts[index], nil
}

func (c *testInvokeContext) MinimumBalance(size uint64) uint64 {
	return (128 + size) * 3480 * 2
}

func (c *testInvokeContext) InvokeSigned(ix solana.Instruction, signerSeeds ...[][]byte) error {
	return errors.New("cross-program invocations not supported")
}

func mintAccount(key ed25519.PublicKey, mint *Mint) *solana.AccountInfo {
	info := &solana.AccountInfo{
		Key:        key,
		Owner:      ProgramKey,
		Lamports:   (&testInvokeContext{}).MinimumBalance(MintSize),
		Data:       make([]byte, MintSize),
		IsWritable: true,
	}
	if mint != nil {
		copy(info.Data, mint.Marshal())
	}
	return info
}

func tokenAccount(key ed25519.PublicKey, account *Account) *solana.AccountInfo {
	info := &solana.AccountInfo{
		Key:        key,
		Owner:      ProgramKey,
		Lamports:   (&testInvokeContext{}).MinimumBalance(AccountSize),
		Data:       make([]byte, AccountSize),
		IsWritable: true,
	}
	if account != nil {
		copy(info.Data, account.Marshal())
	}
	return info
}

func signerAccount(key ed25519.PublicKey) *solana.AccountInfo {
	return &solana.AccountInfo{
		Key:      key,
		Owner:    make(ed25519.PublicKey, ed25519.PublicKeySize),
		IsSigner: true,
	}
}

func TestProcessor_InitializeMint(t *testing.T) {
	keys := generateKeys(t, 3)
	p := NewProcessor()

	ctx := &testInvokeContext{
		program: ProgramKey,
		accounts: []*solana.AccountInfo{
			mintAccount(keys[0], nil),
		},
	}

	require.NoError(t, p.Execute(ctx, InitializeMint2(keys[0], keys[1], nil, 9).Data))

	var mint Mint
	require.True(t, mint.Unmarshal(ctx.accounts[0].Data))
	assert.Equal(t, keys[1], mint.MintAuthority)
	assert.Nil(t, mint.FreezeAuthority)
	assert.EqualValues(t, 9, mint.Decimals)
	assert.EqualValues(t, 0, mint.Supply)
	assert.True(t, mint.IsInitialized)

	// initializing twice fails
	assert.Equal(t, ErrorAlreadyInUse, p.Execute(ctx, InitializeMint2(keys[0], keys[1], nil, 9).Data))

	ctx.accounts[0] = mintAccount(keys[0], nil)
	require.NoError(t, p.Execute(ctx, InitializeMint2(keys[0], keys[1], keys[2], 5).Data))
	require.True(t, mint.Unmarshal(ctx.accounts[0].Data))
	assert.Equal(t, keys[2], mint.FreezeAuthority)
	assert.EqualValues(t, 5, mint.Decimals)
}

func TestProcessor_InitializeMint_Validation(t *testing.T) {
	keys := generateKeys(t, 2)
	p := NewProcessor()

	data := InitializeMint2(keys[0], keys[1], nil, 9).Data

	ctx := &testInvokeContext{
		program: ProgramKey,
		accounts: []*solana.AccountInfo{
			mintAccount(keys[0], nil),
		},
	}
	ctx.accounts[0].Lamports--
	assert.Equal(t, ErrorNotRentExempt, p.Execute(ctx, data))

	ctx.accounts[0] = mintAccount(keys[0], nil)
	ctx.accounts[0].Data = make([]byte, 10)
	assert.Equal(t, solana.ErrInvalidAccountData, p.Execute(ctx, data))

	ctx.accounts[0] = mintAccount(keys[0], nil)
	assert.Equal(t, ErrorInvalidInstruction, p.Execute(ctx, data[:10]))

	ctx.accounts = nil
	assert.Equal(t, solana.ErrNotEnoughAccountKeys, p.Execute(ctx, data))
}

func TestProcessor_InitializeAccount(t *testing.T) {
	keys := generateKeys(t, 3)
	p := NewProcessor()

	newContext := func() *testInvokeContext {
		return &testInvokeContext{
			program: ProgramKey,
			accounts: []*solana.AccountInfo{
				tokenAccount(keys[0], nil),
				mintAccount(keys[1], &Mint{MintAuthority: keys[2], Decimals: 9, IsInitialized: true}),
				signerAccount(keys[2]),
			},
		}
	}
	data := InitializeAccount(keys[0], keys[1], keys[2]).Data

	ctx := newContext()
	require.NoError(t, p.Execute(ctx, data))

	var account Account
	require.True(t, account.Unmarshal(ctx.accounts[0].Data))
	assert.Equal(t, keys[1], account.Mint)
	assert.Equal(t, keys[2], account.Owner)
	assert.EqualValues(t, 0, account.Amount)
	assert.Equal(t, AccountStateInitialized, account.State)

	assert.Equal(t, ErrorAlreadyInUse, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0].Lamports--
	assert.Equal(t, ErrorNotRentExempt, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1].Owner = keys[2]
	assert.Equal(t, solana.ErrIncorrectProgramID, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1] = mintAccount(keys[1], nil)
	assert.Equal(t, ErrorInvalidMint, p.Execute(ctx, data))
}

func TestProcessor_Transfer(t *testing.T) {
	keys := generateKeys(t, 5)
	p := NewProcessor()

	mint := keys[0]
	owner := keys[3]

	newContext := func() *testInvokeContext {
		return &testInvokeContext{
			program: ProgramKey,
			accounts: []*solana.AccountInfo{
				tokenAccount(keys[1], &Account{Mint: mint, Owner: owner, Amount: 100, State: AccountStateInitialized}),
				tokenAccount(keys[2], &Account{Mint: mint, Owner: keys[4], Amount: 5, State: AccountStateInitialized}),
				signerAccount(owner),
			},
		}
	}

	ctx := newContext()
	require.NoError(t, p.Execute(ctx, Transfer(keys[1], keys[2], owner, 30).Data))

	var source, dest Account
	require.True(t, source.Unmarshal(ctx.accounts[0].Data))
	require.True(t, dest.Unmarshal(ctx.accounts[1].Data))
	assert.EqualValues(t, 70, source.Amount)
	assert.EqualValues(t, 35, dest.Amount)

	// self transfers are a no-op
	ctx = newContext()
	ctx.accounts[1] = ctx.accounts[0]
	require.NoError(t, p.Execute(ctx, Transfer(keys[1], keys[1], owner, 30).Data))
	require.True(t, source.Unmarshal(ctx.accounts[0].Data))
	assert.EqualValues(t, 100, source.Amount)

	ctx = newContext()
	assert.Equal(t, ErrorInsufficientFunds, p.Execute(ctx, Transfer(keys[1], keys[2], owner, 101).Data))

	data := Transfer(keys[1], keys[2], owner, 30).Data

	ctx = newContext()
	ctx.accounts[1] = tokenAccount(keys[2], &Account{Mint: keys[4], Owner: keys[4], Amount: 5, State: AccountStateInitialized})
	assert.Equal(t, ErrorMintMismatch, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0] = tokenAccount(keys[1], &Account{Mint: mint, Owner: owner, Amount: 100, State: AccountStateFrozen})
	assert.Equal(t, ErrorAccountFrozen, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[2] = signerAccount(keys[4])
	assert.Equal(t, ErrorOwnerMismatch, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[2].IsSigner = false
	assert.Equal(t, solana.ErrMissingSignature, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0].Owner = keys[4]
	assert.Equal(t, solana.ErrIncorrectProgramID, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0] = tokenAccount(keys[1], nil)
	assert.Equal(t, solana.ErrUninitializedAccount, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1] = tokenAccount(keys[2], &Account{Mint: mint, Owner: keys[4], Amount: math.MaxUint64, State: AccountStateInitialized})
	assert.Equal(t, ErrorOverflow, p.Execute(ctx, data))
}

func TestProcessor_MintTo(t *testing.T) {
	keys := generateKeys(t, 4)
	p := NewProcessor()

	mint := keys[0]
	authority := keys[2]

	newContext := func() *testInvokeContext {
		return &testInvokeContext{
			program: ProgramKey,
			accounts: []*solana.AccountInfo{
				mintAccount(mint, &Mint{MintAuthority: authority, Supply: 50, Decimals: 9, IsInitialized: true}),
				tokenAccount(keys[1], &Account{Mint: mint, Owner: keys[3], Amount: 5, State: AccountStateInitialized}),
				signerAccount(authority),
			},
		}
	}

	ctx := newContext()
	require.NoError(t, p.Execute(ctx, MintTo(mint, keys[1], authority, 10_000_000_000).Data))

	var m Mint
	var dest Account
	require.True(t, m.Unmarshal(ctx.accounts[0].Data))
	require.True(t, dest.Unmarshal(ctx.accounts[1].Data))
	assert.EqualValues(t, 10_000_000_050, m.Supply)
	assert.EqualValues(t, 10_000_000_005, dest.Amount)

	data := MintTo(mint, keys[1], authority, 10).Data

	ctx = newContext()
	ctx.accounts[2] = signerAccount(keys[3])
	assert.Equal(t, ErrorOwnerMismatch, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[2].IsSigner = false
	assert.Equal(t, solana.ErrMissingSignature, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0] = mintAccount(mint, &Mint{Supply: 50, Decimals: 9, IsInitialized: true})
	assert.Equal(t, ErrorFixedSupply, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1] = tokenAccount(keys[1], &Account{Mint: keys[3], Owner: keys[3], Amount: 5, State: AccountStateInitialized})
	assert.Equal(t, ErrorMintMismatch, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1] = tokenAccount(keys[1], &Account{Mint: mint, Owner: keys[3], Amount: 5, State: AccountStateFrozen})
	assert.Equal(t, ErrorAccountFrozen, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0].Owner = keys[3]
	assert.Equal(t, solana.ErrIncorrectProgramID, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0] = mintAccount(mint, nil)
	assert.Equal(t, solana.ErrUninitializedAccount, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[1] = tokenAccount(keys[1], &Account{Mint: mint, Owner: keys[3], Amount: math.MaxUint64, State: AccountStateInitialized})
	assert.Equal(t, ErrorOverflow, p.Execute(ctx, data))

	ctx = newContext()
	ctx.accounts[0] = mintAccount(mint, &Mint{MintAuthority: authority, Supply: math.MaxUint64, Decimals: 9, IsInitialized: true})
	assert.Equal(t, ErrorOverflow, p.Execute(ctx, data))
}

func TestProcessor_UnsupportedCommand(t *testing.T) {
	p := NewProcessor()
	ctx := &testInvokeContext{program: ProgramKey}

	assert.Equal(t, ErrorInvalidInstruction, p.Execute(ctx, nil))
	assert.Equal(t, ErrorInvalidInstruction, p.Execute(ctx, []byte{byte(CommandCloseAccount)}))
}
