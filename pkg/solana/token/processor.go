package token

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/reelprotocol/review-program/pkg/solana"
)

// Processor executes token program instructions against the accounts of an
// invocation.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/processor.rs
type Processor struct {
	log *logrus.Entry
}

func NewProcessor() *Processor {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/token/processor"),
	}
}

func (p *Processor) ID() ed25519.PublicKey {
	return ProgramKey
}

func (p *Processor) Execute(ctx solana.InvokeContext, data []byte) error {
	if len(data) == 0 {
		return ErrorInvalidInstruction
	}

	switch Command(data[0]) {
	case CommandInitializeMint, CommandInitializeMint2:
		return p.initializeMint(ctx, data[1:])
	case CommandInitializeAccount:
		return p.initializeAccount(ctx)
	case CommandTransfer:
		return p.transfer(ctx, data[1:])
	case CommandMintTo:
		return p.mintTo(ctx, data[1:])
	default:
		return ErrorInvalidInstruction
	}
}

func (p *Processor) initializeMint(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 34 && len(data) != 66 {
		return ErrorInvalidInstruction
	}

	mintAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	if !bytes.Equal(mintAccount.Owner, ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return solana.ErrInvalidAccountData
	}
	if mint.IsInitialized {
		return ErrorAlreadyInUse
	}
	if mintAccount.Lamports < ctx.MinimumBalance(MintSize) {
		return ErrorNotRentExempt
	}

	mint.Decimals = data[0]
	mint.MintAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(mint.MintAuthority, data[1:33])
	if data[33] == 1 {
		if len(data) != 66 {
			return ErrorInvalidInstruction
		}
		mint.FreezeAuthority = make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(mint.FreezeAuthority, data[34:66])
	}
	mint.IsInitialized = true

	copy(mintAccount.Data, mint.Marshal())
	return nil
}

func (p *Processor) initializeAccount(ctx solana.InvokeContext) error {
	tokenAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	mintAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	owner, err := ctx.Account(2)
	if err != nil {
		return err
	}

	if !bytes.Equal(tokenAccount.Owner, ProgramKey) {
		return solana.ErrIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(tokenAccount.Data) {
		return solana.ErrInvalidAccountData
	}
	if account.State != AccountStateUninitialized {
		return ErrorAlreadyInUse
	}
	if tokenAccount.Lamports < ctx.MinimumBalance(AccountSize) {
		return ErrorNotRentExempt
	}

	if !bytes.Equal(mintAccount.Owner, ProgramKey) {
		return solana.ErrIncorrectProgramID
	}
	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return solana.ErrInvalidAccountData
	}
	if !mint.IsInitialized {
		return ErrorInvalidMint
	}

	account.Mint = mintAccount.Key
	account.Owner = owner.Key
	account.Amount = 0
	account.State = AccountStateInitialized

	copy(tokenAccount.Data, account.Marshal())
	return nil
}

func (p *Processor) transfer(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return ErrorInvalidInstruction
	}
	amount := binary.LittleEndian.Uint64(data)

	sourceAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	destAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(2)
	if err != nil {
		return err
	}

	source, err := p.unpackAccount(sourceAccount)
	if err != nil {
		return err
	}
	dest, err := p.unpackAccount(destAccount)
	if err != nil {
		return err
	}

	if source.State == AccountStateFrozen || dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}
	if source.Amount < amount {
		return ErrorInsufficientFunds
	}
	if !bytes.Equal(source.Mint, dest.Mint) {
		return ErrorMintMismatch
	}
	if err := p.validateOwner(source.Owner, authority); err != nil {
		return err
	}

	if bytes.Equal(sourceAccount.Key, destAccount.Key) {
		return nil
	}

	if dest.Amount > math.MaxUint64-amount {
		return ErrorOverflow
	}
	source.Amount -= amount
	dest.Amount += amount

	copy(sourceAccount.Data, source.Marshal())
	copy(destAccount.Data, dest.Marshal())
	return nil
}

func (p *Processor) mintTo(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return ErrorInvalidInstruction
	}
	amount := binary.LittleEndian.Uint64(data)

	mintAccount, err := ctx.Account(0)
	if err != nil {
		return err
	}
	destAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	authority, err := ctx.Account(2)
	if err != nil {
		return err
	}

	dest, err := p.unpackAccount(destAccount)
	if err != nil {
		return err
	}
	if dest.State == AccountStateFrozen {
		return ErrorAccountFrozen
	}

	if !bytes.Equal(mintAccount.Owner, ProgramKey) {
		return solana.ErrIncorrectProgramID
	}
	var mint Mint
	if !mint.Unmarshal(mintAccount.Data) {
		return solana.ErrInvalidAccountData
	}
	if !mint.IsInitialized {
		return solana.ErrUninitializedAccount
	}

	if !bytes.Equal(dest.Mint, mintAccount.Key) {
		return ErrorMintMismatch
	}

	if len(mint.MintAuthority) == 0 {
		return ErrorFixedSupply
	}
	if err := p.validateOwner(mint.MintAuthority, authority); err != nil {
		return err
	}

	if dest.Amount > math.MaxUint64-amount {
		return ErrorOverflow
	}
	if mint.Supply > math.MaxUint64-amount {
		return ErrorOverflow
	}
	dest.Amount += amount
	mint.Supply += amount

	p.log.WithFields(logrus.Fields{
		"mint":   base58.Encode(mintAccount.Key),
		"dest":   base58.Encode(destAccount.Key),
		"amount": amount,
	}).Debug("minted tokens")

	copy(mintAccount.Data, mint.Marshal())
	copy(destAccount.Data, dest.Marshal())
	return nil
}

// unpackAccount loads an initialized token account owned by the token program.
func (p *Processor) unpackAccount(info *solana.AccountInfo) (*Account, error) {
	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, solana.ErrIncorrectProgramID
	}

	var account Account
	if !account.Unmarshal(info.Data) {
		return nil, solana.ErrInvalidAccountData
	}
	if account.State == AccountStateUninitialized {
		return nil, solana.ErrUninitializedAccount
	}

	return &account, nil
}

func (p *Processor) validateOwner(expected ed25519.PublicKey, authority *solana.AccountInfo) error {
	if !bytes.Equal(expected, authority.Key) {
		return ErrorOwnerMismatch
	}
	if !authority.IsSigner {
		return solana.ErrMissingSignature
	}
	return nil
}
