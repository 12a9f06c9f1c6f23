package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
)

// AssociatedTokenAccountProgramKey is the address of the associated token
// account program.
//
// https://explorer.solana.com/address/ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

const (
	commandCreate byte = iota
	commandCreateIdempotent
	commandRecoverNested
)

// GetAssociatedAccount returns the associated account address for an SPL token.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(wallet, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		AssociatedTokenAccountProgramKey,
		wallet,
		ProgramKey,
		mint,
	)
}

// Reference: https://github.com/solana-labs/solana-program-library/blob/0639953c7dd0f5228c3ceda3ba68fece3b46ff1d/associated-token-account/program/src/lib.rs#L54
func CreateAssociatedTokenAccount(subsidizer, wallet, mint ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	addr, err := GetAssociatedAccount(wallet, mint)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	return solana.NewInstruction(
		AssociatedTokenAccountProgramKey,
		[]byte{commandCreate},
		solana.NewAccountMeta(subsidizer, true),
		solana.NewAccountMeta(addr, false),
		solana.NewReadonlyAccountMeta(wallet, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	), addr, nil
}

// CreateAssociatedTokenAccountIdempotent is CreateAssociatedTokenAccount, but
// succeeds when the associated account already exists for the wallet and mint.
func CreateAssociatedTokenAccountIdempotent(subsidizer, wallet, mint ed25519.PublicKey) (solana.Instruction, ed25519.PublicKey, error) {
	addr, err := GetAssociatedAccount(wallet, mint)
	if err != nil {
		return solana.Instruction{}, nil, err
	}

	return solana.NewInstruction(
		AssociatedTokenAccountProgramKey,
		[]byte{commandCreateIdempotent},
		solana.NewAccountMeta(subsidizer, true),
		solana.NewAccountMeta(addr, false),
		solana.NewReadonlyAccountMeta(wallet, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(system.ProgramKey[:], false),
		solana.NewReadonlyAccountMeta(ProgramKey, false),
		solana.NewReadonlyAccountMeta(system.RentSysVar, false),
	), addr, nil
}

type DecompiledCreateAssociatedAccount struct {
	Subsidizer ed25519.PublicKey
	Address    ed25519.PublicKey
	Owner      ed25519.PublicKey
	Mint       ed25519.PublicKey
}

func DecompileCreateAssociatedAccount(m solana.Message, index int) (*DecompiledCreateAssociatedAccount, error) {
	return decompileCreateAssociatedAccount(m, index, commandCreate)
}

func DecompileCreateAssociatedAccountIdempotent(m solana.Message, index int) (*DecompiledCreateAssociatedAccount, error) {
	return decompileCreateAssociatedAccount(m, index, commandCreateIdempotent)
}

func decompileCreateAssociatedAccount(m solana.Message, index int, command byte) (*DecompiledCreateAssociatedAccount, error) {
	if index >= len(m.Instructions) {
		return nil, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !bytes.Equal(m.Accounts[i.ProgramIndex], AssociatedTokenAccountProgramKey) {
		return nil, solana.ErrIncorrectProgram
	}

	// Older clients built Create instructions without any data.
	legacyCreate := command == commandCreate && len(i.Data) == 0
	if !legacyCreate && !bytes.Equal(i.Data, []byte{command}) {
		return nil, solana.ErrIncorrectInstruction
	}

	if len(i.Accounts) != 7 {
		return nil, errors.Errorf("invalid number of accounts: %d (expected %d)", len(i.Accounts), 7)
	}

	if !bytes.Equal(m.Accounts[i.Accounts[4]], system.ProgramKey[:]) {
		return nil, errors.Errorf("system program key mismatch")
	}
	if !bytes.Equal(m.Accounts[i.Accounts[5]], ProgramKey) {
		return nil, errors.Errorf("token program key mismatch")
	}
	if !bytes.Equal(m.Accounts[i.Accounts[6]], system.RentSysVar) {
		return nil, errors.Errorf("rent sysvar mismatch")
	}

	return &DecompiledCreateAssociatedAccount{
		Subsidizer: m.Accounts[i.Accounts[0]],
		Address:    m.Accounts[i.Accounts[1]],
		Owner:      m.Accounts[i.Accounts[2]],
		Mint:       m.Accounts[i.Accounts[3]],
	}, nil
}

// AssociatedAccountProcessor executes the associated token account program.
// Creation funds a token account at the canonical associated address and
// hands initialization off to the token program.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/0639953c7dd0f5228c3ceda3ba68fece3b46ff1d/associated-token-account/program/src/lib.rs#L54
type AssociatedAccountProcessor struct {
	log *logrus.Entry
}

func NewAssociatedAccountProcessor() *AssociatedAccountProcessor {
	return &AssociatedAccountProcessor{
		log: logrus.StandardLogger().WithField("type", "solana/token/associated"),
	}
}

func (p *AssociatedAccountProcessor) ID() ed25519.PublicKey {
	return AssociatedTokenAccountProgramKey
}

func (p *AssociatedAccountProcessor) Execute(ctx solana.InvokeContext, data []byte) error {
	idempotent := false
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte{commandCreate}):
	case bytes.Equal(data, []byte{commandCreateIdempotent}):
		idempotent = true
	default:
		return solana.ErrInvalidInstructionData
	}

	funder, err := ctx.Account(0)
	if err != nil {
		return err
	}
	associatedAccount, err := ctx.Account(1)
	if err != nil {
		return err
	}
	wallet, err := ctx.Account(2)
	if err != nil {
		return err
	}
	mint, err := ctx.Account(3)
	if err != nil {
		return err
	}

	if !funder.IsSigner {
		return solana.ErrMissingSignature
	}

	expected, bump, err := solana.FindProgramAddressAndBump(
		AssociatedTokenAccountProgramKey,
		wallet.Key,
		ProgramKey,
		mint.Key,
	)
	if err != nil {
		return err
	}
	if !bytes.Equal(expected, associatedAccount.Key) {
		p.log.Debug("associated account address does not match derivation")
		return solana.ErrInvalidSeeds
	}

	if idempotent && bytes.Equal(associatedAccount.Owner, ProgramKey) {
		var existing Account
		if !existing.Unmarshal(associatedAccount.Data) {
			return solana.ErrInvalidAccountData
		}
		if !bytes.Equal(existing.Owner, wallet.Key) {
			return solana.ErrIncorrectProgramID
		}
		return nil
	}

	signerSeeds := [][]byte{
		wallet.Key,
		ProgramKey,
		mint.Key,
		{bump},
	}

	err = ctx.InvokeSigned(
		system.CreateAccount(
			funder.Key,
			associatedAccount.Key,
			ProgramKey,
			ctx.MinimumBalance(AccountSize),
			AccountSize,
		),
		signerSeeds,
	)
	if err != nil {
		return err
	}

	return ctx.InvokeSigned(
		InitializeAccount(associatedAccount.Key, mint.Key, wallet.Key),
		signerSeeds,
	)
}
