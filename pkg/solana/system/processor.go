package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/reelprotocol/review-program/pkg/solana"
)

// Custom error codes returned by the system program.
//
// Source: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L16-L25
const (
	// An account with the same address already exists
	ErrorAccountAlreadyInUse = solana.CustomError(iota)
	// An account balance went below zero
	ErrorResultWithNegativeLamports
	// The owner of the account is not the expected program
	ErrorInvalidProgramID
	// Requested data length exceeds the maximum
	ErrorInvalidAccountDataLength
)

// MaxAccountSize is the largest data allocation a single account can hold.
const MaxAccountSize = 10 * 1024 * 1024

// Processor executes system program instructions against the accounts of an
// invocation.
type Processor struct {
	log *logrus.Entry
}

func NewProcessor() *Processor {
	return &Processor{
		log: logrus.StandardLogger().WithField("type", "solana/system/processor"),
	}
}

func (p *Processor) ID() ed25519.PublicKey {
	return ProgramKey[:]
}

func (p *Processor) Execute(ctx solana.InvokeContext, data []byte) error {
	if len(data) < 4 {
		return solana.ErrInvalidInstructionData
	}

	command := binary.LittleEndian.Uint32(data)
	switch command {
	case commandCreateAccount:
		return p.createAccount(ctx, data[4:])
	case commandTransfer:
		return p.transfer(ctx, data[4:])
	default:
		return solana.ErrInvalidInstructionData
	}
}

func (p *Processor) createAccount(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 48 {
		return solana.ErrInvalidInstructionData
	}

	lamports := binary.LittleEndian.Uint64(data)
	size := binary.LittleEndian.Uint64(data[8:])
	owner := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(owner, data[16:])

	if size > MaxAccountSize {
		return ErrorInvalidAccountDataLength
	}

	funder, err := ctx.Account(0)
	if err != nil {
		return err
	}
	account, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if !funder.IsSigner {
		return solana.ErrMissingSignature
	}
	if !account.IsSigner {
		return solana.ErrMissingSignature
	}

	// The target must be a pristine system account, or it was created (or
	// funded) previously.
	if len(account.Data) > 0 || !bytes.Equal(account.Owner, ProgramKey[:]) || account.Lamports > 0 {
		p.log.WithField("account", base58.Encode(account.Key)).Debug("create of an account already in use")
		return ErrorAccountAlreadyInUse
	}

	if funder.Lamports < lamports {
		return ErrorResultWithNegativeLamports
	}
	if lamports < ctx.MinimumBalance(size) {
		return solana.ErrAccountNotRentExempt
	}

	funder.Lamports -= lamports
	account.Lamports = lamports
	account.Data = make([]byte, size)
	account.Owner = owner

	return nil
}

func (p *Processor) transfer(ctx solana.InvokeContext, data []byte) error {
	if len(data) != 8 {
		return solana.ErrInvalidInstructionData
	}

	lamports := binary.LittleEndian.Uint64(data)

	sender, err := ctx.Account(0)
	if err != nil {
		return err
	}
	recipient, err := ctx.Account(1)
	if err != nil {
		return err
	}

	if !sender.IsSigner {
		return solana.ErrMissingSignature
	}
	if sender.Lamports < lamports {
		p.log.WithFields(logrus.Fields{
			"balance": sender.Lamports,
			"needed":  lamports,
		}).Debug("transfer with insufficient lamports")
		return ErrorResultWithNegativeLamports
	}
	if recipient.Lamports > math.MaxUint64-lamports {
		return solana.ErrArithmeticOverflow
	}

	sender.Lamports -= lamports
	recipient.Lamports += lamports

	return nil
}
