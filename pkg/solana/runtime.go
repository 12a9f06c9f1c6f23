package solana

import (
	"crypto/ed25519"
)

// AccountInfo is a program's view of an account while an instruction
// executes. Lamports, Data and Owner reflect live state; mutations made by a
// program (or by a cross-program invocation it issues) are visible to its
// caller. The host is responsible for discarding mutations when execution
// fails.
type AccountInfo struct {
	Key        ed25519.PublicKey
	Owner      ed25519.PublicKey
	Lamports   uint64
	Data       []byte
	Executable bool
	IsSigner   bool
	IsWritable bool
}

// Program is a natively executed program. Execute receives the invocation
// context holding the instruction's accounts and the raw instruction data.
type Program interface {
	ID() ed25519.PublicKey
	Execute(ctx InvokeContext, data []byte) error
}

// InvokeContext is what the host hands a program for a single invocation.
type InvokeContext interface {
	// ProgramID is the id of the currently executing program.
	ProgramID() ed25519.PublicKey

	// AccountCount returns the number of accounts passed to the instruction.
	AccountCount() int

	// Account returns the account at the given instruction index, or
	// ErrNotEnoughAccountKeys when the index is out of range.
	Account(index int) (*AccountInfo, error)

	// MinimumBalance returns the rent-exempt minimum for the given data size.
	MinimumBalance(size uint64) uint64

	// InvokeSigned executes an instruction as a cross-program invocation.
	// Signer privileges for the inner instruction's accounts come either
	// from the caller's own accounts or from signerSeeds: any account whose
	// address equals CreateProgramAddress(callerProgram, seeds...) for one
	// of the provided seed groups is treated as having signed.
	InvokeSigned(ix Instruction, signerSeeds ...[][]byte) error
}
