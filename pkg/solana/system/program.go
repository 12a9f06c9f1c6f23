package system

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/reelprotocol/review-program/pkg/solana"
)

// ProgramKey is the address of the system program, the all zero key.
var ProgramKey [32]byte

// System instruction discriminants, encoded as a little endian u32.
const (
	commandCreateAccount uint32 = 0
	commandTransfer      uint32 = 2
	commandAllocate      uint32 = 8
)

// systemInstruction returns the compiled instruction at index after checking
// that it targets the system program with the given command.
func systemInstruction(m solana.Message, index int, command uint32) (solana.CompiledInstruction, error) {
	if index >= len(m.Instructions) {
		return solana.CompiledInstruction{}, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]

	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey[:]) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectProgram
	}

	var prefix [4]byte
	binary.LittleEndian.PutUint32(prefix[:], command)
	if !bytes.HasPrefix(i.Data, prefix[:]) {
		return solana.CompiledInstruction{}, solana.ErrIncorrectInstruction
	}

	return i, nil
}

// CreateAccount builds an instruction creating a new account with the given
// size and lamport balance, owned by the owner program.
//
// Accounts: funder `[writable,signer]`, new account `[writable,signer]`.
//
// Layout: u32 command, u64 lamports, u64 space, owner key.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L58-L72
func CreateAccount(funder, address, owner ed25519.PublicKey, lamports, size uint64) solana.Instruction {
	data := make([]byte, 52)
	binary.LittleEndian.PutUint32(data, commandCreateAccount)
	binary.LittleEndian.PutUint64(data[4:], lamports)
	binary.LittleEndian.PutUint64(data[12:], size)
	copy(data[20:], owner)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(funder, true),
		solana.NewAccountMeta(address, true),
	)
}

type DecompiledCreateAccount struct {
	Funder  ed25519.PublicKey
	Address ed25519.PublicKey

	Lamports uint64
	Size     uint64
	Owner    ed25519.PublicKey
}

func DecompileCreateAccount(m solana.Message, index int) (*DecompiledCreateAccount, error) {
	i, err := systemInstruction(m, index, commandCreateAccount)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 52 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	created := &DecompiledCreateAccount{
		Funder:   m.Accounts[i.Accounts[0]],
		Address:  m.Accounts[i.Accounts[1]],
		Lamports: binary.LittleEndian.Uint64(i.Data[4:]),
		Size:     binary.LittleEndian.Uint64(i.Data[12:]),
		Owner:    make(ed25519.PublicKey, ed25519.PublicKeySize),
	}
	copy(created.Owner, i.Data[20:])

	return created, nil
}

// Transfer builds an instruction moving lamports between system accounts.
//
// Accounts: sender `[writable,signer]`, recipient `[writable]`.
//
// Reference: https://github.com/solana-labs/solana/blob/f02a78d8fff2dd7297dc6ce6eb5a68a3002f5359/sdk/src/system_instruction.rs#L76-L80
func Transfer(sender, recipient ed25519.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 12)
	binary.LittleEndian.PutUint32(data, commandTransfer)
	binary.LittleEndian.PutUint64(data[4:], lamports)

	return solana.NewInstruction(
		ProgramKey[:],
		data,
		solana.NewAccountMeta(sender, true),
		solana.NewAccountMeta(recipient, false),
	)
}

type DecompiledTransfer struct {
	Sender    ed25519.PublicKey
	Recipient ed25519.PublicKey

	Lamports uint64
}

func DecompileTransfer(m solana.Message, index int) (*DecompiledTransfer, error) {
	i, err := systemInstruction(m, index, commandTransfer)
	if err != nil {
		return nil, err
	}

	if len(i.Accounts) != 2 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}
	if len(i.Data) != 12 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}

	return &DecompiledTransfer{
		Sender:    m.Accounts[i.Accounts[0]],
		Recipient: m.Accounts[i.Accounts[1]],
		Lamports:  binary.LittleEndian.Uint64(i.Data[4:]),
	}, nil
}
