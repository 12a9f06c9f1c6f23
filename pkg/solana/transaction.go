package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

// MaxTransactionSize is the MTU of the network, less the IPv6 and fragment
// headers.
//
// https://github.com/solana-labs/solana/blob/39b3ac6a8d29e14faa1de73d8b46d390ad41797b/sdk/src/packet.rs#L9-L13
const MaxTransactionSize = 1232

type Signature [ed25519.SignatureSize]byte
type Blockhash [sha256.Size]byte

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// IsSigner reports whether the account at the given index signs the
// transaction, per the message header.
func (m *Message) IsSigner(index int) bool {
	return index < int(m.Header.NumSignatures)
}

// IsWritable reports whether the account at the given index is writable.
// Signed accounts order writable first, then read-only; unsigned accounts
// likewise, with programs at the end.
func (m *Message) IsWritable(index int) bool {
	if index < int(m.Header.NumSignatures) {
		return index < int(m.Header.NumSignatures)-int(m.Header.NumReadonlySigned)
	}

	return index < len(m.Accounts)-int(m.Header.NumReadOnly)
}

// NewTransaction assembles an unsigned transaction paying with payer,
// compiling the instruction account lists into message indices.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) Transaction {
	accounts := make([]AccountMeta, 0, 1+len(instructions))
	accounts = append(accounts, AccountMeta{
		PublicKey:  payer,
		IsSigner:   true,
		IsWritable: true,
		isPayer:    true,
	})

	for _, instruction := range instructions {
		accounts = append(accounts, AccountMeta{
			PublicKey: instruction.Program,
			isProgram: true,
		})
		accounts = append(accounts, instruction.Accounts...)
	}

	// Account ordering: the payer leads, programs trail, and in between
	// signers come before non-signers and writable before readonly. Ties
	// break on the key bytes so compilation is deterministic.
	//
	// Reference: https://docs.solana.com/transaction#account-addresses-format
	accounts = filterUnique(accounts)
	sort.Slice(accounts, func(i, j int) bool {
		a, b := accounts[i], accounts[j]
		if a.isPayer != b.isPayer {
			return a.isPayer
		}
		if a.isProgram != b.isProgram {
			return !a.isProgram
		}
		if a.IsSigner != b.IsSigner {
			return a.IsSigner
		}
		if a.IsWritable != b.IsWritable {
			return a.IsWritable
		}
		return bytes.Compare(a.PublicKey, b.PublicKey) < 0
	})

	var m Message
	for _, account := range accounts {
		m.Accounts = append(m.Accounts, account.PublicKey)

		switch {
		case account.IsSigner && account.IsWritable:
			m.Header.NumSignatures++
		case account.IsSigner:
			m.Header.NumSignatures++
			m.Header.NumReadonlySigned++
		case !account.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	// Compile each instruction's program and accounts down to indices into
	// the message account list.
	for _, instruction := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(indexOf(m.Accounts, instruction.Program)),
			Data:         instruction.Data,
		}
		for _, meta := range instruction.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(indexOf(m.Accounts, meta.PublicKey)))
		}

		m.Instructions = append(m.Instructions, compiled)
	}

	// Nil metas marshal as the zero key.
	for i, account := range m.Accounts {
		if len(account) == 0 {
			m.Accounts[i] = make([]byte, ed25519.PublicKeySize)
		}
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}
}

// Signature returns the transaction id: the payer's signature.
func (t *Transaction) Signature() []byte {
	return t.Signatures[0][:]
}

func (t *Transaction) String() string {
	var sb strings.Builder

	sb.WriteString("Signatures:\n")
	for i, s := range t.Signatures {
		fmt.Fprintf(&sb, "  %d: %s\n", i, base58.Encode(s[:]))
	}

	fmt.Fprintf(&sb, "Message:\n  Header:\n")
	fmt.Fprintf(&sb, "    NumSignatures: %d\n", t.Message.Header.NumSignatures)
	fmt.Fprintf(&sb, "    NumReadOnly: %d\n", t.Message.Header.NumReadOnly)
	fmt.Fprintf(&sb, "    NumReadOnlySigned: %d\n", t.Message.Header.NumReadonlySigned)

	sb.WriteString("  Accounts:\n")
	for i, a := range t.Message.Accounts {
		fmt.Fprintf(&sb, "    %d: %s\n", i, base58.Encode(a))
	}

	sb.WriteString("  Instructions:\n")
	for i, instruction := range t.Message.Instructions {
		fmt.Fprintf(&sb, "    %d:\n", i)
		fmt.Fprintf(&sb, "      ProgramIndex: %d\n", instruction.ProgramIndex)
		fmt.Fprintf(&sb, "      Accounts: %v\n", instruction.Accounts)
		fmt.Fprintf(&sb, "      Data: %v\n", instruction.Data)
	}

	return sb.String()
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Sign signs the message with each signer, placing signatures in the slots
// matching the signer's position in the account list. Signing is valid only
// once the account list is final; adding instructions afterwards invalidates
// it.
func (t *Transaction) Sign(signers ...ed25519.PrivateKey) error {
	message := t.Message.Marshal()

	for _, signer := range signers {
		pub := signer.Public().(ed25519.PublicKey)

		slot := indexOf(t.Message.Accounts, pub)
		if slot < 0 {
			return errors.Errorf("signing account %s is not in the account list", base58.Encode(pub))
		}
		if slot >= len(t.Signatures) {
			return errors.Errorf("signing account %s is not in the list of signers", base58.Encode(pub))
		}

		copy(t.Signatures[slot][:], ed25519.Sign(signer, message))
	}

	return nil
}

// VerifySignatures checks every provided signature slot against the marshaled
// message. Missing or incorrect signatures fail with ErrMissingSignature.
func (t *Transaction) VerifySignatures() error {
	if len(t.Signatures) != int(t.Message.Header.NumSignatures) {
		return errors.Errorf("invalid number of signatures: %d (expected %d)", len(t.Signatures), t.Message.Header.NumSignatures)
	}
	if len(t.Message.Accounts) < len(t.Signatures) {
		return errors.New("fewer accounts than signatures")
	}

	message := t.Message.Marshal()
	for i, sig := range t.Signatures {
		if !ed25519.Verify(t.Message.Accounts[i], message, sig[:]) {
			return errors.Wrapf(ErrMissingSignature, "account %s", base58.Encode(t.Message.Accounts[i]))
		}
	}

	return nil
}

// filterUnique merges duplicate metas for the same key, keeping first seen
// order. Signer and writable permissions are only ever promoted.
func filterUnique(accounts []AccountMeta) []AccountMeta {
	filtered := make([]AccountMeta, 0, len(accounts))
	position := make(map[string]int)

	for _, account := range accounts {
		j, seen := position[string(account.PublicKey)]
		if !seen {
			position[string(account.PublicKey)] = len(filtered)
			filtered = append(filtered, account)
			continue
		}

		filtered[j].IsSigner = filtered[j].IsSigner || account.IsSigner
		filtered[j].IsWritable = filtered[j].IsWritable || account.IsWritable
		filtered[j].isPayer = filtered[j].isPayer || account.isPayer
	}

	return filtered
}

func indexOf(keys []ed25519.PublicKey, target ed25519.PublicKey) int {
	for i, k := range keys {
		if bytes.Equal(k, target) {
			return i
		}
	}

	return -1
}
