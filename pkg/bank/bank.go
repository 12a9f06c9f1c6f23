package bank

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/mr-tron/base58/base58"
	"github.com/sirupsen/logrus"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
	"github.com/reelprotocol/review-program/pkg/solana/token"
)

// Bank is an in-memory ledger that executes signed transactions against
// natively registered programs. It stands in for a validator during tests:
// accounts live in a map, instructions run synchronously, and a failed
// transaction leaves no trace.
type Bank struct {
	mu       sync.Mutex
	log      *logrus.Entry
	accounts map[string]*accountState
	programs map[string]solana.Program
	rent     *Rent
	slot     uint64
}

type accountState struct {
	lamports   uint64
	data       []byte
	owner      ed25519.PublicKey
	executable bool
}

type Option func(*Bank)

// WithProgram registers an additional native program at construction.
func WithProgram(p solana.Program) Option {
	return func(b *Bank) {
		b.register(p)
	}
}

// WithConfigProvider overrides where the bank pulls rent parameters from.
func WithConfigProvider(configProvider ConfigProvider) Option {
	return func(b *Bank) {
		b.rent = &Rent{conf: configProvider()}
	}
}

// New returns a bank with the system, token, and associated token account
// programs registered.
func New(opts ...Option) *Bank {
	b := &Bank{
		log:      logrus.StandardLogger().WithField("type", "bank"),
		accounts: make(map[string]*accountState),
		programs: make(map[string]solana.Program),
		rent:     &Rent{conf: WithEnvConfigs()()},
	}

	b.register(system.NewProcessor())
	b.register(token.NewProcessor())
	b.register(token.NewAssociatedAccountProcessor())

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Register adds a native program. Registering an ID again replaces the
// previous program.
func (b *Bank) Register(p solana.Program) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.register(p)
}

func (b *Bank) register(p solana.Program) {
	id := base58.Encode(p.ID())
	b.programs[id] = p

	state, ok := b.accounts[id]
	if !ok {
		state = &accountState{owner: copyKey(system.ProgramKey[:])}
		b.accounts[id] = state
	}
	state.executable = true
}

// Airdrop mints lamports into an account, materializing a system-owned
// account if none exists.
func (b *Bank) Airdrop(dst ed25519.PublicKey, lamports uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := base58.Encode(dst)
	state, ok := b.accounts[id]
	if !ok {
		state = &accountState{owner: copyKey(system.ProgramKey[:])}
		b.accounts[id] = state
	}
	state.lamports += lamports
}

// GetAccount returns a copy of the current state of an account.
func (b *Bank) GetAccount(key ed25519.PublicKey) (solana.AccountInfo, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.accounts[base58.Encode(key)]
	if !ok {
		return solana.AccountInfo{}, false
	}

	data := make([]byte, len(state.data))
	copy(data, state.data)

	return solana.AccountInfo{
		Key:        copyKey(key),
		Owner:      copyKey(state.owner),
		Lamports:   state.lamports,
		Data:       data,
		Executable: state.executable,
	}, true
}

// GetBlockhash returns a fresh blockhash. Each call advances the hash, so
// otherwise-identical transactions signed against successive blockhashes
// carry distinct signatures.
func (b *Bank) GetBlockhash() solana.Blockhash {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.slot++
	raw := make([]byte, 8)
	binary.LittleEndian.PutUint64(raw, b.slot)
	return solana.Blockhash(sha256.Sum256(raw))
}

// ProcessTransaction verifies signatures, then executes every instruction in
// order against a scratch view of the referenced accounts. The ledger
// commits only when all instructions succeed; any failure discards every
// mutation the transaction made.
func (b *Bank) ProcessTransaction(txn solana.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := txn.VerifySignatures(); err != nil {
		b.log.WithError(err).Debug("transaction failed signature verification")
		return solana.NewTransactionError(solana.TransactionErrorSignatureFailure)
	}

	log := b.log.WithField("transaction", base58.Encode(txn.Signature()))

	m := txn.Message

	for _, ix := range m.Instructions {
		if int(ix.ProgramIndex) >= len(m.Accounts) {
			return solana.NewTransactionError(solana.TransactionErrorProgramAccountNotFound)
		}
		if _, ok := b.programs[base58.Encode(m.Accounts[ix.ProgramIndex])]; !ok {
			return solana.NewTransactionError(solana.TransactionErrorProgramAccountNotFound)
		}
	}

	// Scratch views: one shared AccountInfo per unique account, loaded with
	// copies of current state. Instructions mutate the views; the ledger is
	// untouched until commit.
	views := make([]*solana.AccountInfo, len(m.Accounts))
	byID := make(map[string]*solana.AccountInfo, len(m.Accounts))
	for i, key := range m.Accounts {
		id := base58.Encode(key)
		if view, ok := byID[id]; ok {
			views[i] = view
			continue
		}

		view := &solana.AccountInfo{
			Key:   copyKey(key),
			Owner: copyKey(system.ProgramKey[:]),
		}
		if state, ok := b.accounts[id]; ok {
			view.Owner = copyKey(state.owner)
			view.Lamports = state.lamports
			view.Data = make([]byte, len(state.data))
			copy(view.Data, state.data)
			view.Executable = state.executable
		}

		byID[id] = view
		views[i] = view
	}

	for i, ix := range m.Instructions {
		program := b.programs[base58.Encode(m.Accounts[ix.ProgramIndex])]

		infos := make([]*solana.AccountInfo, len(ix.Accounts))
		signer := make([]bool, len(ix.Accounts))
		writable := make([]bool, len(ix.Accounts))
		for j, index := range ix.Accounts {
			if int(index) >= len(views) {
				return solana.TransactionErrorFromInstructionError(&solana.InstructionError{
					Index: i,
					Err:   solana.ErrNotEnoughAccountKeys,
				})
			}
			infos[j] = views[index]
			signer[j] = m.IsSigner(int(index))
			writable[j] = m.IsWritable(int(index))
		}

		if err := b.invoke(program, infos, signer, writable, ix.Data, 1); err != nil {
			log.WithError(err).WithField("instruction", i).Debug("transaction failed")
			return solana.TransactionErrorFromInstructionError(&solana.InstructionError{
				Index: i,
				Err:   err,
			})
		}
	}

	for id, view := range byID {
		if _, ok := b.accounts[id]; !ok && view.Lamports == 0 && len(view.Data) == 0 {
			// Referenced but never created; keep the ledger free of
			// zero-value accounts.
			continue
		}
		b.accounts[id] = &accountState{
			lamports:   view.Lamports,
			data:       view.Data,
			owner:      view.Owner,
			executable: view.Executable,
		}
	}

	return nil
}

func copyKey(key ed25519.PublicKey) ed25519.PublicKey {
	out := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(out, key)
	return out
}
