package bank

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"

	"github.com/reelprotocol/review-program/pkg/solana"
)

// maxInvokeDepth bounds the invocation stack, matching the chain's
// cross-program invocation limit.
const maxInvokeDepth = 4

// invokeContext is the execution environment for a single instruction. The
// account views are shared with the caller (and transitively with the whole
// transaction), so mutations propagate; signer and writable flags apply for
// the duration of the invocation only.
type invokeContext struct {
	bank      *Bank
	programID ed25519.PublicKey
	accounts  []*solana.AccountInfo
	depth     int
}

func (c *invokeContext) ProgramID() ed25519.PublicKey {
	return c.programID
}

func (c *invokeContext) AccountCount() int {
	return len(c.accounts)
}

func (c *invokeContext) Account(index int) (*solana.AccountInfo, error) {
	if index < 0 || index >= len(c.accounts) {
		return nil, solana.ErrNotEnoughAccountKeys
	}
	return c.accounts[index], nil
}

func (c *invokeContext) MinimumBalance(size uint64) uint64 {
	return c.bank.rent.MinimumBalance(size)
}

// InvokeSigned executes an inner instruction. Every account the inner
// instruction references must already be in the caller's view, and
// privileges never escalate: an inner signer must be an outer signer or an
// address derived from the calling program with one of the seed groups; an
// inner writable account must be writable in the caller's view.
func (c *invokeContext) InvokeSigned(ix solana.Instruction, signerSeeds ...[][]byte) error {
	if c.depth >= maxInvokeDepth {
		return solana.ErrCallDepth
	}

	program, ok := c.bank.programs[base58.Encode(ix.Program)]
	if !ok {
		return solana.ErrMissingAccount
	}

	// Addresses the caller proves control of through seed derivation.
	derived := make([]ed25519.PublicKey, len(signerSeeds))
	for i, seeds := range signerSeeds {
		address, err := solana.CreateProgramAddress(c.programID, seeds...)
		if err != nil {
			return err
		}
		derived[i] = address
	}

	infos := make([]*solana.AccountInfo, len(ix.Accounts))
	signer := make([]bool, len(ix.Accounts))
	writable := make([]bool, len(ix.Accounts))
	for i, meta := range ix.Accounts {
		view := c.find(meta.PublicKey)
		if view == nil {
			c.bank.log.WithField("account", base58.Encode(meta.PublicKey)).Debug("cross-program invocation references account outside the caller's view")
			return solana.ErrMissingAccount
		}

		isSigner := view.IsSigner
		for _, address := range derived {
			if bytes.Equal(address, meta.PublicKey) {
				isSigner = true
				break
			}
		}

		if meta.IsSigner && !isSigner {
			c.bank.log.WithField("account", base58.Encode(meta.PublicKey)).Debug("cross-program invocation attempted signer escalation")
			return solana.ErrPrivilegeEscalation
		}
		if meta.IsWritable && !view.IsWritable {
			c.bank.log.WithField("account", base58.Encode(meta.PublicKey)).Debug("cross-program invocation attempted writability escalation")
			return solana.ErrPrivilegeEscalation
		}

		infos[i] = view
		signer[i] = meta.IsSigner
		writable[i] = meta.IsWritable
	}

	return c.bank.invoke(program, infos, signer, writable, ix.Data, c.depth+1)
}

func (c *invokeContext) find(key ed25519.PublicKey) *solana.AccountInfo {
	for _, info := range c.accounts {
		if bytes.Equal(info.Key, key) {
			return info
		}
	}
	return nil
}

type savedFlags struct {
	info       *solana.AccountInfo
	isSigner   bool
	isWritable bool
}

// invoke executes one instruction with per-position privileges applied to
// the shared views. Privileges of duplicate views merge; prior flags are
// restored when the invocation returns.
func (b *Bank) invoke(program solana.Program, infos []*solana.AccountInfo, signer, writable []bool, data []byte, depth int) error {
	saved := make([]savedFlags, 0, len(infos))
	seen := make(map[*solana.AccountInfo]bool, len(infos))
	for _, info := range infos {
		if seen[info] {
			continue
		}
		seen[info] = true
		saved = append(saved, savedFlags{info, info.IsSigner, info.IsWritable})
		info.IsSigner = false
		info.IsWritable = false
	}
	defer func() {
		for _, s := range saved {
			s.info.IsSigner = s.isSigner
			s.info.IsWritable = s.isWritable
		}
	}()

	for i, info := range infos {
		info.IsSigner = info.IsSigner || signer[i]
		info.IsWritable = info.IsWritable || writable[i]
	}

	return program.Execute(&invokeContext{
		bank:      b,
		programID: program.ID(),
		accounts:  infos,
		depth:     depth,
	}, data)
}
