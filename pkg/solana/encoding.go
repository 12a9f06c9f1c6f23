package solana

import (
	"bytes"
	"crypto/ed25519"
	"io"

	"github.com/pkg/errors"

	"github.com/reelprotocol/review-program/pkg/solana/shortvec"
)

// Marshal emits the signed transaction in wire format: a shortvec-counted
// list of signatures followed by the serialized message.
func (t Transaction) Marshal() []byte {
	buf := bytes.NewBuffer(nil)

	_, _ = shortvec.EncodeLen(buf, len(t.Signatures))
	for _, s := range t.Signatures {
		_, _ = buf.Write(s[:])
	}

	_, _ = buf.Write(t.Message.Marshal())

	return buf.Bytes()
}

// Unmarshal parses a wire-format transaction, replacing the receiver's
// contents.
func (t *Transaction) Unmarshal(raw []byte) error {
	buf := bytes.NewBuffer(raw)

	sigLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "invalid signature count")
	}

	t.Signatures = make([]Signature, sigLen)
	for i := 0; i < sigLen; i++ {
		if _, err = io.ReadFull(buf, t.Signatures[i][:]); err != nil {
			return errors.Wrapf(err, "short read on signature %d", i)
		}
	}

	return t.Message.Unmarshal(buf.Bytes())
}

// Marshal emits the message in wire format: header bytes, the account
// table, the recent blockhash, then each compiled instruction.
func (m Message) Marshal() []byte {
	buf := bytes.NewBuffer(nil)

	_ = buf.WriteByte(m.Header.NumSignatures)
	_ = buf.WriteByte(m.Header.NumReadonlySigned)
	_ = buf.WriteByte(m.Header.NumReadOnly)

	_, _ = shortvec.EncodeLen(buf, len(m.Accounts))
	for _, a := range m.Accounts {
		_, _ = buf.Write(a)
	}

	_, _ = buf.Write(m.RecentBlockhash[:])

	_, _ = shortvec.EncodeLen(buf, len(m.Instructions))
	for _, i := range m.Instructions {
		_ = buf.WriteByte(i.ProgramIndex)

		_, _ = shortvec.EncodeLen(buf, len(i.Accounts))
		_, _ = buf.Write(i.Accounts)

		_, _ = shortvec.EncodeLen(buf, len(i.Data))
		_, _ = buf.Write(i.Data)
	}

	return buf.Bytes()
}

// Unmarshal parses a wire-format (legacy) message. Account indices inside
// instructions are validated against the account table.
func (m *Message) Unmarshal(raw []byte) (err error) {
	if len(raw) == 0 {
		return errors.New("empty message")
	}
	// A set high bit on the first byte marks a versioned message.
	if raw[0] > 127 {
		return errors.New("versioned messages not supported")
	}

	buf := bytes.NewBuffer(raw)

	if m.Header.NumSignatures, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "missing signature count")
	}
	if m.Header.NumReadonlySigned, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "missing readonly signed count")
	}
	if m.Header.NumReadOnly, err = buf.ReadByte(); err != nil {
		return errors.Wrap(err, "missing readonly count")
	}

	accountLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "invalid account count")
	}
	m.Accounts = make([]ed25519.PublicKey, accountLen)
	for i := 0; i < accountLen; i++ {
		m.Accounts[i] = make([]byte, ed25519.PublicKeySize)
		if _, err = io.ReadFull(buf, m.Accounts[i]); err != nil {
			return errors.Wrapf(err, "short read on account %d", i)
		}
	}

	if _, err = io.ReadFull(buf, m.RecentBlockhash[:]); err != nil {
		return errors.Wrap(err, "short read on blockhash")
	}

	instructionLen, err := shortvec.DecodeLen(buf)
	if err != nil {
		return errors.Wrap(err, "invalid instruction count")
	}
	m.Instructions = make([]CompiledInstruction, instructionLen)
	for i := 0; i < instructionLen; i++ {
		var c CompiledInstruction

		if c.ProgramIndex, err = buf.ReadByte(); err != nil {
			return errors.Wrapf(err, "missing program index in instruction %d", i)
		}
		if int(c.ProgramIndex) >= len(m.Accounts) {
			return errors.Errorf("program index out of range in instruction %d: %d", i, c.ProgramIndex)
		}

		accountLen, err = shortvec.DecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "invalid account count in instruction %d", i)
		}
		c.Accounts = make([]byte, accountLen)
		if _, err = io.ReadFull(buf, c.Accounts); err != nil {
			return errors.Wrapf(err, "short read on accounts in instruction %d", i)
		}
		for _, index := range c.Accounts {
			if int(index) >= len(m.Accounts) {
				return errors.Errorf("account index out of range in instruction %d: %d", i, index)
			}
		}

		dataLen, err := shortvec.DecodeLen(buf)
		if err != nil {
			return errors.Wrapf(err, "invalid data length in instruction %d", i)
		}
		c.Data = make([]byte, dataLen)
		if _, err = io.ReadFull(buf, c.Data); err != nil {
			return errors.Wrapf(err, "short read on data in instruction %d", i)
		}

		m.Instructions[i] = c
	}

	return nil
}
