package solana

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// TransactionErrorKey is the string key identifying why a transaction failed.
//
// Source: https://github.com/solana-labs/solana/blob/fc2bf2d3b669d1c6655ae48b0a05f470938f3676/sdk/src/transaction/mod.rs#L37
type TransactionErrorKey string

const (
	// No record of a prior credit for the debited account.
	TransactionErrorAccountNotFound TransactionErrorKey = "AccountNotFound"
	// The program to load does not exist.
	TransactionErrorProgramAccountNotFound TransactionErrorKey = "ProgramAccountNotFound"
	// The recent blockhash is unknown, or old enough to have been discarded.
	TransactionErrorBlockhashNotFound TransactionErrorKey = "BlockhashNotFound"
	// An instruction failed; details carried alongside.
	TransactionErrorInstructionError TransactionErrorKey = "InstructionError"
	// Signature verification failed.
	TransactionErrorSignatureFailure TransactionErrorKey = "SignatureFailure"
	// Execution would leave an account below the rent exempt minimum.
	TransactionErrorInsufficientFundsForRent TransactionErrorKey = "InsufficientFundsForRent"
)

// InstructionErrorKey is the string key identifying why an instruction failed.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError              InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument           InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData    InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData        InstructionErrorKey = "InvalidAccountData"
	InstructionErrorAccountDataTooSmall       InstructionErrorKey = "AccountDataTooSmall"
	InstructionErrorInsufficientFunds         InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID        InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature  InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorUninitializedAccount      InstructionErrorKey = "UninitializedAccount"
	InstructionErrorReadonlyLamportChange     InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorReadonlyDataModified      InstructionErrorKey = "ReadonlyDataModified"
	InstructionErrorExternalDataModified      InstructionErrorKey = "ExternalAccountDataModified"
	InstructionErrorNotEnoughAccountKeys      InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorCustom                    InstructionErrorKey = "Custom"
	InstructionErrorCallDepth                 InstructionErrorKey = "CallDepth"
	InstructionErrorMissingAccount            InstructionErrorKey = "MissingAccount"
	InstructionErrorInvalidSeeds              InstructionErrorKey = "InvalidSeeds"
	InstructionErrorPrivilegeEscalation       InstructionErrorKey = "PrivilegeEscalation"
	InstructionErrorInvalidAccountOwner       InstructionErrorKey = "InvalidAccountOwner"
	InstructionErrorUnsupportedProgramID      InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorArithmeticOverflow        InstructionErrorKey = "ArithmeticOverflow"
	InstructionErrorAccountNotRentExempt      InstructionErrorKey = "AccountNotRentExempt"
)

// Builtin instruction failures, as returned by native program processors.
// The error text is the instruction error key so results serialize the same
// way the chain reports them.
var (
	ErrInvalidArgument           = errors.New(string(InstructionErrorInvalidArgument))
	ErrInvalidInstructionData    = errors.New(string(InstructionErrorInvalidInstructionData))
	ErrInvalidAccountData        = errors.New(string(InstructionErrorInvalidAccountData))
	ErrAccountDataTooSmall       = errors.New(string(InstructionErrorAccountDataTooSmall))
	ErrInsufficientFunds         = errors.New(string(InstructionErrorInsufficientFunds))
	ErrIncorrectProgramID        = errors.New(string(InstructionErrorIncorrectProgramID))
	ErrMissingSignature          = errors.New(string(InstructionErrorMissingRequiredSignature))
	ErrAccountAlreadyInitialized = errors.New(string(InstructionErrorAccountAlreadyInitialized))
	ErrUninitializedAccount      = errors.New(string(InstructionErrorUninitializedAccount))
	ErrNotEnoughAccountKeys      = errors.New(string(InstructionErrorNotEnoughAccountKeys))
	ErrCallDepth                 = errors.New(string(InstructionErrorCallDepth))
	ErrMissingAccount            = errors.New(string(InstructionErrorMissingAccount))
	ErrInvalidSeeds              = errors.New(string(InstructionErrorInvalidSeeds))
	ErrPrivilegeEscalation       = errors.New(string(InstructionErrorPrivilegeEscalation))
	ErrInvalidAccountOwner       = errors.New(string(InstructionErrorInvalidAccountOwner))
	ErrUnsupportedProgramID      = errors.New(string(InstructionErrorUnsupportedProgramID))
	ErrArithmeticOverflow        = errors.New(string(InstructionErrorArithmeticOverflow))
	ErrAccountNotRentExempt      = errors.New(string(InstructionErrorAccountNotRentExempt))
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %x", int(c))
}

// InstructionError wraps an instruction failure with the index of the
// instruction that produced it.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	switch {
	case i.Err == nil:
		return ""
	case i.CustomError() != nil:
		return InstructionErrorCustom
	default:
		return InstructionErrorKey(i.Err.Error())
	}
}

func (i InstructionError) CustomError() *CustomError {
	if ce, ok := i.Err.(CustomError); ok {
		return &ce
	}

	return nil
}

func (i InstructionError) JSONString() string {
	if e, ok := i.Err.(CustomError); ok {
		return fmt.Sprintf(`[%d, {"%s": %d}]`, i.Index, InstructionErrorCustom, e)
	}

	return fmt.Sprintf(`[%d, "%s"]`, i.Index, i.Err.Error())
}

// TransactionError is a transaction level failure, which either stands alone
// (signature failure, unknown blockhash) or carries the instruction error
// that aborted execution.
type TransactionError struct {
	transactionError error
	instructionError *InstructionError
	raw              interface{}
}

func NewTransactionError(key TransactionErrorKey) *TransactionError {
	return &TransactionError{
		transactionError: errors.New(string(key)),
		raw:              string(key),
	}
}

func TransactionErrorFromInstructionError(err *InstructionError) *TransactionError {
	var inner interface{} = err.Err.Error()
	if e, ok := err.Err.(CustomError); ok {
		inner = map[string]interface{}{
			string(InstructionErrorCustom): int(e),
		}
	}

	return &TransactionError{
		transactionError: errors.New(string(TransactionErrorInstructionError)),
		instructionError: err,
		raw: map[string]interface{}{
			string(TransactionErrorInstructionError): []interface{}{err.Index, inner},
		},
	}
}

func (t TransactionError) Error() string {
	switch {
	case t.instructionError != nil:
		return t.instructionError.Error()
	case t.transactionError != nil:
		return t.transactionError.Error()
	default:
		return ""
	}
}

func (t TransactionError) Unwrap() error {
	if t.instructionError != nil {
		return *t.instructionError
	}

	return t.transactionError
}

func (t TransactionError) ErrorKey() TransactionErrorKey {
	if t.transactionError == nil {
		return ""
	}

	return TransactionErrorKey(t.transactionError.Error())
}

func (t TransactionError) InstructionError() *InstructionError {
	return t.instructionError
}

func (t TransactionError) JSONString() (string, error) {
	b, err := json.Marshal(t.raw)
	return string(b), err
}
