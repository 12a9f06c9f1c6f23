package review

import (
	"github.com/reelprotocol/review-program/pkg/solana"
)

type ReviewInstruction uint8

const (
	InstructionAddReview ReviewInstruction = iota
	InstructionUpdateReview
	InstructionAddComment
	InstructionInitializeMint
)

func putReviewInstruction(dst []byte, v ReviewInstruction, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}

// InstructionArgs is the closed set of decoded instruction payloads. Callers
// dispatch with a type switch over the concrete *InstructionArgs types.
type InstructionArgs interface {
	instructionArgs()
}

func (*AddReviewInstructionArgs) instructionArgs()      {}
func (*UpdateReviewInstructionArgs) instructionArgs()   {}
func (*AddCommentInstructionArgs) instructionArgs()     {}
func (*InitializeMintInstructionArgs) instructionArgs() {}

// UnpackInstruction parses raw instruction data into a typed payload. The
// first byte selects the instruction; the remainder is decoded per its
// payload shape. Trailing bytes beyond the payload are ignored.
func UnpackInstruction(data []byte) (InstructionArgs, error) {
	if len(data) == 0 {
		return nil, solana.ErrInvalidInstructionData
	}

	payload := data[1:]

	var offset int
	switch ReviewInstruction(data[0]) {
	case InstructionAddReview:
		var args AddReviewInstructionArgs
		if !getString(payload, &args.Title, &offset) ||
			!getUint8(payload, &args.Rating, &offset) ||
			!getString(payload, &args.Description, &offset) {
			return nil, solana.ErrInvalidInstructionData
		}
		return &args, nil

	case InstructionUpdateReview:
		var args UpdateReviewInstructionArgs
		if !getString(payload, &args.Title, &offset) ||
			!getUint8(payload, &args.Rating, &offset) ||
			!getString(payload, &args.Description, &offset) {
			return nil, solana.ErrInvalidInstructionData
		}
		return &args, nil

	case InstructionAddComment:
		var args AddCommentInstructionArgs
		if !getString(payload, &args.Body, &offset) {
			return nil, solana.ErrInvalidInstructionData
		}
		return &args, nil

	case InstructionInitializeMint:
		return &InitializeMintInstructionArgs{}, nil

	default:
		return nil, solana.ErrInvalidInstructionData
	}
}
