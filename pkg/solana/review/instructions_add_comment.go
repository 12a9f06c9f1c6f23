package review

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
	"github.com/reelprotocol/review-program/pkg/solana/token"
)

type AddCommentInstructionArgs struct {
	Body string
}

type AddCommentInstructionAccounts struct {
	Commenter             ed25519.PublicKey
	Review                ed25519.PublicKey
	CommentCounter        ed25519.PublicKey
	Comment               ed25519.PublicKey
	TokenMint             ed25519.PublicKey
	MintAuthority         ed25519.PublicKey
	CommenterTokenAccount ed25519.PublicKey
}

func NewAddCommentInstruction(
	accounts *AddCommentInstructionAccounts,
	args *AddCommentInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+(4+len(args.Body)))

	putReviewInstruction(data, InstructionAddComment, &offset)
	putString(data, args.Body, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Commenter,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Review,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CommentCounter,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Comment,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TokenMint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.MintAuthority,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CommenterTokenAccount,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  system.ProgramKey[:],
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  token.ProgramKey,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}
}
