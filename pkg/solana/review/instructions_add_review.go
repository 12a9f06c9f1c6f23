package review

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
	"github.com/reelprotocol/review-program/pkg/solana/token"
)

type AddReviewInstructionArgs struct {
	Title       string
	Rating      uint8
	Description string
}

type AddReviewInstructionAccounts struct {
	Reviewer             ed25519.PublicKey
	Review               ed25519.PublicKey
	CommentCounter       ed25519.PublicKey
	TokenMint            ed25519.PublicKey
	MintAuthority        ed25519.PublicKey
	ReviewerTokenAccount ed25519.PublicKey
}

func NewAddReviewInstruction(
	accounts *AddReviewInstructionAccounts,
	args *AddReviewInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+(4+len(args.Title))+1+(4+len(args.Description)))

	putReviewInstruction(data, InstructionAddReview, &offset)
	putString(data, args.Title, &offset)
	putUint8(data, args.Rating, &offset)
	putString(data, args.Description, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Reviewer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Review,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.CommentCounter,
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
				PublicKey:  accounts.ReviewerTokenAccount,
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
