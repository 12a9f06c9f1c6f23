package review

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana"
)

type UpdateReviewInstructionArgs struct {
	Title       string
	Rating      uint8
	Description string
}

type UpdateReviewInstructionAccounts struct {
	Reviewer ed25519.PublicKey
	Review   ed25519.PublicKey
}

func NewUpdateReviewInstruction(
	accounts *UpdateReviewInstructionAccounts,
	args *UpdateReviewInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1+(4+len(args.Title))+1+(4+len(args.Description)))

	putReviewInstruction(data, InstructionUpdateReview, &offset)
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
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Review,
				IsWritable: true,
				IsSigner:   false,
			},
		},
	}
}
