package review

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana"
	"github.com/reelprotocol/review-program/pkg/solana/system"
	"github.com/reelprotocol/review-program/pkg/solana/token"
)

type InitializeMintInstructionArgs struct {
}

type InitializeMintInstructionAccounts struct {
	Payer         ed25519.PublicKey
	TokenMint     ed25519.PublicKey
	MintAuthority ed25519.PublicKey
}

func NewInitializeMintInstruction(
	accounts *InitializeMintInstructionAccounts,
	args *InitializeMintInstructionArgs,
) solana.Instruction {
	var offset int

	// Serialize instruction arguments
	data := make([]byte, 1)

	putReviewInstruction(data, InstructionInitializeMint, &offset)

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
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
