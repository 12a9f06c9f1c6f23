package review

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/reelprotocol/review-program/pkg/solana"
)

var (
	commentSeed   = []byte("comment")
	tokenMintSeed = []byte("token_mint")
	tokenAuthSeed = []byte("token_auth")
)

type GetReviewAddressArgs struct {
	Author ed25519.PublicKey
	Title  string
}

// GetReviewAddress derives the storage address for a review. The author and
// title fully determine the address, which is what makes both immutable after
// creation.
func GetReviewAddress(args *GetReviewAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.Author,
		[]byte(args.Title),
	)
}

type GetCommentCounterAddressArgs struct {
	Review ed25519.PublicKey
}

func GetCommentCounterAddress(args *GetCommentCounterAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.Review,
		commentSeed,
	)
}

type GetCommentAddressArgs struct {
	Review ed25519.PublicKey
	Count  uint64
}

// GetCommentAddress derives the storage address for the comment at ordinal
// position Count under a review. The count seed is big-endian, matching the
// value the counter account held before this comment was created.
func GetCommentAddress(args *GetCommentAddressArgs) (ed25519.PublicKey, uint8, error) {
	countBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(countBytes, args.Count)

	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		args.Review,
		countBytes,
	)
}

// GetTokenMintAddress derives the reward mint address from the program
// identity alone.
func GetTokenMintAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		tokenMintSeed,
	)
}

// GetMintAuthorityAddress derives the authority allowed to mint rewards. No
// private key exists for it; the program proves control by signing CPIs with
// the seed and bump.
func GetMintAuthorityAddress() (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		tokenAuthSeed,
	)
}
