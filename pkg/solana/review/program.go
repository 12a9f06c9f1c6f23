package review

import (
	"crypto/ed25519"

	"github.com/reelprotocol/review-program/pkg/solana"
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("4GiqWzF5NmyMf78MkArRCKZH2MM9kLdq8YHv6nTxcWtt")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

// Custom program errors, in stable numbering. Clients match on the code, not
// the message.
const (
	ErrorUninitializedAccount solana.CustomError = iota
	ErrorInvalidPDA
	ErrorInvalidDataLength
	ErrorInvalidRating
	ErrorIncorrectAccount
)

// Rewards minted per action, in base units of the 9-decimal reward mint.
const (
	RewardMintDecimals = 9

	AddReviewRewardAmount  = 10_000_000_000
	AddCommentRewardAmount = 5_000_000_000
)
