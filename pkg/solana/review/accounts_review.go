package review

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/reelprotocol/review-program/pkg/solana"
)

const reviewDiscriminator = "review"

// ReviewAccountSize is the fixed allocation for every review account. The
// encoded record must fit within it; the rest of the buffer stays zeroed.
const ReviewAccountSize = 1000

// GetReviewAccountSize returns the encoded size of a review with the given
// variable-length fields. Callers check it against ReviewAccountSize before
// writing.
func GetReviewAccountSize(title, description string) int {
	return (4 + len(reviewDiscriminator)) +
		1 + // is_initialized
		32 + // reviewer
		1 + // rating
		(4 + len(title)) +
		(4 + len(description))
}

type Review struct {
	Initialized bool
	Reviewer    ed25519.PublicKey
	Rating      uint8
	Title       string
	Description string
}

func (obj *Review) IsInitialized() bool {
	return obj.Initialized
}

func (obj *Review) Marshal() []byte {
	data := make([]byte, ReviewAccountSize)

	var offset int
	putString(data, reviewDiscriminator, &offset)
	putBool(data, obj.Initialized, &offset)
	putKey(data, obj.Reviewer, &offset)
	putUint8(data, obj.Rating, &offset)
	putString(data, obj.Title, &offset)
	putString(data, obj.Description, &offset)

	return data
}

func (obj *Review) Unmarshal(data []byte) error {
	var offset int

	var discriminator string
	if !getString(data, &discriminator, &offset) {
		return solana.ErrInvalidAccountData
	}
	// A zeroed buffer (fresh account) decodes to the uninitialized zero
	// value; any other discriminator is some other record kind.
	if discriminator != reviewDiscriminator && discriminator != "" {
		return solana.ErrInvalidAccountData
	}

	if !getBool(data, &obj.Initialized, &offset) ||
		!getKey(data, &obj.Reviewer, &offset) ||
		!getUint8(data, &obj.Rating, &offset) ||
		!getString(data, &obj.Title, &offset) ||
		!getString(data, &obj.Description, &offset) {
		return solana.ErrInvalidAccountData
	}

	return nil
}

func (obj *Review) String() string {
	return fmt.Sprintf(
		"Review{initialized=%t,reviewer=%s,rating=%d,title=%s,description=%s}",
		obj.Initialized,
		base58.Encode(obj.Reviewer),
		obj.Rating,
		obj.Title,
		obj.Description,
	)
}
