package review

import (
	"fmt"

	"github.com/reelprotocol/review-program/pkg/solana"
)

const counterDiscriminator = "counter"

// CommentCounterAccountSize is the exact encoded size of a comment counter.
const CommentCounterAccountSize = (4 + len(counterDiscriminator)) +
	1 + // is_initialized
	8 // count

type CommentCounter struct {
	Initialized bool
	Count       uint64
}

func (obj *CommentCounter) IsInitialized() bool {
	return obj.Initialized
}

func (obj *CommentCounter) Marshal() []byte {
	data := make([]byte, CommentCounterAccountSize)

	var offset int
	putString(data, counterDiscriminator, &offset)
	putBool(data, obj.Initialized, &offset)
	putUint64(data, obj.Count, &offset)

	return data
}

func (obj *CommentCounter) Unmarshal(data []byte) error {
	var offset int

	var discriminator string
	if !getString(data, &discriminator, &offset) {
		return solana.ErrInvalidAccountData
	}
	if discriminator != counterDiscriminator && discriminator != "" {
		return solana.ErrInvalidAccountData
	}

	if !getBool(data, &obj.Initialized, &offset) ||
		!getUint64(data, &obj.Count, &offset) {
		return solana.ErrInvalidAccountData
	}

	return nil
}

func (obj *CommentCounter) String() string {
	return fmt.Sprintf(
		"CommentCounter{initialized=%t,count=%d}",
		obj.Initialized,
		obj.Count,
	)
}
