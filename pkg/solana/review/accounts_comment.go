package review

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58/base58"

	"github.com/reelprotocol/review-program/pkg/solana"
)

const commentDiscriminator = "comment"

// GetCommentAccountSize returns the encoded size of a comment. Comment
// accounts are allocated exactly this large.
func GetCommentAccountSize(body string) int {
	return (4 + len(commentDiscriminator)) +
		1 + // is_initialized
		32 + // review
		32 + // commenter
		(4 + len(body)) +
		8 // count
}

type Comment struct {
	Initialized bool
	Review      ed25519.PublicKey
	Commenter   ed25519.PublicKey
	Body        string

	// Count is the counter value at creation time, i.e. this comment's
	// ordinal position under its review. It is also the seed its address
	// was derived from.
	Count uint64
}

func (obj *Comment) IsInitialized() bool {
	return obj.Initialized
}

func (obj *Comment) Marshal() []byte {
	data := make([]byte, GetCommentAccountSize(obj.Body))

	var offset int
	putString(data, commentDiscriminator, &offset)
	putBool(data, obj.Initialized, &offset)
	putKey(data, obj.Review, &offset)
	putKey(data, obj.Commenter, &offset)
	putString(data, obj.Body, &offset)
	putUint64(data, obj.Count, &offset)

	return data
}

func (obj *Comment) Unmarshal(data []byte) error {
	var offset int

	var discriminator string
	if !getString(data, &discriminator, &offset) {
		return solana.ErrInvalidAccountData
	}
	if discriminator != commentDiscriminator && discriminator != "" {
		return solana.ErrInvalidAccountData
	}

	if !getBool(data, &obj.Initialized, &offset) ||
		!getKey(data, &obj.Review, &offset) ||
		!getKey(data, &obj.Commenter, &offset) ||
		!getString(data, &obj.Body, &offset) ||
		!getUint64(data, &obj.Count, &offset) {
		return solana.ErrInvalidAccountData
	}

	return nil
}

func (obj *Comment) String() string {
	return fmt.Sprintf(
		"Comment{initialized=%t,review=%s,commenter=%s,body=%s,count=%d}",
		obj.Initialized,
		base58.Encode(obj.Review),
		base58.Encode(obj.Commenter),
		obj.Body,
		obj.Count,
	)
}
