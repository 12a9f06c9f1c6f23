package review

import (
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelprotocol/review-program/pkg/solana"
)

// Reference addresses were generated against the deployed program ID. The
// comment vectors intentionally include a non-trivial bump walk (count 1
// lands on 253).

func TestGetReviewAddress(t *testing.T) {
	address, bump, err := GetReviewAddress(&GetReviewAddressArgs{
		Author: mustBase58Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"),
		Title:  "Captain America",
	})
	require.NoError(t, err)
	assert.Equal(t, "9tekMA19SgT6n25JWccEVuKJC4C6e6xj182LharJRL4N", base58.Encode(address))
	assert.EqualValues(t, 255, bump)
}

func TestGetReviewAddress_TitleTooLong(t *testing.T) {
	_, _, err := GetReviewAddress(&GetReviewAddressArgs{
		Author: mustBase58Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"),
		Title:  "an exceptionally overlong movie title",
	})
	assert.Equal(t, solana.ErrMaxSeedLengthExceeded, err)
}

func TestGetReviewAddress_MatchesDirectDerivation(t *testing.T) {
	author := mustBase58Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")

	address, bump, err := GetReviewAddress(&GetReviewAddressArgs{
		Author: author,
		Title:  "Up",
	})
	require.NoError(t, err)

	direct, err := solana.CreateProgramAddress(PROGRAM_ID, author, []byte("Up"), []byte{bump})
	require.NoError(t, err)
	assert.EqualValues(t, address, direct)
}

func TestGetCommentCounterAddress(t *testing.T) {
	address, bump, err := GetCommentCounterAddress(&GetCommentCounterAddressArgs{
		Review: mustBase58Decode("9tekMA19SgT6n25JWccEVuKJC4C6e6xj182LharJRL4N"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2ghrmbHLrxTFfuVNVWZ3aBzMp7JCTe1qjnNoykgQ6RLg", base58.Encode(address))
	assert.EqualValues(t, 255, bump)
}

func TestGetCommentAddress(t *testing.T) {
	review := mustBase58Decode("9tekMA19SgT6n25JWccEVuKJC4C6e6xj182LharJRL4N")

	cases := []struct {
		count    uint64
		expected string
		bump     uint8
	}{
		{0, "97pQry93Uf2Spw9pWz7LAYs4Fr6SmDRiFPKUBMp51A7B", 255},
		{1, "BvrHK6itxUTWkFotXKRy9XhfJfUQV7ruJZv6j7dpkZQH", 253},
	}

	for _, tc := range cases {
		address, bump, err := GetCommentAddress(&GetCommentAddressArgs{
			Review: review,
			Count:  tc.count,
		})
		require.NoError(t, err)
		assert.Equal(t, tc.expected, base58.Encode(address))
		assert.Equal(t, tc.bump, bump)
	}
}

func TestGetTokenMintAddress(t *testing.T) {
	address, bump, err := GetTokenMintAddress()
	require.NoError(t, err)
	assert.Equal(t, "8MEC1ASS4iJorksKJawktq1NQRV7vJ9rnwiWHCjzFuzR", base58.Encode(address))
	assert.EqualValues(t, 254, bump)
}

func TestGetMintAuthorityAddress(t *testing.T) {
	address, bump, err := GetMintAuthorityAddress()
	require.NoError(t, err)
	assert.Equal(t, "6XPvahfmLnMBxiaMQZQXMEkKvD3oNg8EtZCerqSu9Rn5", base58.Encode(address))
	assert.EqualValues(t, 255, bump)
}
