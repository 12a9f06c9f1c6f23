package solana

import (
	"crypto/ed25519"
	"crypto/sha256"
	"hash"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedHash returns a canned digest regardless of input, used to steer
// derivation onto the curve.
type fixedHash struct {
	sum []byte
}

func (h *fixedHash) Write(p []byte) (int, error) { return len(p), nil }
func (h *fixedHash) Sum([]byte) []byte           { return h.sum }
func (h *fixedHash) Reset()                      {}
func (h *fixedHash) Size() int                   { return sha256.Size }
func (h *fixedHash) BlockSize() int              { return sha256.BlockSize }

// forceCurvePoint pins the derivation hash to a valid curve point so every
// candidate address gets rejected.
func forceCurvePoint(t *testing.T) {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	programHashCtor = func() hash.Hash { return &fixedHash{sum: pub} }
	t.Cleanup(func() { programHashCtor = sha256.New })
}

func mustBase58(t *testing.T, s string) []byte {
	t.Helper()

	raw, err := base58.Decode(s)
	require.NoError(t, err)
	return raw
}

func TestCreateProgramAddress(t *testing.T) {
	// The misspelled "Pubey" matches the upstream Solana test case the
	// expected outputs were derived with.
	publicKey := mustBase58(t, "SeedPubey1111111111111111111111111111111111")
	programID := mustBase58(t, "BPFLoader1111111111111111111111111111111111")

	exceededSeed := make([]byte, maxSeedLength+1)
	for _, seeds := range [][][]byte{
		{exceededSeed},
		{[]byte("short seed"), exceededSeed},
	} {
		_, err := CreateProgramAddress(programID, seeds...)
		assert.Equal(t, ErrMaxSeedLengthExceeded, err)
	}

	tooManySeeds := make([][]byte, maxSeeds+1)
	for i := range tooManySeeds {
		tooManySeeds[i] = []byte{byte(i)}
	}
	_, err := CreateProgramAddress(programID, tooManySeeds...)
	assert.Equal(t, ErrTooManySeeds, err)

	_, err = CreateProgramAddress(programID, make([]byte, maxSeedLength))
	assert.NoError(t, err)

	cases := []struct {
		address string
		seeds   [][]byte
	}{
		{address: "3gF2KMe9KiC6FNVBmfg9i267aMPvK37FewCip4eGBFcT", seeds: [][]byte{{}, {1}}},
		{address: "7ytmC1nT1xY4RfxCV2ZgyA7UakC93do5ZdyhdF3EtPj7", seeds: [][]byte{[]byte("☉")}},
		{address: "HwRVBufQ4haG5XSgpspwKtNd3PC9GM9m1196uJW36vds", seeds: [][]byte{[]byte("Talking"), []byte("Squirrels")}},
		{address: "GUs5qLUfsEHkcMB9T38vjr18ypEhRuNWiePW2LoK4E3K", seeds: [][]byte{publicKey}},
	}

	for _, tc := range cases {
		key, err := CreateProgramAddress(programID, tc.seeds...)
		assert.NoError(t, err)
		assert.Equal(t, tc.address, base58.Encode(key))
	}

	// Dropping a seed moves the derived address.
	partial, err := CreateProgramAddress(programID, []byte("Talking"))
	assert.NoError(t, err)
	full, err := CreateProgramAddress(programID, []byte("Talking"), []byte("Squirrels"))
	assert.NoError(t, err)
	assert.NotEqual(t, partial, full)
}

func TestCreateProgramAddress_Invalid(t *testing.T) {
	forceCurvePoint(t)

	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, err = CreateProgramAddress(programID, []byte("Lil'"), []byte("Bits"))
	assert.Equal(t, ErrInvalidPublicKey, err)
}

func TestFindProgramAddress(t *testing.T) {
	for i := 0; i < 1000; i++ {
		program, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)

		_, err = FindProgramAddress(program, []byte("Lil'"), []byte("Bits"))
		require.NoError(t, err)
	}
}

func TestFindProgramAddress_Deterministic(t *testing.T) {
	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	author, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	addr, bump, err := FindProgramAddressAndBump(programID, author, []byte("Pulp Fiction"))
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		again, againBump, err := FindProgramAddressAndBump(programID, author, []byte("Pulp Fiction"))
		require.NoError(t, err)
		assert.EqualValues(t, addr, again)
		assert.Equal(t, bump, againBump)
	}

	// The bump is canonical: every higher bump hashes onto the curve.
	for b := 255; b > int(bump); b-- {
		_, err := CreateProgramAddress(programID, author, []byte("Pulp Fiction"), []byte{byte(b)})
		assert.Equal(t, ErrInvalidPublicKey, err)
	}
}

func TestFindProgramAddress_Exhausted(t *testing.T) {
	forceCurvePoint(t)

	programID, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	_, _, err = FindProgramAddressAndBump(programID, []byte("Lil'"), []byte("Bits"))
	assert.Equal(t, ErrDerivationExhausted, err)
}

func TestFindProgramAddress_Ref(t *testing.T) {
	references := []struct {
		program string
		derived string
	}{
		{program: "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM", derived: "Bn9pAWUXWc5Kd849xTkQcHqiCbHUEizLFn4r5Cf8XYnd"},
		{program: "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh", derived: "oDvUHiiGdMo31xYzjefAzUekWH8EbCKrxgs2FkyTs1S"},
		{program: "CiDwVBFgWV9E5MvXWoLgnEgn2hK7rJikbvfWavzAQz3", derived: "B2vBn2bmF9GuaGkebrm8oUqDC34pE6m4bagjNcVE6msv"},
		{program: "GcdayuLaLyrdmUu324nahyv33G5poQdLUEZ1nEytDeP", derived: "2mN5Nfq9v1EwTV9FPTHPESZ3XiZce9wi5PQoULFuxvev"},
		{program: "LX3EUdRUBUa3TbsYXLEUdj9J3prXkWXvLYSWyYyc2Jj", derived: "9CqF6oTZtW5zSeoLnZRoQmj3s2tXGPqifM1W8Z8LVE1z"},
		{program: "QRSsyMWN1yHT9ir42bgNZUNZ4PdEhcSWCrL2AryKpy5", derived: "FwBDYafabYZLDC8FwaDCsLxWkKnaQxKuQv3afDAGiXJ8"},
		{program: "UKrXU5bFrTzrqqpZXs8GVDbp4xPweiM65ADXNAy3ddR", derived: "2Y1miPDc3BkHVdNFeFTtRkiw8nbptrBqboJkbqxk5SFt"},
		{program: "YEGAxog9gxiGXxo538aAQxq55XAebpFfwU72ZUxmSHm", derived: "5jeaj2d8T2hjU63h2chjtSnuUmjti6qZK7oi6jwTspoo"},
		{program: "c8fpTXm3XTRgE5maYQ24Li4L65wMYvAFomzXknxVEx7", derived: "6brHYNpseuh39WW3Md5WxTyw12kqumR4tTyZqzkyPWZP"},
		{program: "g35TxFqwMx95vCk63fTxGTHb6ei4W24qg5t2x6xD3cT", derived: "ESVKwnyn9DEkNcR5ZnHFbMK66nCArc9dChFCULstzLy5"},
		{program: "jwV7SyvqCSrVcKibYvurCCWr7DUmT7yRYPmY9QwvrGo", derived: "69BytoSYkhMovVk8gfGUwhf9P8HSnrcYhaoWY2dgmrPE"},
		{program: "oqtkwi1j2wZuJSh74CMk7wk77nFUQDt1Qhf3Liweew9", derived: "EfwG5mLknsUXPLHkUp1doxgN1W4Azr3gkZ1Zu6w6AxdF"},
		{program: "skJQSS6csSHJzZfcZToe3gyN8M2BMKnbH1YYY2wNTbV", derived: "Cw2qpvCaoPGxEJypW7rW5obTKSTLpCDRN7TgrrVugkfC"},
		{program: "wei3wABWhvzigge84jFXySCd8untJRhB9KS3jLw6GFq", derived: "8jztcAvddJNqK1ZjwcRkfWYAkfJW7dBbwoxZt7HSNg1G"},
		{program: "21Z7hRtGQYRi8NocdZzhRuBRt9UZbFXbm1dKYvevp4vB", derived: "9PPbRbNP3rqwzk16r7NDBzk1YDfo9EpWDWSqCYLn5eaF"},
		{program: "25TXLvcMJNvRY4vb95G9Kpvf9A3LJCdWLswD47xvXsaX", derived: "2rXxCqDNwia2f245koA11w7NoyNhNH4PwhSVLwpeBVRf"},
		{program: "29MvzRLSCDR8wm3ZeaXbDkftQAc719jQvkF6ZKGvFgEs", derived: "8habU8xKFCDeJNg9No6prtCY1Lq2px5bqWEyudy1SScW"},
		{program: "2DGLdv4X63urMTAYA5o37gR7fBAsi6qKWcYz4WauyUuD", derived: "7CPuXK4rdxhNqPUtTjvJ2peNEgVbBCzPV89SVK8boWai"},
		{program: "2HAkHQnbytQZm9HWfb4V1cALvBjeR3wE6UrsZhtuhHZZ", derived: "5U8dYpWb2W1s3ptdNhJJAkyf2JaRUxFAzVEnZmSP2t8X"},
		{program: "2M59vuWgsiuHAqQVB6KvuXuaBCJR8138gMAm4uCuR6Du", derived: "E5dLtHAM353EPnHyuZ32sKREn26VW4Y8bzb2KQJTBHQh"},
	}

	for _, r := range references {
		actual, err := FindProgramAddress(mustBase58(t, r.program), []byte("Lil'"), []byte("Bits"))
		assert.NoError(t, err)
		assert.EqualValues(t, mustBase58(t, r.derived), actual)
	}
}
