package bank

import (
	"context"
)

// accountStorageOverhead is the metadata charge added to an account's data
// length when pricing its storage.
//
// Source: https://github.com/solana-labs/solana/blob/8b66a670da22da8f24be45b96438533cfa78e287/sdk/program/src/rent.rs#L31
const accountStorageOverhead = 128

// Rent prices account storage. An account funded with at least
// MinimumBalance for its size is exempt from collection; account creation
// rejects anything below that, so the bank only ever holds exempt accounts.
type Rent struct {
	conf *conf
}

func (r *Rent) MinimumBalance(size uint64) uint64 {
	ctx := context.Background()

	return (accountStorageOverhead + size) *
		r.conf.rentLamportsPerByteYear.Get(ctx) *
		r.conf.rentExemptionYears.Get(ctx)
}
