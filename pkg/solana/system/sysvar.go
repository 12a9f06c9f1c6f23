package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58/base58"
)

// RentSysVar is the address of the rent system variable account, required
// by the token program's account initialization instructions.
//
// https://explorer.solana.com/address/SysvarRent111111111111111111111111111111111
var RentSysVar ed25519.PublicKey

func init() {
	var err error

	RentSysVar, err = base58.Decode("SysvarRent111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}
