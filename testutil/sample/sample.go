package sample

import (
	coreaddress "cosmossdk.io/core/address"
	"github.com/cometbft/cometbft/crypto"
	"github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AccAddress returns a random bech32 account address.
func AccAddress() string {
	pk := secp256k1.GenPrivKey().PubKey()
	return sdk.AccAddress(pk.Address()).String()
}

// NamedAddress returns a stable bech32 account address derived from name, so tests can
// refer to "arbiter" or "foo_token" and get the same identity every time.
func NamedAddress(name string) string {
	return sdk.AccAddress(crypto.AddressHash([]byte(name))).String()
}

// NamedAddressWithPrefix is NamedAddress encoded under a custom bech32 prefix.
func NamedAddressWithPrefix(name, prefix string) string {
	addr, err := address.NewBech32Codec(prefix).BytesToString(crypto.AddressHash([]byte(name)))
	if err != nil {
		panic(err)
	}
	return addr
}

// AddressCodec returns the codec matching the addresses produced by NamedAddress.
func AddressCodec() coreaddress.Codec {
	return address.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix())
}
