package types

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

// PairAddress derives the custody account of the pair for the given assets.
// The address depends only on the pair identity, so it is the same for
// either argument order and is known before the pair exists.
func PairAddress(assetA, assetB string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, append([]byte("pair/"), PairIdentity(assetA, assetB)...)))
}

// LockedLiquidityAddress is the account holding the minimum liquidity of every
// pair. No key controls it and the claim ledger refuses to move its funds.
func LockedLiquidityAddress() sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, []byte("minimum-liquidity")))
}

// AssetAddress returns the ledger account that stands for the asset itself.
// Pairs refuse to send swap output to it.
func AssetAddress(denom string) sdk.AccAddress {
	return sdk.AccAddress(address.Module(ModuleName, []byte("asset/"+denom)))
}

// IsAssetAccount reports whether addr identifies the given asset, either as the
// derived asset account or as a bech32 string equal to the denom.
func IsAssetAccount(addr sdk.AccAddress, denom string) bool {
	return addr.Equals(AssetAddress(denom)) || addr.String() == denom
}
