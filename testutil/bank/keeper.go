// Package bank provides a store-backed asset ledger for tests and the
// scenario simulator. Balances live in a KV store of the same multistore as
// the amm module, so cached contexts branch and discard them together with
// the pair state.
package bank

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
)

// StoreKey is the store name the ledger is mounted under.
const StoreKey = "testbank"

// Keeper is a minimal bank keeper.
type Keeper struct {
	storeKey storetypes.StoreKey
}

// NewKeeper returns a ledger over the given store.
func NewKeeper(key storetypes.StoreKey) *Keeper {
	return &Keeper{storeKey: key}
}

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(address.MustLengthPrefix(addr), []byte(denom)...)
}

func (k Keeper) store(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(k.storeKey)
}

// GetBalance returns the balance of addr in denom.
func (k Keeper) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := k.store(ctx).Get(balanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}
	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

func (k Keeper) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) {
	store := k.store(ctx)
	key := balanceKey(addr, coin.Denom)
	if coin.Amount.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := coin.Amount.Marshal()
	if err != nil {
		panic(err)
	}
	store.Set(key, bz)
}

// SendCoins moves amt from fromAddr to toAddr.
func (k Keeper) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return sdkerrors.ErrInvalidCoins.Wrap(amt.String())
	}
	for _, coin := range amt {
		balance := k.GetBalance(ctx, fromAddr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("%s is smaller than %s", balance, coin)
		}
	}
	for _, coin := range amt {
		k.setBalance(ctx, fromAddr, k.GetBalance(ctx, fromAddr, coin.Denom).Sub(coin))
		k.setBalance(ctx, toAddr, k.GetBalance(ctx, toAddr, coin.Denom).Add(coin))
	}
	return nil
}

// MintCoins credits new coins to addr.
func (k Keeper) MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return sdkerrors.ErrInvalidCoins.Wrap(amt.String())
	}
	for _, coin := range amt {
		k.setBalance(ctx, addr, k.GetBalance(ctx, addr, coin.Denom).Add(coin))
	}
	return nil
}
