package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// Keeper of the amm store
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper
	authority  string
	hooks      types.AmmHooks
	callees    map[string]types.FlashSwapCallee
	metrics    *AMMMetrics
}

// NewKeeper creates a new amm Keeper instance. authority becomes the default
// fee setter when genesis does not name one.
func NewKeeper(key storetypes.StoreKey, bankKeeper types.BankKeeper, authority string) *Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid amm authority %q: %v", authority, err))
	}
	return &Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		authority:  authority,
		callees:    make(map[string]types.FlashSwapCallee),
		metrics:    NewAMMMetrics(),
	}
}

// SetHooks sets the amm hooks. It may only be called once.
func (k *Keeper) SetHooks(h types.AmmHooks) *Keeper {
	if k.hooks != nil {
		panic("cannot set amm hooks twice")
	}
	k.hooks = h
	return k
}

// GetAuthority returns the module authority.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", fmt.Sprintf("x/%s", types.ModuleName))
}

// getStore returns the KVStore for the amm module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}
