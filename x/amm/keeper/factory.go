package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// CreatePair registers the pair for two assets. Exactly one pair exists per
// unordered asset pair; its ID is the next registry sequence number and its
// custody address is derived from the canonical pair key.
func (k Keeper) CreatePair(ctx context.Context, assetA, assetB string) (*types.Pair, error) {
	asset0, asset1, err := types.SortAssets(assetA, assetB)
	if err != nil {
		return nil, err
	}

	var created types.Pair
	err = k.withScope(ctx, "create_pair", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasCreatePair, "amm create pair")

		store := k.getStore(ctx)
		if store.Has(PairByAssetsKey(asset0, asset1)) {
			return types.ErrPairExists.Wrapf("%s", types.PairKey(asset0, asset1))
		}

		count := k.AllPairsLength(ctx)
		pair := types.NewPair(count+1, asset0, asset1)
		if err := k.setPair(ctx, pair); err != nil {
			return err
		}
		store.Set(PairByAssetsKey(asset0, asset1), pairIDBytes(pair.Id))
		k.setPairCount(ctx, count+1)

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypePairCreated,
				sdk.NewAttribute(types.AttributeKeyAsset0, asset0),
				sdk.NewAttribute(types.AttributeKeyAsset1, asset1),
				sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pair.Id)),
				sdk.NewAttribute(types.AttributeKeyAddress, pair.Address),
				sdk.NewAttribute(types.AttributeKeyPairCount, fmt.Sprintf("%d", count+1)),
			),
		)

		if k.hooks != nil {
			if err := k.hooks.AfterPairCreated(ctx, pair.Id, asset0, asset1); err != nil {
				return fmt.Errorf("AfterPairCreated hook: %w", err)
			}
		}

		created = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	k.Logger(ctx).Info("pair created",
		"pair_id", created.Id,
		"asset0", created.Asset0,
		"asset1", created.Asset1,
		"address", created.Address,
	)
	k.metrics.PairsTotal.Set(float64(created.Id))
	return &created, nil
}

// GetPairByAssets returns the pair for two assets in either order.
func (k Keeper) GetPairByAssets(ctx context.Context, assetA, assetB string) (types.Pair, error) {
	bz := k.getStore(ctx).Get(PairByAssetsKey(assetA, assetB))
	if bz == nil {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("no pair for %s", types.PairKey(assetA, assetB))
	}
	return k.GetPair(ctx, binary.BigEndian.Uint64(bz))
}

// AllPairsLength returns the number of pairs created.
func (k Keeper) AllPairsLength(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(PairCountKey)
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setPairCount(ctx context.Context, count uint64) {
	k.getStore(ctx).Set(PairCountKey, pairIDBytes(count))
}

// IteratePairs iterates over all pairs in ID order
func (k Keeper) IteratePairs(ctx context.Context, cb func(pair types.Pair) (stop bool)) error {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PairKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pair types.Pair
		if err := json.Unmarshal(iterator.Value(), &pair); err != nil {
			return fmt.Errorf("IteratePairs: unmarshal pair: %w", err)
		}
		if cb(pair) {
			break
		}
	}
	return nil
}

// GetAllPairs returns every pair in ID order.
func (k Keeper) GetAllPairs(ctx context.Context) ([]types.Pair, error) {
	pairs := make([]types.Pair, 0, k.AllPairsLength(ctx))
	err := k.IteratePairs(ctx, func(pair types.Pair) bool {
		pairs = append(pairs, pair)
		return false
	})
	return pairs, err
}
