package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// accumulatePrices adds the current reserve ratio times the time elapsed
// since the last update to both accumulators. Nothing is added on the first
// update of a block or while either reserve is empty.
func accumulatePrices(pair *types.Pair, blockTimestamp uint32) error {
	elapsed := blockTimestamp - pair.BlockTimestampLast
	if elapsed == 0 || !pair.Reserve0.IsPositive() || !pair.Reserve1.IsPositive() {
		return nil
	}
	price0, err := pair.Price0CumulativeLast.Accumulate(types.EncodePrice(pair.Reserve1, pair.Reserve0), elapsed)
	if err != nil {
		return fmt.Errorf("pair %d price0: %w", pair.Id, err)
	}
	price1, err := pair.Price1CumulativeLast.Accumulate(types.EncodePrice(pair.Reserve0, pair.Reserve1), elapsed)
	if err != nil {
		return fmt.Errorf("pair %d price1: %w", pair.Id, err)
	}
	pair.Price0CumulativeLast, pair.Price1CumulativeLast = price0, price1
	return nil
}

// CurrentCumulativePrices returns the accumulators as they would read if the
// pair were updated at the current block time, without writing anything.
// Consumers take two such readings and feed them to types.AveragePrice.
func (k Keeper) CurrentCumulativePrices(ctx context.Context, pairID uint64) (types.Accumulator, types.Accumulator, uint32, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return "", "", 0, err
	}

	blockTimestamp := types.BlockTimestamp(sdk.UnwrapSDKContext(ctx).BlockTime().Unix())
	if err := accumulatePrices(&pair, blockTimestamp); err != nil {
		return "", "", 0, err
	}
	return pair.Price0CumulativeLast, pair.Price1CumulativeLast, blockTimestamp, nil
}
