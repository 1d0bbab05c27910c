package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// GetPair returns a pair by ID
func (k Keeper) GetPair(ctx context.Context, pairID uint64) (types.Pair, error) {
	bz := k.getStore(ctx).Get(PairKey(pairID))
	if bz == nil {
		return types.Pair{}, types.ErrPairNotFound.Wrapf("pair %d", pairID)
	}

	var pair types.Pair
	if err := json.Unmarshal(bz, &pair); err != nil {
		return types.Pair{}, fmt.Errorf("GetPair: unmarshal: %w", err)
	}
	return pair, nil
}

func (k Keeper) setPair(ctx context.Context, pair types.Pair) error {
	bz, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("setPair: marshal: %w", err)
	}
	k.getStore(ctx).Set(PairKey(pair.Id), bz)
	return nil
}

// GetReserves returns both reserves and the timestamp of their last update.
func (k Keeper) GetReserves(ctx context.Context, pairID uint64) (math.Int, math.Int, uint32, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return math.Int{}, math.Int{}, 0, err
	}
	return pair.Reserve0, pair.Reserve1, pair.BlockTimestampLast, nil
}

// Price0CumulativeLast returns the stored asset0 price accumulator.
func (k Keeper) Price0CumulativeLast(ctx context.Context, pairID uint64) (types.Accumulator, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return "", err
	}
	return pair.Price0CumulativeLast, nil
}

// Price1CumulativeLast returns the stored asset1 price accumulator.
func (k Keeper) Price1CumulativeLast(ctx context.Context, pairID uint64) (types.Accumulator, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return "", err
	}
	return pair.Price1CumulativeLast, nil
}

// KLast returns reserve0*reserve1 as of the last liquidity event, or zero when
// the protocol fee is off.
func (k Keeper) KLast(ctx context.Context, pairID uint64) (math.Int, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return math.Int{}, err
	}
	return pair.KLast, nil
}

// pairBalances reads what the pair account actually holds of both assets.
func (k Keeper) pairBalances(ctx context.Context, pair types.Pair) (math.Int, math.Int) {
	addr := pair.GetAddress()
	return k.bankKeeper.GetBalance(ctx, addr, pair.Asset0).Amount,
		k.bankKeeper.GetBalance(ctx, addr, pair.Asset1).Amount
}

// sendFromPair transfers amount of denom out of the pair account.
func (k Keeper) sendFromPair(ctx context.Context, pair types.Pair, to sdk.AccAddress, denom string, amount math.Int) error {
	if !amount.IsPositive() {
		return nil
	}
	if err := k.bankKeeper.SendCoins(ctx, pair.GetAddress(), to, sdk.NewCoins(sdk.NewCoin(denom, amount))); err != nil {
		return fmt.Errorf("pair %d: send %s%s to %s: %w", pair.Id, amount, denom, to, err)
	}
	return nil
}

func checkReserveBounds(balance0, balance1 math.Int) error {
	if balance0.GT(types.MaxReserve) || balance1.GT(types.MaxReserve) {
		return types.ErrOverflow.Wrapf("balances %s/%s exceed 112 bits", balance0, balance1)
	}
	return nil
}

// update is the single place reserves change. It folds the elapsed time into
// the price accumulators using the reserves being replaced, then stores the
// new balances as reserves.
func (k Keeper) update(ctx sdk.Context, pair *types.Pair, balance0, balance1 math.Int) error {
	if err := checkReserveBounds(balance0, balance1); err != nil {
		return err
	}

	blockTimestamp := types.BlockTimestamp(ctx.BlockTime().Unix())
	if err := accumulatePrices(pair, blockTimestamp); err != nil {
		return err
	}

	pair.Reserve0 = balance0
	pair.Reserve1 = balance1
	pair.BlockTimestampLast = blockTimestamp
	if err := k.setPair(ctx, *pair); err != nil {
		return err
	}

	k.Logger(ctx).Debug("reserves updated",
		"pair_id", pair.Id,
		"reserve0", balance0.String(),
		"reserve1", balance1.String(),
	)

	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSync,
			sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pair.Id)),
			sdk.NewAttribute(types.AttributeKeyReserve0, balance0.String()),
			sdk.NewAttribute(types.AttributeKeyReserve1, balance1.String()),
		),
	)
	return nil
}

// recordPairMetrics publishes the committed state of a pair.
func (k Keeper) recordPairMetrics(pair types.Pair) {
	label := pairLabel(pair.Id)
	k.metrics.PairReserves.WithLabelValues(label, pair.Asset0).Set(intToFloat(pair.Reserve0))
	k.metrics.PairReserves.WithLabelValues(label, pair.Asset1).Set(intToFloat(pair.Reserve1))
	k.metrics.ClaimSupply.WithLabelValues(label).Set(intToFloat(pair.TotalSupply))
}
