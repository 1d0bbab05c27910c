package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// Swap sends amount0Out and amount1Out to `to` and then requires the pair to
// have been paid enough that the fee adjusted product of its balances did not
// decrease. Payment is normally sent to the pair address before the call.
//
// With non-empty data the swap is a flash swap: after the outputs are sent,
// the FlashSwapCallee registered for `to` is invoked and may pay during the
// call. The transfer, the callee's effects and the reserve update form one
// scope that is discarded if any step fails.
func (k Keeper) Swap(
	ctx context.Context,
	pairID uint64,
	sender sdk.AccAddress,
	amount0Out, amount1Out math.Int,
	to sdk.AccAddress,
	data []byte,
) error {
	if amount0Out.IsNil() || amount1Out.IsNil() || amount0Out.IsNegative() || amount1Out.IsNegative() {
		return types.ErrInsufficientOutputAmount.Wrap("outputs must be non-negative")
	}
	if !amount0Out.IsPositive() && !amount1Out.IsPositive() {
		return types.ErrInsufficientOutputAmount
	}
	if err := validateParties(to); err != nil {
		return err
	}

	var (
		amount0In, amount1In math.Int
		committed            types.Pair
	)
	err := k.executeAtomic(ctx, pairID, "swap", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasSwap, "amm swap")

		pair, err := k.GetPair(ctx, pairID)
		if err != nil {
			return err
		}
		reserve0, reserve1 := pair.Reserve0, pair.Reserve1
		if amount0Out.GTE(reserve0) || amount1Out.GTE(reserve1) {
			return types.ErrInsufficientLiquidity.Wrapf("requested %s/%s of reserves %s/%s", amount0Out, amount1Out, reserve0, reserve1)
		}
		if types.IsAssetAccount(to, pair.Asset0) || types.IsAssetAccount(to, pair.Asset1) {
			return types.ErrInvalidRecipient.Wrapf("%s", to)
		}

		var callee types.FlashSwapCallee
		if len(data) > 0 {
			ctx.GasMeter().ConsumeGas(types.GasFlashSwap, "amm flash swap")
			var ok bool
			if callee, ok = k.callees[to.String()]; !ok {
				return types.ErrNoCallee.Wrapf("%s", to)
			}
		}

		// 1. optimistic transfer
		if err := k.sendFromPair(ctx, pair, to, pair.Asset0, amount0Out); err != nil {
			return err
		}
		if err := k.sendFromPair(ctx, pair, to, pair.Asset1, amount1Out); err != nil {
			return err
		}

		// 2. callee acts, and pays, inside the same scope
		if callee != nil {
			if err := callee.OnFlashSwap(ctx, sender, amount0Out, amount1Out, data); err != nil {
				return fmt.Errorf("flash swap callee %s: %w", to, err)
			}
		}

		// 3. measure what came in
		balance0, balance1 := k.pairBalances(ctx, pair)
		amount0In = inputAmount(balance0, reserve0, amount0Out)
		amount1In = inputAmount(balance1, reserve1, amount1Out)
		if !amount0In.IsPositive() && !amount1In.IsPositive() {
			return types.ErrInsufficientInputAmount
		}
		if err := checkReserveBounds(balance0, balance1); err != nil {
			return err
		}

		// 4. fee adjusted invariant
		if err := types.VerifyInvariant(balance0, balance1, amount0In, amount1In, reserve0, reserve1); err != nil {
			return err
		}

		// 5. reserves and accumulators, priced at the pre-swap reserves
		if err := k.update(ctx, &pair, balance0, balance1); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeSwap,
				sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pairID)),
				sdk.NewAttribute(types.AttributeKeySender, sender.String()),
				sdk.NewAttribute(types.AttributeKeyTo, to.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0In, amount0In.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1In, amount1In.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0Out, amount0Out.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1Out, amount1Out.String()),
			),
		)

		if k.hooks != nil {
			if err := k.hooks.AfterSwap(ctx, pairID, sender.String(), amount0In, amount1In, amount0Out, amount1Out); err != nil {
				return fmt.Errorf("AfterSwap hook: %w", err)
			}
		}

		committed = pair
		return nil
	})

	label := pairLabel(pairID)
	if err != nil {
		k.metrics.SwapsTotal.WithLabelValues(label, "failed").Inc()
		return err
	}

	k.metrics.SwapsTotal.WithLabelValues(label, "success").Inc()
	recordSwapTelemetry(pairID, len(data) > 0)
	if len(data) > 0 {
		k.metrics.FlashSwaps.WithLabelValues(label).Inc()
	}
	k.metrics.SwapVolume.WithLabelValues(label, committed.Asset0).Add(intToFloat(amount0In))
	k.metrics.SwapVolume.WithLabelValues(label, committed.Asset1).Add(intToFloat(amount1In))
	k.recordPairMetrics(committed)
	return nil
}

// inputAmount is balance - (reserve - amountOut), or zero when not positive.
func inputAmount(balance, reserve, amountOut math.Int) math.Int {
	in := balance.Sub(reserve.Sub(amountOut))
	if in.IsPositive() {
		return in
	}
	return math.ZeroInt()
}

// Sync sets the reserves to the pair's actual balances.
func (k Keeper) Sync(ctx context.Context, pairID uint64) error {
	var committed types.Pair
	err := k.executeAtomic(ctx, pairID, "sync", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasSync, "amm sync")

		pair, err := k.GetPair(ctx, pairID)
		if err != nil {
			return err
		}
		balance0, balance1 := k.pairBalances(ctx, pair)
		if err := k.update(ctx, &pair, balance0, balance1); err != nil {
			return err
		}
		committed = pair
		return nil
	})
	if err != nil {
		return err
	}
	k.recordPairMetrics(committed)
	return nil
}

// Skim sends whatever the pair holds above its reserves to `to`.
func (k Keeper) Skim(ctx context.Context, pairID uint64, to sdk.AccAddress) error {
	if err := validateParties(to); err != nil {
		return err
	}
	return k.executeAtomic(ctx, pairID, "skim", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasSkim, "amm skim")

		pair, err := k.GetPair(ctx, pairID)
		if err != nil {
			return err
		}
		balance0, balance1 := k.pairBalances(ctx, pair)
		if err := k.sendFromPair(ctx, pair, to, pair.Asset0, balance0.Sub(pair.Reserve0)); err != nil {
			return err
		}
		return k.sendFromPair(ctx, pair, to, pair.Asset1, balance1.Sub(pair.Reserve1))
	})
}
