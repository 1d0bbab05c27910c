package types

import (
	"context"

	"cosmossdk.io/math"
)

// AmmHooks are notified after state changing pair operations. A hook error
// aborts the operation that triggered it.
type AmmHooks interface {
	AfterPairCreated(ctx context.Context, pairID uint64, asset0, asset1 string) error

	AfterSwap(ctx context.Context, pairID uint64, sender string, amount0In, amount1In, amount0Out, amount1Out math.Int) error

	// AfterLiquidityChanged is called after mint (isAdd) and burn.
	AfterLiquidityChanged(ctx context.Context, pairID uint64, provider string, amount0, amount1, liquidity math.Int, isAdd bool) error
}

// MultiAmmHooks combines multiple hooks into one, called in order.
type MultiAmmHooks []AmmHooks

// NewMultiAmmHooks creates a new MultiAmmHooks from a list of hooks.
func NewMultiAmmHooks(hooks ...AmmHooks) MultiAmmHooks {
	return hooks
}

// AfterPairCreated calls AfterPairCreated on all registered hooks.
func (h MultiAmmHooks) AfterPairCreated(ctx context.Context, pairID uint64, asset0, asset1 string) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterPairCreated(ctx, pairID, asset0, asset1); err != nil {
			return err
		}
	}
	return nil
}

// AfterSwap calls AfterSwap on all registered hooks.
func (h MultiAmmHooks) AfterSwap(ctx context.Context, pairID uint64, sender string, amount0In, amount1In, amount0Out, amount1Out math.Int) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterSwap(ctx, pairID, sender, amount0In, amount1In, amount0Out, amount1Out); err != nil {
			return err
		}
	}
	return nil
}

// AfterLiquidityChanged calls AfterLiquidityChanged on all registered hooks.
func (h MultiAmmHooks) AfterLiquidityChanged(ctx context.Context, pairID uint64, provider string, amount0, amount1, liquidity math.Int, isAdd bool) error {
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.AfterLiquidityChanged(ctx, pairID, provider, amount0, amount1, liquidity, isAdd); err != nil {
			return err
		}
	}
	return nil
}
