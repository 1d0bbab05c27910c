package types

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// FlashSwapCallee is invoked by a swap with non-empty data after the requested
// outputs have been sent to the callee's account and before the pair checks
// that it was paid. Returning an error aborts the whole swap.
type FlashSwapCallee interface {
	OnFlashSwap(ctx context.Context, sender sdk.AccAddress, amount0, amount1 math.Int, data []byte) error
}

// FlashSwapCalleeFunc adapts a function to FlashSwapCallee.
type FlashSwapCalleeFunc func(ctx context.Context, sender sdk.AccAddress, amount0, amount1 math.Int, data []byte) error

// OnFlashSwap implements FlashSwapCallee.
func (f FlashSwapCalleeFunc) OnFlashSwap(ctx context.Context, sender sdk.AccAddress, amount0, amount1 math.Int, data []byte) error {
	return f(ctx, sender, amount0, amount1, data)
}
