package keeper

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

func checkDeadline(ctx context.Context, deadline time.Time) error {
	blockTime := sdk.UnwrapSDKContext(ctx).BlockTime()
	if blockTime.After(deadline) {
		return types.ErrExpired.Wrapf("block time %s after deadline %s",
			blockTime.UTC().Format(time.RFC3339), deadline.UTC().Format(time.RFC3339))
	}
	return nil
}

// orderedReserves returns the reserves of the pair for (assetA, assetB).
func orderedReserves(pair types.Pair, assetA string) (math.Int, math.Int) {
	if assetA == pair.Asset0 {
		return pair.Reserve0, pair.Reserve1
	}
	return pair.Reserve1, pair.Reserve0
}

// AddLiquidity deposits up to the desired amounts at the current pool ratio
// and mints the claim tokens to `to`. The pair is created on first use.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	sender sdk.AccAddress,
	assetA, assetB string,
	amountADesired, amountBDesired, amountAMin, amountBMin math.Int,
	to sdk.AccAddress,
	deadline time.Time,
) (amountA, amountB, liquidity math.Int, err error) {
	if err := checkDeadline(ctx, deadline); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if err := validateParties(sender, to); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if !amountADesired.IsPositive() || !amountBDesired.IsPositive() {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrapf("desired amounts %s/%s", amountADesired, amountBDesired)
	}

	err = k.withScope(ctx, "add_liquidity", func(ctx sdk.Context) error {
		pair, err := k.GetPairByAssets(ctx, assetA, assetB)
		if errors.Is(err, types.ErrPairNotFound) {
			created, cerr := k.CreatePair(ctx, assetA, assetB)
			if cerr != nil {
				return cerr
			}
			pair, err = *created, nil
		}
		if err != nil {
			return err
		}

		amountA, amountB, err = optimalDeposit(pair, assetA, amountADesired, amountBDesired, amountAMin, amountBMin)
		if err != nil {
			return err
		}

		deposit := sdk.NewCoins(sdk.NewCoin(assetA, amountA), sdk.NewCoin(assetB, amountB))
		if err := k.bankKeeper.SendCoins(ctx, sender, pair.GetAddress(), deposit); err != nil {
			return err
		}
		liquidity, err = k.Mint(ctx, pair.Id, to)
		return err
	})
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	return amountA, amountB, liquidity, nil
}

func optimalDeposit(pair types.Pair, assetA string, desiredA, desiredB, minA, minB math.Int) (math.Int, math.Int, error) {
	reserveA, reserveB := orderedReserves(pair, assetA)
	if reserveA.IsZero() && reserveB.IsZero() {
		return desiredA, desiredB, nil
	}

	optimalB, err := types.Quote(desiredA, reserveA, reserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalB.LTE(desiredB) {
		if optimalB.LT(minB) {
			return math.Int{}, math.Int{}, types.ErrInsufficientBAmount.Wrapf("%s < %s", optimalB, minB)
		}
		return desiredA, optimalB, nil
	}

	optimalA, err := types.Quote(desiredB, reserveB, reserveA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalA.GT(desiredA) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAAmount.Wrapf("%s > desired %s", optimalA, desiredA)
	}
	if optimalA.LT(minA) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAAmount.Wrapf("%s < %s", optimalA, minA)
	}
	return optimalA, desiredB, nil
}

// RemoveLiquidity redeems liquidity claim tokens of sender and sends the
// assets to `to`.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	sender sdk.AccAddress,
	assetA, assetB string,
	liquidity, amountAMin, amountBMin math.Int,
	to sdk.AccAddress,
	deadline time.Time,
) (amountA, amountB math.Int, err error) {
	if err := checkDeadline(ctx, deadline); err != nil {
		return math.Int{}, math.Int{}, err
	}

	err = k.withScope(ctx, "remove_liquidity", func(ctx sdk.Context) error {
		pair, err := k.GetPairByAssets(ctx, assetA, assetB)
		if err != nil {
			return err
		}
		if err := k.TransferClaim(ctx, pair.Id, sender, pair.GetAddress(), liquidity); err != nil {
			return err
		}
		amount0, amount1, err := k.Burn(ctx, pair.Id, to)
		if err != nil {
			return err
		}

		amountA, amountB = amount0, amount1
		if assetA != pair.Asset0 {
			amountA, amountB = amount1, amount0
		}
		if amountA.LT(amountAMin) {
			return types.ErrInsufficientAAmount.Wrapf("%s < %s", amountA, amountAMin)
		}
		if amountB.LT(amountBMin) {
			return types.ErrInsufficientBAmount.Wrapf("%s < %s", amountB, amountBMin)
		}
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountA, amountB, nil
}

// GetAmountsOut returns the amounts along path when selling amountIn of
// path[0].
func (k Keeper) GetAmountsOut(ctx context.Context, amountIn math.Int, path []string) ([]math.Int, error) {
	if len(path) < 2 {
		return nil, types.ErrInvalidPath.Wrapf("path of length %d", len(path))
	}
	amounts := make([]math.Int, len(path))
	amounts[0] = amountIn
	for i := 0; i < len(path)-1; i++ {
		reserveIn, reserveOut, err := k.hopReserves(ctx, path[i], path[i+1])
		if err != nil {
			return nil, err
		}
		if amounts[i+1], err = types.GetAmountOut(amounts[i], reserveIn, reserveOut); err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

// GetAmountsIn returns the amounts along path needed to buy amountOut of the
// last asset.
func (k Keeper) GetAmountsIn(ctx context.Context, amountOut math.Int, path []string) ([]math.Int, error) {
	if len(path) < 2 {
		return nil, types.ErrInvalidPath.Wrapf("path of length %d", len(path))
	}
	amounts := make([]math.Int, len(path))
	amounts[len(path)-1] = amountOut
	for i := len(path) - 1; i > 0; i-- {
		reserveIn, reserveOut, err := k.hopReserves(ctx, path[i-1], path[i])
		if err != nil {
			return nil, err
		}
		if amounts[i-1], err = types.GetAmountIn(amounts[i], reserveIn, reserveOut); err != nil {
			return nil, err
		}
	}
	return amounts, nil
}

func (k Keeper) hopReserves(ctx context.Context, assetIn, assetOut string) (math.Int, math.Int, error) {
	if _, _, err := types.SortAssets(assetIn, assetOut); err != nil {
		return math.Int{}, math.Int{}, types.ErrInvalidPath.Wrap(err.Error())
	}
	pair, err := k.GetPairByAssets(ctx, assetIn, assetOut)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	reserveIn, reserveOut := orderedReserves(pair, assetIn)
	return reserveIn, reserveOut, nil
}

// SwapExactAssetsForAssets sells exactly amountIn of path[0] for at least
// amountOutMin of the last asset. Every hop runs in one scope.
func (k Keeper) SwapExactAssetsForAssets(
	ctx context.Context,
	sender sdk.AccAddress,
	amountIn, amountOutMin math.Int,
	path []string,
	to sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := checkDeadline(ctx, deadline); err != nil {
		return nil, err
	}

	var amounts []math.Int
	err := k.withScope(ctx, "swap_exact_in", func(ctx sdk.Context) error {
		var err error
		if amounts, err = k.GetAmountsOut(ctx, amountIn, path); err != nil {
			return err
		}
		if last := amounts[len(amounts)-1]; last.LT(amountOutMin) {
			return types.ErrInsufficientOutputAmount.Wrapf("%s < minimum %s", last, amountOutMin)
		}
		return k.swapAlongPath(ctx, sender, amounts, path, to)
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// SwapAssetsForExactAssets buys exactly amountOut of the last asset for at
// most amountInMax of path[0].
func (k Keeper) SwapAssetsForExactAssets(
	ctx context.Context,
	sender sdk.AccAddress,
	amountOut, amountInMax math.Int,
	path []string,
	to sdk.AccAddress,
	deadline time.Time,
) ([]math.Int, error) {
	if err := checkDeadline(ctx, deadline); err != nil {
		return nil, err
	}

	var amounts []math.Int
	err := k.withScope(ctx, "swap_exact_out", func(ctx sdk.Context) error {
		var err error
		if amounts, err = k.GetAmountsIn(ctx, amountOut, path); err != nil {
			return err
		}
		if amounts[0].GT(amountInMax) {
			return types.ErrExcessiveInputAmount.Wrapf("%s > maximum %s", amounts[0], amountInMax)
		}
		return k.swapAlongPath(ctx, sender, amounts, path, to)
	})
	if err != nil {
		return nil, err
	}
	return amounts, nil
}

// swapAlongPath pays the first pair and chains the hops, each pair sending
// its output straight to the next pair.
func (k Keeper) swapAlongPath(ctx sdk.Context, sender sdk.AccAddress, amounts []math.Int, path []string, to sdk.AccAddress) error {
	if err := validateParties(sender, to); err != nil {
		return err
	}

	first := types.PairAddress(path[0], path[1])
	if err := k.bankKeeper.SendCoins(ctx, sender, first, sdk.NewCoins(sdk.NewCoin(path[0], amounts[0]))); err != nil {
		return err
	}

	for i := 0; i < len(path)-1; i++ {
		input, output := path[i], path[i+1]
		pair, err := k.GetPairByAssets(ctx, input, output)
		if err != nil {
			return err
		}

		amount0Out, amount1Out := math.ZeroInt(), amounts[i+1]
		if input != pair.Asset0 {
			amount0Out, amount1Out = amounts[i+1], math.ZeroInt()
		}

		recipient := to
		if i < len(path)-2 {
			recipient = types.PairAddress(output, path[i+2])
		}
		if err := k.Swap(ctx, pair.Id, sender, amount0Out, amount1Out, recipient, nil); err != nil {
			return err
		}
	}
	return nil
}
