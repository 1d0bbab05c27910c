package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// Mint issues claim tokens to `to` for whatever the pair account received
// since the last reserve update. The caller must send both assets to the pair
// address first, in the same transaction.
func (k Keeper) Mint(ctx context.Context, pairID uint64, to sdk.AccAddress) (math.Int, error) {
	if err := validateParties(to); err != nil {
		return math.Int{}, err
	}

	var (
		liquidity        math.Int
		amount0, amount1 math.Int
		protocolFee      math.Int
		feeOn            bool
		committed        types.Pair
	)
	err := k.executeAtomic(ctx, pairID, "mint", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasMint, "amm mint")

		pair, err := k.GetPair(ctx, pairID)
		if err != nil {
			return err
		}

		balance0, balance1 := k.pairBalances(ctx, pair)
		if err := checkReserveBounds(balance0, balance1); err != nil {
			return err
		}
		amount0 = balance0.Sub(pair.Reserve0)
		amount1 = balance1.Sub(pair.Reserve1)
		if amount0.IsNegative() || amount1.IsNegative() {
			return types.ErrInsufficientLiquidityMinted.Wrapf("pair balances %s/%s below reserves", balance0, balance1)
		}

		feeOn, protocolFee, err = k.mintFee(ctx, &pair)
		if err != nil {
			return err
		}

		if pair.TotalSupply.IsZero() {
			liquidity = types.Sqrt(amount0.Mul(amount1)).SubRaw(types.MinimumLiquidity)
			if !liquidity.IsPositive() {
				return types.ErrInsufficientLiquidityMinted.Wrapf("first deposit %s/%s is below minimum liquidity", amount0, amount1)
			}
			// permanently lock the first MinimumLiquidity tokens
			if err := k.mintClaim(ctx, &pair, types.LockedLiquidityAddress(), math.NewInt(types.MinimumLiquidity)); err != nil {
				return err
			}
		} else {
			liquidity = math.MinInt(
				amount0.Mul(pair.TotalSupply).Quo(pair.Reserve0),
				amount1.Mul(pair.TotalSupply).Quo(pair.Reserve1),
			)
		}
		if !liquidity.IsPositive() {
			return types.ErrInsufficientLiquidityMinted.Wrapf("deposit %s/%s", amount0, amount1)
		}
		if err := k.mintClaim(ctx, &pair, to, liquidity); err != nil {
			return err
		}

		if feeOn {
			pair.KLast = balance0.Mul(balance1)
		}
		if err := k.update(ctx, &pair, balance0, balance1); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeMint,
				sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pairID)),
				sdk.NewAttribute(types.AttributeKeyTo, to.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
			),
		)

		if k.hooks != nil {
			if err := k.hooks.AfterLiquidityChanged(ctx, pairID, to.String(), amount0, amount1, liquidity, true); err != nil {
				return fmt.Errorf("AfterLiquidityChanged hook: %w", err)
			}
		}

		committed = pair
		return nil
	})
	if err != nil {
		return math.Int{}, err
	}

	k.metrics.LiquidityMinted.WithLabelValues(pairLabel(pairID)).Add(intToFloat(liquidity))
	k.recordProtocolFee(pairID, protocolFee)
	k.recordPairMetrics(committed)
	return liquidity, nil
}

// Burn redeems the claim tokens held by the pair account and sends the
// proportional share of both reserves to `to`. The caller must transfer the
// claim tokens to the pair address first.
func (k Keeper) Burn(ctx context.Context, pairID uint64, to sdk.AccAddress) (math.Int, math.Int, error) {
	if err := validateParties(to); err != nil {
		return math.Int{}, math.Int{}, err
	}

	var (
		amount0, amount1 math.Int
		liquidity        math.Int
		protocolFee      math.Int
		feeOn            bool
		committed        types.Pair
	)
	err := k.executeAtomic(ctx, pairID, "burn", func(ctx sdk.Context) error {
		ctx.GasMeter().ConsumeGas(types.GasBurn, "amm burn")

		pair, err := k.GetPair(ctx, pairID)
		if err != nil {
			return err
		}
		pairAddr := pair.GetAddress()
		liquidity = k.ClaimBalance(ctx, pairID, pairAddr)

		feeOn, protocolFee, err = k.mintFee(ctx, &pair)
		if err != nil {
			return err
		}
		if !pair.TotalSupply.IsPositive() {
			return types.ErrInsufficientLiquidityBurned.Wrapf("pair %d has no claim supply", pairID)
		}

		// pro rata share of the recorded reserves, rounded down
		amount0 = liquidity.Mul(pair.Reserve0).Quo(pair.TotalSupply)
		amount1 = liquidity.Mul(pair.Reserve1).Quo(pair.TotalSupply)
		if !amount0.IsPositive() || !amount1.IsPositive() {
			return types.ErrInsufficientLiquidityBurned.Wrapf("redeeming %s yields %s/%s", liquidity, amount0, amount1)
		}

		if err := k.burnClaim(ctx, &pair, pairAddr, liquidity); err != nil {
			return err
		}
		if err := k.sendFromPair(ctx, pair, to, pair.Asset0, amount0); err != nil {
			return err
		}
		if err := k.sendFromPair(ctx, pair, to, pair.Asset1, amount1); err != nil {
			return err
		}

		balance0, balance1 := k.pairBalances(ctx, pair)
		if feeOn {
			pair.KLast = balance0.Mul(balance1)
		}
		if err := k.update(ctx, &pair, balance0, balance1); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(
			sdk.NewEvent(
				types.EventTypeBurn,
				sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pairID)),
				sdk.NewAttribute(types.AttributeKeyTo, to.String()),
				sdk.NewAttribute(types.AttributeKeyAmount0, amount0.String()),
				sdk.NewAttribute(types.AttributeKeyAmount1, amount1.String()),
				sdk.NewAttribute(types.AttributeKeyLiquidity, liquidity.String()),
			),
		)

		if k.hooks != nil {
			if err := k.hooks.AfterLiquidityChanged(ctx, pairID, to.String(), amount0, amount1, liquidity, false); err != nil {
				return fmt.Errorf("AfterLiquidityChanged hook: %w", err)
			}
		}

		committed = pair
		return nil
	})
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.metrics.LiquidityBurned.WithLabelValues(pairLabel(pairID)).Add(intToFloat(liquidity))
	k.recordProtocolFee(pairID, protocolFee)
	k.recordPairMetrics(committed)
	return amount0, amount1, nil
}

// mintFee mints the protocol's share of the fee growth since the last
// liquidity event: one sixth of the growth in sqrt(k), expressed as claim
// tokens and rounded down. It reports whether the protocol fee is on and how
// much was minted.
func (k Keeper) mintFee(ctx sdk.Context, pair *types.Pair) (bool, math.Int, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return false, math.ZeroInt(), err
	}

	if !params.FeeOn() {
		if !pair.KLast.IsZero() {
			pair.KLast = math.ZeroInt()
		}
		return false, math.ZeroInt(), nil
	}
	if pair.KLast.IsZero() {
		return true, math.ZeroInt(), nil
	}

	rootK := types.Sqrt(pair.K())
	rootKLast := types.Sqrt(pair.KLast)
	if rootK.LTE(rootKLast) {
		return true, math.ZeroInt(), nil
	}

	numerator := pair.TotalSupply.Mul(rootK.Sub(rootKLast))
	denominator := rootK.MulRaw(5).Add(rootKLast)
	liquidity := numerator.Quo(denominator)
	if !liquidity.IsPositive() {
		return true, math.ZeroInt(), nil
	}

	feeTo, err := sdk.AccAddressFromBech32(params.FeeTo)
	if err != nil {
		return true, math.ZeroInt(), fmt.Errorf("mintFee: fee_to: %w", err)
	}
	if err := k.mintClaim(ctx, pair, feeTo, liquidity); err != nil {
		return true, math.ZeroInt(), err
	}

	k.Logger(ctx).Debug("protocol fee minted",
		"pair_id", pair.Id,
		"fee_to", params.FeeTo,
		"liquidity", liquidity.String(),
	)
	return true, liquidity, nil
}

func (k Keeper) recordProtocolFee(pairID uint64, minted math.Int) {
	if minted.IsNil() || !minted.IsPositive() {
		return
	}
	k.metrics.ProtocolFees.WithLabelValues(pairLabel(pairID)).Add(intToFloat(minted))
}
