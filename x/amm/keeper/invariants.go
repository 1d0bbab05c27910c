package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// RegisterInvariants registers all amm invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "pair-reserves", PairReservesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "claim-supply", ClaimSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "positive-reserves", PositiveReservesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "minimum-liquidity", MinimumLiquidityInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reserve-bounds", ReserveBoundsInvariant(k))
}

// AllInvariants runs all invariants of the amm module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		for _, inv := range []sdk.Invariant{
			PairReservesInvariant(k),
			ClaimSupplyInvariant(k),
			PositiveReservesInvariant(k),
			MinimumLiquidityInvariant(k),
		} {
			if res, stop := inv(ctx); stop {
				return res, stop
			}
		}
		return ReserveBoundsInvariant(k)(ctx)
	}
}

// forEachPair collects one message per broken pair.
func forEachPair(ctx sdk.Context, k Keeper, check func(pair types.Pair) string) (string, int) {
	var (
		msg   string
		count int
	)
	err := k.IteratePairs(ctx, func(pair types.Pair) bool {
		if m := check(pair); m != "" {
			count++
			msg += m
		}
		return false
	})
	if err != nil {
		count++
		msg += fmt.Sprintf("cannot iterate pairs: %v\n", err)
	}
	return msg, count
}

// PairReservesInvariant checks that every pair account holds at least its
// recorded reserves.
func PairReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, count := forEachPair(ctx, k, func(pair types.Pair) string {
			balance0, balance1 := k.pairBalances(ctx, pair)
			var m string
			if balance0.LT(pair.Reserve0) {
				m += fmt.Sprintf("pair %d: balance %s%s < reserve %s\n", pair.Id, balance0, pair.Asset0, pair.Reserve0)
			}
			if balance1.LT(pair.Reserve1) {
				m += fmt.Sprintf("pair %d: balance %s%s < reserve %s\n", pair.Id, balance1, pair.Asset1, pair.Reserve1)
			}
			return m
		})
		return sdk.FormatInvariant(
			types.ModuleName, "pair-reserves",
			fmt.Sprintf("found %d pairs with reserves not backed by balances\n%s", count, msg),
		), count != 0
	}
}

// ClaimSupplyInvariant checks that the claim balances of each pair sum to its
// total supply.
func ClaimSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		sums := make(map[uint64]math.Int)
		iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), ClaimBalanceKeyPrefix)
		for ; iterator.Valid(); iterator.Next() {
			pairID, _, _ := splitPairAddressKey(iterator.Key()[len(ClaimBalanceKeyPrefix):])
			amount, err := decodeAmount(iterator.Value())
			if err != nil {
				continue
			}
			if s, ok := sums[pairID]; ok {
				sums[pairID] = s.Add(amount)
			} else {
				sums[pairID] = amount
			}
		}
		iterator.Close()

		msg, count := forEachPair(ctx, k, func(pair types.Pair) string {
			sum, ok := sums[pair.Id]
			if !ok {
				sum = math.ZeroInt()
			}
			if !sum.Equal(pair.TotalSupply) {
				return fmt.Sprintf("pair %d: claim balances sum to %s, total supply %s\n", pair.Id, sum, pair.TotalSupply)
			}
			return ""
		})
		return sdk.FormatInvariant(
			types.ModuleName, "claim-supply",
			fmt.Sprintf("found %d pairs with mismatched claim supply\n%s", count, msg),
		), count != 0
	}
}

// PositiveReservesInvariant checks that a pair with claim supply has both
// reserves positive.
func PositiveReservesInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, count := forEachPair(ctx, k, func(pair types.Pair) string {
			if pair.TotalSupply.IsPositive() && (!pair.Reserve0.IsPositive() || !pair.Reserve1.IsPositive()) {
				return fmt.Sprintf("pair %d: supply %s with reserves %s/%s\n", pair.Id, pair.TotalSupply, pair.Reserve0, pair.Reserve1)
			}
			return ""
		})
		return sdk.FormatInvariant(
			types.ModuleName, "positive-reserves",
			fmt.Sprintf("found %d pairs with empty reserves\n%s", count, msg),
		), count != 0
	}
}

// MinimumLiquidityInvariant checks that every funded pair still has at least
// the minimum liquidity in the locked account. Claims may be sent to the
// locked account but never leave it, so the balance can only grow.
func MinimumLiquidityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		locked := types.LockedLiquidityAddress()
		msg, count := forEachPair(ctx, k, func(pair types.Pair) string {
			if pair.TotalSupply.IsZero() {
				return ""
			}
			if held := k.ClaimBalance(ctx, pair.Id, locked); held.LT(math.NewInt(types.MinimumLiquidity)) {
				return fmt.Sprintf("pair %d: locked liquidity %s\n", pair.Id, held)
			}
			return ""
		})
		return sdk.FormatInvariant(
			types.ModuleName, "minimum-liquidity",
			fmt.Sprintf("found %d pairs with moved minimum liquidity\n%s", count, msg),
		), count != 0
	}
}

// ReserveBoundsInvariant checks that reserves fit 112 bits.
func ReserveBoundsInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		msg, count := forEachPair(ctx, k, func(pair types.Pair) string {
			if err := checkReserveBounds(pair.Reserve0, pair.Reserve1); err != nil {
				return fmt.Sprintf("pair %d: %v\n", pair.Id, err)
			}
			return ""
		})
		return sdk.FormatInvariant(
			types.ModuleName, "reserve-bounds",
			fmt.Sprintf("found %d pairs with oversized reserves\n%s", count, msg),
		), count != 0
	}
}
