package types

import (
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Swap fee: FeeNumerator/FeeDenominator of every input amount stays in the
// pool.
const (
	FeeNumerator   int64 = 3
	FeeDenominator int64 = 1000
)

var (
	// MaxReserve is the largest value a reserve may hold (2^112 - 1).
	MaxReserve = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 112), big.NewInt(1)))

	// MaxAllowance is an allowance that is never decremented (2^256 - 1).
	MaxAllowance = math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))
)

// SortAssets returns the two assets in canonical order.
func SortAssets(assetA, assetB string) (string, string, error) {
	if assetA == assetB {
		return "", "", ErrIdenticalAssets.Wrapf("%s", assetA)
	}
	if err := sdk.ValidateDenom(assetA); err != nil {
		return "", "", ErrInvalidAsset.Wrapf("%q: %v", assetA, err)
	}
	if err := sdk.ValidateDenom(assetB); err != nil {
		return "", "", ErrInvalidAsset.Wrapf("%q: %v", assetB, err)
	}
	if assetA > assetB {
		return assetB, assetA, nil
	}
	return assetA, assetB, nil
}

// Sqrt returns floor(sqrt(x)) for a non-negative x.
func Sqrt(x math.Int) math.Int {
	if !x.IsPositive() {
		return math.ZeroInt()
	}
	return math.NewIntFromBigInt(new(big.Int).Sqrt(x.BigInt()))
}

// Quote returns the amount of B worth amountA at the current reserve ratio.
func Quote(amountA, reserveA, reserveB math.Int) (math.Int, error) {
	if !amountA.IsPositive() {
		return math.ZeroInt(), ErrInsufficientAmount.Wrapf("amount %s", amountA)
	}
	if !reserveA.IsPositive() || !reserveB.IsPositive() {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrapf("reserves %s/%s", reserveA, reserveB)
	}
	product, err := amountA.SafeMul(reserveB)
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("quote %s * %s: %v", amountA, reserveB, err)
	}
	return product.Quo(reserveA), nil
}

// GetAmountOut returns the maximum output for amountIn after the swap fee.
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int) (math.Int, error) {
	if !amountIn.IsPositive() {
		return math.ZeroInt(), ErrInsufficientInputAmount.Wrapf("amount in %s", amountIn)
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrapf("reserves %s/%s", reserveIn, reserveOut)
	}

	amountInWithFee, err := amountIn.SafeMul(math.NewInt(FeeDenominator - FeeNumerator))
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("amount in %s: %v", amountIn, err)
	}
	numerator, err := amountInWithFee.SafeMul(reserveOut)
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("numerator: %v", err)
	}
	denominator, err := reserveIn.MulRaw(FeeDenominator).SafeAdd(amountInWithFee)
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("denominator: %v", err)
	}
	return numerator.Quo(denominator), nil
}

// GetAmountIn returns the minimum input that buys amountOut after the swap fee.
func GetAmountIn(amountOut, reserveIn, reserveOut math.Int) (math.Int, error) {
	if !amountOut.IsPositive() {
		return math.ZeroInt(), ErrInsufficientOutputAmount.Wrapf("amount out %s", amountOut)
	}
	if !reserveIn.IsPositive() || !reserveOut.IsPositive() {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrapf("reserves %s/%s", reserveIn, reserveOut)
	}
	if amountOut.GTE(reserveOut) {
		return math.ZeroInt(), ErrInsufficientLiquidity.Wrapf("amount out %s >= reserve %s", amountOut, reserveOut)
	}

	numerator, err := reserveIn.SafeMul(amountOut)
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("numerator: %v", err)
	}
	numerator, err = numerator.SafeMul(math.NewInt(FeeDenominator))
	if err != nil {
		return math.ZeroInt(), ErrOverflow.Wrapf("numerator: %v", err)
	}
	denominator := reserveOut.Sub(amountOut).MulRaw(FeeDenominator - FeeNumerator)
	return numerator.Quo(denominator).AddRaw(1), nil
}

// AdjustedBalance is balance*FeeDenominator - amountIn*FeeNumerator, the
// balance a swap is measured with once the retained fee is set aside.
func AdjustedBalance(balance, amountIn math.Int) math.Int {
	return balance.MulRaw(FeeDenominator).Sub(amountIn.MulRaw(FeeNumerator))
}

// VerifyInvariant checks that the fee adjusted product of the post-swap
// balances is not below the product of the pre-swap reserves. Balances must
// already be bounded by MaxReserve.
func VerifyInvariant(balance0, balance1, amount0In, amount1In, reserve0, reserve1 math.Int) error {
	adjusted0 := AdjustedBalance(balance0, amount0In)
	adjusted1 := AdjustedBalance(balance1, amount1In)

	lhs := adjusted0.Mul(adjusted1)
	rhs := reserve0.Mul(reserve1).MulRaw(FeeDenominator * FeeDenominator)
	if lhs.LT(rhs) {
		return ErrInvariantViolation.Wrapf("adjusted product %s < %s", lhs, rhs)
	}
	return nil
}
