package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Pair is the reserve state of one canonically ordered asset pair.
type Pair struct {
	Id                   uint64      `json:"id"`
	Address              string      `json:"address"`
	Asset0               string      `json:"asset0"`
	Asset1               string      `json:"asset1"`
	Reserve0             math.Int    `json:"reserve0"`
	Reserve1             math.Int    `json:"reserve1"`
	BlockTimestampLast   uint32      `json:"block_timestamp_last"`
	Price0CumulativeLast Accumulator `json:"price0_cumulative_last"`
	Price1CumulativeLast Accumulator `json:"price1_cumulative_last"`
	TotalSupply          math.Int    `json:"total_supply"`
	KLast                math.Int    `json:"k_last"`
}

// NewPair returns an empty pair for two assets that are already sorted.
func NewPair(id uint64, asset0, asset1 string) Pair {
	return Pair{
		Id:                   id,
		Address:              PairAddress(asset0, asset1).String(),
		Asset0:               asset0,
		Asset1:               asset1,
		Reserve0:             math.ZeroInt(),
		Reserve1:             math.ZeroInt(),
		Price0CumulativeLast: ZeroAccumulator(),
		Price1CumulativeLast: ZeroAccumulator(),
		TotalSupply:          math.ZeroInt(),
		KLast:                math.ZeroInt(),
	}
}

// GetAddress returns the custody account of the pair.
func (p Pair) GetAddress() sdk.AccAddress {
	return PairAddress(p.Asset0, p.Asset1)
}

// Key returns the display name of the pair.
func (p Pair) Key() string {
	return PairKey(p.Asset0, p.Asset1)
}

// Identity returns the canonical identity of the pair.
func (p Pair) Identity() []byte {
	return PairIdentity(p.Asset0, p.Asset1)
}

// HasAsset reports whether denom is one of the two assets.
func (p Pair) HasAsset(denom string) bool {
	return denom == p.Asset0 || denom == p.Asset1
}

// K returns reserve0 * reserve1.
func (p Pair) K() math.Int {
	return p.Reserve0.Mul(p.Reserve1)
}

// ReservesFor returns the reserves ordered as (in, out) for a swap that sells
// assetIn.
func (p Pair) ReservesFor(assetIn string) (math.Int, math.Int, error) {
	switch assetIn {
	case p.Asset0:
		return p.Reserve0, p.Reserve1, nil
	case p.Asset1:
		return p.Reserve1, p.Reserve0, nil
	default:
		return math.Int{}, math.Int{}, ErrInvalidAsset.Wrapf("%s is not in pair %d", assetIn, p.Id)
	}
}

// Validate performs stateless checks on a stored pair.
func (p Pair) Validate() error {
	if p.Id == 0 {
		return fmt.Errorf("pair id must be positive")
	}
	asset0, asset1, err := SortAssets(p.Asset0, p.Asset1)
	if err != nil {
		return err
	}
	if asset0 != p.Asset0 || asset1 != p.Asset1 {
		return fmt.Errorf("pair %d assets not in canonical order: %s, %s", p.Id, p.Asset0, p.Asset1)
	}
	if expected := PairAddress(asset0, asset1).String(); p.Address != expected {
		return fmt.Errorf("pair %d address %s, expected %s", p.Id, p.Address, expected)
	}

	for name, v := range map[string]math.Int{
		"reserve0":     p.Reserve0,
		"reserve1":     p.Reserve1,
		"total_supply": p.TotalSupply,
		"k_last":       p.KLast,
	} {
		if v.IsNil() || v.IsNegative() {
			return fmt.Errorf("pair %d %s must be non-negative", p.Id, name)
		}
	}
	if p.Reserve0.GT(MaxReserve) || p.Reserve1.GT(MaxReserve) {
		return ErrOverflow.Wrapf("pair %d reserves exceed 112 bits", p.Id)
	}
	if p.TotalSupply.IsPositive() && (!p.Reserve0.IsPositive() || !p.Reserve1.IsPositive()) {
		return fmt.Errorf("pair %d has claim supply %s with empty reserves", p.Id, p.TotalSupply)
	}
	if err := p.Price0CumulativeLast.Validate(); err != nil {
		return err
	}
	return p.Price1CumulativeLast.Validate()
}
