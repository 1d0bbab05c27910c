package types

import (
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

// Resolution is the number of fractional bits of a UQ112x112 price.
const Resolution = 112

// AccumulatorBits is the width of the cumulative price counters. Counters wrap
// silently at this width; only differences between two readings are used.
const AccumulatorBits = 224

var (
	accumulatorMask = new(uint256.Int).Sub(
		new(uint256.Int).Lsh(uint256.NewInt(1), AccumulatorBits),
		uint256.NewInt(1),
	)
	decScale = new(big.Int).Exp(big.NewInt(10), big.NewInt(math.LegacyPrecision), nil)
)

// Accumulator is a 224-bit wrapping counter of time weighted UQ112x112 prices,
// persisted as a decimal string.
type Accumulator string

// NewAccumulator truncates v to the accumulator width.
func NewAccumulator(v *uint256.Int) Accumulator {
	return Accumulator(new(uint256.Int).And(v, accumulatorMask).Dec())
}

// ZeroAccumulator is the initial value of both counters of a new pair.
func ZeroAccumulator() Accumulator {
	return Accumulator("0")
}

// Uint256 returns the counter value. An empty accumulator reads as zero; a
// value that is not a decimal within 224 bits is an error.
func (a Accumulator) Uint256() (*uint256.Int, error) {
	if a == "" {
		return new(uint256.Int), nil
	}
	v, err := uint256.FromDecimal(string(a))
	if err != nil {
		return nil, ErrInvalidAccumulator.Wrapf("%q: %v", string(a), err)
	}
	if v.BitLen() > AccumulatorBits {
		return nil, ErrInvalidAccumulator.Wrapf("%s exceeds %d bits", a, AccumulatorBits)
	}
	return v, nil
}

// Validate checks that the stored value is a decimal within 224 bits.
func (a Accumulator) Validate() error {
	_, err := a.Uint256()
	return err
}

// String implements fmt.Stringer.
func (a Accumulator) String() string {
	if a == "" {
		return "0"
	}
	return string(a)
}

// Accumulate adds price*elapsed, wrapping at 2^224.
func (a Accumulator) Accumulate(price *uint256.Int, elapsed uint32) (Accumulator, error) {
	v, err := a.Uint256()
	if err != nil {
		return "", err
	}
	inc := new(uint256.Int).Mul(price, uint256.NewInt(uint64(elapsed)))
	return NewAccumulator(v.Add(v, inc)), nil
}

// AccumulatorDelta returns later-earlier in the 224-bit wrapping domain. The
// result is the true time weighted sum between the two readings even when the
// counter wrapped in between.
func AccumulatorDelta(later, earlier Accumulator) (*uint256.Int, error) {
	l, err := later.Uint256()
	if err != nil {
		return nil, err
	}
	e, err := earlier.Uint256()
	if err != nil {
		return nil, err
	}
	d := l.Sub(l, e)
	return d.And(d, accumulatorMask), nil
}

// EncodePrice returns numerator/denominator as a UQ112x112 number. Both inputs
// must fit in 112 bits; a zero denominator yields zero.
func EncodePrice(numerator, denominator math.Int) *uint256.Int {
	n := uint256.MustFromBig(numerator.BigInt())
	d := uint256.MustFromBig(denominator.BigInt())
	n.Lsh(n, Resolution)
	return n.Div(n, d)
}

// AveragePrice computes the UQ112x112 time weighted average price between two
// readings of the same counter. Timestamps are the 32-bit wrapping block
// timestamps recorded next to the readings.
func AveragePrice(start, end Accumulator, startTime, endTime uint32) (*uint256.Int, error) {
	elapsed := endTime - startTime
	if elapsed == 0 {
		return nil, ErrInvalidPeriod.Wrapf("no time elapsed between %d and %d", startTime, endTime)
	}
	delta, err := AccumulatorDelta(end, start)
	if err != nil {
		return nil, err
	}
	return delta.Div(delta, uint256.NewInt(uint64(elapsed))), nil
}

// DecodePrice converts a UQ112x112 number into a LegacyDec, truncating below
// 18 decimals.
func DecodePrice(uq *uint256.Int) math.LegacyDec {
	b := uq.ToBig()
	b.Mul(b, decScale)
	b.Rsh(b, Resolution)
	return math.LegacyNewDecFromBigIntWithPrec(b, math.LegacyPrecision)
}

// BlockTimestamp truncates a unix timestamp to the 32-bit wrapping domain used
// by the accumulators.
func BlockTimestamp(unix int64) uint32 {
	return uint32(uint64(unix) % (1 << 32))
}
