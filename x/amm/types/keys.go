package types

import "encoding/binary"

const (
	// ModuleName defines the module name
	ModuleName = "amm"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName
)

// MinimumLiquidity is the quantity of claim tokens locked forever on the first
// deposit into a pair.
const MinimumLiquidity int64 = 1000

// Claim token metadata. Decimals are fixed regardless of the underlying assets.
const (
	ClaimTokenName     = "PawSwap Claim"
	ClaimTokenSymbol   = "PAWSWAP-LP"
	ClaimTokenDecimals = 18
)

// Flat gas charged per operation on top of the metered store accesses.
const (
	GasCreatePair uint64 = 20_000
	GasMint       uint64 = 10_000
	GasBurn       uint64 = 10_000
	GasSwap       uint64 = 10_000
	GasFlashSwap  uint64 = 5_000
	GasSync       uint64 = 2_000
	GasSkim       uint64 = 2_000
	GasPermit     uint64 = 8_000
)

// PairKey returns the display name of an asset pair. Both orderings of the
// same assets produce the same name. Denoms may contain '/', so the name is
// not unique; PairIdentity is.
func PairKey(assetA, assetB string) string {
	if assetA > assetB {
		assetA, assetB = assetB, assetA
	}
	return assetA + "/" + assetB
}

// PairIdentity returns the canonical identity of an asset pair: both denoms
// in byte order, each prefixed with its uvarint length. Both orderings of the
// same assets produce the same identity and distinct pairs never share one.
func PairIdentity(assetA, assetB string) []byte {
	if assetA > assetB {
		assetA, assetB = assetB, assetA
	}
	bz := make([]byte, 0, len(assetA)+len(assetB)+2*binary.MaxVarintLen64)
	bz = binary.AppendUvarint(bz, uint64(len(assetA)))
	bz = append(bz, assetA...)
	bz = binary.AppendUvarint(bz, uint64(len(assetB)))
	return append(bz, assetB...)
}
