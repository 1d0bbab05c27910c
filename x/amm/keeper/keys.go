package keeper

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"

	"github.com/paw-chain/pawswap/x/amm/types"
)

var (
	// PairKeyPrefix is the prefix for pair store keys
	PairKeyPrefix = []byte{0x01}

	// PairCountKey holds the number of pairs created so far
	PairCountKey = []byte{0x02}

	// PairByAssetsKeyPrefix indexes pair ids by canonical pair key
	PairByAssetsKeyPrefix = []byte{0x03}

	// ClaimBalanceKeyPrefix is the prefix for claim token balances
	ClaimBalanceKeyPrefix = []byte{0x04}

	// AllowanceKeyPrefix is the prefix for claim token allowances
	AllowanceKeyPrefix = []byte{0x05}

	// PermitNonceKeyPrefix is the prefix for permit nonces
	PermitNonceKeyPrefix = []byte{0x06}

	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x07}

	// ReentrancyLockKeyPrefix is the prefix for pair locks. Locks only ever
	// exist inside an uncommitted operation scope.
	ReentrancyLockKeyPrefix = []byte{0x08}
)

func pairIDBytes(pairID uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, pairID)
	return bz
}

func prefixed(prefix []byte, parts ...[]byte) []byte {
	key := make([]byte, 0, 64)
	key = append(key, prefix...)
	for _, p := range parts {
		key = append(key, p...)
	}
	return key
}

// PairKey returns the store key for a pair by ID
func PairKey(pairID uint64) []byte {
	return prefixed(PairKeyPrefix, pairIDBytes(pairID))
}

// PairByAssetsKey returns the index key of a pair. Argument order does not
// matter.
func PairByAssetsKey(assetA, assetB string) []byte {
	return prefixed(PairByAssetsKeyPrefix, types.PairIdentity(assetA, assetB))
}

// ClaimBalanceKey returns the store key of an account's claim balance
func ClaimBalanceKey(pairID uint64, addr sdk.AccAddress) []byte {
	return prefixed(ClaimBalanceKeyPrefix, pairIDBytes(pairID), address.MustLengthPrefix(addr))
}

// AllowanceKey returns the store key of a claim token allowance
func AllowanceKey(pairID uint64, owner, spender sdk.AccAddress) []byte {
	return prefixed(AllowanceKeyPrefix, pairIDBytes(pairID), address.MustLengthPrefix(owner), address.MustLengthPrefix(spender))
}

// PermitNonceKey returns the store key of an owner's permit nonce
func PermitNonceKey(pairID uint64, owner sdk.AccAddress) []byte {
	return prefixed(PermitNonceKeyPrefix, pairIDBytes(pairID), address.MustLengthPrefix(owner))
}

// ReentrancyLockKey returns the lock key of a pair
func ReentrancyLockKey(pairID uint64) []byte {
	return prefixed(ReentrancyLockKeyPrefix, pairIDBytes(pairID))
}

// splitPairAddressKey parses the remainder of a claim balance or nonce key
// after its prefix.
func splitPairAddressKey(key []byte) (uint64, sdk.AccAddress, []byte) {
	pairID := binary.BigEndian.Uint64(key[:8])
	n := int(key[8])
	return pairID, sdk.AccAddress(key[9 : 9+n]), key[9+n:]
}
