package keeper

import (
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/pawswap/testutil/bank"
	"github.com/paw-chain/pawswap/x/amm/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

// TestChainID is the chain id of contexts built by AmmKeeper.
const TestChainID = "pawswap-test-1"

// TestGenesisTime is the block time of contexts built by AmmKeeper.
var TestGenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// TestAuthority is the default fee setter of test keepers.
var TestAuthority = sdk.AccAddress([]byte("amm_test_authority__"))

// AmmKeeper creates a test keeper for the amm module over an IAVL multistore
// with a store-backed bank ledger mounted next to it.
func AmmKeeper(t testing.TB) (*keeper.Keeper, sdk.Context, *bank.Keeper) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey(bank.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bankKeeper := bank.NewKeeper(bankKey)
	k := keeper.NewKeeper(storeKey, bankKeeper, TestAuthority.String())

	header := cmtproto.Header{ChainID: TestChainID, Height: 1, Time: TestGenesisTime}
	ctx := sdk.NewContext(stateStore, header, false, log.NewNopLogger())

	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis(TestAuthority.String())))
	return k, ctx, bankKeeper
}

// FundAccount mints coins to addr.
func FundAccount(t testing.TB, bk *bank.Keeper, ctx sdk.Context, addr sdk.AccAddress, coins ...sdk.Coin) {
	require.NoError(t, bk.MintCoins(ctx, addr, sdk.NewCoins(coins...)))
}

// CreateFundedPair creates the pair and makes the first deposit from a fresh
// provider, returning the pair and the provider's claim tokens.
func CreateFundedPair(t testing.TB, k *keeper.Keeper, bk *bank.Keeper, ctx sdk.Context, assetA, assetB string, amountA, amountB math.Int) (types.Pair, sdk.AccAddress, math.Int) {
	pair, err := k.CreatePair(ctx, assetA, assetB)
	require.NoError(t, err)

	provider := sdk.AccAddress(address.Module("provider", pair.Identity()))
	FundAccount(t, bk, ctx, pair.GetAddress(), sdk.NewCoin(assetA, amountA), sdk.NewCoin(assetB, amountB))

	liquidity, err := k.Mint(ctx, pair.Id, provider)
	require.NoError(t, err)

	updated, err := k.GetPair(ctx, pair.Id)
	require.NoError(t, err)
	return updated, provider, liquidity
}

// AdvanceTime returns ctx moved forward by d and one block.
func AdvanceTime(ctx sdk.Context, d time.Duration) sdk.Context {
	return ctx.WithBlockTime(ctx.BlockTime().Add(d)).WithBlockHeight(ctx.BlockHeight() + 1)
}
