package keeper_test

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

func (suite *KeeperTestSuite) requireInvariants() {
	msg, broken := keeper.AllInvariants(*suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)
}

func (suite *KeeperTestSuite) TestInvariantsHoldAfterOperations() {
	suite.requireInvariants()

	pair, provider, liquidity := suite.fundedPair("uatom", "uosmo", 50_000, 20_000)
	_, err := suite.keeper.CreatePair(suite.ctx, "ujuno", "uatom")
	suite.Require().NoError(err)
	suite.requireInvariants()

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uosmo", 1_000))
	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.NewInt(2_000), math.ZeroInt(), bob, nil))
	suite.requireInvariants()

	// a donation leaves the balances above the reserves
	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 77))
	suite.requireInvariants()

	suite.Require().NoError(suite.keeper.TransferClaim(suite.ctx, pair.Id, provider, pair.GetAddress(), liquidity.QuoRaw(2)))
	_, _, err = suite.keeper.Burn(suite.ctx, pair.Id, provider)
	suite.Require().NoError(err)
	suite.requireInvariants()
}

func (suite *KeeperTestSuite) TestInvariantsDetectCorruption() {
	testCases := []struct {
		name      string
		invariant func(keeper.Keeper) sdk.Invariant
		corrupt   func(pair *types.Pair)
	}{
		{
			"reserves above balance",
			keeper.PairReservesInvariant,
			func(pair *types.Pair) { pair.Reserve0 = pair.Reserve0.AddRaw(1) },
		},
		{
			"supply mismatch",
			keeper.ClaimSupplyInvariant,
			func(pair *types.Pair) { pair.TotalSupply = pair.TotalSupply.AddRaw(5) },
		},
		{
			"empty reserve with supply",
			keeper.PositiveReservesInvariant,
			func(pair *types.Pair) { pair.Reserve1 = math.ZeroInt() },
		},
		{
			"oversized reserve",
			keeper.ReserveBoundsInvariant,
			func(pair *types.Pair) { pair.Reserve0 = types.MaxReserve.AddRaw(1) },
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

			_, broken := tc.invariant(*suite.keeper)(suite.ctx)
			suite.Require().False(broken)

			tc.corrupt(&pair)
			suite.Require().NoError(keeper.SetPairForTest(suite.keeper, suite.ctx, pair))

			msg, broken := tc.invariant(*suite.keeper)(suite.ctx)
			suite.Require().True(broken)
			suite.Require().Contains(msg, "pair 1")

			_, broken = keeper.AllInvariants(*suite.keeper)(suite.ctx)
			suite.Require().True(broken)
		})
	}
}

func (suite *KeeperTestSuite) TestMinimumLiquidityInvariantDetectsMovedLock() {
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	// the only way to move locked claims is to rewrite genesis
	gs, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)
	for i, b := range gs.ClaimBalances {
		switch b.Address {
		case types.LockedLiquidityAddress().String():
			gs.ClaimBalances[i].Amount = math.NewInt(500)
		case provider.String():
			gs.ClaimBalances[i].Amount = b.Amount.AddRaw(500)
		}
	}
	suite.SetupTest()
	suite.Require().NoError(suite.keeper.InitGenesis(suite.ctx, *gs))
	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 10_000), sdk.NewInt64Coin("uosmo", 10_000))

	msg, broken := keeper.MinimumLiquidityInvariant(*suite.keeper)(suite.ctx)
	suite.Require().True(broken)
	suite.Require().Contains(msg, "locked liquidity 500")

	_, broken = keeper.ClaimSupplyInvariant(*suite.keeper)(suite.ctx)
	suite.Require().False(broken)
}

func (suite *KeeperTestSuite) TestMinimumLiquidityInvariantAllowsDonationsToLock() {
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	locked := types.LockedLiquidityAddress()

	suite.Require().NoError(suite.keeper.TransferClaim(suite.ctx, pair.Id, provider, locked, math.NewInt(1)))
	suite.Require().Equal(math.NewInt(types.MinimumLiquidity+1), suite.keeper.ClaimBalance(suite.ctx, pair.Id, locked))

	msg, broken := keeper.AllInvariants(*suite.keeper)(suite.ctx)
	suite.Require().False(broken, msg)

	// donated claims are locked as well
	err := suite.keeper.TransferClaim(suite.ctx, pair.Id, locked, provider, math.NewInt(1))
	suite.Require().ErrorIs(err, types.ErrLockedLiquidity)
}
