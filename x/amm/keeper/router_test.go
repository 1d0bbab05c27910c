package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

func (suite *KeeperTestSuite) deadline() time.Time {
	return suite.ctx.BlockTime().Add(time.Minute)
}

func (suite *KeeperTestSuite) TestAddLiquidity() {
	suite.fund(alice, sdk.NewInt64Coin("uatom", 20_000), sdk.NewInt64Coin("uosmo", 20_000))
	zero := math.ZeroInt()

	// creates the pair on first use
	amountA, amountB, liquidity, err := suite.keeper.AddLiquidity(suite.ctx, alice, "uosmo", "uatom",
		math.NewInt(10_000), math.NewInt(10_000), zero, zero, alice, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(int64(10_000), amountA.Int64())
	suite.Require().Equal(int64(10_000), amountB.Int64())
	suite.Require().Equal(int64(9_000), liquidity.Int64())

	pair, err := suite.keeper.GetPairByAssets(suite.ctx, "uatom", "uosmo")
	suite.Require().NoError(err)
	suite.Require().Equal(int64(9_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, alice).Int64())

	// B is trimmed to the pool ratio
	amountA, amountB, liquidity, err = suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(5_000), math.NewInt(6_000), zero, zero, alice, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(int64(5_000), amountA.Int64())
	suite.Require().Equal(int64(5_000), amountB.Int64())
	suite.Require().Equal(int64(5_000), liquidity.Int64())
	suite.Require().Equal(int64(5_000), suite.balance(alice, "uosmo").Int64())

	// A is trimmed when B is the binding side
	amountA, amountB, _, err = suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(5_000), math.NewInt(1_000), zero, zero, alice, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(int64(1_000), amountA.Int64())
	suite.Require().Equal(int64(1_000), amountB.Int64())
}

func (suite *KeeperTestSuite) TestAddLiquidityMinimums() {
	suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	suite.fund(alice, sdk.NewInt64Coin("uatom", 10_000), sdk.NewInt64Coin("uosmo", 10_000))
	zero := math.ZeroInt()

	_, _, _, err := suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(5_000), math.NewInt(6_000), zero, math.NewInt(5_500), alice, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientBAmount)

	_, _, _, err = suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(5_000), math.NewInt(1_000), math.NewInt(2_000), zero, alice, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientAAmount)

	_, _, _, err = suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		zero, math.NewInt(1_000), zero, zero, alice, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)

	// nothing left alice's account
	suite.Require().Equal(int64(10_000), suite.balance(alice, "uatom").Int64())
	suite.Require().Equal(int64(10_000), suite.balance(alice, "uosmo").Int64())
}

func (suite *KeeperTestSuite) TestAddLiquidityRollsBackPairCreation() {
	suite.fund(alice, sdk.NewInt64Coin("uatom", 1_000), sdk.NewInt64Coin("uosmo", 1_000))
	zero := math.ZeroInt()

	// the first deposit is too small, so the new pair goes away too
	_, _, _, err := suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(1_000), math.NewInt(1_000), zero, zero, alice, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientLiquidityMinted)

	_, err = suite.keeper.GetPairByAssets(suite.ctx, "uatom", "uosmo")
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
	suite.Require().Equal(uint64(0), suite.keeper.AllPairsLength(suite.ctx))
	suite.Require().Equal(int64(1_000), suite.balance(alice, "uatom").Int64())
}

func (suite *KeeperTestSuite) TestRouterDeadline() {
	suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	expired := suite.ctx.BlockTime().Add(-time.Second)
	one := math.NewInt(1)

	_, _, _, err := suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo", one, one, one, one, alice, expired)
	suite.Require().ErrorIs(err, types.ErrExpired)
	_, _, err = suite.keeper.RemoveLiquidity(suite.ctx, alice, "uatom", "uosmo", one, one, one, alice, expired)
	suite.Require().ErrorIs(err, types.ErrExpired)
	_, err = suite.keeper.SwapExactAssetsForAssets(suite.ctx, alice, one, one, []string{"uatom", "uosmo"}, alice, expired)
	suite.Require().ErrorIs(err, types.ErrExpired)
	_, err = suite.keeper.SwapAssetsForExactAssets(suite.ctx, alice, one, one, []string{"uatom", "uosmo"}, alice, expired)
	suite.Require().ErrorIs(err, types.ErrExpired)

	// a deadline equal to the block time is still valid
	suite.fund(alice, sdk.NewInt64Coin("uatom", 100))
	_, err = suite.keeper.SwapExactAssetsForAssets(suite.ctx, alice, math.NewInt(100), one, []string{"uatom", "uosmo"}, alice, suite.ctx.BlockTime())
	suite.Require().NoError(err)
}

func (suite *KeeperTestSuite) TestRemoveLiquidity() {
	suite.fund(alice, sdk.NewInt64Coin("uatom", 10_000), sdk.NewInt64Coin("uosmo", 10_000))
	zero := math.ZeroInt()
	_, _, _, err := suite.keeper.AddLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(10_000), math.NewInt(10_000), zero, zero, alice, suite.deadline())
	suite.Require().NoError(err)
	pair, err := suite.keeper.GetPairByAssets(suite.ctx, "uatom", "uosmo")
	suite.Require().NoError(err)

	// minimums not met: the claim transfer is undone with the burn
	_, _, err = suite.keeper.RemoveLiquidity(suite.ctx, alice, "uosmo", "uatom",
		math.NewInt(1_000), math.NewInt(1_001), zero, bob, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientAAmount)
	suite.Require().Equal(int64(9_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, alice).Int64())
	suite.Require().True(suite.keeper.ClaimBalance(suite.ctx, pair.Id, pair.GetAddress()).IsZero())

	amountA, amountB, err := suite.keeper.RemoveLiquidity(suite.ctx, alice, "uosmo", "uatom",
		math.NewInt(4_500), math.NewInt(4_500), math.NewInt(4_500), bob, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(int64(4_500), amountA.Int64())
	suite.Require().Equal(int64(4_500), amountB.Int64())
	suite.Require().Equal(int64(4_500), suite.balance(bob, "uatom").Int64())
	suite.Require().Equal(int64(4_500), suite.balance(bob, "uosmo").Int64())
	suite.Require().Equal(int64(4_500), suite.keeper.ClaimBalance(suite.ctx, pair.Id, alice).Int64())

	_, _, err = suite.keeper.RemoveLiquidity(suite.ctx, alice, "uatom", "uosmo",
		math.NewInt(4_501), zero, zero, bob, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientClaimBalance)

	_, _, err = suite.keeper.RemoveLiquidity(suite.ctx, alice, "uatom", "ujuno",
		math.NewInt(1), zero, zero, bob, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
}

func (suite *KeeperTestSuite) multiHopPools() {
	suite.fundedPair("uatom", "uosmo", 1_000_000, 1_000_000)
	suite.fundedPair("ujuno", "uosmo", 1_000_000, 1_000_000)
}

func (suite *KeeperTestSuite) TestSwapExactAssetsForAssetsMultiHop() {
	suite.multiHopPools()
	suite.fund(bob, sdk.NewInt64Coin("uatom", 10_000))
	path := []string{"uatom", "uosmo", "ujuno"}

	quoted, err := suite.keeper.GetAmountsOut(suite.ctx, math.NewInt(10_000), path)
	suite.Require().NoError(err)
	suite.Require().Len(quoted, 3)
	suite.Require().Equal(int64(9_871), quoted[1].Int64())
	suite.Require().Equal(int64(9_745), quoted[2].Int64())

	_, err = suite.keeper.SwapExactAssetsForAssets(suite.ctx, bob, math.NewInt(10_000), math.NewInt(9_746), path, charlie, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInsufficientOutputAmount)
	suite.Require().Equal(int64(10_000), suite.balance(bob, "uatom").Int64())

	amounts, err := suite.keeper.SwapExactAssetsForAssets(suite.ctx, bob, math.NewInt(10_000), math.NewInt(9_745), path, charlie, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(quoted[2].Int64(), amounts[2].Int64())
	suite.Require().True(suite.balance(bob, "uatom").IsZero())
	suite.Require().Equal(int64(9_745), suite.balance(charlie, "ujuno").Int64())
	// the intermediate asset never touches the recipient
	suite.Require().True(suite.balance(charlie, "uosmo").IsZero())

	first, err := suite.keeper.GetPairByAssets(suite.ctx, "uatom", "uosmo")
	suite.Require().NoError(err)
	suite.Require().Equal(int64(1_010_000), first.Reserve0.Int64())
	suite.Require().Equal(int64(1_000_000-9_871), first.Reserve1.Int64())
}

func (suite *KeeperTestSuite) TestSwapAssetsForExactAssetsMultiHop() {
	suite.multiHopPools()
	suite.fund(bob, sdk.NewInt64Coin("uatom", 10_000))
	path := []string{"uatom", "uosmo", "ujuno"}

	quoted, err := suite.keeper.GetAmountsIn(suite.ctx, math.NewInt(5_000), path)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(5_082), quoted[0].Int64())
	suite.Require().Equal(int64(5_041), quoted[1].Int64())

	_, err = suite.keeper.SwapAssetsForExactAssets(suite.ctx, bob, math.NewInt(5_000), math.NewInt(5_081), path, charlie, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrExcessiveInputAmount)

	amounts, err := suite.keeper.SwapAssetsForExactAssets(suite.ctx, bob, math.NewInt(5_000), math.NewInt(5_082), path, charlie, suite.deadline())
	suite.Require().NoError(err)
	suite.Require().Equal(int64(5_082), amounts[0].Int64())
	suite.Require().Equal(int64(10_000-5_082), suite.balance(bob, "uatom").Int64())
	suite.Require().Equal(int64(5_000), suite.balance(charlie, "ujuno").Int64())
}

func (suite *KeeperTestSuite) TestRouterPathErrors() {
	suite.multiHopPools()
	one := math.NewInt(1)

	_, err := suite.keeper.GetAmountsOut(suite.ctx, one, []string{"uatom"})
	suite.Require().ErrorIs(err, types.ErrInvalidPath)
	_, err = suite.keeper.GetAmountsIn(suite.ctx, one, nil)
	suite.Require().ErrorIs(err, types.ErrInvalidPath)
	_, err = suite.keeper.GetAmountsOut(suite.ctx, one, []string{"uatom", "uatom"})
	suite.Require().ErrorIs(err, types.ErrInvalidPath)
	_, err = suite.keeper.GetAmountsOut(suite.ctx, one, []string{"uatom", "ujuno"})
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
	_, err = suite.keeper.GetAmountsIn(suite.ctx, math.NewInt(1_000_000), []string{"uatom", "uosmo"})
	suite.Require().ErrorIs(err, types.ErrInsufficientLiquidity)
	_, err = suite.keeper.SwapExactAssetsForAssets(suite.ctx, bob, one, one, []string{"uosmo"}, bob, suite.deadline())
	suite.Require().ErrorIs(err, types.ErrInvalidPath)
}
