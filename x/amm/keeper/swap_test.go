package keeper_test

import (
	"context"
	"errors"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

var flashData = []byte("flash")

func (suite *KeeperTestSuite) TestSwapExactOutput() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 100))
	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(98), bob, nil))

	suite.Require().Equal(int64(98), suite.balance(bob, "uosmo").Int64())
	updated := suite.pair(pair.Id)
	suite.Require().Equal(int64(10_100), updated.Reserve0.Int64())
	suite.Require().Equal(int64(9_902), updated.Reserve1.Int64())
	suite.Require().True(updated.K().GT(pair.K()))
}

func (suite *KeeperTestSuite) TestSwapRejectsInvariantViolation() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 100))
	err := suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(99), bob, nil)
	suite.Require().ErrorIs(err, types.ErrInvariantViolation)

	// the optimistic transfer was discarded with the rest of the scope
	suite.Require().True(suite.balance(bob, "uosmo").IsZero())
	suite.Require().Equal(int64(10_000), suite.balance(pair.GetAddress(), "uosmo").Int64())
	updated := suite.pair(pair.Id)
	suite.Require().Equal(int64(10_000), updated.Reserve0.Int64())
	suite.Require().Equal(int64(10_000), updated.Reserve1.Int64())
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, pair.Id))
}

func (suite *KeeperTestSuite) TestSwapValidation() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	zero := math.ZeroInt()

	testCases := []struct {
		name       string
		amount0Out math.Int
		amount1Out math.Int
		to         sdk.AccAddress
		expErr     error
	}{
		{"no output", zero, zero, bob, types.ErrInsufficientOutputAmount},
		{"negative output", math.NewInt(-1), math.NewInt(10), bob, types.ErrInsufficientOutputAmount},
		{"drains reserve0", math.NewInt(10_000), zero, bob, types.ErrInsufficientLiquidity},
		{"exceeds reserve1", zero, math.NewInt(20_000), bob, types.ErrInsufficientLiquidity},
		{"asset0 account", math.NewInt(10), zero, types.AssetAddress("uatom"), types.ErrInvalidRecipient},
		{"asset1 account", zero, math.NewInt(10), types.AssetAddress("uosmo"), types.ErrInvalidRecipient},
		{"empty recipient", math.NewInt(10), zero, sdk.AccAddress{}, types.ErrInvalidAddress},
		{"unpaid", math.NewInt(10), zero, bob, types.ErrInsufficientInputAmount},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			err := suite.keeper.Swap(suite.ctx, pair.Id, bob, tc.amount0Out, tc.amount1Out, tc.to, nil)
			suite.Require().ErrorIs(err, tc.expErr)
		})
	}

	err := suite.keeper.Swap(suite.ctx, 99, bob, zero, math.NewInt(1), bob, nil)
	suite.Require().ErrorIs(err, types.ErrPairNotFound)
}

func (suite *KeeperTestSuite) TestSwapEmitsEvents() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	ctx := suite.ctx.WithEventManager(sdk.NewEventManager())

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 100))
	suite.Require().NoError(suite.keeper.Swap(ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(98), bob, nil))

	seen := map[string]bool{}
	for _, ev := range ctx.EventManager().Events() {
		seen[ev.Type] = true
	}
	suite.Require().True(seen[types.EventTypeSwap])
	suite.Require().True(seen[types.EventTypeSync])
}

func (suite *KeeperTestSuite) TestFlashSwapRepaid() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	suite.fund(charlie, sdk.NewInt64Coin("uosmo", 4))

	var (
		called bool
		locked bool
	)
	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(ctx context.Context, sender sdk.AccAddress, amount0, amount1 math.Int, data []byte) error {
			called = true
			locked = suite.keeper.IsLocked(ctx, pair.Id)
			suite.Require().Equal(bob, sender)
			suite.Require().True(amount0.IsZero())
			suite.Require().Equal(int64(1_000), amount1.Int64())
			suite.Require().Equal(flashData, data)
			// borrowed plus the 0.3% fee, rounded up
			return suite.bank.SendCoins(ctx, charlie, pair.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin("uosmo", 1_004)))
		},
	))

	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData))
	suite.Require().True(called)
	suite.Require().True(locked)
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, pair.Id))

	updated := suite.pair(pair.Id)
	suite.Require().Equal(int64(10_004), updated.Reserve1.Int64())
	suite.Require().True(suite.balance(charlie, "uosmo").IsZero())
}

func (suite *KeeperTestSuite) TestFlashSwapUnderpaidRollsBack() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	suite.fund(charlie, sdk.NewInt64Coin("uosmo", 3))

	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(ctx context.Context, _ sdk.AccAddress, _, _ math.Int, _ []byte) error {
			return suite.bank.SendCoins(ctx, charlie, pair.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin("uosmo", 1_003)))
		},
	))

	err := suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData)
	suite.Require().ErrorIs(err, types.ErrInvariantViolation)

	// loan and repayment are both gone
	suite.Require().Equal(int64(3), suite.balance(charlie, "uosmo").Int64())
	suite.Require().Equal(int64(10_000), suite.balance(pair.GetAddress(), "uosmo").Int64())
	suite.Require().Equal(int64(10_000), suite.pair(pair.Id).Reserve1.Int64())
}

func (suite *KeeperTestSuite) TestFlashSwapCalleeErrorRollsBack() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	errCallee := errors.New("callee refused")

	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(context.Context, sdk.AccAddress, math.Int, math.Int, []byte) error {
			return errCallee
		},
	))

	err := suite.keeper.Swap(suite.ctx, pair.Id, bob, math.NewInt(500), math.ZeroInt(), charlie, flashData)
	suite.Require().ErrorIs(err, errCallee)
	suite.Require().True(suite.balance(charlie, "uatom").IsZero())
}

func (suite *KeeperTestSuite) TestFlashSwapNoCallee() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	err := suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData)
	suite.Require().ErrorIs(err, types.ErrNoCallee)
	suite.Require().True(suite.balance(charlie, "uosmo").IsZero())
}

// A callee may not re-enter the pair that is paying it, but it may trade on
// any other pair.
func (suite *KeeperTestSuite) TestFlashSwapReentrancy() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	suite.fund(charlie, sdk.NewInt64Coin("uosmo", 4))

	var swapErr, syncErr, skimErr, mintErr error
	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(ctx context.Context, _ sdk.AccAddress, _, _ math.Int, _ []byte) error {
			swapErr = suite.keeper.Swap(ctx, pair.Id, charlie, math.NewInt(1), math.ZeroInt(), charlie, nil)
			syncErr = suite.keeper.Sync(ctx, pair.Id)
			skimErr = suite.keeper.Skim(ctx, pair.Id, charlie)
			_, mintErr = suite.keeper.Mint(ctx, pair.Id, charlie)
			return suite.bank.SendCoins(ctx, charlie, pair.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin("uosmo", 1_004)))
		},
	))

	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData))
	suite.Require().ErrorIs(swapErr, types.ErrReentrancy)
	suite.Require().ErrorIs(syncErr, types.ErrReentrancy)
	suite.Require().ErrorIs(skimErr, types.ErrReentrancy)
	suite.Require().ErrorIs(mintErr, types.ErrReentrancy)

	// the lock is gone once the outer swap commits
	suite.Require().NoError(suite.keeper.Sync(suite.ctx, pair.Id))
}

func (suite *KeeperTestSuite) TestFlashSwapCrossPair() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	other, _, _ := suite.fundedPair("ujuno", "uosmo", 1_000_000, 1_000_000)
	suite.fund(charlie, sdk.NewInt64Coin("uosmo", 1_004))

	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(ctx context.Context, _ sdk.AccAddress, _, amount1 math.Int, _ []byte) error {
			// sell the borrowed uosmo on the other pair
			if err := suite.bank.SendCoins(ctx, charlie, other.GetAddress(), sdk.NewCoins(sdk.NewCoin("uosmo", amount1))); err != nil {
				return err
			}
			if err := suite.keeper.Swap(ctx, other.Id, charlie, math.NewInt(996), math.ZeroInt(), charlie, nil); err != nil {
				return err
			}
			return suite.bank.SendCoins(ctx, charlie, pair.GetAddress(), sdk.NewCoins(sdk.NewInt64Coin("uosmo", 1_004)))
		},
	))

	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData))
	suite.Require().Equal(int64(996), suite.balance(charlie, "ujuno").Int64())
	suite.Require().Equal(int64(1_001_000), suite.pair(other.Id).Reserve1.Int64())
}

func (suite *KeeperTestSuite) TestFlashSwapOutOfGasRollsBack() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	ctx := suite.ctx.WithGasMeter(storetypes.NewGasMeter(1_000_000))

	suite.keeper.RegisterFlashSwapCallee(charlie, types.FlashSwapCalleeFunc(
		func(ctx context.Context, _ sdk.AccAddress, _, _ math.Int, _ []byte) error {
			sdk.UnwrapSDKContext(ctx).GasMeter().ConsumeGas(2_000_000, "runaway callee")
			return nil
		},
	))

	err := suite.keeper.Swap(ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(1_000), charlie, flashData)
	suite.Require().ErrorIs(err, types.ErrOutOfGas)
	suite.Require().True(suite.balance(charlie, "uosmo").IsZero())
	suite.Require().Equal(int64(10_000), suite.pair(pair.Id).Reserve1.Int64())
	suite.Require().False(suite.keeper.IsLocked(suite.ctx, pair.Id))
}

func (suite *KeeperTestSuite) TestSyncAndSkim() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 300), sdk.NewInt64Coin("uosmo", 50))
	suite.Require().NoError(suite.keeper.Skim(suite.ctx, pair.Id, bob))
	suite.Require().Equal(int64(300), suite.balance(bob, "uatom").Int64())
	suite.Require().Equal(int64(50), suite.balance(bob, "uosmo").Int64())
	suite.Require().Equal(int64(10_000), suite.balance(pair.GetAddress(), "uatom").Int64())

	// skimming a balanced pair is a no-op
	suite.Require().NoError(suite.keeper.Skim(suite.ctx, pair.Id, bob))
	suite.Require().Equal(int64(300), suite.balance(bob, "uatom").Int64())

	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 500))
	suite.Require().NoError(suite.keeper.Sync(suite.ctx, pair.Id))
	updated := suite.pair(pair.Id)
	suite.Require().Equal(int64(10_500), updated.Reserve0.Int64())
	suite.Require().Equal(int64(10_000), updated.Reserve1.Int64())

	suite.Require().ErrorIs(suite.keeper.Sync(suite.ctx, 42), types.ErrPairNotFound)
}

func (suite *KeeperTestSuite) TestSyncRejectsOversizedBalance() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.fund(pair.GetAddress(), sdk.NewCoin("uatom", types.MaxReserve))
	suite.Require().ErrorIs(suite.keeper.Sync(suite.ctx, pair.Id), types.ErrOverflow)

	// the excess can still be skimmed out
	suite.Require().NoError(suite.keeper.Skim(suite.ctx, pair.Id, bob))
	suite.Require().NoError(suite.keeper.Sync(suite.ctx, pair.Id))
}
