package keeper_test

import (
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

func (suite *KeeperTestSuite) TestTransferClaim() {
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.Require().NoError(suite.keeper.TransferClaim(suite.ctx, pair.Id, provider, alice, math.NewInt(4_000)))
	suite.Require().Equal(int64(5_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, provider).Int64())
	suite.Require().Equal(int64(4_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, alice).Int64())

	supply, err := suite.keeper.ClaimTotalSupply(suite.ctx, pair.Id)
	suite.Require().NoError(err)
	suite.Require().Equal(int64(10_000), supply.Int64())

	err = suite.keeper.TransferClaim(suite.ctx, pair.Id, alice, bob, math.NewInt(4_001))
	suite.Require().ErrorIs(err, types.ErrInsufficientClaimBalance)
	err = suite.keeper.TransferClaim(suite.ctx, pair.Id, alice, bob, math.NewInt(-1))
	suite.Require().ErrorIs(err, types.ErrInvalidAmount)
	err = suite.keeper.TransferClaim(suite.ctx, pair.Id, alice, nil, math.NewInt(1))
	suite.Require().ErrorIs(err, types.ErrInvalidAddress)
	err = suite.keeper.TransferClaim(suite.ctx, 9, alice, bob, math.NewInt(1))
	suite.Require().ErrorIs(err, types.ErrPairNotFound)

	// zero transfers are allowed and change nothing
	suite.Require().NoError(suite.keeper.TransferClaim(suite.ctx, pair.Id, bob, alice, math.ZeroInt()))
	suite.Require().Equal(int64(4_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, alice).Int64())
}

func (suite *KeeperTestSuite) TestApproveAndTransferFrom() {
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.Require().NoError(suite.keeper.ApproveClaim(suite.ctx, pair.Id, provider, bob, math.NewInt(3_000)))
	suite.Require().Equal(int64(3_000), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, provider, bob).Int64())

	suite.Require().NoError(suite.keeper.TransferClaimFrom(suite.ctx, pair.Id, bob, provider, charlie, math.NewInt(1_000)))
	suite.Require().Equal(int64(2_000), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, provider, bob).Int64())
	suite.Require().Equal(int64(1_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, charlie).Int64())

	err := suite.keeper.TransferClaimFrom(suite.ctx, pair.Id, bob, provider, charlie, math.NewInt(2_001))
	suite.Require().ErrorIs(err, types.ErrInsufficientAllowance)
	err = suite.keeper.TransferClaimFrom(suite.ctx, pair.Id, alice, provider, charlie, math.NewInt(1))
	suite.Require().ErrorIs(err, types.ErrInsufficientAllowance)

	// approval overwrites rather than adds
	suite.Require().NoError(suite.keeper.ApproveClaim(suite.ctx, pair.Id, provider, bob, math.NewInt(10)))
	suite.Require().Equal(int64(10), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, provider, bob).Int64())

	// an allowance larger than the balance still fails on the balance
	suite.Require().NoError(suite.keeper.ApproveClaim(suite.ctx, pair.Id, charlie, bob, math.NewInt(5_000)))
	err = suite.keeper.TransferClaimFrom(suite.ctx, pair.Id, bob, charlie, bob, math.NewInt(1_001))
	suite.Require().ErrorIs(err, types.ErrInsufficientClaimBalance)
	suite.Require().Equal(int64(5_000), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, charlie, bob).Int64())
}

func (suite *KeeperTestSuite) TestMaxAllowanceIsNotDecremented() {
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	suite.Require().NoError(suite.keeper.ApproveClaim(suite.ctx, pair.Id, provider, bob, types.MaxAllowance))
	suite.Require().NoError(suite.keeper.TransferClaimFrom(suite.ctx, pair.Id, bob, provider, bob, math.NewInt(9_000)))

	suite.Require().True(suite.keeper.ClaimAllowance(suite.ctx, pair.Id, provider, bob).Equal(types.MaxAllowance))
	suite.Require().Equal(int64(9_000), suite.keeper.ClaimBalance(suite.ctx, pair.Id, bob).Int64())
}

func (suite *KeeperTestSuite) TestPermit() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)

	priv := secp256k1.GenPrivKey()
	owner := sdk.AccAddress(priv.PubKey().Address())
	deadline := keepertest.TestGenesisTime.Add(time.Hour)
	value := math.NewInt(2_500)

	sign := func(value math.Int, nonce uint64, deadline time.Time) []byte {
		sig, err := priv.Sign(types.PermitSignBytes(keepertest.TestChainID, pair.GetAddress(), owner, bob, value, nonce, deadline))
		suite.Require().NoError(err)
		return sig
	}

	sig := sign(value, 0, deadline)
	suite.Require().NoError(suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, value, deadline, priv.PubKey(), sig))
	suite.Require().Equal(int64(2_500), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, owner, bob).Int64())
	suite.Require().Equal(uint64(1), suite.keeper.ClaimNonce(suite.ctx, pair.Id, owner))

	// replaying the same signature fails on the consumed nonce
	err := suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, value, deadline, priv.PubKey(), sig)
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)

	// the signature does not cover a different value
	err = suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, math.NewInt(2_501), deadline, priv.PubKey(), sign(value, 1, deadline))
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)

	// nor a different chain
	other := suite.ctx.WithChainID("other-chain")
	err = suite.keeper.PermitClaim(other, pair.Id, owner, bob, value, deadline, priv.PubKey(), sign(value, 1, deadline))
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)

	// a key that is not the owner's
	stranger := secp256k1.GenPrivKey()
	err = suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, value, deadline, stranger.PubKey(), sign(value, 1, deadline))
	suite.Require().ErrorIs(err, types.ErrInvalidSignature)

	expired := keepertest.TestGenesisTime.Add(-time.Second)
	err = suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, value, expired, priv.PubKey(), sign(value, 1, expired))
	suite.Require().ErrorIs(err, types.ErrExpired)

	// the next nonce works
	suite.Require().NoError(suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, math.NewInt(7), deadline, priv.PubKey(), sign(math.NewInt(7), 1, deadline)))
	suite.Require().Equal(int64(7), suite.keeper.ClaimAllowance(suite.ctx, pair.Id, owner, bob).Int64())
	suite.Require().Equal(uint64(2), suite.keeper.ClaimNonce(suite.ctx, pair.Id, owner))
}

func (suite *KeeperTestSuite) TestPermitRejectsLockedOwner() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	priv := secp256k1.GenPrivKey()
	deadline := keepertest.TestGenesisTime.Add(time.Hour)

	err := suite.keeper.PermitClaim(suite.ctx, pair.Id, types.LockedLiquidityAddress(), bob, math.NewInt(1), deadline, priv.PubKey(), nil)
	suite.Require().ErrorIs(err, types.ErrLockedLiquidity)
}
