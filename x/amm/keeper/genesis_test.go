package keeper_test

import (
	"encoding/json"
	"time"

	"cosmossdk.io/math"
	"github.com/cosmos/cosmos-sdk/crypto/keys/secp256k1"
	sdk "github.com/cosmos/cosmos-sdk/types"

	keepertest "github.com/paw-chain/pawswap/testutil/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

func (suite *KeeperTestSuite) TestGenesisRoundTrip() {
	suite.Require().NoError(suite.keeper.SetFeeTo(suite.ctx, suite.authority(), feeSink.String()))
	pair, provider, _ := suite.fundedPair("uatom", "uosmo", 40_000, 10_000)
	suite.fundedPair("ujuno", "uosmo", 5_000, 5_000)

	suite.ctx = keepertest.AdvanceTime(suite.ctx, 30*time.Second)
	suite.fund(pair.GetAddress(), sdk.NewInt64Coin("uatom", 1_000))
	suite.Require().NoError(suite.keeper.Swap(suite.ctx, pair.Id, bob, math.ZeroInt(), math.NewInt(200), bob, nil))
	suite.Require().NoError(suite.keeper.TransferClaim(suite.ctx, pair.Id, provider, alice, math.NewInt(1_234)))
	suite.Require().NoError(suite.keeper.ApproveClaim(suite.ctx, pair.Id, alice, bob, math.NewInt(99)))

	priv := secp256k1.GenPrivKey()
	owner := sdk.AccAddress(priv.PubKey().Address())
	deadline := suite.ctx.BlockTime().Add(time.Hour)
	sig, err := priv.Sign(types.PermitSignBytes(keepertest.TestChainID, pair.GetAddress(), owner, bob, math.NewInt(5), 0, deadline))
	suite.Require().NoError(err)
	suite.Require().NoError(suite.keeper.PermitClaim(suite.ctx, pair.Id, owner, bob, math.NewInt(5), deadline, priv.PubKey(), sig))

	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().NoError(exported.Validate())
	suite.Require().Len(exported.Pairs, 2)
	suite.Require().Len(exported.ClaimAllowances, 2)
	suite.Require().Len(exported.PermitNonces, 1)
	suite.Require().Equal(feeSink.String(), exported.Params.FeeTo)

	before, err := json.Marshal(exported)
	suite.Require().NoError(err)

	fresh, ctx, _ := keepertest.AmmKeeper(suite.T())
	suite.Require().NoError(fresh.InitGenesis(ctx, *exported))
	reexported, err := fresh.ExportGenesis(ctx)
	suite.Require().NoError(err)
	after, err := json.Marshal(reexported)
	suite.Require().NoError(err)
	suite.Require().JSONEq(string(before), string(after))

	// the pair counter resumes after the imported ids
	suite.Require().Equal(uint64(2), fresh.AllPairsLength(ctx))
	next, err := fresh.CreatePair(ctx, "uatom", "ujuno")
	suite.Require().NoError(err)
	suite.Require().Equal(uint64(3), next.Id)

	// both orderings still resolve through the imported index
	imported, err := fresh.GetPairByAssets(ctx, "uosmo", "uatom")
	suite.Require().NoError(err)
	suite.Require().Equal(pair.Id, imported.Id)
	suite.Require().Equal(uint64(1), fresh.ClaimNonce(ctx, pair.Id, owner))
}

func (suite *KeeperTestSuite) TestInitGenesisRejectsInvalidState() {
	pair, _, _ := suite.fundedPair("uatom", "uosmo", 10_000, 10_000)
	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)

	exported.Pairs[0].TotalSupply = pair.TotalSupply.AddRaw(1)

	fresh, ctx, _ := keepertest.AmmKeeper(suite.T())
	suite.Require().ErrorIs(fresh.InitGenesis(ctx, *exported), types.ErrInvalidGenesis)
}

func (suite *KeeperTestSuite) TestDefaultGenesisExport() {
	exported, err := suite.keeper.ExportGenesis(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Empty(exported.Pairs)
	suite.Require().Empty(exported.ClaimBalances)
	suite.Require().Equal(keepertest.TestAuthority.String(), exported.Params.FeeToSetter)
	suite.Require().False(exported.Params.FeeOn())
}
