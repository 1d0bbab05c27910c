package cmd

import (
	"fmt"
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

	"github.com/paw-chain/pawswap/testutil/bank"
	"github.com/paw-chain/pawswap/x/amm/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

const defaultDeadline = 20 * time.Minute

// simEnv is an amm keeper and a ledger over one in-memory multistore.
type simEnv struct {
	keeper   *keeper.Keeper
	bank     *bank.Keeper
	ctx      sdk.Context
	logger   log.Logger
	accounts map[string]sdk.AccAddress
}

// AccountAddress derives the simulator address of a named account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(address.Module("pawswap-sim", []byte(name)))
}

func newSimEnv(sc Scenario, logger log.Logger) (*simEnv, error) {
	ammKey := storetypes.NewKVStoreKey(types.StoreKey)
	bankKey := storetypes.NewKVStoreKey(bank.StoreKey)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(ammKey, storetypes.StoreTypeIAVL, db)
	cms.MountStoreWithDB(bankKey, storetypes.StoreTypeIAVL, db)
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("loading stores: %w", err)
	}

	accounts := make(map[string]sdk.AccAddress, len(sc.Accounts))
	for _, acc := range sc.Accounts {
		accounts[acc.Name] = AccountAddress(acc.Name)
	}

	authority := AccountAddress("authority")
	if sc.FeeToSetter != "" {
		authority = accounts[sc.FeeToSetter]
	}

	bk := bank.NewKeeper(bankKey)
	k := keeper.NewKeeper(ammKey, bk, authority.String())

	header := cmtproto.Header{ChainID: sc.ChainID, Height: 1, Time: sc.GenesisTime}
	ctx := sdk.NewContext(cms, header, false, logger)

	if err := k.InitGenesis(ctx, *types.DefaultGenesis(authority.String())); err != nil {
		return nil, err
	}
	for _, acc := range sc.Accounts {
		coins, err := sdk.ParseCoinsNormalized(acc.Coins)
		if err != nil {
			return nil, err
		}
		if err := bk.MintCoins(ctx, accounts[acc.Name], coins); err != nil {
			return nil, fmt.Errorf("funding %s: %w", acc.Name, err)
		}
	}

	return &simEnv{
		keeper:   k,
		bank:     bk,
		ctx:      ctx,
		logger:   logger,
		accounts: accounts,
	}, nil
}

func (e *simEnv) recipient(st Step) sdk.AccAddress {
	if st.To != "" {
		return e.accounts[st.To]
	}
	return e.accounts[st.Account]
}

func (e *simEnv) deadline(st Step) time.Time {
	if st.Deadline != 0 {
		return e.ctx.BlockTime().Add(st.Deadline)
	}
	return e.ctx.BlockTime().Add(defaultDeadline)
}

func (e *simEnv) pairFor(st Step) (types.Pair, error) {
	return e.keeper.GetPairByAssets(e.ctx, st.AssetA, st.AssetB)
}

// apply runs one step and describes its outcome.
func (e *simEnv) apply(st Step) (string, error) {
	sender := e.accounts[st.Account]

	switch st.Op {
	case OpAdvance:
		e.ctx = e.ctx.WithBlockTime(e.ctx.BlockTime().Add(st.Duration)).WithBlockHeight(e.ctx.BlockHeight() + 1)
		return fmt.Sprintf("block %d at %s", e.ctx.BlockHeight(), e.ctx.BlockTime().UTC().Format(time.RFC3339)), nil

	case OpAddLiquidity:
		amounts, err := parseAmounts(st, "amount_a", "amount_b", "min_a", "min_b")
		if err != nil {
			return "", err
		}
		amountA, amountB, liquidity, err := e.keeper.AddLiquidity(e.ctx, sender, st.AssetA, st.AssetB,
			amounts[0], amounts[1], amounts[2], amounts[3], e.recipient(st), e.deadline(st))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("deposited %s%s + %s%s for %s claims", amountA, st.AssetA, amountB, st.AssetB, liquidity), nil

	case OpRemoveLiquidity:
		amounts, err := parseAmounts(st, "liquidity", "min_a", "min_b")
		if err != nil {
			return "", err
		}
		amountA, amountB, err := e.keeper.RemoveLiquidity(e.ctx, sender, st.AssetA, st.AssetB,
			amounts[0], amounts[1], amounts[2], e.recipient(st), e.deadline(st))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("redeemed %s claims for %s%s + %s%s", amounts[0], amountA, st.AssetA, amountB, st.AssetB), nil

	case OpSwapExactIn, OpSwapExactOut:
		amounts, err := parseAmounts(st, "amount", "limit")
		if err != nil {
			return "", err
		}
		var hops []math.Int
		if st.Op == OpSwapExactIn {
			hops, err = e.keeper.SwapExactAssetsForAssets(e.ctx, sender, amounts[0], amounts[1], st.Path, e.recipient(st), e.deadline(st))
		} else {
			hops, err = e.keeper.SwapAssetsForExactAssets(e.ctx, sender, amounts[0], amounts[1], st.Path, e.recipient(st), e.deadline(st))
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("swapped %s%s for %s%s", hops[0], st.Path[0], hops[len(hops)-1], st.Path[len(st.Path)-1]), nil

	case OpTransferClaim:
		amounts, err := parseAmounts(st, "liquidity")
		if err != nil {
			return "", err
		}
		pair, err := e.pairFor(st)
		if err != nil {
			return "", err
		}
		if err := e.keeper.TransferClaim(e.ctx, pair.Id, sender, e.recipient(st), amounts[0]); err != nil {
			return "", err
		}
		return fmt.Sprintf("moved %s claims of pair %d to %s", amounts[0], pair.Id, st.To), nil

	case OpSync:
		pair, err := e.pairFor(st)
		if err != nil {
			return "", err
		}
		if err := e.keeper.Sync(e.ctx, pair.Id); err != nil {
			return "", err
		}
		return fmt.Sprintf("synced pair %d", pair.Id), nil

	case OpSkim:
		pair, err := e.pairFor(st)
		if err != nil {
			return "", err
		}
		if err := e.keeper.Skim(e.ctx, pair.Id, e.recipient(st)); err != nil {
			return "", err
		}
		return fmt.Sprintf("skimmed pair %d", pair.Id), nil

	case OpSetFeeTo:
		feeTo := ""
		if st.To != "" {
			feeTo = e.accounts[st.To].String()
		}
		if err := e.keeper.SetFeeTo(e.ctx, sender, feeTo); err != nil {
			return "", err
		}
		if feeTo == "" {
			return "protocol fee off", nil
		}
		return fmt.Sprintf("protocol fee to %s", st.To), nil
	}
	return "", fmt.Errorf("unknown op %q", st.Op)
}

func parseAmounts(st Step, fields ...string) ([]math.Int, error) {
	values := map[string]string{
		"amount_a":  st.AmountA,
		"amount_b":  st.AmountB,
		"min_a":     st.MinA,
		"min_b":     st.MinB,
		"liquidity": st.Liquidity,
		"amount":    st.Amount,
		"limit":     st.Limit,
	}
	out := make([]math.Int, len(fields))
	for i, f := range fields {
		amount, err := parseAmount(f, values[f])
		if err != nil {
			return nil, err
		}
		out[i] = amount
	}
	return out, nil
}
