package keeper

import (
	"context"
	"encoding/binary"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// InitGenesis initializes the amm module's state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return err
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}

	store := k.getStore(ctx)
	var count uint64
	for _, pair := range genState.Pairs {
		if err := k.setPair(ctx, pair); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
		store.Set(PairByAssetsKey(pair.Asset0, pair.Asset1), pairIDBytes(pair.Id))
		if pair.Id > count {
			count = pair.Id
		}
	}
	k.setPairCount(ctx, count)

	for _, b := range genState.ClaimBalances {
		addr, err := sdk.AccAddressFromBech32(b.Address)
		if err != nil {
			return fmt.Errorf("InitGenesis: claim balance: %w", err)
		}
		if err := k.setAmount(ctx, ClaimBalanceKey(b.PairId, addr), b.Amount); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, a := range genState.ClaimAllowances {
		owner, err := sdk.AccAddressFromBech32(a.Owner)
		if err != nil {
			return fmt.Errorf("InitGenesis: allowance owner: %w", err)
		}
		spender, err := sdk.AccAddressFromBech32(a.Spender)
		if err != nil {
			return fmt.Errorf("InitGenesis: allowance spender: %w", err)
		}
		if err := k.setAmount(ctx, AllowanceKey(a.PairId, owner, spender), a.Amount); err != nil {
			return fmt.Errorf("InitGenesis: %w", err)
		}
	}
	for _, n := range genState.PermitNonces {
		owner, err := sdk.AccAddressFromBech32(n.Owner)
		if err != nil {
			return fmt.Errorf("InitGenesis: nonce owner: %w", err)
		}
		k.setClaimNonce(ctx, n.PairId, owner, n.Nonce)
	}

	k.metrics.PairsTotal.Set(float64(count))
	return nil
}

// ExportGenesis returns the amm module's exported genesis.
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := k.GetAllPairs(ctx)
	if err != nil {
		return nil, err
	}

	gs := types.DefaultGenesis(params.FeeToSetter)
	gs.Params = params
	gs.Pairs = pairs

	store := k.getStore(ctx)

	balances := storetypes.KVStorePrefixIterator(store, ClaimBalanceKeyPrefix)
	for ; balances.Valid(); balances.Next() {
		pairID, addr, _ := splitPairAddressKey(balances.Key()[len(ClaimBalanceKeyPrefix):])
		amount, err := decodeAmount(balances.Value())
		if err != nil {
			balances.Close()
			return nil, fmt.Errorf("ExportGenesis: claim balance: %w", err)
		}
		gs.ClaimBalances = append(gs.ClaimBalances, types.ClaimBalance{
			PairId:  pairID,
			Address: addr.String(),
			Amount:  amount,
		})
	}
	balances.Close()

	allowances := storetypes.KVStorePrefixIterator(store, AllowanceKeyPrefix)
	for ; allowances.Valid(); allowances.Next() {
		pairID, owner, rest := splitPairAddressKey(allowances.Key()[len(AllowanceKeyPrefix):])
		spender := sdk.AccAddress(rest[1 : 1+int(rest[0])])
		amount, err := decodeAmount(allowances.Value())
		if err != nil {
			allowances.Close()
			return nil, fmt.Errorf("ExportGenesis: allowance: %w", err)
		}
		gs.ClaimAllowances = append(gs.ClaimAllowances, types.ClaimAllowance{
			PairId:  pairID,
			Owner:   owner.String(),
			Spender: spender.String(),
			Amount:  amount,
		})
	}
	allowances.Close()

	nonces := storetypes.KVStorePrefixIterator(store, PermitNonceKeyPrefix)
	for ; nonces.Valid(); nonces.Next() {
		pairID, owner, _ := splitPairAddressKey(nonces.Key()[len(PermitNonceKeyPrefix):])
		gs.PermitNonces = append(gs.PermitNonces, types.PermitNonce{
			PairId: pairID,
			Owner:  owner.String(),
			Nonce:  binary.BigEndian.Uint64(nonces.Value()),
		})
	}
	nonces.Close()

	return gs, nil
}
