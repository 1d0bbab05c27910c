package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ClaimBalance is a claim token balance of one account in one pair.
type ClaimBalance struct {
	PairId  uint64   `json:"pair_id"`
	Address string   `json:"address"`
	Amount  math.Int `json:"amount"`
}

// ClaimAllowance is an approved spending limit on claim tokens.
type ClaimAllowance struct {
	PairId  uint64   `json:"pair_id"`
	Owner   string   `json:"owner"`
	Spender string   `json:"spender"`
	Amount  math.Int `json:"amount"`
}

// PermitNonce is the next permit nonce of an owner in one pair.
type PermitNonce struct {
	PairId uint64 `json:"pair_id"`
	Owner  string `json:"owner"`
	Nonce  uint64 `json:"nonce"`
}

// GenesisState is the exported state of the amm module.
type GenesisState struct {
	Params          Params           `json:"params"`
	Pairs           []Pair           `json:"pairs"`
	ClaimBalances   []ClaimBalance   `json:"claim_balances"`
	ClaimAllowances []ClaimAllowance `json:"claim_allowances"`
	PermitNonces    []PermitNonce    `json:"permit_nonces"`
}

// DefaultGenesis returns the default genesis state with the given fee setter.
func DefaultGenesis(feeToSetter string) *GenesisState {
	return &GenesisState{
		Params:          DefaultParams(feeToSetter),
		Pairs:           []Pair{},
		ClaimBalances:   []ClaimBalance{},
		ClaimAllowances: []ClaimAllowance{},
		PermitNonces:    []PermitNonce{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return ErrInvalidGenesis.Wrap(err.Error())
	}

	pairs := make(map[uint64]Pair, len(gs.Pairs))
	keys := make(map[string]struct{}, len(gs.Pairs))
	for _, p := range gs.Pairs {
		if err := p.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("pair %d: %v", p.Id, err)
		}
		if _, dup := pairs[p.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pair id %d", p.Id)
		}
		if _, dup := keys[string(p.Identity())]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pair %s", p.Key())
		}
		pairs[p.Id] = p
		keys[string(p.Identity())] = struct{}{}
	}

	supply := make(map[uint64]math.Int, len(pairs))
	seen := make(map[string]struct{}, len(gs.ClaimBalances))
	for _, b := range gs.ClaimBalances {
		if _, ok := pairs[b.PairId]; !ok {
			return ErrInvalidGenesis.Wrapf("claim balance for unknown pair %d", b.PairId)
		}
		if _, err := sdk.AccAddressFromBech32(b.Address); err != nil {
			return ErrInvalidGenesis.Wrapf("claim balance address %q: %v", b.Address, err)
		}
		if b.Amount.IsNil() || !b.Amount.IsPositive() {
			return ErrInvalidGenesis.Wrapf("claim balance of %s in pair %d must be positive", b.Address, b.PairId)
		}
		id := fmt.Sprintf("%d/%s", b.PairId, b.Address)
		if _, dup := seen[id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate claim balance %s", id)
		}
		seen[id] = struct{}{}

		total, ok := supply[b.PairId]
		if !ok {
			total = math.ZeroInt()
		}
		supply[b.PairId] = total.Add(b.Amount)
	}
	for id, p := range pairs {
		total, ok := supply[id]
		if !ok {
			total = math.ZeroInt()
		}
		if !total.Equal(p.TotalSupply) {
			return ErrInvalidGenesis.Wrapf("pair %d total supply %s, balances sum to %s", id, p.TotalSupply, total)
		}
	}

	for _, a := range gs.ClaimAllowances {
		if _, ok := pairs[a.PairId]; !ok {
			return ErrInvalidGenesis.Wrapf("allowance for unknown pair %d", a.PairId)
		}
		if _, err := sdk.AccAddressFromBech32(a.Owner); err != nil {
			return ErrInvalidGenesis.Wrapf("allowance owner %q: %v", a.Owner, err)
		}
		if _, err := sdk.AccAddressFromBech32(a.Spender); err != nil {
			return ErrInvalidGenesis.Wrapf("allowance spender %q: %v", a.Spender, err)
		}
		if a.Amount.IsNil() || a.Amount.IsNegative() {
			return ErrInvalidGenesis.Wrapf("allowance %s->%s is negative", a.Owner, a.Spender)
		}
	}

	for _, n := range gs.PermitNonces {
		if _, ok := pairs[n.PairId]; !ok {
			return ErrInvalidGenesis.Wrapf("nonce for unknown pair %d", n.PairId)
		}
		if _, err := sdk.AccAddressFromBech32(n.Owner); err != nil {
			return ErrInvalidGenesis.Wrapf("nonce owner %q: %v", n.Owner, err)
		}
	}
	return nil
}
