package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"cosmossdk.io/math"
	cryptotypes "github.com/cosmos/cosmos-sdk/crypto/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// ClaimBalance returns the claim tokens of a pair held by addr.
func (k Keeper) ClaimBalance(ctx context.Context, pairID uint64, addr sdk.AccAddress) math.Int {
	return k.getAmount(ctx, ClaimBalanceKey(pairID, addr))
}

// ClaimTotalSupply returns the outstanding claim tokens of a pair.
func (k Keeper) ClaimTotalSupply(ctx context.Context, pairID uint64) (math.Int, error) {
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return math.Int{}, err
	}
	return pair.TotalSupply, nil
}

// ClaimAllowance returns how many of owner's claim tokens spender may move.
func (k Keeper) ClaimAllowance(ctx context.Context, pairID uint64, owner, spender sdk.AccAddress) math.Int {
	return k.getAmount(ctx, AllowanceKey(pairID, owner, spender))
}

// ClaimNonce returns the nonce the next permit of owner must be signed with.
func (k Keeper) ClaimNonce(ctx context.Context, pairID uint64, owner sdk.AccAddress) uint64 {
	bz := k.getStore(ctx).Get(PermitNonceKey(pairID, owner))
	if bz == nil {
		return 0
	}
	return binary.BigEndian.Uint64(bz)
}

func (k Keeper) setClaimNonce(ctx context.Context, pairID uint64, owner sdk.AccAddress, nonce uint64) {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, nonce)
	k.getStore(ctx).Set(PermitNonceKey(pairID, owner), bz)
}

func (k Keeper) getAmount(ctx context.Context, key []byte) math.Int {
	bz := k.getStore(ctx).Get(key)
	if bz == nil {
		return math.ZeroInt()
	}
	amount, err := decodeAmount(bz)
	if err != nil {
		k.Logger(ctx).Error("corrupt claim ledger entry", "key", fmt.Sprintf("%X", key), "error", err)
		return math.ZeroInt()
	}
	return amount
}

func decodeAmount(bz []byte) (math.Int, error) {
	var amount math.Int
	if err := json.Unmarshal(bz, &amount); err != nil {
		return math.Int{}, err
	}
	return amount, nil
}

// setAmount stores amount under key, removing the entry when it is zero.
func (k Keeper) setAmount(ctx context.Context, key []byte, amount math.Int) error {
	store := k.getStore(ctx)
	if amount.IsZero() {
		store.Delete(key)
		return nil
	}
	bz, err := json.Marshal(amount)
	if err != nil {
		return fmt.Errorf("setAmount: marshal: %w", err)
	}
	store.Set(key, bz)
	return nil
}

// mintClaim credits new claim tokens. The caller persists pair.
func (k Keeper) mintClaim(ctx sdk.Context, pair *types.Pair, to sdk.AccAddress, amount math.Int) error {
	if err := k.setAmount(ctx, ClaimBalanceKey(pair.Id, to), k.ClaimBalance(ctx, pair.Id, to).Add(amount)); err != nil {
		return err
	}
	pair.TotalSupply = pair.TotalSupply.Add(amount)
	emitClaimTransfer(ctx, pair.Id, nil, to, amount)
	return nil
}

// burnClaim destroys claim tokens held by from. The caller persists pair.
func (k Keeper) burnClaim(ctx sdk.Context, pair *types.Pair, from sdk.AccAddress, amount math.Int) error {
	balance := k.ClaimBalance(ctx, pair.Id, from)
	if balance.LT(amount) {
		return types.ErrInsufficientClaimBalance.Wrapf("%s has %s, burning %s", from, balance, amount)
	}
	if err := k.setAmount(ctx, ClaimBalanceKey(pair.Id, from), balance.Sub(amount)); err != nil {
		return err
	}
	pair.TotalSupply = pair.TotalSupply.Sub(amount)
	emitClaimTransfer(ctx, pair.Id, from, nil, amount)
	return nil
}

func (k Keeper) moveClaim(ctx sdk.Context, pairID uint64, from, to sdk.AccAddress, amount math.Int) error {
	fromBalance := k.ClaimBalance(ctx, pairID, from)
	if fromBalance.LT(amount) {
		return types.ErrInsufficientClaimBalance.Wrapf("%s has %s, sending %s", from, fromBalance, amount)
	}
	if err := k.setAmount(ctx, ClaimBalanceKey(pairID, from), fromBalance.Sub(amount)); err != nil {
		return err
	}
	if err := k.setAmount(ctx, ClaimBalanceKey(pairID, to), k.ClaimBalance(ctx, pairID, to).Add(amount)); err != nil {
		return err
	}
	emitClaimTransfer(ctx, pairID, from, to, amount)
	return nil
}

func validateClaimAmount(amount math.Int) error {
	if amount.IsNil() || amount.IsNegative() {
		return types.ErrInvalidAmount.Wrapf("claim amount %s", amount)
	}
	return nil
}

func validateParties(accounts ...sdk.AccAddress) error {
	for _, a := range accounts {
		if a.Empty() {
			return types.ErrInvalidAddress.Wrap("empty address")
		}
	}
	return nil
}

// TransferClaim moves claim tokens from one account to another. Sending
// claim tokens to the pair account is how they are queued for Burn.
func (k Keeper) TransferClaim(ctx context.Context, pairID uint64, from, to sdk.AccAddress, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := validateParties(from, to); err != nil {
		return err
	}
	if err := validateClaimAmount(amount); err != nil {
		return err
	}
	if from.Equals(types.LockedLiquidityAddress()) {
		return types.ErrLockedLiquidity
	}
	if _, err := k.GetPair(ctx, pairID); err != nil {
		return err
	}
	return k.moveClaim(sdkCtx, pairID, from, to, amount)
}

// ApproveClaim sets the allowance of spender over owner's claim tokens.
func (k Keeper) ApproveClaim(ctx context.Context, pairID uint64, owner, spender sdk.AccAddress, amount math.Int) error {
	if err := validateParties(owner, spender); err != nil {
		return err
	}
	if err := validateClaimAmount(amount); err != nil {
		return err
	}
	if owner.Equals(types.LockedLiquidityAddress()) {
		return types.ErrLockedLiquidity
	}
	if _, err := k.GetPair(ctx, pairID); err != nil {
		return err
	}
	return k.approve(sdk.UnwrapSDKContext(ctx), pairID, owner, spender, amount)
}

func (k Keeper) approve(ctx sdk.Context, pairID uint64, owner, spender sdk.AccAddress, amount math.Int) error {
	if err := k.setAmount(ctx, AllowanceKey(pairID, owner, spender), amount); err != nil {
		return err
	}
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimApproval,
			sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pairID)),
			sdk.NewAttribute(types.AttributeKeyOwner, owner.String()),
			sdk.NewAttribute(types.AttributeKeySpender, spender.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
	return nil
}

// TransferClaimFrom moves claim tokens on behalf of from using spender's
// allowance. An allowance of types.MaxAllowance is not decremented.
func (k Keeper) TransferClaimFrom(ctx context.Context, pairID uint64, spender, from, to sdk.AccAddress, amount math.Int) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	if err := validateParties(spender, from, to); err != nil {
		return err
	}
	if err := validateClaimAmount(amount); err != nil {
		return err
	}
	if from.Equals(types.LockedLiquidityAddress()) {
		return types.ErrLockedLiquidity
	}
	if _, err := k.GetPair(ctx, pairID); err != nil {
		return err
	}

	allowance := k.ClaimAllowance(ctx, pairID, from, spender)
	if allowance.LT(amount) {
		return types.ErrInsufficientAllowance.Wrapf("%s may spend %s of %s, requested %s", spender, allowance, from, amount)
	}
	if err := k.moveClaim(sdkCtx, pairID, from, to, amount); err != nil {
		return err
	}
	if allowance.Equal(types.MaxAllowance) {
		return nil
	}
	return k.setAmount(ctx, AllowanceKey(pairID, from, spender), allowance.Sub(amount))
}

// PermitClaim applies an approval signed off-chain by owner. The signature
// covers types.PermitSignBytes with the owner's current nonce, which is
// consumed on success so the same signature cannot be replayed.
func (k Keeper) PermitClaim(
	ctx context.Context,
	pairID uint64,
	owner, spender sdk.AccAddress,
	value math.Int,
	deadline time.Time,
	pubKey cryptotypes.PubKey,
	sig []byte,
) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.GasMeter().ConsumeGas(types.GasPermit, "amm permit")

	if sdkCtx.BlockTime().After(deadline) {
		return types.ErrExpired.Wrapf("permit deadline %s", deadline.UTC().Format(time.RFC3339))
	}
	if err := validateParties(owner, spender); err != nil {
		return err
	}
	if err := validateClaimAmount(value); err != nil {
		return err
	}
	if owner.Equals(types.LockedLiquidityAddress()) {
		return types.ErrLockedLiquidity
	}
	pair, err := k.GetPair(ctx, pairID)
	if err != nil {
		return err
	}

	if pubKey == nil || !owner.Equals(sdk.AccAddress(pubKey.Address())) {
		return types.ErrInvalidSignature.Wrapf("key does not belong to %s", owner)
	}
	nonce := k.ClaimNonce(ctx, pairID, owner)
	signBytes := types.PermitSignBytes(sdkCtx.ChainID(), pair.GetAddress(), owner, spender, value, nonce, deadline)
	if !pubKey.VerifySignature(signBytes, sig) {
		return types.ErrInvalidSignature.Wrapf("permit of %s with nonce %d", owner, nonce)
	}

	k.setClaimNonce(ctx, pairID, owner, nonce+1)
	return k.approve(sdkCtx, pairID, owner, spender, value)
}

func emitClaimTransfer(ctx sdk.Context, pairID uint64, from, to sdk.AccAddress, amount math.Int) {
	ctx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeClaimTransfer,
			sdk.NewAttribute(types.AttributeKeyPairID, fmt.Sprintf("%d", pairID)),
			sdk.NewAttribute(types.AttributeKeyFrom, from.String()),
			sdk.NewAttribute(types.AttributeKeyTo, to.String()),
			sdk.NewAttribute(types.AttributeKeyAmount, amount.String()),
		),
	)
}
