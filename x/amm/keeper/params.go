package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// GetParams returns the current parameters from the store
func (k Keeper) GetParams(ctx context.Context) (types.Params, error) {
	bz := k.getStore(ctx).Get(ParamsKey)
	if bz == nil {
		return types.DefaultParams(k.authority), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("GetParams: unmarshal: %w", err)
	}
	return params, nil
}

// SetParams sets the parameters in the store
func (k Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return fmt.Errorf("SetParams: %w", err)
	}
	bz, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("SetParams: marshal: %w", err)
	}
	k.getStore(ctx).Set(ParamsKey, bz)
	return nil
}

// SetFeeTo turns the protocol fee on by naming its recipient, or off with an
// empty feeTo. Only the current fee setter may call it.
func (k Keeper) SetFeeTo(ctx context.Context, caller sdk.AccAddress, feeTo string) error {
	params, err := k.authorizeFeeSetter(ctx, caller)
	if err != nil {
		return err
	}
	params.FeeTo = feeTo
	if err := k.SetParams(ctx, params); err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	k.emitFeeConfig(ctx, params)
	return nil
}

// SetFeeToSetter hands the fee setter role to another account.
func (k Keeper) SetFeeToSetter(ctx context.Context, caller sdk.AccAddress, feeToSetter string) error {
	params, err := k.authorizeFeeSetter(ctx, caller)
	if err != nil {
		return err
	}
	params.FeeToSetter = feeToSetter
	if err := k.SetParams(ctx, params); err != nil {
		return types.ErrInvalidAddress.Wrap(err.Error())
	}
	k.emitFeeConfig(ctx, params)
	return nil
}

func (k Keeper) authorizeFeeSetter(ctx context.Context, caller sdk.AccAddress) (types.Params, error) {
	params, err := k.GetParams(ctx)
	if err != nil {
		return types.Params{}, err
	}
	if caller.String() != params.FeeToSetter {
		return types.Params{}, types.ErrUnauthorized.Wrapf("expected %s, got %s", params.FeeToSetter, caller)
	}
	return params, nil
}

func (k Keeper) emitFeeConfig(ctx context.Context, params types.Params) {
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeeToUpdated,
			sdk.NewAttribute(types.AttributeKeyFeeTo, params.FeeTo),
			sdk.NewAttribute(types.AttributeKeyOwner, params.FeeToSetter),
		),
	)
}
