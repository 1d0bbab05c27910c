package keeper

import (
	"context"
	"errors"
	"time"

	errorsmod "cosmossdk.io/errors"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// executeAtomic runs fn against a cached branch of ctx with the pair locked.
// The branch is written back only when fn returns nil, so a failure anywhere
// in fn (a callee error, a failed invariant check, an exhausted gas meter)
// discards every transfer and store write fn made.
//
// The lock key lives in the branch itself. A nested call on the same pair
// made through the branch context sees it and fails with ErrReentrancy; calls
// on other pairs are unaffected. The key is removed before the branch is
// written and is dropped with the branch on failure.
func (k Keeper) executeAtomic(ctx context.Context, pairID uint64, op string, fn func(sdk.Context) error) error {
	return k.withScope(ctx, op, func(scope sdk.Context) error {
		if err := k.acquireReentrancyLock(scope, pairID); err != nil {
			k.metrics.ReentrancyRejections.WithLabelValues(op).Inc()
			return errorsmod.Wrapf(err, "%s", op)
		}
		if err := fn(scope); err != nil {
			return err
		}
		k.releaseReentrancyLock(scope, pairID)
		return nil
	})
}

// withScope runs fn against a cached branch of ctx without taking a pair
// lock. Router calls use it to make several pair operations one unit.
func (k Keeper) withScope(ctx context.Context, op string, fn func(sdk.Context) error) (err error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	scope, write := sdkCtx.CacheContext()
	start := time.Now()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		oog, ok := r.(storetypes.ErrorOutOfGas)
		if !ok {
			panic(r)
		}
		k.recordRollback(op, "out_of_gas")
		err = types.ErrOutOfGas.Wrapf("%s: %s", op, oog.Descriptor)
	}()

	if err := fn(scope); err != nil {
		k.recordRollback(op, rollbackReason(err))
		return err
	}

	write()
	k.metrics.OpLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return nil
}

// acquireReentrancyLock marks the pair as busy in the given store branch.
func (k Keeper) acquireReentrancyLock(ctx context.Context, pairID uint64) error {
	store := k.getStore(ctx)
	key := ReentrancyLockKey(pairID)

	if store.Has(key) {
		return types.ErrReentrancy.Wrapf("pair %d", pairID)
	}
	store.Set(key, []byte{0x01})
	return nil
}

func (k Keeper) releaseReentrancyLock(ctx context.Context, pairID uint64) {
	k.getStore(ctx).Delete(ReentrancyLockKey(pairID))
}

// IsLocked reports whether a reserve-mutating operation on the pair is in
// progress in ctx. It is only ever true from within a flash swap callee.
func (k Keeper) IsLocked(ctx context.Context, pairID uint64) bool {
	return k.getStore(ctx).Has(ReentrancyLockKey(pairID))
}

func rollbackReason(err error) string {
	var coded *errorsmod.Error
	if errors.As(err, &coded) {
		return coded.Codespace() + "/" + coded.Error()
	}
	return "other"
}
