package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/pawswap/x/amm/types"
)

// RegisterFlashSwapCallee binds the callee invoked when a flash swap pays out
// to addr. Registration happens at app wiring time, like hooks.
func (k *Keeper) RegisterFlashSwapCallee(addr sdk.AccAddress, callee types.FlashSwapCallee) {
	if addr.Empty() || callee == nil {
		panic("flash swap callee requires an address and an implementation")
	}
	key := addr.String()
	if _, exists := k.callees[key]; exists {
		panic(fmt.Sprintf("flash swap callee already registered for %s", key))
	}
	k.callees[key] = callee
}
