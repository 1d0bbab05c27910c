/*
Package keeper implements the constant-product automated market maker.

Each pair holds reserves of two bank denoms in a module-derived account and
issues fungible claim tokens against them. Every state change of a pair runs
inside a cached context under a per-pair lock, so a failed operation leaves no
trace in the parent store.

# Core Functionality

Pair lifecycle:
  - CreatePair registers a pair for two distinct denoms, ordered by byte
    value. Each unordered asset set maps to at most one pair.
  - Mint credits claim tokens for assets already sent to the pair account.
    The first deposit locks MinimumLiquidity forever.
  - Burn redeems claim tokens held by the pair account for a share of the
    reserves.
  - Swap pays out requested amounts, optionally invokes a flash swap callee,
    then enforces the fee-adjusted constant-product check.
  - Sync and Skim reconcile reserves with actual balances.

Router:
  - AddLiquidity and RemoveLiquidity apply slippage bounds and a deadline.
  - SwapExactAssetsForAssets and SwapAssetsForExactAssets route along a path
    of denoms, quoting every hop with GetAmountsOut or GetAmountsIn.

Claim tokens:
  - TransferClaim, ApproveClaim and TransferClaimFrom follow ERC-20 allowance
    rules. A maximal allowance is never decremented.
  - PermitClaim sets an allowance from a secp256k1 signature over
    types.PermitSignBytes, consuming the owner's nonce.

Oracle:
  - Price0CumulativeLast and Price1CumulativeLast accumulate UQ112x112 prices
    weighted by seconds elapsed. CurrentCumulativePrices projects them to the
    current block time without writing state.

# Protocol Fee

When Params.FeeTo is set, one sixth of the growth in sqrt(k) since the last
liquidity event is minted to FeeTo on the next Mint or Burn. Only
Params.FeeToSetter may change either field.

# Usage Patterns

Providing liquidity through the router:

	amountA, amountB, liquidity, err := k.AddLiquidity(
	    ctx, sender, "uatom", "uosmo",
	    desiredA, desiredB, minA, minB, sender, deadline,
	)

Swapping along a two-hop path:

	amounts, err := k.SwapExactAssetsForAssets(
	    ctx, sender, amountIn, minOut,
	    []string{"uatom", "uosmo", "ujuno"}, sender, deadline,
	)

# Invariants

RegisterInvariants exposes reserve, claim supply, minimum-liquidity and
reserve-bound checks to the crisis module. AllInvariants runs them together.

# Metrics

Prometheus metrics under the pawswap_amm prefix:
  - pawswap_amm_swaps_total, pawswap_amm_flash_swaps_total: completed swaps
  - pawswap_amm_pair_reserves, pawswap_amm_claim_supply: gauges per pair
  - pawswap_amm_protocol_fee_minted_total: claim tokens minted to FeeTo
  - pawswap_amm_reentrancy_rejections_total: calls refused by the pair lock
  - pawswap_amm_rollbacks_total: rolled back operations by reason
*/
package keeper
