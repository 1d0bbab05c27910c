package types

// Event types for the AMM module
const (
	EventTypePairCreated   = "pair_created"
	EventTypeMint          = "mint"
	EventTypeBurn          = "burn"
	EventTypeSwap          = "swap"
	EventTypeSync          = "sync"
	EventTypeClaimTransfer = "claim_transfer"
	EventTypeClaimApproval = "claim_approval"
	EventTypeFeeToUpdated  = "fee_to_updated"
)

// Event attribute keys
const (
	AttributeKeyPairID     = "pair_id"
	AttributeKeyPairCount  = "pair_count"
	AttributeKeyAddress    = "address"
	AttributeKeyAsset0     = "asset0"
	AttributeKeyAsset1     = "asset1"
	AttributeKeySender     = "sender"
	AttributeKeyTo         = "to"
	AttributeKeyFrom       = "from"
	AttributeKeyOwner      = "owner"
	AttributeKeySpender    = "spender"
	AttributeKeyAmount     = "amount"
	AttributeKeyAmount0    = "amount0"
	AttributeKeyAmount1    = "amount1"
	AttributeKeyAmount0In  = "amount0_in"
	AttributeKeyAmount1In  = "amount1_in"
	AttributeKeyAmount0Out = "amount0_out"
	AttributeKeyAmount1Out = "amount1_out"
	AttributeKeyLiquidity  = "liquidity"
	AttributeKeyReserve0   = "reserve0"
	AttributeKeyReserve1   = "reserve1"
	AttributeKeyFeeTo      = "fee_to"
)
