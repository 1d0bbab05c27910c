package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors
var (
	ErrInsufficientLiquidityMinted = errors.Register(ModuleName, 2, "insufficient liquidity minted")
	ErrInsufficientLiquidityBurned = errors.Register(ModuleName, 3, "insufficient liquidity burned")
	ErrInsufficientLiquidity       = errors.Register(ModuleName, 4, "insufficient liquidity")
	ErrInsufficientInputAmount     = errors.Register(ModuleName, 5, "insufficient input amount")
	ErrInsufficientOutputAmount    = errors.Register(ModuleName, 6, "insufficient output amount")
	ErrInvariantViolation          = errors.Register(ModuleName, 7, "K")
	ErrInvalidRecipient            = errors.Register(ModuleName, 8, "invalid recipient")
	ErrReentrancy                  = errors.Register(ModuleName, 9, "pair is locked")
	ErrOverflow                    = errors.Register(ModuleName, 10, "overflow")
	ErrExpired                     = errors.Register(ModuleName, 11, "expired")
	ErrIdenticalAssets             = errors.Register(ModuleName, 12, "identical assets")
	ErrInvalidAsset                = errors.Register(ModuleName, 13, "invalid asset")
	ErrPairExists                  = errors.Register(ModuleName, 14, "pair exists")
	ErrPairNotFound                = errors.Register(ModuleName, 15, "pair not found")
	ErrNoCallee                    = errors.Register(ModuleName, 16, "no flash swap callee registered for recipient")
	ErrOutOfGas                    = errors.Register(ModuleName, 17, "cost budget exceeded")
	ErrUnauthorized                = errors.Register(ModuleName, 18, "unauthorized")
	ErrLockedLiquidity             = errors.Register(ModuleName, 19, "minimum liquidity is permanently locked")
	ErrInsufficientClaimBalance    = errors.Register(ModuleName, 20, "insufficient claim token balance")
	ErrInsufficientAllowance       = errors.Register(ModuleName, 21, "insufficient claim token allowance")
	ErrInvalidSignature            = errors.Register(ModuleName, 22, "invalid signature")
	ErrInsufficientAmount          = errors.Register(ModuleName, 23, "insufficient amount")
	ErrInsufficientAAmount         = errors.Register(ModuleName, 24, "insufficient A amount")
	ErrInsufficientBAmount         = errors.Register(ModuleName, 25, "insufficient B amount")
	ErrExcessiveInputAmount        = errors.Register(ModuleName, 26, "excessive input amount")
	ErrInvalidPath                 = errors.Register(ModuleName, 27, "invalid path")
	ErrInvalidPeriod               = errors.Register(ModuleName, 28, "invalid averaging period")
	ErrInvalidGenesis              = errors.Register(ModuleName, 29, "invalid genesis state")
	ErrInvalidAddress              = errors.Register(ModuleName, 30, "invalid address")
	ErrInvalidAmount               = errors.Register(ModuleName, 31, "invalid amount")
	ErrInvalidAccumulator          = errors.Register(ModuleName, 32, "invalid price accumulator")
)
