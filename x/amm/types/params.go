package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Params holds the protocol fee configuration. An empty FeeTo disables the
// protocol fee. FeeToSetter is the only account allowed to change either
// field.
type Params struct {
	FeeTo       string `json:"fee_to"`
	FeeToSetter string `json:"fee_to_setter"`
}

// DefaultParams returns params with the protocol fee off and the given
// authority as fee setter.
func DefaultParams(feeToSetter string) Params {
	return Params{FeeToSetter: feeToSetter}
}

// FeeOn reports whether the protocol fee is collected.
func (p Params) FeeOn() bool {
	return p.FeeTo != ""
}

// Validate checks both addresses.
func (p Params) Validate() error {
	if p.FeeTo != "" {
		if _, err := sdk.AccAddressFromBech32(p.FeeTo); err != nil {
			return fmt.Errorf("invalid fee_to %q: %w", p.FeeTo, err)
		}
	}
	if _, err := sdk.AccAddressFromBech32(p.FeeToSetter); err != nil {
		return fmt.Errorf("invalid fee_to_setter %q: %w", p.FeeToSetter, err)
	}
	return nil
}
