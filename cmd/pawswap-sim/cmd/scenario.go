package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Step operations understood by the simulator.
const (
	OpAddLiquidity    = "add_liquidity"
	OpRemoveLiquidity = "remove_liquidity"
	OpSwapExactIn     = "swap_exact_in"
	OpSwapExactOut    = "swap_exact_out"
	OpTransferClaim   = "transfer_claim"
	OpSync            = "sync"
	OpSkim            = "skim"
	OpAdvance         = "advance"
	OpSetFeeTo        = "set_fee_to"
)

// Scenario is a scripted sequence of amm operations.
type Scenario struct {
	ChainID     string    `mapstructure:"chain_id"`
	GenesisTime time.Time `mapstructure:"genesis_time"`
	// FeeToSetter names the account allowed to switch the protocol fee.
	FeeToSetter string    `mapstructure:"fee_to_setter"`
	Accounts    []Account `mapstructure:"accounts"`
	Steps       []Step    `mapstructure:"steps"`
}

// Account is a named, pre-funded account. Coins use the sdk coin format,
// e.g. "1000000uatom,500000uosmo".
type Account struct {
	Name  string `mapstructure:"name"`
	Coins string `mapstructure:"coins"`
}

// Step is one operation. Amounts are decimal integers; unused fields are
// ignored by the operation.
type Step struct {
	Op      string `mapstructure:"op"`
	Account string `mapstructure:"account"`
	To      string `mapstructure:"to"`

	AssetA string   `mapstructure:"asset_a"`
	AssetB string   `mapstructure:"asset_b"`
	Path   []string `mapstructure:"path"`

	AmountA   string `mapstructure:"amount_a"`
	AmountB   string `mapstructure:"amount_b"`
	MinA      string `mapstructure:"min_a"`
	MinB      string `mapstructure:"min_b"`
	Liquidity string `mapstructure:"liquidity"`
	Amount    string `mapstructure:"amount"`
	Limit     string `mapstructure:"limit"`

	// Deadline is relative to the block time of the step.
	Deadline time.Duration `mapstructure:"deadline"`
	Duration time.Duration `mapstructure:"duration"`

	// ExpectError makes the step pass only if it fails with an error
	// containing this text.
	ExpectError string `mapstructure:"expect_error"`
}

// LoadScenario reads a scenario file. The format follows the extension.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("reading scenario %s: %w", filepath.Base(path), err)
	}

	var sc Scenario
	err := v.Unmarshal(&sc, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Scenario{}, fmt.Errorf("decoding scenario %s: %w", filepath.Base(path), err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks the scenario is self-consistent before anything runs.
func (sc *Scenario) Validate() error {
	if sc.ChainID == "" {
		sc.ChainID = "pawswap-sim-1"
	}
	if sc.GenesisTime.IsZero() {
		sc.GenesisTime = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	names := make(map[string]struct{}, len(sc.Accounts))
	for _, acc := range sc.Accounts {
		if acc.Name == "" {
			return fmt.Errorf("account without a name")
		}
		if _, dup := names[acc.Name]; dup {
			return fmt.Errorf("duplicate account %q", acc.Name)
		}
		if _, err := sdk.ParseCoinsNormalized(acc.Coins); err != nil {
			return fmt.Errorf("account %s: coins: %w", acc.Name, err)
		}
		names[acc.Name] = struct{}{}
	}
	known := func(name string) bool {
		_, ok := names[name]
		return ok
	}

	if sc.FeeToSetter != "" && !known(sc.FeeToSetter) {
		return fmt.Errorf("fee_to_setter %q is not an account", sc.FeeToSetter)
	}

	for i, st := range sc.Steps {
		switch st.Op {
		case OpAdvance:
			if st.Duration <= 0 {
				return fmt.Errorf("step %d: advance needs a positive duration", i)
			}
			continue
		case OpSync:
			continue
		case OpAddLiquidity, OpRemoveLiquidity, OpSwapExactIn, OpSwapExactOut, OpTransferClaim, OpSkim, OpSetFeeTo:
		default:
			return fmt.Errorf("step %d: unknown op %q", i, st.Op)
		}
		if st.Op == OpSkim {
			if !known(st.To) {
				return fmt.Errorf("step %d: skim needs a known recipient, got %q", i, st.To)
			}
		} else if !known(st.Account) {
			return fmt.Errorf("step %d: unknown account %q", i, st.Account)
		}
		if st.To != "" && !known(st.To) {
			return fmt.Errorf("step %d: unknown recipient %q", i, st.To)
		}
	}
	return nil
}

func parseAmount(field, value string) (math.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.ZeroInt(), nil
	}
	amount, ok := math.NewIntFromString(value)
	if !ok || amount.IsNegative() {
		return math.Int{}, fmt.Errorf("%s: invalid amount %q", field, value)
	}
	return amount, nil
}
