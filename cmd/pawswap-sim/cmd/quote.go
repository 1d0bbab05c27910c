package cmd

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/pawswap/x/amm/types"
)

const flagExactOut = "exact-out"

// QuoteCmd prices a single hop from raw reserves.
func QuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [amount] [reserve-in] [reserve-out]",
		Short: "Quote one swap hop against the given reserves",
		Long: `Print the output of selling amount into a pool with the given reserves, after
the 0.3% fee. With --exact-out, amount is the desired output and the required
input is printed instead.`,
		Example: "pawswap-sim quote 100 10000 10000",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make([]math.Int, len(args))
			for i, arg := range args {
				v, err := parseAmount(fmt.Sprintf("argument %d", i+1), arg)
				if err != nil {
					return err
				}
				values[i] = v
			}

			exactOut, err := cmd.Flags().GetBool(flagExactOut)
			if err != nil {
				return err
			}

			quote := types.GetAmountOut
			if exactOut {
				quote = types.GetAmountIn
			}
			result, err := quote(values[0], values[1], values[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}

	cmd.Flags().Bool(flagExactOut, false, "treat amount as the desired output")
	return cmd
}
