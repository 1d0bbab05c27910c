package main

import (
	"fmt"
	"os"

	"github.com/paw-chain/pawswap/cmd/pawswap-sim/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
