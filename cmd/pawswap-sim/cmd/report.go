package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/paw-chain/pawswap/x/amm/keeper"
	"github.com/paw-chain/pawswap/x/amm/types"
)

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index  int    `json:"index"`
	Op     string `json:"op"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// PairReport is the final state of one pair.
type PairReport struct {
	Id                   uint64 `json:"id"`
	Asset0               string `json:"asset0"`
	Asset1               string `json:"asset1"`
	Reserve0             string `json:"reserve0"`
	Reserve1             string `json:"reserve1"`
	TotalSupply          string `json:"total_supply"`
	KLast                string `json:"k_last"`
	SpotPrice0           string `json:"spot_price0,omitempty"`
	Price0CumulativeLast string `json:"price0_cumulative_last"`
	Price1CumulativeLast string `json:"price1_cumulative_last"`
	BlockTimestampLast   uint32 `json:"block_timestamp_last"`
}

// Report is the result of a scenario run.
type Report struct {
	RunID      string       `json:"run_id"`
	ChainID    string       `json:"chain_id"`
	Steps      []StepResult `json:"steps"`
	Pairs      []PairReport `json:"pairs"`
	Invariants string       `json:"invariants"`
}

func (e *simEnv) report(runID, chainID string, steps []StepResult) (*Report, error) {
	pairs, err := e.keeper.GetAllPairs(e.ctx)
	if err != nil {
		return nil, err
	}

	r := &Report{RunID: runID, ChainID: chainID, Steps: steps, Invariants: "ok"}
	for _, p := range pairs {
		pr := PairReport{
			Id:                   p.Id,
			Asset0:               p.Asset0,
			Asset1:               p.Asset1,
			Reserve0:             p.Reserve0.String(),
			Reserve1:             p.Reserve1.String(),
			TotalSupply:          p.TotalSupply.String(),
			KLast:                p.KLast.String(),
			Price0CumulativeLast: p.Price0CumulativeLast.String(),
			Price1CumulativeLast: p.Price1CumulativeLast.String(),
			BlockTimestampLast:   p.BlockTimestampLast,
		}
		if p.Reserve0.IsPositive() {
			pr.SpotPrice0 = types.DecodePrice(types.EncodePrice(p.Reserve1, p.Reserve0)).String()
		}
		r.Pairs = append(r.Pairs, pr)
	}

	if msg, broken := keeper.AllInvariants(*e.keeper)(e.ctx); broken {
		r.Invariants = msg
	}
	return r, nil
}

func writeReport(w io.Writer, r *Report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	for _, st := range r.Steps {
		if st.Error != "" {
			fmt.Fprintf(w, "%3d %-17s expected error: %s\n", st.Index, st.Op, st.Error)
			continue
		}
		fmt.Fprintf(w, "%3d %-17s %s\n", st.Index, st.Op, st.Result)
	}
	fmt.Fprintln(w)
	for _, p := range r.Pairs {
		fmt.Fprintf(w, "pair %d %s/%s reserves %s/%s supply %s", p.Id, p.Asset0, p.Asset1, p.Reserve0, p.Reserve1, p.TotalSupply)
		if p.SpotPrice0 != "" {
			fmt.Fprintf(w, " price0 %s", p.SpotPrice0)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "invariants: %s\n", r.Invariants)
	return nil
}
