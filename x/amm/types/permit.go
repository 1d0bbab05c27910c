package types

import (
	"encoding/json"
	"strconv"
	"time"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

type permitDoc struct {
	Type     string `json:"type"`
	ChainID  string `json:"chain_id"`
	Pair     string `json:"pair"`
	Owner    string `json:"owner"`
	Spender  string `json:"spender"`
	Value    string `json:"value"`
	Nonce    string `json:"nonce"`
	Deadline string `json:"deadline"`
}

// PermitSignBytes returns the canonical bytes an owner signs to approve
// spender for value claim tokens of the pair at pairAddress. The chain id and
// pair address bind the signature to one ledger; the nonce makes it single use.
func PermitSignBytes(chainID string, pairAddress, owner, spender sdk.AccAddress, value math.Int, nonce uint64, deadline time.Time) []byte {
	bz, err := json.Marshal(permitDoc{
		Type:     ModuleName + "/Permit",
		ChainID:  chainID,
		Pair:     pairAddress.String(),
		Owner:    owner.String(),
		Spender:  spender.String(),
		Value:    value.String(),
		Nonce:    strconv.FormatUint(nonce, 10),
		Deadline: strconv.FormatInt(deadline.Unix(), 10),
	})
	if err != nil {
		panic(err)
	}
	return sdk.MustSortJSON(bz)
}
