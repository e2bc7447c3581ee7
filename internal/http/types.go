package http

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
)

type okResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
	Data  any    `json:"data,omitempty"`
}

type pairExchangeReq struct {
	PairID string `json:"pair_id"`
	Code   string `json:"code"`
}

type pairExchangeResp struct {
	OK     bool   `json:"ok"`
	Token  string `json:"token"`
	Header string `json:"header"`
}

// amount accepts both "1.5" and 1.5 so the UI can post either.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrap(err, "amount")
	}
	*a = amount(n.String())
	return nil
}

type transferReq struct {
	To     string `json:"to"`
	Amount amount `json:"amount"`
}

type joinReq struct {
	Amount amount `json:"amount"`
}

type balancesView struct {
	ICX  string `json:"icx"`
	LICX string `json:"licx"`
}

type walletView struct {
	Connected bool          `json:"connected"`
	Listening bool          `json:"listening"`
	Address   string        `json:"address,omitempty"`
	Balances  *balancesView `json:"balances,omitempty"`
	Display   *balancesView `json:"display,omitempty"`
}
