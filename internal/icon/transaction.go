package icon

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	methodCall            = "icx_call"
	methodSendTransaction = "icx_sendTransaction"
	dataTypeCall          = "call"
)

// Request is anything the node accepts as a SCORE invocation.
type Request interface {
	RPCMethod() string
}

// Call is a read-only SCORE invocation.
type Call struct {
	From   string
	To     string
	Method string
	Params map[string]any
}

func (c *Call) RPCMethod() string { return methodCall }

func (c *Call) rpcParams() map[string]any {
	data := map[string]any{"method": c.Method}
	if len(c.Params) > 0 {
		data["params"] = c.Params
	}
	out := map[string]any{
		"to":       c.To,
		"dataType": dataTypeCall,
		"data":     data,
	}
	if c.From != "" {
		out["from"] = c.From
	}
	return out
}

// CallTransaction is a state-changing SCORE invocation waiting for a signature.
type CallTransaction struct {
	Version   uint64
	From      string
	To        string
	Value     *big.Int
	StepLimit *big.Int
	NID       *big.Int
	Nonce     *big.Int
	Timestamp int64 // microseconds
	Method    string
	Params    map[string]any
}

func (t *CallTransaction) RPCMethod() string { return methodSendTransaction }

// ToRaw renders the transaction as the node's params object, quantities as
// 0x-prefixed hex.
func (t *CallTransaction) ToRaw() map[string]any {
	data := map[string]any{"method": t.Method}
	if len(t.Params) > 0 {
		data["params"] = t.Params
	}

	raw := map[string]any{
		"version":   hexutil.EncodeUint64(t.Version),
		"from":      t.From,
		"to":        t.To,
		"timestamp": hexutil.EncodeUint64(uint64(t.Timestamp)),
		"dataType":  dataTypeCall,
		"data":      data,
	}
	if t.Value != nil && t.Value.Sign() > 0 {
		raw["value"] = hexutil.EncodeBig(t.Value)
	}
	if t.StepLimit != nil {
		raw["stepLimit"] = hexutil.EncodeBig(t.StepLimit)
	}
	if t.NID != nil {
		raw["nid"] = hexutil.EncodeBig(t.NID)
	}
	if t.Nonce != nil {
		raw["nonce"] = hexutil.EncodeBig(t.Nonce)
	}
	return raw
}
