package icon

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	Method string         `json:"method"`
	Params map[string]any `json:"params"`
}

func newNode(t *testing.T, handle func(call recordedCall) (any, *RPCError)) (*Client, *[]recordedCall) {
	t.Helper()
	var (
		mu    sync.Mutex
		calls []recordedCall
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call recordedCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		mu.Lock()
		calls = append(calls, call)
		mu.Unlock()

		result, rpcErr := handle(call)
		w.Header().Set("Content-Type", "application/json")
		if rpcErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "error": rpcErr})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": 1, "result": result})
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	return c, &calls
}

func TestGetBalanceIsExact(t *testing.T) {
	c, calls := newNode(t, func(call recordedCall) (any, *RPCError) {
		return "0xde0b6b3a7640000", nil
	})

	bal, err := c.GetBalance(context.Background(), "hx0000000000000000000000000000000000000001")
	require.NoError(t, err)

	want, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, 0, want.Cmp(bal))
	require.Len(t, *calls, 1)
	assert.Equal(t, "icx_getBalance", (*calls)[0].Method)
	assert.Equal(t, "hx0000000000000000000000000000000000000001", (*calls)[0].Params["address"])
}

func TestCallSendsDataEnvelope(t *testing.T) {
	c, calls := newNode(t, func(call recordedCall) (any, *RPCError) {
		return "0x2a", nil
	})

	raw, err := c.Call(context.Background(), &Call{
		To:     "cx4322ccf1ad0578a8909a162b9154170859c913eb",
		Method: "balanceOf",
		Params: map[string]any{"_owner": "hx0000000000000000000000000000000000000001"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `"0x2a"`, string(raw))

	got := (*calls)[0]
	assert.Equal(t, "icx_call", got.Method)
	assert.Equal(t, "call", got.Params["dataType"])
	data := got.Params["data"].(map[string]any)
	assert.Equal(t, "balanceOf", data["method"])
	assert.Equal(t, map[string]any{"_owner": "hx0000000000000000000000000000000000000001"}, data["params"])
	_, hasFrom := got.Params["from"]
	assert.False(t, hasFrom)
}

func TestGetTransactionResultPending(t *testing.T) {
	c, _ := newNode(t, func(call recordedCall) (any, *RPCError) {
		return nil, &RPCError{Code: -32602, Message: "Pending transaction"}
	})

	_, err := c.GetTransactionResult(context.Background(), "0xabc")
	require.Error(t, err)
	assert.True(t, IsPending(err))
}

func TestGetTransactionResult(t *testing.T) {
	c, _ := newNode(t, func(call recordedCall) (any, *RPCError) {
		assert.Equal(t, "0xabc", call.Params["txHash"])
		return map[string]any{"status": "0x1", "txHash": "0xabc", "blockHeight": "0x10"}, nil
	})

	res, err := c.GetTransactionResult(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.True(t, res.Succeeded())
	assert.Equal(t, "0x10", res.BlockHeight)
}

func TestGetScoreAPI(t *testing.T) {
	c, _ := newNode(t, func(call recordedCall) (any, *RPCError) {
		return []map[string]any{
			{"type": "function", "name": "join", "inputs": []any{}, "payable": "0x1"},
			{"type": "function", "name": "balanceOf", "inputs": []any{map[string]any{"name": "_owner", "type": "Address"}}, "readonly": "0x1"},
		}, nil
	})

	api, err := c.GetScoreAPI(context.Background(), "cx4322ccf1ad0578a8909a162b9154170859c913eb")
	require.NoError(t, err)
	require.Len(t, api, 2)
	assert.Equal(t, "join", api[0].Name)
	assert.Equal(t, "_owner", api[1].Inputs[0].Name)
}

func TestNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	_, err = c.GetBalance(context.Background(), "hx0000000000000000000000000000000000000001")
	require.Error(t, err)
	assert.False(t, IsPending(err))
}

func TestIsPending(t *testing.T) {
	assert.True(t, IsPending(&RPCError{Code: CodePending, Message: "Pending: tx"}))
	assert.True(t, IsPending(&RPCError{Code: CodeExecuting, Message: "Executing"}))
	assert.True(t, IsPending(errors.Wrap(&RPCError{Code: -32602, Message: "Pending transaction"}, "lookup")))
	assert.False(t, IsPending(&RPCError{Code: -32602, Message: "Invalid params txHash"}))
	assert.False(t, IsPending(errors.New("pending transaction")))
	assert.False(t, IsPending(nil))
}
