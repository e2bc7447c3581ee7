package icon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultHTTPTimeout = 15 * time.Second

// Client talks JSON-RPC v3 to an ICON node. It only reads state and looks up
// results; signing and broadcasting belong to the relay.
type Client struct {
	endpoint   string
	httpClient *http.Client
	nextID     atomic.Int64
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("icon: empty endpoint")
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Endpoint() string { return c.endpoint }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// ScoreAPI describes one entry of a SCORE's public interface.
type ScoreAPI struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Inputs   []APIParam `json:"inputs"`
	Outputs  []APIParam `json:"outputs,omitempty"`
	Readonly string     `json:"readonly,omitempty"`
	Payable  string     `json:"payable,omitempty"`
}

type APIParam struct {
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Indexed string `json:"indexed,omitempty"`
}

// TransactionResult is the node's receipt for a finalized transaction.
type TransactionResult struct {
	Status             string   `json:"status"`
	To                 string   `json:"to"`
	TxHash             string   `json:"txHash"`
	TxIndex            string   `json:"txIndex"`
	BlockHeight        string   `json:"blockHeight"`
	BlockHash          string   `json:"blockHash"`
	StepUsed           string   `json:"stepUsed"`
	StepPrice          string   `json:"stepPrice"`
	CumulativeStepUsed string   `json:"cumulativeStepUsed"`
	ScoreAddress       string   `json:"scoreAddress,omitempty"`
	Failure            *Failure `json:"failure,omitempty"`
}

type Failure struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Succeeded reports whether the transaction executed without failure.
func (r *TransactionResult) Succeeded() bool {
	return r != nil && r.Status == "0x1"
}

func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	var out string
	if err := c.do(ctx, "icx_getBalance", map[string]any{"address": address}, &out); err != nil {
		return nil, errors.Wrapf(err, "get balance of %s", address)
	}
	bal, err := ParseBig(out)
	if err != nil {
		return nil, errors.Wrapf(err, "get balance of %s", address)
	}
	return bal, nil
}

// Call executes a read-only SCORE method and returns its raw result.
func (c *Client) Call(ctx context.Context, call *Call) (json.RawMessage, error) {
	if call == nil {
		return nil, errors.New("icon: nil call")
	}
	var out json.RawMessage
	if err := c.do(ctx, call.RPCMethod(), call.rpcParams(), &out); err != nil {
		return nil, errors.Wrapf(err, "call %s.%s", call.To, call.Method)
	}
	return out, nil
}

func (c *Client) GetScoreAPI(ctx context.Context, address string) ([]ScoreAPI, error) {
	var out []ScoreAPI
	if err := c.do(ctx, "icx_getScoreApi", map[string]any{"address": address}, &out); err != nil {
		return nil, errors.Wrapf(err, "get score api of %s", address)
	}
	return out, nil
}

func (c *Client) GetTransactionResult(ctx context.Context, txHash string) (*TransactionResult, error) {
	var out TransactionResult
	if err := c.do(ctx, "icx_getTransactionResult", map[string]any{"txHash": txHash}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method string, params any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return errors.Wrap(err, "marshal rpc request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build rpc request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return errors.Wrapf(err, "read %s response", method)
	}

	// The node reports JSON-RPC errors with non-2xx statuses, so decode first.
	var rr rpcResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return errors.Newf("%s: http %d: %s", method, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if rr.Error != nil {
		return rr.Error
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Newf("%s: http %d", method, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rr.Result, out); err != nil {
		return errors.Wrapf(err, "decode %s result", method)
	}
	return nil
}
