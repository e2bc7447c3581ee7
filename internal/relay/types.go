package relay

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/constants"
)

// RequestType tags an application to extension message.
type RequestType string

// ResponseType tags an extension to application message.
type ResponseType string

const (
	RequestHasAccount RequestType = "REQUEST_HAS_ACCOUNT"
	RequestHasAddress RequestType = "REQUEST_HAS_ADDRESS"
	RequestAddress    RequestType = "REQUEST_ADDRESS"
	RequestJSONRPC    RequestType = "REQUEST_JSON-RPC"
)

const (
	ResponseHasAccount ResponseType = "RESPONSE_HAS_ACCOUNT"
	ResponseHasAddress ResponseType = "RESPONSE_HAS_ADDRESS"
	ResponseAddress    ResponseType = "RESPONSE_ADDRESS"
	ResponseJSONRPC    ResponseType = "RESPONSE_JSON-RPC"
)

var ErrMalformedPayload = errors.New("relay: malformed payload")

// Request is the detail of an ICONEX_RELAY_REQUEST event.
type Request struct {
	Type    RequestType     `json:"type"`
	Payload *JSONRPCRequest `json:"payload"`
}

// Response is the detail of an ICONEX_RELAY_RESPONSE event. The payload
// shape depends on Type and is decoded lazily.
type Response struct {
	Type    ResponseType    `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// JSONRPCRequest wraps a raw transaction for the extension to sign and broadcast.
type JSONRPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params"`
	ID      int            `json:"id"`
}

// JSONRPCResult is what the extension returns after broadcasting.
type JSONRPCResult struct {
	Result string        `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}

type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *JSONRPCError) Error() string {
	return e.Message
}

// NewSendTransaction builds the REQUEST_JSON-RPC payload for icx_sendTransaction.
func NewSendTransaction(rawTx map[string]any) Request {
	return Request{
		Type: RequestJSONRPC,
		Payload: &JSONRPCRequest{
			JSONRPC: constants.JSONRPCVersion,
			Method:  constants.SendTransactionRPC,
			Params:  rawTx,
			ID:      constants.RelayRPCID,
		},
	}
}

// Pairs maps a response kind back to the request kind it answers.
func (t ResponseType) Pairs() (RequestType, bool) {
	switch t {
	case ResponseHasAccount:
		return RequestHasAccount, true
	case ResponseHasAddress:
		return RequestHasAddress, true
	case ResponseAddress:
		return RequestAddress, true
	case ResponseJSONRPC:
		return RequestJSONRPC, true
	default:
		return "", false
	}
}

func (r Response) Bool() (bool, error) {
	var v bool
	if err := json.Unmarshal(r.Payload, &v); err != nil {
		return false, errors.Wrapf(ErrMalformedPayload, "%s: %v", r.Type, err)
	}
	return v, nil
}

func (r Response) Address() (string, error) {
	var v string
	if err := json.Unmarshal(r.Payload, &v); err != nil {
		return "", errors.Wrapf(ErrMalformedPayload, "%s: %v", r.Type, err)
	}
	v = strings.TrimSpace(v)
	if v == "" {
		return "", errors.Wrapf(ErrMalformedPayload, "%s: empty address", r.Type)
	}
	return v, nil
}

func (r Response) JSONRPC() (JSONRPCResult, error) {
	var v JSONRPCResult
	if err := json.Unmarshal(r.Payload, &v); err != nil {
		return JSONRPCResult{}, errors.Wrapf(ErrMalformedPayload, "%s: %v", r.Type, err)
	}
	if v.Error == nil && strings.TrimSpace(v.Result) == "" {
		return JSONRPCResult{}, errors.Wrapf(ErrMalformedPayload, "%s: missing result", r.Type)
	}
	return v, nil
}
