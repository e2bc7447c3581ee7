package icon

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Node error codes for a transaction that is not final yet.
const (
	CodePending   = -31002
	CodeExecuting = -31003
)

// RPCError is a JSON-RPC error object returned by the node.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("icon rpc error %d: %s", e.Code, e.Message)
}

// IsPending reports whether err means the transaction result is not available
// yet and the lookup should be repeated.
func IsPending(err error) bool {
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	if rpcErr.Code == CodePending || rpcErr.Code == CodeExecuting {
		return true
	}
	return strings.Contains(strings.ToLower(rpcErr.Message), "pending transaction")
}
