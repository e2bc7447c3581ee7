package bridge

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/liquid-icx/licx-client/internal/icon"
)

type Kind int

const (
	Read Kind = iota
	Write
)

func (k Kind) String() string {
	switch k {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Descriptor describes one score invocation. To defaults to the LICX score.
// From, Value and StepLimit only apply to writes.
type Descriptor struct {
	Kind      Kind
	Method    string
	From      string
	To        string
	Params    map[string]any
	Value     *big.Int
	StepLimit *big.Int
}

var ErrInvalidDescriptor = errors.New("invalid transaction descriptor")

// BuildTransaction turns d into an *icon.Call or an *icon.CallTransaction.
// It does no I/O.
func (b *Bridge) BuildTransaction(d Descriptor) (icon.Request, error) {
	switch d.Kind {
	case Read:
		return b.buildCall(d)
	case Write:
		return b.buildCallTransaction(d)
	default:
		return nil, errors.Wrapf(ErrInvalidDescriptor, "kind %d", d.Kind)
	}
}

func (b *Bridge) buildCall(d Descriptor) (*icon.Call, error) {
	if strings.TrimSpace(d.Method) == "" {
		return nil, errors.Wrap(ErrInvalidDescriptor, "missing method")
	}
	return &icon.Call{
		From:   d.From,
		To:     b.target(d),
		Method: d.Method,
		Params: d.Params,
	}, nil
}

func (b *Bridge) buildCallTransaction(d Descriptor) (*icon.CallTransaction, error) {
	if strings.TrimSpace(d.Method) == "" {
		return nil, errors.Wrap(ErrInvalidDescriptor, "missing method")
	}
	if !icon.IsEOA(d.From) {
		return nil, errors.Wrapf(ErrInvalidDescriptor, "invalid from address %q", d.From)
	}
	if d.StepLimit == nil || d.StepLimit.Sign() <= 0 {
		return nil, errors.Wrap(ErrInvalidDescriptor, "step limit must be positive")
	}
	value := new(big.Int)
	if d.Value != nil {
		if d.Value.Sign() < 0 {
			return nil, errors.Wrap(ErrInvalidDescriptor, "negative value")
		}
		value.Set(d.Value)
	}

	return &icon.CallTransaction{
		Version:   constants.TxVersion,
		From:      d.From,
		To:        b.target(d),
		Value:     value,
		StepLimit: new(big.Int).Set(d.StepLimit),
		NID:       big.NewInt(b.cfg.NID),
		Nonce:     big.NewInt(constants.TxNonce),
		Timestamp: b.now().UnixMicro(),
		Method:    d.Method,
		Params:    d.Params,
	}, nil
}

func (b *Bridge) target(d Descriptor) string {
	if d.To != "" {
		return d.To
	}
	return b.cfg.Score
}
