package actions

import (
	"context"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/liquid-icx/licx-client/internal/bridge"
	"github.com/liquid-icx/licx-client/internal/constants"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/session"
	"github.com/liquid-icx/licx-client/internal/units"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// Bridge is what the handlers need from the wallet bridge.
type Bridge interface {
	CheckAddress(address string) bool
	BuildTransaction(d bridge.Descriptor) (icon.Request, error)
	SubmitTransaction(ctx context.Context, tx *icon.CallTransaction) error
}

type Config struct {
	TransferStepLimit int64
	JoinStepLimit     int64
}

// Handlers validate user input and turn it into bridge submissions. They
// never talk to the extension directly.
type Handlers struct {
	cfg      Config
	bridge   Bridge
	wallet   session.Reader
	notifier notice.Notifier
}

func New(cfg Config, b Bridge, wallet session.Reader, notifier notice.Notifier) *Handlers {
	if cfg.TransferStepLimit <= 0 {
		cfg.TransferStepLimit = constants.DefaultTransferStepLimit
	}
	if cfg.JoinStepLimit <= 0 {
		cfg.JoinStepLimit = constants.DefaultJoinStepLimit
	}
	return &Handlers{cfg: cfg, bridge: b, wallet: wallet, notifier: notifier}
}

// Transfer sends amount LICX (display units) to the account at to.
func (h *Handlers) Transfer(ctx context.Context, to string, amount string) error {
	value, err := positiveLoop(amount)
	if err != nil {
		return h.reject(notice.InvalidAmount, "amount can't be zero or less")
	}
	to = strings.TrimSpace(to)
	if !h.bridge.CheckAddress(to) {
		return h.reject(notice.InvalidAddress, "invalid address")
	}
	w := h.wallet.Wallet()
	if w == nil {
		return h.reject(notice.NoWallet, "connect ICONex first")
	}

	return h.submit(ctx, bridge.Descriptor{
		Kind:   bridge.Write,
		Method: "transfer",
		From:   w.Address,
		Params: map[string]any{
			"_to":    to,
			"_value": hexutil.EncodeBig(value),
		},
		StepLimit: big.NewInt(h.cfg.TransferStepLimit),
	})
}

// Join swaps amount ICX (display units) into LICX.
func (h *Handlers) Join(ctx context.Context, amount string) error {
	w := h.wallet.Wallet()
	if w == nil {
		return h.reject(notice.NoWallet, "connect ICONex first")
	}
	if w.Balances.ICX == nil || w.Balances.ICX.Sign() == 0 {
		return h.reject(notice.ZeroBalance, "Buy some ICX first")
	}
	value, err := positiveLoop(amount)
	if err != nil {
		return h.reject(notice.InvalidAmount, "amount can't be zero or less")
	}

	return h.submit(ctx, bridge.Descriptor{
		Kind:      bridge.Write,
		Method:    "join",
		From:      w.Address,
		Params:    map[string]any{},
		Value:     value,
		StepLimit: big.NewInt(h.cfg.JoinStepLimit),
	})
}

func (h *Handlers) submit(ctx context.Context, d bridge.Descriptor) error {
	built, err := h.bridge.BuildTransaction(d)
	if err != nil {
		return errors.Wrapf(err, "build %s", d.Method)
	}
	tx, ok := built.(*icon.CallTransaction)
	if !ok {
		return errors.Newf("build %s: not a call transaction", d.Method)
	}
	if err := h.bridge.SubmitTransaction(ctx, tx); err != nil {
		return errors.Wrapf(err, "submit %s", d.Method)
	}
	log.Info("transaction submitted to relay", "method", d.Method, "from", d.From)
	return nil
}

func (h *Handlers) reject(kind notice.Kind, msg string) error {
	n := notice.New(kind, msg)
	h.notifier.Notify(n)
	return n
}

func positiveLoop(amount string) (*big.Int, error) {
	d, err := units.ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if !d.IsPositive() {
		return nil, errors.Wrapf(units.ErrInvalidAmount, "%s is not positive", d)
	}
	return units.ToLoop(d)
}
