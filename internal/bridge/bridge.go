package bridge

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/liquid-icx/licx-client/internal/session"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/quantumauth-io/quantum-go-utils/retry"
)

// Chain is the subset of the ICON node API the bridge reads from.
type Chain interface {
	GetBalance(ctx context.Context, address string) (*big.Int, error)
	Call(ctx context.Context, call *icon.Call) (json.RawMessage, error)
	GetScoreAPI(ctx context.Context, address string) ([]icon.ScoreAPI, error)
	GetTransactionResult(ctx context.Context, txHash string) (*icon.TransactionResult, error)
}

// Session is the writable session the bridge owns.
type Session interface {
	session.Reader
	SetWallet(w session.Wallet)
	AttachListener() bool
	DetachListener()
}

type Config struct {
	NID            int64
	Score          string
	RequestTimeout time.Duration
}

type Option func(*Bridge)

// WithClock overrides the timestamp source used for write transactions.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.now = now }
}

// WithRetryConfig overrides the transaction result poll schedule.
func WithRetryConfig(cfg *retry.Config) Option {
	return func(b *Bridge) { b.retry = cfg }
}

// Bridge mediates between the application, the relay extension and the node.
type Bridge struct {
	cfg      Config
	chain    Chain
	relay    relay.Channel
	state    Session
	notifier notice.Notifier

	now   func() time.Time
	retry *retry.Config

	mu       sync.Mutex
	inflight map[relay.RequestType]*slot

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(cfg Config, chain Chain, ch relay.Channel, state Session, notifier notice.Notifier, opts ...Option) (*Bridge, error) {
	if chain == nil || ch == nil || state == nil || notifier == nil {
		return nil, errors.New("bridge: missing dependency")
	}
	if !icon.IsContract(cfg.Score) {
		return nil, errors.Newf("bridge: invalid score address %q", cfg.Score)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		cfg:      cfg,
		chain:    chain,
		relay:    ch,
		state:    state,
		notifier: notifier,
		now:      time.Now,
		retry:    pollRetryConfig(),
		inflight: make(map[relay.RequestType]*slot),
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Close stops the listener and any running poll loops.
func (b *Bridge) Close() {
	b.cancel()
	b.wg.Wait()

	b.mu.Lock()
	for kind, s := range b.inflight {
		s.stop()
		delete(b.inflight, kind)
	}
	b.mu.Unlock()

	b.state.DetachListener()
}

// EnsureListenerAttached subscribes to relay responses exactly once.
func (b *Bridge) EnsureListenerAttached() {
	if !b.state.AttachListener() {
		return
	}

	responses := make(chan relay.Response, 16)
	sub := b.relay.SubscribeResponses(responses)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer sub.Unsubscribe()
		for {
			select {
			case resp := <-responses:
				b.HandleRelayResponse(b.ctx, resp)
			case err := <-sub.Err():
				if err != nil {
					log.Error("relay subscription failed", "error", err)
				}
				b.state.DetachListener()
				return
			case <-b.ctx.Done():
				return
			}
		}
	}()
	log.Info("relay listener attached")
}

// Connect starts the discovery chain: account, address presence, address.
func (b *Bridge) Connect(ctx context.Context) error {
	b.EnsureListenerAttached()
	return b.RequestAccountPresence(ctx)
}

func (b *Bridge) RequestAccountPresence(ctx context.Context) error {
	return b.dispatch(ctx, relay.Request{Type: relay.RequestHasAccount})
}

func (b *Bridge) RequestAddressPresence(ctx context.Context) error {
	return b.dispatch(ctx, relay.Request{Type: relay.RequestHasAddress})
}

func (b *Bridge) RequestAddress(ctx context.Context) error {
	return b.dispatch(ctx, relay.Request{Type: relay.RequestAddress})
}

// SubmitTransaction hands tx to the extension for signing and broadcast. The
// hash comes back later as a RESPONSE_JSON-RPC event.
func (b *Bridge) SubmitTransaction(ctx context.Context, tx *icon.CallTransaction) error {
	if tx == nil {
		return errors.New("bridge: nil transaction")
	}
	return b.dispatch(ctx, relay.NewSendTransaction(tx.ToRaw()))
}

// HandleRelayResponse is the single entry point for extension replies. It
// never panics; malformed payloads are dropped.
func (b *Bridge) HandleRelayResponse(ctx context.Context, resp relay.Response) {
	kind, known := resp.Type.Pairs()
	if !known {
		b.trace("ignoring relay response", "type", resp.Type)
		return
	}
	b.release(kind)

	switch resp.Type {
	case relay.ResponseHasAccount:
		ok, err := resp.Bool()
		if err != nil {
			b.drop(resp, err)
			return
		}
		if !ok {
			b.notifier.Notify(notice.New(notice.NoAccount, "ICONex has no account. Create or import a wallet first."))
			return
		}
		if err := b.RequestAddressPresence(ctx); err != nil {
			log.Error("request address presence failed", "error", err)
		}

	case relay.ResponseHasAddress:
		ok, err := resp.Bool()
		if err != nil {
			b.drop(resp, err)
			return
		}
		if !ok {
			b.notifier.Notify(notice.New(notice.NoAddress, "ICONex has no address available."))
			return
		}
		if err := b.RequestAddress(ctx); err != nil {
			log.Error("request address failed", "error", err)
		}

	case relay.ResponseAddress:
		addr, err := resp.Address()
		if err == nil && !b.CheckAddress(addr) {
			err = errors.Wrapf(relay.ErrMalformedPayload, "not an account address: %q", addr)
		}
		if err != nil {
			b.drop(resp, err)
			return
		}
		if err := b.refreshWallet(ctx, addr); err != nil {
			log.Error("wallet refresh failed", "address", addr, "error", err)
		}

	case relay.ResponseJSONRPC:
		res, err := resp.JSONRPC()
		if err != nil {
			b.drop(resp, err)
			return
		}
		if res.Error != nil {
			b.notifier.Notify(notice.New(notice.TxFailed, "transaction rejected: "+res.Error.Message))
			return
		}
		hash := strings.TrimSpace(res.Result)
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			_, _ = b.PollTransactionResult(b.ctx, hash)
		}()
	}
}

// FetchBalances reads the ICX balance and the LICX token balance of address.
func (b *Bridge) FetchBalances(ctx context.Context, address string) (session.Balances, error) {
	icx, err := b.chain.GetBalance(ctx, address)
	if err != nil {
		return session.Balances{}, errors.Wrap(err, "icx balance")
	}

	call, err := b.buildCall(Descriptor{
		Kind:   Read,
		Method: "balanceOf",
		Params: map[string]any{"_owner": address},
	})
	if err != nil {
		return session.Balances{}, err
	}
	raw, err := b.chain.Call(ctx, call)
	if err != nil {
		return session.Balances{}, errors.Wrap(err, "licx balance")
	}
	var quantity string
	if err := json.Unmarshal(raw, &quantity); err != nil {
		return session.Balances{}, errors.Wrapf(err, "decode licx balance %s", string(raw))
	}
	licx, err := icon.ParseBig(quantity)
	if err != nil {
		return session.Balances{}, errors.Wrap(err, "licx balance")
	}

	return session.Balances{ICX: icx, LICX: licx}, nil
}

// ContractAPI lists the LICX score's public methods.
func (b *Bridge) ContractAPI(ctx context.Context) ([]icon.ScoreAPI, error) {
	return b.chain.GetScoreAPI(ctx, b.cfg.Score)
}

// CheckAddress reports whether address is a valid account (hx) address.
func (b *Bridge) CheckAddress(address string) bool {
	return icon.IsEOA(address)
}

func (b *Bridge) refreshWallet(ctx context.Context, address string) error {
	balances, err := b.FetchBalances(ctx, address)
	if err != nil {
		return err
	}
	b.state.SetWallet(session.Wallet{Address: address, Balances: balances})
	b.trace("wallet refreshed", "address", address, "icx", balances.ICX, "licx", balances.LICX)
	return nil
}

func (b *Bridge) dispatch(ctx context.Context, req relay.Request) error {
	if err := b.acquire(req.Type); err != nil {
		b.notifier.Notify(notice.New(notice.RequestInFlight, "Waiting for ICONex to answer the previous request."))
		return err
	}
	if err := b.relay.Dispatch(ctx, req); err != nil {
		b.release(req.Type)
		if errors.Is(err, relay.ErrNoRelay) {
			b.notifier.Notify(notice.New(notice.RelayUnavailable, "ICONex extension is not connected."))
		}
		return errors.Wrapf(err, "dispatch %s", req.Type)
	}
	b.trace("relay request dispatched", "type", req.Type)
	return nil
}

func (b *Bridge) drop(resp relay.Response, err error) {
	b.trace("dropping relay response", "type", resp.Type, "error", err)
}

func (b *Bridge) trace(msg string, kv ...any) {
	if b.state.Dev() {
		log.Info(msg, kv...)
	}
}
