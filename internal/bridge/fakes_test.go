package bridge

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/event"
	"github.com/liquid-icx/licx-client/internal/icon"
	"github.com/liquid-icx/licx-client/internal/notice"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/liquid-icx/licx-client/internal/session"
	"github.com/quantumauth-io/quantum-go-utils/retry"
	"github.com/stretchr/testify/require"
)

const (
	testScore   = "cx4322ccf1ad0578a8909a162b9154170859c913eb"
	testAddress = "hx1234567890abcdef1234567890abcdef12345678"
)

type fakeChannel struct {
	mu          sync.Mutex
	dispatched  []relay.Request
	subscribed  int
	dispatchErr error
	feed        event.FeedOf[relay.Response]
}

func (f *fakeChannel) Dispatch(ctx context.Context, req relay.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dispatchErr != nil {
		return f.dispatchErr
	}
	f.dispatched = append(f.dispatched, req)
	return nil
}

func (f *fakeChannel) SubscribeResponses(sink chan<- relay.Response) event.Subscription {
	f.mu.Lock()
	f.subscribed++
	f.mu.Unlock()
	return f.feed.Subscribe(sink)
}

func (f *fakeChannel) respond(resp relay.Response) {
	f.feed.Send(resp)
}

func (f *fakeChannel) requests() []relay.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]relay.Request(nil), f.dispatched...)
}

func (f *fakeChannel) subscriptions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribed
}

type fakeChain struct {
	mu           sync.Mutex
	icx          string
	licx         string
	balanceCalls []string
	tokenCalls   []*icon.Call
	lookups      int
	results      []func() (*icon.TransactionResult, error)
	api          []icon.ScoreAPI
}

func (f *fakeChain) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls = append(f.balanceCalls, address)
	return icon.ParseBig(f.icx)
}

func (f *fakeChain) Call(ctx context.Context, call *icon.Call) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokenCalls = append(f.tokenCalls, call)
	return json.Marshal(f.licx)
}

func (f *fakeChain) GetScoreAPI(ctx context.Context, address string) ([]icon.ScoreAPI, error) {
	return f.api, nil
}

func (f *fakeChain) GetTransactionResult(ctx context.Context, txHash string) (*icon.TransactionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.lookups
	f.lookups++
	if i >= len(f.results) {
		return nil, &icon.RPCError{Code: icon.CodePending, Message: "Pending transaction"}
	}
	return f.results[i]()
}

func (f *fakeChain) balanceLookups() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.balanceCalls...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notice.Notice
}

func (r *recordingNotifier) Notify(n notice.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recordingNotifier) kinds() []notice.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notice.Kind, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n.Kind)
	}
	return out
}

type harness struct {
	bridge   *Bridge
	channel  *fakeChannel
	chain    *fakeChain
	state    *session.State
	notifier *recordingNotifier
}

func newHarness(t *testing.T, cfg Config, opts ...Option) *harness {
	t.Helper()
	if cfg.Score == "" {
		cfg.Score = testScore
	}
	if cfg.NID == 0 {
		cfg.NID = 3
	}
	h := &harness{
		channel:  &fakeChannel{},
		chain:    &fakeChain{icx: "0x0", licx: "0x0"},
		state:    session.New(true),
		notifier: &recordingNotifier{},
	}
	opts = append([]Option{WithRetryConfig(fastRetry(time.Millisecond))}, opts...)
	b, err := New(cfg, h.chain, h.channel, h.state, h.notifier, opts...)
	require.NoError(t, err)
	t.Cleanup(b.Close)
	h.bridge = b
	return h
}

// fastRetry is the production poll schedule with a shorter flat delay.
func fastRetry(d time.Duration) *retry.Config {
	cfg := pollRetryConfig()
	cfg.InitialDelayBeforeRetrying = d
	cfg.MaxDelayBeforeRetrying = d
	return cfg
}

func pendingErr() (*icon.TransactionResult, error) {
	return nil, &icon.RPCError{Code: -32602, Message: "Pending transaction"}
}

func fixedClock() time.Time {
	return time.Date(2020, 9, 13, 12, 26, 40, 123456000, time.UTC)
}

func loop(t *testing.T, s string) *big.Int {
	t.Helper()
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	require.True(t, ok)
	return n
}
