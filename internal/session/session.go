package session

import (
	"math/big"
	"sync"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
)

// Balances are raw loop amounts.
type Balances struct {
	ICX  *big.Int `json:"icx"`
	LICX *big.Int `json:"licx"`
}

type Wallet struct {
	Address  string   `json:"address"`
	Balances Balances `json:"balances"`
}

func (w Wallet) clone() Wallet {
	return Wallet{
		Address: w.Address,
		Balances: Balances{
			ICX:  cloneBig(w.Balances.ICX),
			LICX: cloneBig(w.Balances.LICX),
		},
	}
}

func cloneBig(n *big.Int) *big.Int {
	if n == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(n)
}

// Reader is the read side of the session, handed to action handlers and the UI.
type Reader interface {
	Wallet() *Wallet
	Dev() bool
}

// State is the process-wide session. Only the bridge writes it.
type State struct {
	mu     sync.RWMutex
	wallet *Wallet

	listenerAttached atomic.Bool
	dev              bool

	walletFeed event.FeedOf[Wallet]
}

func New(dev bool) *State {
	return &State{dev: dev}
}

func (s *State) Dev() bool { return s.dev }

// Wallet returns a copy of the current wallet, nil before connection.
func (s *State) Wallet() *Wallet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallet == nil {
		return nil
	}
	w := s.wallet.clone()
	return &w
}

// SetWallet replaces the wallet wholesale and notifies observers.
func (s *State) SetWallet(w Wallet) {
	stored := w.clone()
	s.mu.Lock()
	s.wallet = &stored
	s.mu.Unlock()

	s.walletFeed.Send(stored.clone())
}

// AttachListener flips the listener flag and reports whether this call did it.
func (s *State) AttachListener() bool {
	return s.listenerAttached.CompareAndSwap(false, true)
}

func (s *State) ListenerAttached() bool {
	return s.listenerAttached.Load()
}

// DetachListener resets the flag so the listener can be attached again.
func (s *State) DetachListener() {
	s.listenerAttached.Store(false)
}

func (s *State) SubscribeWallet(sink chan<- Wallet) event.Subscription {
	return s.walletFeed.Subscribe(sink)
}
