package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type Kind string

const (
	NoAccount        Kind = "no_account"
	NoAddress        Kind = "no_address"
	NoWallet         Kind = "no_wallet"
	InvalidAmount    Kind = "invalid_amount"
	InvalidAddress   Kind = "invalid_address"
	ZeroBalance      Kind = "zero_balance"
	RequestInFlight  Kind = "request_in_flight"
	RelayUnavailable Kind = "relay_unavailable"
	TxConfirmed      Kind = "tx_confirmed"
	TxFailed         Kind = "tx_failed"
)

type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notice is a blocking message for the user. It doubles as the error returned
// by the action that raised it.
type Notice struct {
	ID      string    `json:"id"`
	Kind    Kind      `json:"kind"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

func (n Notice) Error() string { return n.Message }

func New(kind Kind, msg string) Notice {
	level := LevelError
	if kind == TxConfirmed {
		level = LevelInfo
	}
	return Notice{
		ID:      uuid.NewString(),
		Kind:    kind,
		Level:   level,
		Message: msg,
		At:      time.Now().UTC(),
	}
}

type Notifier interface {
	Notify(n Notice)
}

// Board keeps the most recent notices for the UI to show.
type Board struct {
	mu    sync.Mutex
	limit int
	items []Notice
}

func NewBoard(limit int) *Board {
	if limit <= 0 {
		limit = 1
	}
	return &Board{limit: limit}
}

func (b *Board) Notify(n Notice) {
	if n.Level == LevelError {
		log.Warn("user notice", "kind", n.Kind, "message", n.Message)
	} else {
		log.Info("user notice", "kind", n.Kind, "message", n.Message)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, n)
	if over := len(b.items) - b.limit; over > 0 {
		b.items = append([]Notice(nil), b.items[over:]...)
	}
}

// Recent returns notices newest first.
func (b *Board) Recent() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Notice, 0, len(b.items))
	for i := len(b.items) - 1; i >= 0; i-- {
		out = append(out, b.items[i])
	}
	return out
}
