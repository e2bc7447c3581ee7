package bridge

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/liquid-icx/licx-client/internal/relay"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

// ErrRequestInFlight is returned when a request of the same kind is still
// waiting for its response. The relay carries no correlation id, so a second
// one could not be told apart from the first.
var ErrRequestInFlight = errors.New("relay request already in flight")

type slot struct {
	timer *time.Timer
}

func (s *slot) stop() {
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (b *Bridge) acquire(kind relay.RequestType) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, busy := b.inflight[kind]; busy {
		return errors.Wrapf(ErrRequestInFlight, "%s", kind)
	}
	s := &slot{}
	if b.cfg.RequestTimeout > 0 {
		s.timer = time.AfterFunc(b.cfg.RequestTimeout, func() { b.expire(kind, s) })
	}
	b.inflight[kind] = s
	return nil
}

func (b *Bridge) release(kind relay.RequestType) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.inflight[kind]; ok {
		s.stop()
		delete(b.inflight, kind)
	}
}

func (b *Bridge) expire(kind relay.RequestType, s *slot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.inflight[kind] != s {
		return
	}
	delete(b.inflight, kind)
	log.Warn("relay request timed out", "type", kind, "timeout", b.cfg.RequestTimeout)
}

// Awaiting reports whether a request of kind is waiting for its response.
func (b *Bridge) Awaiting(kind relay.RequestType) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.inflight[kind]
	return ok
}
