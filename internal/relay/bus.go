package relay

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/event"
)

// ErrNoRelay means nothing on the extension side is listening.
var ErrNoRelay = errors.New("relay: no extension attached")

// Channel is the application's view of the relay: it sends requests and
// receives responses. Requests carry no correlation id.
type Channel interface {
	Dispatch(ctx context.Context, req Request) error
	SubscribeResponses(sink chan<- Response) event.Subscription
}

// Bus is the in-process relay. The extension-side transport subscribes to
// requests and pushes responses back through Respond.
type Bus struct {
	requests  event.FeedOf[Request]
	responses event.FeedOf[Response]
}

func NewBus() *Bus {
	return &Bus{}
}

// Dispatch hands req to every request subscriber. It gives up when ctx ends
// before the subscribers took it; the request may still be delivered later.
func (b *Bus) Dispatch(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sent := make(chan int, 1)
	go func() { sent <- b.requests.Send(req) }()

	select {
	case n := <-sent:
		if n == 0 {
			return errors.Wrapf(ErrNoRelay, "dispatch %s", req.Type)
		}
		return nil
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "dispatch %s", req.Type)
	}
}

func (b *Bus) SubscribeResponses(sink chan<- Response) event.Subscription {
	return b.responses.Subscribe(sink)
}

// SubscribeRequests is used by the extension side. The sink must be drained
// promptly; a stalled sink holds every Dispatch until its ctx ends.
func (b *Bus) SubscribeRequests(sink chan<- Request) event.Subscription {
	return b.requests.Subscribe(sink)
}

// Respond delivers an extension response to every listener and reports how
// many received it.
func (b *Bus) Respond(resp Response) int {
	return b.responses.Send(resp)
}
