package http

import (
	"sync"

	"github.com/ethereum/go-ethereum/event"
)

const streamQueueSize = 16

// drain subscribes to a feed through a goroutine that never blocks, so a
// client stuck on a slow write cannot hold up the feed's sender. Once the
// client is size events behind, the subscription is dropped and overflow is
// closed. stop ends the subscription.
func drain[T any](subscribe func(chan<- T) event.Subscription, size int) (events <-chan T, overflow <-chan struct{}, stop func()) {
	in := make(chan T)
	queue := make(chan T, size)
	over := make(chan struct{})
	quit := make(chan struct{})

	sub := subscribe(in)
	go func() {
		defer sub.Unsubscribe()
		for {
			select {
			case v := <-in:
				select {
				case queue <- v:
				default:
					close(over)
					return
				}
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	return queue, over, func() { once.Do(func() { close(quit) }) }
}
