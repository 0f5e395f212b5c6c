package runtime

import (
	"context"
	"sync"
)

// Dispatcher is the side of the runtime receivers talk to.
type Dispatcher interface {
	Dispatch(ctx context.Context, in Incoming) (int, error)
}

// Receiver feeds requests to a Dispatcher until ctx is cancelled.
type Receiver interface {
	Run(ctx context.Context, d Dispatcher) error
}

// onceAck wraps ack so only the first call reaches the transport.
type onceAck struct {
	mu    sync.Mutex
	done  bool
	inner AckFunc
}

func newOnceAck(inner AckFunc) *onceAck {
	return &onceAck{inner: inner}
}

func (o *onceAck) Ack(ctx context.Context, payload any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.done {
		return nil
	}
	o.done = true
	return o.inner(ctx, payload)
}

func (o *onceAck) Acked() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done
}
