package broadcast

import (
	"context"
	"errors"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
)

// ErrStreamClosed is returned by Next once the stream is closed and drained.
var ErrStreamClosed = errors.New("subscription stream closed")

// Subscription is a finite, cancellable stream of updates for one order.
//
// Pending position updates coalesce: if the watcher is slower than the partner,
// an undelivered position is replaced by the newer one. Status updates are never
// dropped and keep their place relative to positions.
type Subscription struct {
	id      uint64
	orderID kernel.UUID

	mu      sync.Mutex
	pending []Update
	closed  bool

	// wake has capacity 1 and signals that pending or closed changed.
	wake chan struct{}

	unsubscribe func()
	once        sync.Once
}

func newSubscription(id uint64, orderID kernel.UUID, unsubscribe func()) *Subscription {
	return &Subscription{
		id:          id,
		orderID:     orderID,
		wake:        make(chan struct{}, 1),
		unsubscribe: unsubscribe,
	}
}

func (s *Subscription) OrderID() kernel.UUID {
	return s.orderID
}

// Next blocks until an update is available, the stream is closed and drained
// (ErrStreamClosed), or ctx is done.
func (s *Subscription) Next(ctx context.Context) (Update, error) {
	for {
		s.mu.Lock()
		if len(s.pending) > 0 {
			u := s.pending[0]
			s.pending = s.pending[1:]
			s.mu.Unlock()
			return u, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return Update{}, ErrStreamClosed
		}

		select {
		case <-ctx.Done():
			return Update{}, ctx.Err()
		case <-s.wake:
		}
	}
}

// Unsubscribe detaches the watcher and discards anything pending. Safe to call
// more than once and after the stream was closed by the order terminating.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.mu.Lock()
		s.pending = nil
		s.closed = true
		s.mu.Unlock()
		s.signal()
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
	})
}

// Closed reports whether no further updates will be pushed.
func (s *Subscription) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// push enqueues u unless the stream is closed. A position replaces a position
// still waiting at the tail of the queue.
func (s *Subscription) push(u Update) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if n := len(s.pending); u.Kind == KindPosition && n > 0 && s.pending[n-1].Kind == KindPosition {
		s.pending[n-1] = u
	} else {
		s.pending = append(s.pending, u)
	}
	s.mu.Unlock()
	s.signal()
}

// finish pushes the last update (if any) and closes the stream; pending
// updates stay readable.
func (s *Subscription) finish(last *Update) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if last != nil {
		s.pending = append(s.pending, *last)
	}
	s.closed = true
	s.mu.Unlock()
	s.signal()
}

func (s *Subscription) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
