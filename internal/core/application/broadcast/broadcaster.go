package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// AcceptFunc validates and persists one sample. It runs under the order's feed
// lock, so samples of one order are accepted one at a time and in the order
// they are pushed to watchers.
type AcceptFunc func(ctx context.Context) (tracking.Sample, error)

// ChangeFunc applies one status change of an order. It returns the resulting
// event, or nil when nothing was changed.
type ChangeFunc func(ctx context.Context) (*order.StatusChanged, error)

// Broadcaster fans out accepted position samples and status changes to the
// watchers of each order. Feeds are per order with their own lock; the feed map
// itself is behind an RWMutex.
type Broadcaster struct {
	mu    sync.RWMutex
	feeds map[kernel.UUID]*feed

	nextID  atomic.Uint64
	now     func() time.Time
	log     *logrus.Entry
	metrics *metrics.Metrics
}

type feed struct {
	mu   sync.Mutex
	subs map[uint64]*Subscription

	closed      bool
	finalStatus order.Status
	touchedAt   time.Time

	// detached feeds were swept from the map; holders must look up again.
	detached bool
}

func New(log *logrus.Entry, m *metrics.Metrics, now func() time.Time) *Broadcaster {
	if now == nil {
		now = time.Now
	}
	return &Broadcaster{
		feeds:   make(map[kernel.UUID]*feed),
		now:     now,
		log:     log,
		metrics: m,
	}
}

// lockFeed returns the live feed of orderID, creating it if needed, with its
// mutex held.
func (b *Broadcaster) lockFeed(orderID kernel.UUID) *feed {
	for {
		b.mu.RLock()
		f, ok := b.feeds[orderID]
		b.mu.RUnlock()

		if !ok {
			b.mu.Lock()
			f, ok = b.feeds[orderID]
			if !ok {
				f = &feed{subs: make(map[uint64]*Subscription), touchedAt: b.now()}
				b.feeds[orderID] = f
			}
			b.mu.Unlock()
		}

		f.mu.Lock()
		if !f.detached {
			return f
		}
		f.mu.Unlock()
	}
}

// Subscribe attaches a watcher to an order. Subscribing to an order whose feed
// has already closed returns a stream that is closed from the start.
func (b *Broadcaster) Subscribe(orderID kernel.UUID) *Subscription {
	f := b.lockFeed(orderID)
	defer f.mu.Unlock()

	id := b.nextID.Add(1)
	sub := newSubscription(id, orderID, func() { b.detach(orderID, id) })

	if f.closed {
		sub.finish(nil)
		return sub
	}

	f.subs[id] = sub
	f.touchedAt = b.now()
	b.metrics.ActiveSubscriptions.Inc()
	return sub
}

func (b *Broadcaster) detach(orderID kernel.UUID, id uint64) {
	b.mu.RLock()
	f, ok := b.feeds[orderID]
	b.mu.RUnlock()
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok = f.subs[id]; ok {
		delete(f.subs, id)
		b.metrics.ActiveSubscriptions.Dec()
	}
}

// Ingest runs accept under the feed lock and pushes the accepted sample to every
// watcher. Once the feed saw a terminal status accept is not called at all and
// the ping is reported stale.
func (b *Broadcaster) Ingest(ctx context.Context, orderID kernel.UUID, accept AcceptFunc) (tracking.Sample, error) {
	f := b.lockFeed(orderID)
	defer f.mu.Unlock()

	if f.closed {
		return tracking.Sample{}, tracking.NewStaleOrderError(orderID, f.finalStatus)
	}

	s, err := accept(ctx)
	if err != nil {
		return tracking.Sample{}, err
	}

	f.touchedAt = b.now()
	u := positionUpdate(s)
	for _, sub := range f.subs {
		sub.push(u)
	}

	b.log.WithFields(logrus.Fields{
		"order_id":   orderID.String(),
		"partner_id": s.PartnerID().String(),
		"watchers":   len(f.subs),
	}).Debug("position sample broadcast")

	return s, nil
}

// Change runs change under the order's feed lock and forwards its event to the
// watchers before releasing it. Pings of the order wait meanwhile, so none is
// accepted once a terminal status has committed, and watchers see status
// events in the order they were written.
func (b *Broadcaster) Change(ctx context.Context, orderID kernel.UUID, change ChangeFunc) (*order.StatusChanged, error) {
	f := b.lockFeed(orderID)
	defer f.mu.Unlock()

	evt, err := change(ctx)
	if err != nil || evt == nil {
		return evt, err
	}

	b.publishLocked(f, *evt)
	return evt, nil
}

// PublishStatus forwards a status change to the watchers. A terminal status
// closes every stream of the order and the feed itself.
func (b *Broadcaster) PublishStatus(evt order.StatusChanged) {
	f := b.lockFeed(evt.OrderID)
	defer f.mu.Unlock()

	b.publishLocked(f, evt)
}

func (b *Broadcaster) publishLocked(f *feed, evt order.StatusChanged) {
	if f.closed {
		return
	}

	u := statusUpdate(evt)
	f.touchedAt = b.now()

	if !evt.To.IsTerminal() {
		for _, sub := range f.subs {
			sub.push(u)
		}
		return
	}

	b.closeLocked(f, evt.OrderID, evt.To, &u)
}

// Close ends every stream of an order already known to be terminal, e.g. one
// whose feed was swept or never existed in this process.
func (b *Broadcaster) Close(orderID kernel.UUID, final order.Status) {
	f := b.lockFeed(orderID)
	defer f.mu.Unlock()

	if !f.closed {
		b.closeLocked(f, orderID, final, nil)
	}
}

func (b *Broadcaster) closeLocked(f *feed, orderID kernel.UUID, final order.Status, last *Update) {
	for id, sub := range f.subs {
		sub.finish(last)
		delete(f.subs, id)
		b.metrics.ActiveSubscriptions.Dec()
	}
	f.closed = true
	f.finalStatus = final
	f.touchedAt = b.now()

	b.log.WithFields(logrus.Fields{
		"order_id": orderID.String(),
		"status":   final.String(),
	}).Info("order feed closed")
}

// Sweep forgets closed feeds and watcher-less feeds untouched since before.
// Forgetting a closed feed is safe because the order store still rejects
// pings for terminal orders.
func (b *Broadcaster) Sweep(before time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for id, f := range b.feeds {
		f.mu.Lock()
		if f.touchedAt.Before(before) && (f.closed || len(f.subs) == 0) {
			f.detached = true
			delete(b.feeds, id)
			removed++
		}
		f.mu.Unlock()
	}
	return removed
}

// Feeds returns the number of feeds currently held.
func (b *Broadcaster) Feeds() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.feeds)
}
