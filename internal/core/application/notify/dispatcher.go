// Package notify turns order events into persisted notifications for shops,
// partners and customers.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/metrics"

	"github.com/sirupsen/logrus"
)

const DefaultCooldown = 2 * time.Minute

type cooldownKey struct {
	orderID   kernel.UUID
	partnerID kernel.UUID
}

// Dispatcher is fire-and-forget: a failed notification is logged and counted,
// never returned to the caller.
type Dispatcher struct {
	repo     ports.NotificationRepository
	log      *logrus.Entry
	metrics  *metrics.Metrics
	cooldown time.Duration
	now      func() time.Time

	mu       sync.Mutex
	notified map[cooldownKey]time.Time
}

func NewDispatcher(
	repo ports.NotificationRepository,
	log *logrus.Entry,
	m *metrics.Metrics,
	cooldown time.Duration,
	now func() time.Time,
) *Dispatcher {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if now == nil {
		now = time.Now
	}
	return &Dispatcher{
		repo:     repo,
		log:      log,
		metrics:  m,
		cooldown: cooldown,
		now:      now,
		notified: make(map[cooldownKey]time.Time),
	}
}

// OnOrderCreated tells the shop about a new order.
func (d *Dispatcher) OnOrderCreated(ctx context.Context, o *order.Order) {
	d.send(ctx, o.ShopID(), notification.NewOrder,
		"New order",
		fmt.Sprintf("Order %s: %d item(s), total %d", o.ID(), len(o.Items()), o.Total()),
		map[string]any{
			"orderId":    o.ID().String(),
			"customerId": o.CustomerID().String(),
			"total":      o.Total(),
		},
	)
}

// OnOrderReady offers the order to every candidate not already offered it
// within the cooldown window. It returns how many partners were notified.
func (d *Dispatcher) OnOrderReady(ctx context.Context, o *order.Order, candidates []queries.PartnerCandidate) int {
	sent := 0
	for _, c := range candidates {
		key := cooldownKey{orderID: o.ID(), partnerID: c.Partner.ID()}
		if !d.reserve(key) {
			d.metrics.NotificationsTotal.WithLabelValues(notification.DeliveryOpportunity.String(), "cooldown").Inc()
			continue
		}

		ok := d.send(ctx, c.Partner.ID(), notification.DeliveryOpportunity,
			"Delivery opportunity",
			fmt.Sprintf("Pickup %.1f km away at %s", c.DistanceKm, o.Pickup().Street()),
			map[string]any{
				"orderId":    o.ID().String(),
				"distanceKm": c.DistanceKm,
				"pickup":     o.Pickup().Street(),
				"dropoff":    o.Dropoff().Street(),
			},
		)
		if !ok {
			d.release(key)
			continue
		}
		sent++
	}
	return sent
}

// OnStatusChanged keeps the customer informed of every transition.
func (d *Dispatcher) OnStatusChanged(ctx context.Context, evt order.StatusChanged) {
	if evt.To == order.Pending {
		return
	}

	payload := map[string]any{
		"orderId": evt.OrderID.String(),
		"from":    evt.From.String(),
		"to":      evt.To.String(),
	}
	if evt.PartnerID != nil {
		payload["partnerId"] = evt.PartnerID.String()
	}

	d.send(ctx, evt.CustomerID, notification.StatusUpdate,
		"Order update",
		fmt.Sprintf("Your order is now %s", evt.To),
		payload,
	)
}

// PruneCooldowns forgets offers older than the cooldown window.
func (d *Dispatcher) PruneCooldowns() int {
	cutoff := d.now().Add(-d.cooldown)

	d.mu.Lock()
	defer d.mu.Unlock()

	pruned := 0
	for k, at := range d.notified {
		if !at.After(cutoff) {
			delete(d.notified, k)
			pruned++
		}
	}
	return pruned
}

func (d *Dispatcher) reserve(key cooldownKey) bool {
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if at, ok := d.notified[key]; ok && now.Sub(at) < d.cooldown {
		return false
	}
	d.notified[key] = now
	return true
}

func (d *Dispatcher) release(key cooldownKey) {
	d.mu.Lock()
	delete(d.notified, key)
	d.mu.Unlock()
}

func (d *Dispatcher) send(
	ctx context.Context,
	recipientID kernel.UUID,
	typ notification.Type,
	title, message string,
	payload map[string]any,
) bool {
	log := d.log.WithFields(logrus.Fields{
		"recipient_id": recipientID.String(),
		"type":         typ.String(),
	})

	n, err := notification.NewNotification(recipientID, typ, title, message, payload, d.now())
	if err == nil {
		err = d.repo.Add(ctx, n)
	}
	if err != nil {
		d.metrics.NotificationsTotal.WithLabelValues(typ.String(), "failed").Inc()
		log.WithError(err).Warn("notification not delivered")
		return false
	}

	d.metrics.NotificationsTotal.WithLabelValues(typ.String(), "sent").Inc()
	log.Debug("notification stored")
	return true
}
