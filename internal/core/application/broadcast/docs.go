// Package broadcast propagates a moving partner's position, and the order's
// status changes, to the customer and shop watching that order.
//
// Each watcher holds a Subscription: a lazy stream read with Next until it is
// unsubscribed or the order reaches delivered or cancelled. Delivery is
// at-least-once and most-recent-wins for positions.
package broadcast
