// Package ports defines the contracts between the dispatch core and its
// collaborators: the order store, the partner and shop directories, the
// track and notification stores, and the event publisher.
package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// ErrConditionFailed is returned by ConditionalUpdate when the stored order no
// longer matches the expectation. Callers re-read and re-plan.
var ErrConditionFailed = errors.New("order was changed concurrently")

// Expectation is the compare part of the order store's compare-and-swap.
type Expectation struct {
	// Status the stored order must still be in.
	Status order.Status

	// PartnerUnassigned additionally requires that no partner is stored.
	PartnerUnassigned bool
}

// OrderFilter narrows List. Zero fields do not filter.
type OrderFilter struct {
	Statuses   []order.Status
	CustomerID *kernel.UUID
	ShopID     *kernel.UUID
	PartnerID  *kernel.UUID

	// Unassigned keeps only orders without a partner.
	Unassigned bool

	Limit int
}

// OrderStore is the authoritative order record.
type OrderStore interface {
	// Create persists a new pending order with its items.
	Create(ctx context.Context, o *order.Order) error

	// Get returns the order with items and history, or errs.ErrObjectNotFound.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ConditionalUpdate writes status, partner, timestamps and new history rows of o
	// only if the stored order satisfies expect. It is the single point where
	// concurrent transitions are serialized.
	//
	// Returns ErrConditionFailed when the expectation does not hold and
	// errs.ErrObjectNotFound when the order does not exist.
	ConditionalUpdate(ctx context.Context, o *order.Order, expect Expectation) error

	// List returns orders matching filter, oldest first.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
