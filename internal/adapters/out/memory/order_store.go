package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// OrderStore keeps orders in a map guarded by one mutex. ConditionalUpdate
// compares and writes under that mutex, which makes it a true compare-and-swap.
type OrderStore struct {
	mu     sync.Mutex
	orders map[kernel.UUID]*order.Order
}

func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[kernel.UUID]*order.Order)}
}

var _ ports.OrderStore = (*OrderStore)(nil)

func (s *OrderStore) Create(_ context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[o.ID()]; ok {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("%s already exists", o.ID()))
	}
	s.orders[o.ID()] = o.Clone()
	return nil
}

func (s *OrderStore) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return o.Clone(), nil
}

func (s *OrderStore) ConditionalUpdate(_ context.Context, o *order.Order, expect ports.Expectation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[o.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	if stored.Status() != expect.Status {
		return ports.ErrConditionFailed
	}
	if expect.PartnerUnassigned && stored.PartnerID() != nil {
		return ports.ErrConditionFailed
	}

	s.orders[o.ID()] = o.Clone()
	return nil
}

func (s *OrderStore) List(_ context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	s.mu.Lock()
	out := make([]*order.Order, 0)
	for _, o := range s.orders {
		if matches(o, filter) {
			out = append(out, o.Clone())
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b *order.Order) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID().String(), b.ID().String())
	})

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matches(o *order.Order, f ports.OrderFilter) bool {
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status()) {
		return false
	}
	if f.CustomerID != nil && !o.CustomerID().IsEqual(*f.CustomerID) {
		return false
	}
	if f.ShopID != nil && !o.ShopID().IsEqual(*f.ShopID) {
		return false
	}
	if f.PartnerID != nil && !o.IsAssignedTo(*f.PartnerID) {
		return false
	}
	if f.Unassigned && o.PartnerID() != nil {
		return false
	}
	return true
}
