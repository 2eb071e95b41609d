package queries

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders for dashboards: by status, customer, shop or partner.
type ListOrdersQuery struct {
	filter ports.OrderFilter
	guard  guard.ConstructorGuard
}

// NewListOrdersQuery applies the default limit and rejects limits above MaxListLimit.
func NewListOrdersQuery(filter ports.OrderFilter) (ListOrdersQuery, error) {
	for _, s := range filter.Statuses {
		if err := s.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultListLimit
	case filter.Limit < 0 || filter.Limit > MaxListLimit:
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", filter.Limit, 1, MaxListLimit)
	}
	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}

type ListOrdersQueryHandler struct {
	orders ports.OrderStore
}

func NewListOrdersQueryHandler(orders ports.OrderStore) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]*order.Order, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	orders, err := h.orders.List(ctx, q.filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
