// Package queries contains read operations. Handlers read through the ports so
// that every store driver serves them.
package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
	ErrGetOrderTrackQueryIsNotConstructed = errors.New(
		"GetOrderTrackQuery must be created via NewGetOrderTrackQuery constructor",
	)
)

// GetOrderQuery fetches one order with items and history.
type GetOrderQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

type GetOrderQueryHandler struct {
	orders ports.OrderStore
}

func NewGetOrderQueryHandler(orders ports.OrderStore) GetOrderQueryHandler {
	return GetOrderQueryHandler{orders: orders}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, q GetOrderQuery) (*order.Order, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return h.orders.Get(ctx, q.orderID)
}

// GetOrderTrackQuery fetches the position track of an order, oldest first.
type GetOrderTrackQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderTrackQuery(orderID kernel.UUID) (GetOrderTrackQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderTrackQuery{}, err
	}
	return GetOrderTrackQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderTrackQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackQueryIsNotConstructed)
}

type GetOrderTrackQueryHandler struct {
	orders ports.OrderStore
	tracks ports.TrackRepository
}

func NewGetOrderTrackQueryHandler(orders ports.OrderStore, tracks ports.TrackRepository) GetOrderTrackQueryHandler {
	return GetOrderTrackQueryHandler{orders: orders, tracks: tracks}
}

// Handle returns ErrObjectNotFound for unknown orders rather than an empty track.
func (h GetOrderTrackQueryHandler) Handle(ctx context.Context, q GetOrderTrackQuery) ([]tracking.Sample, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.orders.Get(ctx, q.orderID); err != nil {
		return nil, err
	}
	return h.tracks.List(ctx, q.orderID)
}
