package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// CreateOrderCommandHandler stores a new pending order.
type CreateOrderCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	now        Clock
}

func NewCreateOrderCommandHandler(uowFactory ports.UnitOfWorkFactory, now Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		now:        clockOrDefault(now),
	}
}

// Handle validates the command, builds the aggregate (which fixes the total)
// and persists it in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.ShopID(),
		cmd.Items(), cmd.Pickup(), cmd.Dropoff(),
		h.now(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderStore().Create(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
