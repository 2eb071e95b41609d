package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand places a new order. Items carry the unit price at order time.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(kernel.NewUUID(), customerID, shopID, items, pickup, dropoff)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	shopID     kernel.UUID
	items      []order.Item
	pickup     kernel.Address
	dropoff    kernel.Address

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(
	orderID, customerID, shopID kernel.UUID,
	items []order.Item,
	pickup, dropoff kernel.Address,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setIDs(orderID, customerID, shopID),
		cmd.setItems(items),
		cmd.setLocations(pickup, dropoff),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }
func (c CreateOrderCommand) ShopID() kernel.UUID     { return c.shopID }
func (c CreateOrderCommand) Items() []order.Item     { return c.items }
func (c CreateOrderCommand) Pickup() kernel.Address  { return c.pickup }
func (c CreateOrderCommand) Dropoff() kernel.Address { return c.dropoff }

func (c *CreateOrderCommand) setIDs(orderID, customerID, shopID kernel.UUID) error {
	if err := errors.Join(orderID.Validate(), customerID.Validate(), shopID.Validate()); err != nil {
		return err
	}
	c.orderID = orderID
	c.customerID = customerID
	c.shopID = shopID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	c.items = items
	return nil
}

func (c *CreateOrderCommand) setLocations(pickup, dropoff kernel.Address) error {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return err
	}
	c.pickup = pickup
	c.dropoff = dropoff
	return nil
}
