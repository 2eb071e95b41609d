package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrItemIsNotConstructed = errs.NewValueIsRequiredError("item must be created via NewItem constructor")

// Item is one order line. The unit price is captured when the order is placed
// and never re-read from the catalogue, so later price changes do not touch the total.
type Item struct { //nolint:recvcheck // setters use pointer receivers during construction
	productID kernel.UUID
	quantity  int
	unitPrice int64
	guard     guard.ConstructorGuard
}

// NewItem validates a line. unitPrice is in minor currency units and may be zero
// (free items) but never negative.
func NewItem(productID kernel.UUID, quantity int, unitPrice int64) (Item, error) {
	i := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		i.setProductID(productID),
		i.setQuantity(quantity),
		i.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return i, nil
}

func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

func (i Item) Subtotal() int64 {
	return int64(i.quantity) * i.unitPrice
}

func (i *Item) setProductID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.productID = id
	return nil
}

func (i *Item) setQuantity(q int) error {
	if q <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", q))
	}
	i.quantity = q
	return nil
}

func (i *Item) setUnitPrice(p int64) error {
	if p < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%d is negative", p))
	}
	i.unitPrice = p
	return nil
}
