package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// StatusChanged is emitted after a transition is persisted.
type StatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	ShopID     kernel.UUID
	PartnerID  *kernel.UUID
	From       Status
	To         Status
	Actor      Actor
	ActorID    kernel.UUID
	Action     Action
	At         time.Time
}

// NeedsPartner reports an order that just became ready without a partner,
// which is what triggers dispatch.
func (e StatusChanged) NeedsPartner() bool {
	return e.To == Ready && e.PartnerID == nil
}

// OrderCreated is emitted once a new order is stored.
type OrderCreated struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	ShopID     kernel.UUID
	Total      int64
	ItemCount  int
	At         time.Time
}

func NewOrderCreated(o *Order) OrderCreated {
	return OrderCreated{
		OrderID:    o.id,
		CustomerID: o.customerID,
		ShopID:     o.shopID,
		Total:      o.total,
		ItemCount:  len(o.items),
		At:         o.createdAt,
	}
}
