package order

import (
	"errors"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// StatusChange is one row of the append-only order history.
type StatusChange struct {
	From    Status
	To      Status
	Actor   Actor
	ActorID kernel.UUID
	Action  Action
	At      time.Time
}

// Order is the aggregate root of the dispatch domain. It is created in Pending and
// mutated only through Plan/Apply, which follow the transition table in transition.go.
//
// Order follows these invariants:
//   - customer, shop, pickup and dropoff are always set and valid
//   - items are non-empty and immutable after creation; total is their sum
//   - a delivery partner is only ever set in a status from Accepted to Delivered
//   - history only records edges of the transition table
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	shopID     kernel.UUID

	// partnerID is the assigned delivery partner (nil until a partner accepts)
	partnerID *kernel.UUID

	items []Item

	// total in minor currency units, fixed at creation
	total int64

	status  Status
	pickup  kernel.Address
	dropoff kernel.Address

	createdAt           time.Time
	updatedAt           time.Time
	estimatedDeliveryAt *time.Time

	history []StatusChange

	isConstructed bool
}

// NewOrder creates a pending order. The total is computed here from the item
// unit prices, which are the prices at order time.
//
// Example:
//
//	pickup, _ := kernel.NewAddress("Shop St 1", kernel.MustGeoPoint(28.6139, 77.2090))
//	dropoff, _ := kernel.NewAddress("Home Rd 2", kernel.MustGeoPoint(28.6200, 77.2150))
//	item, _ := order.NewItem(productID, 2, 15000)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, shopID, []order.Item{item}, pickup, dropoff, time.Now())
func NewOrder(
	id, customerID, shopID kernel.UUID,
	items []Item,
	pickup, dropoff kernel.Address,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     createdAt,
		updatedAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setParties(customerID, shopID),
		o.setItems(items),
		o.setLocations(pickup, dropoff),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	for _, item := range o.items {
		o.total += item.Subtotal()
	}

	return o, nil
}

// Snapshot holds the persisted state of an order. It is used only by
// storage adapters to rebuild the aggregate.
type Snapshot struct {
	ID                  kernel.UUID
	CustomerID          kernel.UUID
	ShopID              kernel.UUID
	PartnerID           *kernel.UUID
	Items               []Item
	Total               int64
	Status              Status
	Pickup              kernel.Address
	Dropoff             kernel.Address
	CreatedAt           time.Time
	UpdatedAt           time.Time
	EstimatedDeliveryAt *time.Time
	History             []StatusChange
}

// RestoreOrder rebuilds an order from storage, re-checking the invariants so
// that corrupted rows surface as errors instead of as an invalid aggregate.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		total:               s.Total,
		createdAt:           s.CreatedAt,
		updatedAt:           s.UpdatedAt,
		estimatedDeliveryAt: s.EstimatedDeliveryAt,
		history:             slices.Clone(s.History),
		isConstructed:       true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setParties(s.CustomerID, s.ShopID),
		o.setItems(s.Items),
		o.setLocations(s.Pickup, s.Dropoff),
		o.setCreatedAt(s.CreatedAt),
		s.Status.Validate(),
		s.Status.ValidateCanHavePartner(s.PartnerID != nil),
	); err != nil {
		return nil, err
	}

	o.status = s.Status
	if s.PartnerID != nil {
		if err := s.PartnerID.Validate(); err != nil {
			return nil, err
		}
		id := *s.PartnerID
		o.partnerID = &id
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// Clone returns a deep copy. In-memory stores hand out clones so that callers
// can never mutate the stored record outside a conditional update.
func (o *Order) Clone() *Order {
	c := *o
	c.items = slices.Clone(o.items)
	c.history = slices.Clone(o.history)
	if o.partnerID != nil {
		id := *o.partnerID
		c.partnerID = &id
	}
	if o.estimatedDeliveryAt != nil {
		eta := *o.estimatedDeliveryAt
		c.estimatedDeliveryAt = &eta
	}
	return &c
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) ShopID() kernel.UUID {
	return o.shopID
}

// PartnerID returns the assigned partner or nil.
func (o *Order) PartnerID() *kernel.UUID {
	if o.partnerID == nil {
		return nil
	}
	id := *o.partnerID
	return &id
}

// IsAssignedTo reports whether partnerID is the assigned delivery partner.
func (o *Order) IsAssignedTo(partnerID kernel.UUID) bool {
	return o.partnerID != nil && o.partnerID.IsEqual(partnerID)
}

func (o *Order) Items() []Item {
	return slices.Clone(o.items)
}

func (o *Order) Total() int64 {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Pickup() kernel.Address {
	return o.pickup
}

func (o *Order) Dropoff() kernel.Address {
	return o.dropoff
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) EstimatedDeliveryAt() *time.Time {
	if o.estimatedDeliveryAt == nil {
		return nil
	}
	eta := *o.estimatedDeliveryAt
	return &eta
}

// SetEstimatedDeliveryAt records an ETA supplied by an external collaborator.
// The dispatcher itself never predicts one.
func (o *Order) SetEstimatedDeliveryAt(eta time.Time) error {
	if eta.Before(o.createdAt) {
		return errs.NewValueIsInvalidError("estimated delivery is before order creation")
	}
	o.estimatedDeliveryAt = &eta
	return nil
}

// History returns the recorded transitions, oldest first.
func (o *Order) History() []StatusChange {
	return slices.Clone(o.history)
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setParties(customerID, shopID kernel.UUID) error {
	if err := errors.Join(customerID.Validate(), shopID.Validate()); err != nil {
		return err
	}
	o.customerID = customerID
	o.shopID = shopID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setLocations(pickup, dropoff kernel.Address) error {
	if err := errors.Join(pickup.Validate(), dropoff.Validate()); err != nil {
		return err
	}
	o.pickup = pickup
	o.dropoff = dropoff
	return nil
}

func (o *Order) setCreatedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	return nil
}
