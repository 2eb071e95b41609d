// Package orderrepo maps the order aggregate, its line items and its status
// history onto three tables.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

type OrderDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShopID              uuid.UUID  `gorm:"type:uuid;not null;index"`
	PartnerID           *uuid.UUID `gorm:"type:uuid;index"`
	Total               int64      `gorm:"not null"`
	Status              int        `gorm:"type:smallint;not null;index"`
	Pickup              AddressDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	Dropoff             AddressDTO `gorm:"embedded;embeddedPrefix:dropoff_"`
	CreatedAt           time.Time  `gorm:"not null;index"`
	UpdatedAt           time.Time  `gorm:"not null"`
	EstimatedDeliveryAt *time.Time

	Items   []ItemDTO   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History []ChangeDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	Street string  `gorm:"type:varchar(512);not null"`
	Lat    float64 `gorm:"not null"`
	Lng    float64 `gorm:"not null"`
}

// ItemDTO keeps the unit price captured when the order was placed.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// ChangeDTO is one history row. (order_id, seq) makes re-inserting an already
// stored change a no-op.
type ChangeDTO struct {
	OrderID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq        int       `gorm:"primaryKey"`
	FromStatus int       `gorm:"type:smallint;not null"`
	ToStatus   int       `gorm:"type:smallint;not null"`
	Actor      int       `gorm:"type:smallint;not null"`
	ActorID    uuid.UUID `gorm:"type:uuid;not null"`
	Action     int       `gorm:"type:smallint;not null"`
	At         time.Time `gorm:"not null"`
}

func (ChangeDTO) TableName() string {
	return "order_status_changes"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()

	var partnerID *uuid.UUID
	if p := o.PartnerID(); p != nil {
		raw := p.Bytes()
		partnerID = &raw
	}

	items := make([]ItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		items = append(items, ItemDTO{
			OrderID:   id,
			Position:  i,
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:                  id,
		CustomerID:          o.CustomerID().Bytes(),
		ShopID:              o.ShopID().Bytes(),
		PartnerID:           partnerID,
		Total:               o.Total(),
		Status:              int(o.Status()),
		Pickup:              addressFromDomain(o.Pickup()),
		Dropoff:             addressFromDomain(o.Dropoff()),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		EstimatedDeliveryAt: o.EstimatedDeliveryAt(),
		Items:               items,
		History:             historyFromDomain(id, o.History()),
	}
}

func historyFromDomain(orderID uuid.UUID, history []order.StatusChange) []ChangeDTO {
	out := make([]ChangeDTO, 0, len(history))
	for i, c := range history {
		out = append(out, ChangeDTO{
			OrderID:    orderID,
			Seq:        i,
			FromStatus: int(c.From),
			ToStatus:   int(c.To),
			Actor:      int(c.Actor),
			ActorID:    c.ActorID.Bytes(),
			Action:     int(c.Action),
			At:         c.At,
		})
	}
	return out
}

func addressFromDomain(a kernel.Address) AddressDTO {
	return AddressDTO{Street: a.Street(), Lat: a.Point().Lat(), Lng: a.Point().Lng()}
}

func (a AddressDTO) toDomain() (kernel.Address, error) {
	p, err := kernel.NewGeoPoint(a.Lat, a.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(a.Street, p)
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		p, pErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if pErr != nil {
			return nil, pErr
		}
		partnerID = &p
	}

	pickup, err := dto.Pickup.toDomain()
	if err != nil {
		return nil, err
	}
	dropoff, err := dto.Dropoff.toDomain()
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, i := range dto.Items {
		productID, pErr := kernel.UUIDFromBytes(i.ProductID[:])
		if pErr != nil {
			return nil, pErr
		}
		item, iErr := order.NewItem(productID, i.Quantity, i.UnitPrice)
		if iErr != nil {
			return nil, iErr
		}
		items = append(items, item)
	}

	history := make([]order.StatusChange, 0, len(dto.History))
	for _, c := range dto.History {
		actorID, aErr := kernel.UUIDFromBytes(c.ActorID[:])
		if aErr != nil {
			return nil, aErr
		}
		history = append(history, order.StatusChange{
			From:    order.Status(c.FromStatus),
			To:      order.Status(c.ToStatus),
			Actor:   order.Actor(c.Actor),
			ActorID: actorID,
			Action:  order.Action(c.Action),
			At:      c.At,
		})
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                  id,
		CustomerID:          customerID,
		ShopID:              shopID,
		PartnerID:           partnerID,
		Items:               items,
		Total:               dto.Total,
		Status:              order.Status(dto.Status),
		Pickup:              pickup,
		Dropoff:             dropoff,
		CreatedAt:           dto.CreatedAt,
		UpdatedAt:           dto.UpdatedAt,
		EstimatedDeliveryAt: dto.EstimatedDeliveryAt,
		History:             history,
	})
}
