package http

import (
	"errors"
	"time"

	"dispatch/internal/core/application/broadcast"
	"dispatch/internal/core/application/coordinator"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func newCreateOrderCommand(body servers.NewOrder) (commands.CreateOrderCommand, error) {
	customerID, customerErr := kernel.FromGoogleUUID(body.CustomerId)
	shopID, shopErr := kernel.FromGoogleUUID(body.ShopId)
	pickup, pickupErr := toAddress(body.Pickup)
	dropoff, dropoffErr := toAddress(body.Dropoff)
	if err := errors.Join(customerErr, shopErr, pickupErr, dropoffErr); err != nil {
		return commands.CreateOrderCommand{}, err
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, raw := range body.Items {
		productID, err := kernel.FromGoogleUUID(raw.ProductId)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
		item, err := order.NewItem(productID, raw.Quantity, raw.UnitPrice)
		if err != nil {
			return commands.CreateOrderCommand{}, err
		}
		items = append(items, item)
	}

	return commands.NewCreateOrderCommand(kernel.NewUUID(), customerID, shopID, items, pickup, dropoff)
}

func newTransitionCommand(orderID openapi_types.UUID, body servers.TransitionRequest) (commands.TransitionOrderCommand, error) {
	id, idErr := kernel.FromGoogleUUID(orderID)
	actorID, actorIDErr := kernel.FromGoogleUUID(body.ActorId)
	actor, actorErr := order.ParseActor(body.Actor)
	action, actionErr := order.ParseAction(body.Action)
	if err := errors.Join(idErr, actorIDErr, actorErr, actionErr); err != nil {
		return commands.TransitionOrderCommand{}, err
	}
	return commands.NewTransitionOrderCommand(id, actor, actorID, action)
}

func newReportPositionCommand(orderID openapi_types.UUID, body servers.LocationReport) (commands.ReportPositionCommand, error) {
	id, idErr := kernel.FromGoogleUUID(orderID)
	partnerID, partnerErr := kernel.FromGoogleUUID(body.PartnerId)
	point, pointErr := kernel.NewGeoPoint(body.Lat, body.Lng)
	if err := errors.Join(idErr, partnerErr, pointErr); err != nil {
		return commands.ReportPositionCommand{}, err
	}

	var recordedAt time.Time
	if body.RecordedAt != nil {
		recordedAt = *body.RecordedAt
	}
	return commands.NewReportPositionCommand(id, partnerID, point, recordedAt)
}

func newUpsertShopCommand(shopID openapi_types.UUID, body servers.ShopInput) (commands.UpsertShopCommand, error) {
	id, idErr := kernel.FromGoogleUUID(shopID)
	address, addressErr := toAddress(body.Address)
	if err := errors.Join(idErr, addressErr); err != nil {
		return commands.UpsertShopCommand{}, err
	}
	return commands.NewUpsertShopCommand(id, body.Name, address)
}

func newUpsertPartnerCommand(partnerID openapi_types.UUID, body servers.PartnerInput) (commands.UpsertPartnerCommand, error) {
	id, idErr := kernel.FromGoogleUUID(partnerID)
	position, positionErr := kernel.NewGeoPoint(body.Location.Lat, body.Location.Lng)
	if err := errors.Join(idErr, positionErr); err != nil {
		return commands.UpsertPartnerCommand{}, err
	}

	var name string
	if body.Name != nil {
		name = *body.Name
	}
	return commands.NewUpsertPartnerCommand(id, name, body.Online, position)
}

func toAddress(a servers.Address) (kernel.Address, error) {
	point, err := kernel.NewGeoPoint(a.Lat, a.Lng)
	if err != nil {
		return kernel.Address{}, err
	}
	return kernel.NewAddress(a.Street, point)
}

func fromAddress(a kernel.Address) servers.Address {
	return servers.Address{Street: a.Street(), Lat: a.Point().Lat(), Lng: a.Point().Lng()}
}

func toOrder(o *order.Order, withHistory bool) servers.Order {
	items := make([]servers.Item, len(o.Items()))
	for i, item := range o.Items() {
		items[i] = servers.Item{
			ProductId: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		}
	}

	out := servers.Order{
		Id:                  o.ID().Bytes(),
		CustomerId:          o.CustomerID().Bytes(),
		ShopId:              o.ShopID().Bytes(),
		PartnerId:           optionalUUID(o.PartnerID()),
		Status:              servers.Status(o.Status().String()),
		Items:               items,
		Total:               o.Total(),
		Pickup:              fromAddress(o.Pickup()),
		Dropoff:             fromAddress(o.Dropoff()),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.UpdatedAt(),
		EstimatedDeliveryAt: o.EstimatedDeliveryAt(),
	}

	if withHistory {
		history := make([]servers.StatusChange, len(o.History()))
		for i, c := range o.History() {
			history[i] = servers.StatusChange{
				From:    servers.Status(c.From.String()),
				To:      servers.Status(c.To.String()),
				Actor:   c.Actor.String(),
				ActorId: c.ActorID.Bytes(),
				Action:  c.Action.String(),
				At:      c.At,
			}
		}
		out.History = &history
	}
	return out
}

func optionalUUID(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func toTransitionResult(outcome coordinator.TransitionOutcome) servers.TransitionResult {
	out := servers.TransitionResult{
		Order:            toOrder(outcome.Order, false),
		Applied:          outcome.Applied,
		NoPartnersNearby: outcome.NoPartnersNearby,
	}
	if outcome.Candidates != nil {
		candidates := toCandidates(outcome.Candidates)
		out.Candidates = &candidates
	}
	return out
}

func toCandidates(in []queries.PartnerCandidate) []servers.Candidate {
	out := make([]servers.Candidate, len(in))
	for i, c := range in {
		out[i] = servers.Candidate{
			PartnerId:  c.Partner.ID().Bytes(),
			Name:       c.Partner.Name(),
			DistanceKm: c.DistanceKm,
		}
	}
	return out
}

func toLocationResult(outcome coordinator.PositionOutcome) servers.LocationResult {
	if !outcome.Accepted {
		reason := outcome.Reason
		return servers.LocationResult{Accepted: false, Reason: &reason}
	}
	sample := toSample(outcome.Sample)
	return servers.LocationResult{Accepted: true, Sample: &sample}
}

func toSample(s tracking.Sample) servers.Sample {
	return servers.Sample{
		Id:         s.ID().Bytes(),
		OrderId:    s.OrderID().Bytes(),
		PartnerId:  s.PartnerID().Bytes(),
		Lat:        s.Point().Lat(),
		Lng:        s.Point().Lng(),
		Status:     servers.Status(s.Status().String()),
		RecordedAt: s.RecordedAt(),
	}
}

func toShop(s *directory.Shop) servers.Shop {
	return servers.Shop{Id: s.ID().Bytes(), Name: s.Name(), Address: fromAddress(s.Address())}
}

func toPartner(p *directory.Partner) servers.Partner {
	return servers.Partner{
		Id:         p.ID().Bytes(),
		Name:       p.Name(),
		Online:     p.IsOnline(),
		Location:   servers.Location{Lat: p.Position().Lat(), Lng: p.Position().Lng()},
		LastSeenAt: p.LastSeenAt(),
	}
}

func toNotification(n *notification.Notification) servers.Notification {
	out := servers.Notification{
		Id:          n.ID().Bytes(),
		RecipientId: n.RecipientID().Bytes(),
		Type:        n.Type().String(),
		Title:       n.Title(),
		Message:     n.Message(),
		CreatedAt:   n.CreatedAt(),
		Read:        n.IsRead(),
	}
	if payload := n.Payload(); len(payload) > 0 {
		out.Payload = &payload
	}
	return out
}

func toStreamEvent(u broadcast.Update) servers.StreamEvent {
	switch u.Kind {
	case broadcast.KindPosition:
		sample := toSample(*u.Sample)
		return servers.StreamEvent{Type: servers.StreamEventTypePosition, Sample: &sample}
	default:
		evt := u.Status
		return servers.StreamEvent{
			Type: servers.StreamEventTypeStatus,
			Status: &servers.StatusEvent{
				OrderId:   evt.OrderID.Bytes(),
				PartnerId: optionalUUID(evt.PartnerID),
				From:      servers.Status(evt.From.String()),
				To:        servers.Status(evt.To.String()),
				Actor:     evt.Actor.String(),
				Action:    evt.Action.String(),
				At:        evt.At,
			},
		}
	}
}
