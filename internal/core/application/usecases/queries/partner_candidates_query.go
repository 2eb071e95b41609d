package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrGetPartnerCandidatesQueryIsNotConstructed = errors.New(
	"GetPartnerCandidatesQuery must be created via NewGetPartnerCandidatesQuery constructor",
)

// GetPartnerCandidatesQuery ranks the partners that could be offered an order.
type GetPartnerCandidatesQuery struct {
	orderID  kernel.UUID
	radiusKm float64
	guard    guard.ConstructorGuard
}

func NewGetPartnerCandidatesQuery(orderID kernel.UUID, radiusKm float64) (GetPartnerCandidatesQuery, error) {
	if err := errors.Join(orderID.Validate(), kernel.ValidateRadius(radiusKm)); err != nil {
		return GetPartnerCandidatesQuery{}, err
	}
	return GetPartnerCandidatesQuery{orderID: orderID, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

func (q GetPartnerCandidatesQuery) Validate() error {
	return q.guard.Validate(ErrGetPartnerCandidatesQueryIsNotConstructed)
}

type PartnerCandidate struct {
	Partner    *directory.Partner
	DistanceKm float64
}

// PartnerCandidatesResponse carries the order it was computed for so the
// caller does not need a second read.
type PartnerCandidatesResponse struct {
	Order      *order.Order
	Candidates []PartnerCandidate
}

// busyStatuses are the statuses in which a partner is occupied by an order.
var busyStatuses = []order.Status{order.Accepted, order.Preparing, order.Ready, order.PickedUp, order.OnTheWay}

type GetPartnerCandidatesQueryHandler struct {
	orders   ports.OrderStore
	partners ports.PartnerDirectory
	matcher  services.GeospatialMatcher
}

func NewGetPartnerCandidatesQueryHandler(
	orders ports.OrderStore,
	partners ports.PartnerDirectory,
	matcher services.GeospatialMatcher,
) GetPartnerCandidatesQueryHandler {
	return GetPartnerCandidatesQueryHandler{orders: orders, partners: partners, matcher: matcher}
}

// Handle ranks online partners without an active order around the pickup point.
// An empty range yields services.ErrNoCandidatesFound together with the order.
func (h GetPartnerCandidatesQueryHandler) Handle(
	ctx context.Context,
	q GetPartnerCandidatesQuery,
) (PartnerCandidatesResponse, error) {
	if err := q.Validate(); err != nil {
		return PartnerCandidatesResponse{}, err
	}

	o, err := h.orders.Get(ctx, q.orderID)
	if err != nil {
		return PartnerCandidatesResponse{}, err
	}
	resp := PartnerCandidatesResponse{Order: o, Candidates: []PartnerCandidate{}}

	online, err := h.partners.ListOnline(ctx)
	if err != nil {
		return resp, err
	}

	active, err := h.orders.List(ctx, ports.OrderFilter{Statuses: busyStatuses})
	if err != nil {
		return resp, err
	}
	busy := make([]kernel.UUID, 0, len(active))
	for _, a := range active {
		if id := a.PartnerID(); id != nil {
			busy = append(busy, *id)
		}
	}

	ranked, err := h.matcher.PartnerCandidates(o.Pickup().Point(), q.radiusKm, online, busy)
	if err != nil {
		return resp, err
	}
	for _, c := range ranked {
		resp.Candidates = append(resp.Candidates, PartnerCandidate{Partner: c.Item, DistanceKm: c.DistanceKm})
	}
	return resp, nil
}
