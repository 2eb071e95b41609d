package queries

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/guard"
)

var ErrGetNearbyShopsQueryIsNotConstructed = errors.New(
	"GetNearbyShopsQuery must be created via NewGetNearbyShopsQuery constructor",
)

// GetNearbyShopsQuery is a customer browsing shops around a point.
type GetNearbyShopsQuery struct {
	origin   kernel.GeoPoint
	radiusKm float64
	guard    guard.ConstructorGuard
}

func NewGetNearbyShopsQuery(origin kernel.GeoPoint, radiusKm float64) (GetNearbyShopsQuery, error) {
	if err := errors.Join(origin.Validate(), kernel.ValidateRadius(radiusKm)); err != nil {
		return GetNearbyShopsQuery{}, err
	}
	return GetNearbyShopsQuery{origin: origin, radiusKm: radiusKm, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNearbyShopsQuery) Validate() error {
	return q.guard.Validate(ErrGetNearbyShopsQueryIsNotConstructed)
}

type ShopCandidate struct {
	Shop       *directory.Shop
	DistanceKm float64
}

type GetNearbyShopsQueryHandler struct {
	shops   ports.ShopDirectory
	matcher services.GeospatialMatcher
}

func NewGetNearbyShopsQueryHandler(shops ports.ShopDirectory, matcher services.GeospatialMatcher) GetNearbyShopsQueryHandler {
	return GetNearbyShopsQueryHandler{shops: shops, matcher: matcher}
}

// Handle returns an empty slice, not an error, when no shop is in range.
func (h GetNearbyShopsQueryHandler) Handle(ctx context.Context, q GetNearbyShopsQuery) ([]ShopCandidate, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := h.shops.List(ctx)
	if err != nil {
		return nil, err
	}

	ranked, err := h.matcher.NearbyShops(q.origin, q.radiusKm, all)
	if errors.Is(err, services.ErrNoCandidatesFound) {
		return []ShopCandidate{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]ShopCandidate, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, ShopCandidate{Shop: c.Item, DistanceKm: c.DistanceKm})
	}
	return out, nil
}
