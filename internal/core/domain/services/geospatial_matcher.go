package services

import (
	"errors"
	"slices"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrNoCandidatesFound is returned when a radius search is empty. It is not
// fatal: shops are told "no partners nearby" and the redispatch job retries.
var ErrNoCandidatesFound = errors.New("no candidates found")

// Locatable is anything the matcher can rank: partners and shops.
type Locatable interface {
	ID() kernel.UUID
	Position() kernel.GeoPoint
}

// Candidate is a pool member within the radius together with its distance.
type Candidate[T Locatable] struct {
	Item       T
	DistanceKm float64
}

// GeospatialMatcher is the one place where radius filtering and ranking happen.
// It never assigns: callers broadcast the candidates and the order store's
// conditional update decides who wins.
//
// Example usage:
//
//	matcher := services.NewGeospatialMatcher()
//	candidates, err := matcher.FindCandidates(order.Pickup().Point(), 5, partners)
//	if errors.Is(err, services.ErrNoCandidatesFound) {
//	    // tell the shop no partners are nearby
//	}
type GeospatialMatcher struct{}

func NewGeospatialMatcher() GeospatialMatcher {
	return GeospatialMatcher{}
}

// FindCandidates returns the pool members whose distance from origin is at most
// radiusKm, nearest first. Equal distances are ordered by id so that results are
// stable across calls.
func FindCandidates[T Locatable](origin kernel.GeoPoint, radiusKm float64, pool []T) ([]Candidate[T], error) {
	if err := errors.Join(origin.Validate(), kernel.ValidateRadius(radiusKm)); err != nil {
		return nil, err
	}

	candidates := make([]Candidate[T], 0, len(pool))
	for _, item := range pool {
		pos := item.Position()
		if pos.Validate() != nil {
			continue
		}
		d := kernel.Distance(origin.Lat(), origin.Lng(), pos.Lat(), pos.Lng())
		if kernel.WithinRadius(d, radiusKm) {
			candidates = append(candidates, Candidate[T]{Item: item, DistanceKm: d})
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoCandidatesFound
	}

	slices.SortFunc(candidates, func(a, b Candidate[T]) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		case a.Item.ID().Less(b.Item.ID()):
			return -1
		case b.Item.ID().Less(a.Item.ID()):
			return 1
		default:
			return 0
		}
	})

	return candidates, nil
}

// NearbyShops ranks shops around a browsing customer.
func (GeospatialMatcher) NearbyShops(
	origin kernel.GeoPoint,
	radiusKm float64,
	shops []*directory.Shop,
) ([]Candidate[*directory.Shop], error) {
	return FindCandidates(origin, radiusKm, shops)
}

// PartnerCandidates ranks the partners that may be offered an order picked up at
// origin: online and not busy with another active order.
func (GeospatialMatcher) PartnerCandidates(
	origin kernel.GeoPoint,
	radiusKm float64,
	partners []*directory.Partner,
	busy []kernel.UUID,
) ([]Candidate[*directory.Partner], error) {
	pool := make([]*directory.Partner, 0, len(partners))
	for _, p := range partners {
		if !p.IsOnline() {
			continue
		}
		if slices.ContainsFunc(busy, p.ID().IsEqual) {
			continue
		}
		pool = append(pool, p)
	}
	return FindCandidates(origin, radiusKm, pool)
}
