package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pickup = kernel.MustGeoPoint(28.6139, 77.2090)

func mustPartner(t *testing.T, name string, lat, lng float64, online bool) *directory.Partner {
	t.Helper()
	p, err := directory.NewPartner(kernel.NewUUID(), name, online, kernel.MustGeoPoint(lat, lng), time.Now())
	require.NoError(t, err)
	return p
}

func mustShop(t *testing.T, name string, lat, lng float64) *directory.Shop {
	t.Helper()
	addr, err := kernel.NewAddress(name+" street", kernel.MustGeoPoint(lat, lng))
	require.NoError(t, err)
	s, err := directory.NewShop(kernel.NewUUID(), name, addr)
	require.NoError(t, err)
	return s
}

func TestFindCandidatesRadius(t *testing.T) {
	near := mustPartner(t, "near", 28.6200, 77.2150, true)
	pool := []*directory.Partner{near}

	t.Run("included at 5 km", func(t *testing.T) {
		got, err := services.FindCandidates(pickup, 5, pool)

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Item.ID().IsEqual(near.ID()))
		assert.InDelta(t, 0.896, got[0].DistanceKm, 0.01)
	})

	t.Run("excluded at 0.5 km", func(t *testing.T) {
		got, err := services.FindCandidates(pickup, 0.5, pool)

		require.ErrorIs(t, err, services.ErrNoCandidatesFound)
		assert.Empty(t, got)
	})

	t.Run("zero radius matches only the origin", func(t *testing.T) {
		here := mustPartner(t, "here", 28.6139, 77.2090, true)

		got, err := services.FindCandidates(pickup, 0, []*directory.Partner{near, here})

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, got[0].Item.ID().IsEqual(here.ID()))
	})

	t.Run("invalid radius", func(t *testing.T) {
		_, err := services.FindCandidates(pickup, -1, pool)
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrNoCandidatesFound)
	})

	t.Run("empty pool", func(t *testing.T) {
		_, err := services.FindCandidates[*directory.Partner](pickup, 5, nil)
		require.ErrorIs(t, err, services.ErrNoCandidatesFound)
	})
}

func TestFindCandidatesOrdering(t *testing.T) {
	far := mustPartner(t, "far", 28.6400, 77.2090, true)
	mid := mustPartner(t, "mid", 28.6300, 77.2090, true)
	near := mustPartner(t, "near", 28.6200, 77.2090, true)
	twinA := mustPartner(t, "twin-a", 28.6250, 77.2090, true)
	twinB := mustPartner(t, "twin-b", 28.6250, 77.2090, true)

	got, err := services.FindCandidates(pickup, 10, []*directory.Partner{far, twinB, mid, near, twinA})
	require.NoError(t, err)
	require.Len(t, got, 5)

	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].DistanceKm, got[i].DistanceKm)
	}
	assert.True(t, got[0].Item.ID().IsEqual(near.ID()))
	assert.True(t, got[4].Item.ID().IsEqual(far.ID()))

	first, second := got[1].Item, got[2].Item
	assert.True(t, first.ID().Less(second.ID()), "ties are ordered by id")
}

func TestPartnerCandidates(t *testing.T) {
	matcher := services.NewGeospatialMatcher()
	near := mustPartner(t, "near", 28.6200, 77.2150, true)
	farAway := mustPartner(t, "six km", 28.6679, 77.2090, true)
	offline := mustPartner(t, "offline", 28.6140, 77.2091, false)
	busy := mustPartner(t, "busy", 28.6141, 77.2092, true)

	got, err := matcher.PartnerCandidates(pickup, 5,
		[]*directory.Partner{near, farAway, offline, busy},
		[]kernel.UUID{busy.ID()},
	)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Item.ID().IsEqual(near.ID()))
}

func TestNearbyShops(t *testing.T) {
	matcher := services.NewGeospatialMatcher()
	bakery := mustShop(t, "Bakery", 28.6150, 77.2100)
	grocer := mustShop(t, "Grocer", 28.7000, 77.2090)

	got, err := matcher.NearbyShops(pickup, 10, []*directory.Shop{grocer, bakery})

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bakery", got[0].Item.Name())
	assert.Equal(t, "Grocer", got[1].Item.Name())

	got, err = matcher.NearbyShops(pickup, 2, []*directory.Shop{grocer, bakery})
	require.NoError(t, err)
	require.Len(t, got, 1)
}
