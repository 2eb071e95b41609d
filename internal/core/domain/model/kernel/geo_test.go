package kernel_test

import (
	"math"
	"testing"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		want                   float64
		delta                  float64
	}{
		{"same point", 28.6139, 77.2090, 28.6139, 77.2090, 0, 1e-9},
		{"connaught place to nearby block", 28.6139, 77.2090, 28.6200, 77.2150, 0.896, 0.01},
		{"one degree of latitude", 0, 0, 1, 0, 111.195, 0.01},
		{"one degree of longitude at equator", 0, 0, 0, 1, 111.195, 0.01},
		{"antipodes", 0, 0, 0, 180, math.Pi * kernel.EarthRadiusKm, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kernel.Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.want, got, tt.delta)
		})
	}
}

func TestDistance_IsSymmetric(t *testing.T) {
	d1 := kernel.Distance(28.6139, 77.2090, 28.6679, 77.2090)
	d2 := kernel.Distance(28.6679, 77.2090, 28.6139, 77.2090)

	assert.InDelta(t, d1, d2, 1e-12)
}

func TestWithinRadius(t *testing.T) {
	d := kernel.Distance(28.6139, 77.2090, 28.6200, 77.2150)

	assert.True(t, kernel.WithinRadius(d, 5))
	assert.False(t, kernel.WithinRadius(d, 0.5))
	assert.True(t, kernel.WithinRadius(d, d), "boundary is inclusive")
}

func TestValidateRadius(t *testing.T) {
	require.NoError(t, kernel.ValidateRadius(0))
	require.NoError(t, kernel.ValidateRadius(5))
	require.ErrorIs(t, kernel.ValidateRadius(-1), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, kernel.ValidateRadius(math.NaN()), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, kernel.ValidateRadius(math.Inf(1)), errs.ErrValueIsOutOfRange)
}

func TestNewGeoPoint(t *testing.T) {
	t.Run("valid coordinates", func(t *testing.T) {
		p, err := kernel.NewGeoPoint(28.6139, 77.2090)

		require.NoError(t, err)
		require.NoError(t, p.Validate())
		assert.InDelta(t, 28.6139, p.Lat(), 1e-12)
		assert.InDelta(t, 77.2090, p.Lng(), 1e-12)
	})

	t.Run("boundaries are accepted", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(-90, 180)
		require.NoError(t, err)
	})

	t.Run("out of range latitude and longitude are both reported", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(91, -181)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Contains(t, err.Error(), "lat")
		assert.Contains(t, err.Error(), "lng")
	})

	t.Run("NaN is rejected", func(t *testing.T) {
		_, err := kernel.NewGeoPoint(math.NaN(), 0)
		require.Error(t, err)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var p kernel.GeoPoint
		assert.Equal(t, kernel.ErrGeoPointIsNotConstructed, p.Validate())
	})
}

func TestGeoPoint_DistanceTo(t *testing.T) {
	a := kernel.MustGeoPoint(28.6139, 77.2090)
	b := kernel.MustGeoPoint(28.6200, 77.2150)

	d, err := a.DistanceTo(b)
	require.NoError(t, err)
	assert.InDelta(t, 0.896, d, 0.01)

	_, err = a.DistanceTo(kernel.GeoPoint{})
	require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
}

func TestNewAddress(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		a, err := kernel.NewAddress("  12 Janpath  ", kernel.MustGeoPoint(28.6139, 77.2090))

		require.NoError(t, err)
		assert.Equal(t, "12 Janpath", a.Street())
		assert.InDelta(t, 28.6139, a.Point().Lat(), 1e-12)
	})

	t.Run("empty street and missing point", func(t *testing.T) {
		_, err := kernel.NewAddress(" ", kernel.GeoPoint{})

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	})
}
