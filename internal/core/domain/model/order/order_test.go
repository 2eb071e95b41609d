package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mustAddress(t *testing.T, street string, lat, lng float64) kernel.Address {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	a, err := kernel.NewAddress(street, p)
	require.NoError(t, err)
	return a
}

func mustItem(t *testing.T, qty int, price int64) order.Item {
	t.Helper()
	i, err := order.NewItem(kernel.NewUUID(), qty, price)
	require.NoError(t, err)
	return i
}

type parties struct {
	customer kernel.UUID
	shop     kernel.UUID
}

func newOrder(t *testing.T) (*order.Order, parties) {
	t.Helper()
	p := parties{customer: kernel.NewUUID(), shop: kernel.NewUUID()}
	o, err := order.NewOrder(
		kernel.NewUUID(), p.customer, p.shop,
		[]order.Item{mustItem(t, 2, 15000), mustItem(t, 1, 4950)},
		mustAddress(t, "Connaught Place 1", 28.6139, 77.2090),
		mustAddress(t, "Janpath 22", 28.6200, 77.2150),
		createdAt,
	)
	require.NoError(t, err)
	return o, p
}

func TestNewOrder(t *testing.T) {
	t.Run("should create pending order with computed total", func(t *testing.T) {
		o, p := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, int64(2*15000+4950), o.Total())
		assert.Nil(t, o.PartnerID())
		assert.True(t, o.CustomerID().IsEqual(p.customer))
		assert.True(t, o.ShopID().IsEqual(p.shop))
		assert.Len(t, o.Items(), 2)
		assert.Equal(t, createdAt, o.CreatedAt())
		assert.Equal(t, createdAt, o.UpdatedAt())
		assert.Empty(t, o.History())
		assert.Equal(t, "Connaught Place 1", o.Pickup().Street())
	})

	t.Run("should fail without items", func(t *testing.T) {
		o, err := order.NewOrder(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil,
			mustAddress(t, "a", 1, 1), mustAddress(t, "b", 2, 2), createdAt,
		)

		require.Error(t, err)
		assert.Nil(t, o)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should join every validation error", func(t *testing.T) {
		var id kernel.UUID
		var addr kernel.Address

		o, err := order.NewOrder(id, id, id, nil, addr, addr, time.Time{})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "address must be created")
		assert.Contains(t, err.Error(), "items")
		assert.Contains(t, err.Error(), "created at")
	})

	t.Run("zero value order is not valid", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestNewItem(t *testing.T) {
	t.Run("should compute subtotal", func(t *testing.T) {
		i := mustItem(t, 3, 250)
		assert.Equal(t, int64(750), i.Subtotal())
	})

	t.Run("should reject zero quantity", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), 0, 100)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "0 is not greater than 0")
	})

	t.Run("should reject negative price", func(t *testing.T) {
		_, err := order.NewItem(kernel.NewUUID(), 1, -1)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should allow free items", func(t *testing.T) {
		i, err := order.NewItem(kernel.NewUUID(), 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), i.Subtotal())
	})
}

func TestRestoreOrder(t *testing.T) {
	o, _ := newOrder(t)
	partner := kernel.NewUUID()

	snapshot := func() order.Snapshot {
		return order.Snapshot{
			ID:         o.ID(),
			CustomerID: o.CustomerID(),
			ShopID:     o.ShopID(),
			Items:      o.Items(),
			Total:      o.Total(),
			Status:     order.Accepted,
			PartnerID:  &partner,
			Pickup:     o.Pickup(),
			Dropoff:    o.Dropoff(),
			CreatedAt:  o.CreatedAt(),
			UpdatedAt:  o.CreatedAt().Add(time.Minute),
		}
	}

	t.Run("should restore assigned order", func(t *testing.T) {
		restored, err := order.RestoreOrder(snapshot())

		require.NoError(t, err)
		assert.True(t, restored.IsEqual(o))
		assert.True(t, restored.IsAssignedTo(partner))
		assert.Equal(t, order.Accepted, restored.Status())
		assert.Equal(t, o.Total(), restored.Total())
	})

	t.Run("should reject partner on pending order", func(t *testing.T) {
		s := snapshot()
		s.Status = order.Pending

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "pending is not a valid status to have a delivery partner")
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		s := snapshot()
		s.Status = order.Unknown
		s.PartnerID = nil

		_, err := order.RestoreOrder(s)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrderClone(t *testing.T) {
	o, p := newOrder(t)
	partner := kernel.NewUUID()
	tr, err := o.Plan(order.Partner, partner, order.Accept)
	require.NoError(t, err)

	c := o.Clone()
	_, err = c.Apply(tr, createdAt.Add(time.Minute))
	require.NoError(t, err)

	assert.Equal(t, order.Pending, o.Status())
	assert.Nil(t, o.PartnerID())
	assert.Empty(t, o.History())
	assert.Equal(t, order.Accepted, c.Status())
	assert.True(t, c.CustomerID().IsEqual(p.customer))
}

func TestSetEstimatedDeliveryAt(t *testing.T) {
	o, _ := newOrder(t)

	require.Error(t, o.SetEstimatedDeliveryAt(createdAt.Add(-time.Hour)))
	assert.Nil(t, o.EstimatedDeliveryAt())

	eta := createdAt.Add(40 * time.Minute)
	require.NoError(t, o.SetEstimatedDeliveryAt(eta))
	assert.Equal(t, eta, *o.EstimatedDeliveryAt())
}
