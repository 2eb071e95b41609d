package memory_test

import (
	"testing"
	"time"

	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewTrackRepository()
	orderID, p1, p2 := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	_, ok, err := repo.Last(ctx, orderID, p1)
	require.NoError(t, err)
	assert.False(t, ok)

	for i, p := range []kernel.UUID{p1, p2, p1} {
		s, err := tracking.NewSample(orderID, p, kernel.MustGeoPoint(28.61+float64(i)/100, 77.2), order.OnTheWay, t0.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, s))
	}

	last, ok, err := repo.Last(ctx, orderID, p1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, t0.Add(2*time.Second), last.RecordedAt())

	track, err := repo.List(ctx, orderID)
	require.NoError(t, err)
	assert.Len(t, track, 3)

	sameInstant, err := tracking.NewSample(orderID, p1, kernel.MustGeoPoint(28.7, 77.3), order.OnTheWay, t0.Add(2*time.Second))
	require.NoError(t, err)
	require.ErrorIs(t, repo.Append(ctx, sameInstant), tracking.ErrDuplicateSample)

	otherPartner, err := tracking.NewSample(orderID, p2, kernel.MustGeoPoint(28.7, 77.3), order.OnTheWay, t0.Add(2*time.Second))
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, otherPartner))

	empty, err := repo.List(ctx, kernel.NewUUID())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPartnerDirectory(t *testing.T) {
	ctx := t.Context()
	dir := memory.NewPartnerDirectory()

	on, err := directory.NewPartner(kernel.NewUUID(), "On", true, kernel.MustGeoPoint(1, 1), t0)
	require.NoError(t, err)
	off, err := directory.NewPartner(kernel.NewUUID(), "Off", false, kernel.MustGeoPoint(1, 1), t0)
	require.NoError(t, err)
	require.NoError(t, dir.Upsert(ctx, on))
	require.NoError(t, dir.Upsert(ctx, off))

	online, err := dir.ListOnline(ctx)
	require.NoError(t, err)
	require.Len(t, online, 1)
	assert.Equal(t, "On", online[0].Name())

	got, err := dir.Get(ctx, off.ID())
	require.NoError(t, err)
	got.SetOnline(true)
	online, err = dir.ListOnline(ctx)
	require.NoError(t, err)
	assert.Len(t, online, 1, "mutating a returned partner does not touch the directory")

	_, err = dir.Get(ctx, kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestShopDirectory(t *testing.T) {
	ctx := t.Context()
	dir := memory.NewShopDirectory()
	addr, err := kernel.NewAddress("Khan Market 4", kernel.MustGeoPoint(28.60, 77.227))
	require.NoError(t, err)
	s, err := directory.NewShop(kernel.NewUUID(), "Bakery", addr)
	require.NoError(t, err)

	require.NoError(t, dir.Upsert(ctx, s))
	all, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := dir.Get(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, "Bakery", got.Name())
}

func TestNotificationRepository(t *testing.T) {
	ctx := t.Context()
	repo := memory.NewNotificationRepository()
	recipient := kernel.NewUUID()

	older, err := notification.NewNotification(recipient, notification.NewOrder, "older", "", nil, t0)
	require.NoError(t, err)
	newer, err := notification.NewNotification(recipient, notification.StatusUpdate, "newer", "", nil, t0.Add(time.Minute))
	require.NoError(t, err)
	other, err := notification.NewNotification(kernel.NewUUID(), notification.NewOrder, "other", "", nil, t0)
	require.NoError(t, err)
	for _, n := range []*notification.Notification{older, newer, other} {
		require.NoError(t, repo.Add(ctx, n))
	}

	inbox, err := repo.ListForRecipient(ctx, recipient, false)
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, "newer", inbox[0].Title())

	newer.MarkRead()
	require.NoError(t, repo.Update(ctx, newer))

	unread, err := repo.ListForRecipient(ctx, recipient, true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "older", unread[0].Title())

	missing, err := notification.NewNotification(recipient, notification.NewOrder, "missing", "", nil, t0)
	require.NoError(t, err)
	require.ErrorIs(t, repo.Update(ctx, missing), errs.ErrObjectNotFound)
}
