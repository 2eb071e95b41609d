package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUpsertPartnerCommandHandler(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	t.Run("creates unknown partner", func(t *testing.T) {
		partners := new(MockPartnerDirectory)
		partners.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("partner", id)).Once()
		partners.On("Upsert", ctx, mock.AnythingOfType("*directory.Partner")).Return(nil).Once()

		cmd, err := commands.NewUpsertPartnerCommand(id, "Ravi", true, kernel.MustGeoPoint(28.62, 77.215))
		require.NoError(t, err)
		h := commands.NewUpsertPartnerCommandHandler(partners, clock)

		p, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "Ravi", p.Name())
		assert.True(t, p.IsOnline())
		assert.Equal(t, fixedNow, p.LastSeenAt())
		partners.AssertExpectations(t)
	})

	t.Run("updates presence and keeps name", func(t *testing.T) {
		existing, err := directory.NewPartner(id, "Ravi", true, kernel.MustGeoPoint(1, 1), fixedNow.Add(-time.Minute))
		require.NoError(t, err)

		partners := new(MockPartnerDirectory)
		partners.On("Get", ctx, id).Return(existing, nil).Once()
		partners.On("Upsert", ctx, existing).Return(nil).Once()

		cmd, _ := commands.NewUpsertPartnerCommand(id, "", false, kernel.MustGeoPoint(2, 2))
		h := commands.NewUpsertPartnerCommandHandler(partners, clock)

		p, err := h.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, "Ravi", p.Name())
		assert.False(t, p.IsOnline())
		assert.InDelta(t, 2.0, p.Position().Lat(), 1e-9)
	})

	t.Run("new partner needs a name", func(t *testing.T) {
		partners := new(MockPartnerDirectory)
		partners.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("partner", id)).Once()

		cmd, _ := commands.NewUpsertPartnerCommand(id, "", true, kernel.MustGeoPoint(2, 2))
		h := commands.NewUpsertPartnerCommandHandler(partners, clock)

		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, directory.ErrNameIsRequired)
	})
}

func TestUpsertShopCommandHandler(t *testing.T) {
	ctx := t.Context()
	addr, err := kernel.NewAddress("Khan Market 4", kernel.MustGeoPoint(28.60, 77.227))
	require.NoError(t, err)

	shops := new(MockShopDirectory)
	shops.On("Upsert", ctx, mock.AnythingOfType("*directory.Shop")).Return(nil).Once()

	cmd, err := commands.NewUpsertShopCommand(kernel.NewUUID(), "Bakery", addr)
	require.NoError(t, err)
	h := commands.NewUpsertShopCommandHandler(shops)

	s, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, "Bakery", s.Name())
	shops.AssertExpectations(t)

	_, err = h.Handle(ctx, commands.UpsertShopCommand{})
	require.ErrorIs(t, err, commands.ErrUpsertShopCommandIsNotConstructed)
}

func TestMarkNotificationReadCommandHandler(t *testing.T) {
	ctx := t.Context()
	recipient := kernel.NewUUID()
	n, err := notification.NewNotification(recipient, notification.StatusUpdate, "Order accepted", "", nil, fixedNow)
	require.NoError(t, err)

	repo := new(MockNotificationRepository)
	repo.On("Get", ctx, n.ID()).Return(n, nil)
	repo.On("Update", ctx, n).Return(nil).Once()
	h := commands.NewMarkNotificationReadCommandHandler(repo)

	_, err = h.Handle(ctx, n.ID(), kernel.NewUUID())
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, n.IsRead())

	got, err := h.Handle(ctx, n.ID(), recipient)
	require.NoError(t, err)
	assert.True(t, got.IsRead())

	_, err = h.Handle(ctx, n.ID(), recipient)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "Update", 1)
}
