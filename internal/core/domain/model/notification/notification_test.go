package notification_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotification(t *testing.T) {
	recipient := kernel.NewUUID()
	now := time.Now()
	payload := map[string]any{"orderId": "x", "distanceKm": 0.9}

	n, err := notification.NewNotification(recipient, notification.DeliveryOpportunity, " New delivery ", "0.9 km away", payload, now)

	require.NoError(t, err)
	require.NoError(t, n.Validate())
	assert.Equal(t, "New delivery", n.Title())
	assert.Equal(t, notification.DeliveryOpportunity, n.Type())
	assert.False(t, n.IsRead())
	assert.Equal(t, 0.9, n.Payload()["distanceKm"])

	payload["distanceKm"] = 5.0
	assert.Equal(t, 0.9, n.Payload()["distanceKm"])

	n.MarkRead()
	n.MarkRead()
	assert.True(t, n.IsRead())
}

func TestNewNotificationValidation(t *testing.T) {
	n, err := notification.NewNotification(kernel.UUID{}, notification.UnknownType, " ", "", nil, time.Time{})

	require.Error(t, err)
	assert.Nil(t, n)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "created at")
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"new_order", "delivery_opportunity", "status_update"} {
		typ, err := notification.ParseType(name)
		require.NoError(t, err)
		assert.Equal(t, name, typ.String())
	}
	_, err := notification.ParseType("spam")
	require.Error(t, err)
}
