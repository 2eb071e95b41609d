package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
)

type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)
	Update(ctx context.Context, n *notification.Notification) error

	// ListForRecipient returns newest first.
	ListForRecipient(ctx context.Context, recipientID kernel.UUID, unreadOnly bool) ([]*notification.Notification, error)
}
