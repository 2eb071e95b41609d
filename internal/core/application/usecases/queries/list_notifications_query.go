package queries

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
)

type ListNotificationsQueryHandler struct {
	repo ports.NotificationRepository
}

func NewListNotificationsQueryHandler(repo ports.NotificationRepository) ListNotificationsQueryHandler {
	return ListNotificationsQueryHandler{repo: repo}
}

// Handle lists a recipient's inbox, newest first.
func (h ListNotificationsQueryHandler) Handle(
	ctx context.Context,
	recipientID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	if err := recipientID.Validate(); err != nil {
		return nil, err
	}
	return h.repo.ListForRecipient(ctx, recipientID, unreadOnly)
}
