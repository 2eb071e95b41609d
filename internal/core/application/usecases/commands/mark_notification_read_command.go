package commands

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type MarkNotificationReadCommandHandler struct {
	repo ports.NotificationRepository
}

func NewMarkNotificationReadCommandHandler(repo ports.NotificationRepository) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{repo: repo}
}

// Handle marks the notification read. recipientID must own it; a foreign
// recipient gets ErrObjectNotFound so ids cannot be probed.
func (h *MarkNotificationReadCommandHandler) Handle(
	ctx context.Context,
	id, recipientID kernel.UUID,
) (*notification.Notification, error) {
	n, err := h.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !n.RecipientID().IsEqual(recipientID) {
		return nil, errs.NewObjectNotFoundError("notification", id)
	}
	if n.IsRead() {
		return n, nil
	}

	n.MarkRead()
	if err = h.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
