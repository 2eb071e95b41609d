package memory

import (
	"context"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	byID  map[kernel.UUID]notification.Notification
	order []kernel.UUID
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{byID: make(map[kernel.UUID]notification.Notification)}
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Add(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[n.ID()]; !ok {
		r.order = append(r.order, n.ID())
	}
	r.byID[n.ID()] = *n
	return nil
}

func (r *NotificationRepository) Get(_ context.Context, id kernel.UUID) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("notification", id)
	}
	return &n, nil
}

func (r *NotificationRepository) Update(_ context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[n.ID()]; !ok {
		return errs.NewObjectNotFoundError("notification", n.ID())
	}
	r.byID[n.ID()] = *n
	return nil
}

func (r *NotificationRepository) ListForRecipient(
	_ context.Context,
	recipientID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*notification.Notification, 0)
	for _, id := range slices.Backward(r.order) {
		n := r.byID[id]
		if !n.RecipientID().IsEqual(recipientID) || (unreadOnly && n.IsRead()) {
			continue
		}
		out = append(out, &n)
	}
	return out, nil
}
