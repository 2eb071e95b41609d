// Package notificationrepo persists the notification inbox. The payload is
// kept as a jsonb column.
package notificationrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_recipient,priority:1"`
	Type        int            `gorm:"type:smallint;not null"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Message     string         `gorm:"type:text"`
	Payload     map[string]any `gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_notifications_recipient,priority:2"`
	Read        bool           `gorm:"not null"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	dto := fromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	var dto NotificationDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("notification", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// Update only persists the read flag; everything else is immutable.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Bytes()).
		Update("read", n.IsRead())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}
	return nil
}

func (r *GormNotificationRepository) ListForRecipient(
	ctx context.Context,
	recipientID kernel.UUID,
	unreadOnly bool,
) ([]*notification.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID.Bytes())
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var dtos []NotificationDTO
	if err := q.Order("created_at DESC, id DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		RecipientID: n.RecipientID().Bytes(),
		Type:        int(n.Type()),
		Title:       n.Title(),
		Message:     n.Message(),
		Payload:     n.Payload(),
		CreatedAt:   n.CreatedAt(),
		Read:        n.IsRead(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}
	return notification.RestoreNotification(
		id, recipientID, notification.Type(dto.Type),
		dto.Title, dto.Message, dto.Payload, dto.CreatedAt, dto.Read,
	)
}
