// Package trackrepo stores location samples, one row per accepted ping.
package trackrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SampleDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_samples_order_partner_time,priority:1"`
	PartnerID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_samples_order_partner_time,priority:2"`
	Lat        float64   `gorm:"not null"`
	Lng        float64   `gorm:"not null"`
	Status     int       `gorm:"type:smallint;not null"`
	RecordedAt time.Time `gorm:"not null;uniqueIndex:idx_samples_order_partner_time,priority:3"`
}

func (SampleDTO) TableName() string {
	return "location_samples"
}

type GormTrackRepository struct {
	db *gorm.DB
}

func NewGormTrackRepository(db *gorm.DB) *GormTrackRepository {
	return &GormTrackRepository{db: db}
}

func (r *GormTrackRepository) Append(ctx context.Context, s tracking.Sample) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := SampleDTO{
		ID:         s.ID().Bytes(),
		OrderID:    s.OrderID().Bytes(),
		PartnerID:  s.PartnerID().Bytes(),
		Lat:        s.Point().Lat(),
		Lng:        s.Point().Lng(),
		Status:     int(s.Status()),
		RecordedAt: s.RecordedAt(),
	}
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return tracking.ErrDuplicateSample
	}
	return err
}

func (r *GormTrackRepository) Last(ctx context.Context, orderID, partnerID kernel.UUID) (tracking.Sample, bool, error) {
	var dto SampleDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND partner_id = ?", orderID.Bytes(), partnerID.Bytes()).
		Order("recorded_at DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tracking.Sample{}, false, nil
	}
	if err != nil {
		return tracking.Sample{}, false, err
	}

	s, err := toDomain(dto)
	if err != nil {
		return tracking.Sample{}, false, err
	}
	return s, true, nil
}

// List returns the whole track of an order, oldest first.
func (r *GormTrackRepository) List(ctx context.Context, orderID kernel.UUID) ([]tracking.Sample, error) {
	var dtos []SampleDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("recorded_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]tracking.Sample, 0, len(dtos))
	for _, dto := range dtos {
		s, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toDomain(dto SampleDTO) (tracking.Sample, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.Sample{}, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return tracking.Sample{}, err
	}
	partnerID, err := kernel.UUIDFromBytes(dto.PartnerID[:])
	if err != nil {
		return tracking.Sample{}, err
	}
	point, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return tracking.Sample{}, err
	}
	return tracking.RestoreSample(id, orderID, partnerID, point, order.Status(dto.Status), dto.RecordedAt)
}
