package orderrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderStore implements ports.OrderStore. ConditionalUpdate is a single
// UPDATE guarded by the expected status (and partner_id IS NULL for
// assignments), so the database decides which of two racing writers wins.
type GormOrderStore struct {
	db *gorm.DB

	// shareLock makes Get hold the order row until the surrounding
	// transaction ends, blocking ConditionalUpdate on it meanwhile.
	shareLock bool
}

func NewGormOrderStore(db *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: db}
}

// NewLockingGormOrderStore is the store of a unit of work: tx must be an open
// transaction. An order read through it cannot change status before tx ends.
func NewLockingGormOrderStore(tx *gorm.DB) *GormOrderStore {
	return &GormOrderStore{db: tx, shareLock: true}
}

func (r *GormOrderStore) Create(ctx context.Context, o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}

	dto := fromDomain(o)
	err := r.db.WithContext(ctx).Create(&dto).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.NewValueIsInvalidErrorWithCause("order id", err)
	}
	return err
}

func (r *GormOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	q := r.preload(r.db.WithContext(ctx))
	if r.shareLock {
		q = q.Clauses(clause.Locking{Strength: "SHARE", Table: clause.Table{Name: clause.CurrentTable}})
	}

	var dto OrderDTO
	err := q.First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	if err != nil {
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderStore) ConditionalUpdate(ctx context.Context, o *order.Order, expect ports.Expectation) error {
	if err := o.Validate(); err != nil {
		return err
	}

	dto := fromDomain(o)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&OrderDTO{}).Where("id = ? AND status = ?", dto.ID, int(expect.Status))
		if expect.PartnerUnassigned {
			q = q.Where("partner_id IS NULL")
		}

		res := q.Updates(map[string]any{
			"status":                dto.Status,
			"partner_id":            dto.PartnerID,
			"updated_at":            dto.UpdatedAt,
			"estimated_delivery_at": dto.EstimatedDeliveryAt,
		})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&OrderDTO{}).Where("id = ?", dto.ID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errs.NewObjectNotFoundError("order", o.ID().String())
			}
			return ports.ErrConditionFailed
		}

		if len(dto.History) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.History).Error
	})
}

func (r *GormOrderStore) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	q := r.preload(r.db.WithContext(ctx)).Model(&OrderDTO{})

	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		q = q.Where("status IN ?", statuses)
	}
	if filter.CustomerID != nil {
		q = q.Where("customer_id = ?", filter.CustomerID.Bytes())
	}
	if filter.ShopID != nil {
		q = q.Where("shop_id = ?", filter.ShopID.Bytes())
	}
	if filter.PartnerID != nil {
		q = q.Where("partner_id = ?", filter.PartnerID.Bytes())
	}
	if filter.Unassigned {
		q = q.Where("partner_id IS NULL")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var dtos []OrderDTO
	if err := q.Order("created_at, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *GormOrderStore) preload(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
