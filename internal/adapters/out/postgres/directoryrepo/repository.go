package directoryrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormPartnerDirectory struct {
	db *gorm.DB
}

func NewGormPartnerDirectory(db *gorm.DB) *GormPartnerDirectory {
	return &GormPartnerDirectory{db: db}
}

func (r *GormPartnerDirectory) Upsert(ctx context.Context, p *directory.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}
	dto := partnerFromDomain(p)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormPartnerDirectory) Get(ctx context.Context, id kernel.UUID) (*directory.Partner, error) {
	var dto PartnerDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("partner", id.String())
	}
	if err != nil {
		return nil, err
	}
	return partnerToDomain(dto)
}

func (r *GormPartnerDirectory) ListOnline(ctx context.Context) ([]*directory.Partner, error) {
	var dtos []PartnerDTO
	if err := r.db.WithContext(ctx).Where("online = ?", true).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*directory.Partner, 0, len(dtos))
	for _, dto := range dtos {
		p, err := partnerToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

type GormShopDirectory struct {
	db *gorm.DB
}

func NewGormShopDirectory(db *gorm.DB) *GormShopDirectory {
	return &GormShopDirectory{db: db}
}

func (r *GormShopDirectory) Upsert(ctx context.Context, s *directory.Shop) error {
	if err := s.Validate(); err != nil {
		return err
	}
	dto := shopFromDomain(s)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

func (r *GormShopDirectory) Get(ctx context.Context, id kernel.UUID) (*directory.Shop, error) {
	var dto ShopDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("shop", id.String())
	}
	if err != nil {
		return nil, err
	}
	return shopToDomain(dto)
}

func (r *GormShopDirectory) List(ctx context.Context) ([]*directory.Shop, error) {
	var dtos []ShopDTO
	if err := r.db.WithContext(ctx).Order("id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	out := make([]*directory.Shop, 0, len(dtos))
	for _, dto := range dtos {
		s, err := shopToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
