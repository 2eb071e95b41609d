// Package directoryrepo is the local copy of the partner and shop directories.
package directoryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type PartnerDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	Online     bool      `gorm:"not null;index"`
	Lat        float64   `gorm:"not null"`
	Lng        float64   `gorm:"not null"`
	LastSeenAt time.Time `gorm:"not null"`
}

func (PartnerDTO) TableName() string {
	return "partners"
}

type ShopDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name   string    `gorm:"type:varchar(255);not null"`
	Street string    `gorm:"type:varchar(512);not null"`
	Lat    float64   `gorm:"not null"`
	Lng    float64   `gorm:"not null"`
}

func (ShopDTO) TableName() string {
	return "shops"
}

func partnerFromDomain(p *directory.Partner) PartnerDTO {
	return PartnerDTO{
		ID:         p.ID().Bytes(),
		Name:       p.Name(),
		Online:     p.IsOnline(),
		Lat:        p.Position().Lat(),
		Lng:        p.Position().Lng(),
		LastSeenAt: p.LastSeenAt(),
	}
}

func partnerToDomain(dto PartnerDTO) (*directory.Partner, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	pos, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}
	return directory.NewPartner(id, dto.Name, dto.Online, pos, dto.LastSeenAt)
}

func shopFromDomain(s *directory.Shop) ShopDTO {
	return ShopDTO{
		ID:     s.ID().Bytes(),
		Name:   s.Name(),
		Street: s.Address().Street(),
		Lat:    s.Position().Lat(),
		Lng:    s.Position().Lng(),
	}
}

func shopToDomain(dto ShopDTO) (*directory.Shop, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	pos, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return nil, err
	}
	addr, err := kernel.NewAddress(dto.Street, pos)
	if err != nil {
		return nil, err
	}
	return directory.NewShop(id, dto.Name, addr)
}
