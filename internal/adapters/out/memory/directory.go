package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type PartnerDirectory struct {
	mu       sync.RWMutex
	partners map[kernel.UUID]directory.Partner
}

func NewPartnerDirectory() *PartnerDirectory {
	return &PartnerDirectory{partners: make(map[kernel.UUID]directory.Partner)}
}

var _ ports.PartnerDirectory = (*PartnerDirectory)(nil)

func (d *PartnerDirectory) Upsert(_ context.Context, p *directory.Partner) error {
	if err := p.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.partners[p.ID()] = *p
	return nil
}

func (d *PartnerDirectory) Get(_ context.Context, id kernel.UUID) (*directory.Partner, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.partners[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("partner", id)
	}
	return &p, nil
}

func (d *PartnerDirectory) ListOnline(_ context.Context) ([]*directory.Partner, error) {
	d.mu.RLock()
	out := make([]*directory.Partner, 0, len(d.partners))
	for _, p := range d.partners {
		if p.IsOnline() {
			cp := p
			out = append(out, &cp)
		}
	}
	d.mu.RUnlock()

	slices.SortFunc(out, func(a, b *directory.Partner) int {
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return out, nil
}

type ShopDirectory struct {
	mu    sync.RWMutex
	shops map[kernel.UUID]directory.Shop
}

func NewShopDirectory() *ShopDirectory {
	return &ShopDirectory{shops: make(map[kernel.UUID]directory.Shop)}
}

var _ ports.ShopDirectory = (*ShopDirectory)(nil)

func (d *ShopDirectory) Upsert(_ context.Context, s *directory.Shop) error {
	if err := s.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.shops[s.ID()] = *s
	return nil
}

func (d *ShopDirectory) Get(_ context.Context, id kernel.UUID) (*directory.Shop, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.shops[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("shop", id)
	}
	return &s, nil
}

func (d *ShopDirectory) List(_ context.Context) ([]*directory.Shop, error) {
	d.mu.RLock()
	out := make([]*directory.Shop, 0, len(d.shops))
	for _, s := range d.shops {
		cp := s
		out = append(out, &cp)
	}
	d.mu.RUnlock()

	slices.SortFunc(out, func(a, b *directory.Shop) int {
		return cmp.Compare(a.ID().String(), b.ID().String())
	})
	return out, nil
}
