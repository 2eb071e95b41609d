package ports

import (
	"context"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
)

// PartnerDirectory is the dispatcher's view of delivery partners.
type PartnerDirectory interface {
	// Upsert stores presence and position published by the partner app.
	Upsert(ctx context.Context, p *directory.Partner) error

	Get(ctx context.Context, id kernel.UUID) (*directory.Partner, error)

	// ListOnline returns partners currently marked online.
	ListOnline(ctx context.Context) ([]*directory.Partner, error)
}

// ShopDirectory is the dispatcher's view of shops.
type ShopDirectory interface {
	Upsert(ctx context.Context, s *directory.Shop) error
	Get(ctx context.Context, id kernel.UUID) (*directory.Shop, error)
	List(ctx context.Context) ([]*directory.Shop, error)
}
