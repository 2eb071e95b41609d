package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// TrackRepository stores the append-only position track of each order.
type TrackRepository interface {
	Append(ctx context.Context, s tracking.Sample) error

	// Last returns the most recent accepted sample for (order, partner);
	// ok is false when there is none.
	Last(ctx context.Context, orderID, partnerID kernel.UUID) (s tracking.Sample, ok bool, err error)

	// List returns the track of an order in recorded order.
	List(ctx context.Context, orderID kernel.UUID) ([]tracking.Sample, error)
}
