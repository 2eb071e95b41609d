package broadcast

import (
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
)

// Kind tells position updates from status updates.
type Kind int

const (
	KindPosition Kind = iota + 1
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindPosition:
		return "position"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Update is one element of a subscription stream. Exactly one of Sample and
// Status is set, according to Kind.
type Update struct {
	Kind   Kind
	Sample *tracking.Sample
	Status *order.StatusChanged
}

func positionUpdate(s tracking.Sample) Update {
	return Update{Kind: KindPosition, Sample: &s}
}

func statusUpdate(evt order.StatusChanged) Update {
	return Update{Kind: KindStatus, Status: &evt}
}
