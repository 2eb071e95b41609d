package tracking

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrSampleIsNotConstructed = errs.NewValueIsRequiredError("sample must be created via NewSample constructor")

// Sample is one position report of a delivery partner for an order.
// Samples are append-only; the latest accepted one is the current position.
type Sample struct { //nolint:recvcheck // setters use pointer receivers during construction
	id         kernel.UUID
	orderID    kernel.UUID
	partnerID  kernel.UUID
	point      kernel.GeoPoint
	status     order.Status
	recordedAt time.Time
	guard      guard.ConstructorGuard
}

// NewSample validates a report. status is the order status observed when the
// sample was accepted.
func NewSample(orderID, partnerID kernel.UUID, point kernel.GeoPoint, status order.Status, recordedAt time.Time) (Sample, error) {
	return RestoreSample(kernel.NewUUID(), orderID, partnerID, point, status, recordedAt)
}

// RestoreSample rebuilds a stored sample.
func RestoreSample(
	id, orderID, partnerID kernel.UUID,
	point kernel.GeoPoint,
	status order.Status,
	recordedAt time.Time,
) (Sample, error) {
	s := Sample{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		partnerID.Validate(),
		point.Validate(),
		status.Validate(),
		s.setRecordedAt(recordedAt),
	); err != nil {
		return Sample{}, err
	}

	s.id = id
	s.orderID = orderID
	s.partnerID = partnerID
	s.point = point
	s.status = status
	return s, nil
}

func (s Sample) Validate() error {
	return s.guard.Validate(ErrSampleIsNotConstructed)
}

func (s Sample) ID() kernel.UUID {
	return s.id
}

func (s Sample) OrderID() kernel.UUID {
	return s.orderID
}

func (s Sample) PartnerID() kernel.UUID {
	return s.partnerID
}

func (s Sample) Point() kernel.GeoPoint {
	return s.point
}

func (s Sample) Status() order.Status {
	return s.status
}

func (s Sample) RecordedAt() time.Time {
	return s.recordedAt
}

// Supersedes reports whether s may follow last in the track of the same
// (order, partner). Older samples may not, and neither may a second sample
// at the same instant: (order, partner, recordedAt) identifies a track point.
func (s Sample) Supersedes(last Sample) error {
	switch {
	case s.recordedAt.Before(last.recordedAt):
		return NewOutOfOrderError(s.orderID, s.recordedAt, last.recordedAt)
	case s.recordedAt.Equal(last.recordedAt):
		return ErrDuplicateSample
	default:
		return nil
	}
}

func (s *Sample) setRecordedAt(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("recorded at")
	}
	// microseconds are what the track store keeps
	s.recordedAt = at.UTC().Truncate(time.Microsecond)
	return nil
}
