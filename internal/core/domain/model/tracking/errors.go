package tracking

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

var (
	// ErrStaleOrder: the order is terminal, pings are dropped.
	ErrStaleOrder = errors.New("order is no longer active")

	// ErrNotAssigned: the reporting partner is not the order's partner.
	ErrNotAssigned = errors.New("partner is not assigned to the order")

	// ErrOutOfOrder: the sample is older than the last accepted one.
	ErrOutOfOrder = errors.New("sample is older than the last accepted sample")

	ErrDuplicateSample = errors.New("sample has the same time as the last accepted sample")
)

type StaleOrderError struct {
	OrderID kernel.UUID
	Status  order.Status
}

func NewStaleOrderError(orderID kernel.UUID, status order.Status) *StaleOrderError {
	return &StaleOrderError{OrderID: orderID, Status: status}
}

func (e *StaleOrderError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrStaleOrder, e.OrderID, e.Status)
}

func (e *StaleOrderError) Unwrap() error {
	return ErrStaleOrder
}

type NotAssignedError struct {
	OrderID   kernel.UUID
	PartnerID kernel.UUID
}

func NewNotAssignedError(orderID, partnerID kernel.UUID) *NotAssignedError {
	return &NotAssignedError{OrderID: orderID, PartnerID: partnerID}
}

func (e *NotAssignedError) Error() string {
	return fmt.Sprintf("%s: partner %s, order %s", ErrNotAssigned, e.PartnerID, e.OrderID)
}

func (e *NotAssignedError) Unwrap() error {
	return ErrNotAssigned
}

type OutOfOrderError struct {
	OrderID    kernel.UUID
	RecordedAt time.Time
	Last       time.Time
}

func NewOutOfOrderError(orderID kernel.UUID, recordedAt, last time.Time) *OutOfOrderError {
	return &OutOfOrderError{OrderID: orderID, RecordedAt: recordedAt, Last: last}
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("%s: order %s, sample at %s, last at %s",
		ErrOutOfOrder, e.OrderID, e.RecordedAt.Format(time.RFC3339Nano), e.Last.Format(time.RFC3339Nano))
}

func (e *OutOfOrderError) Unwrap() error {
	return ErrOutOfOrder
}

// CheckReport validates that partnerID may report positions for o.
func CheckReport(o *order.Order, partnerID kernel.UUID) error {
	if o.Status().IsTerminal() {
		return NewStaleOrderError(o.ID(), o.Status())
	}
	if !o.IsAssignedTo(partnerID) {
		return NewNotAssignedError(o.ID(), partnerID)
	}
	return nil
}
