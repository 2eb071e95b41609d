package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportPositionCommandIsNotConstructed = errors.New(
	"ReportPositionCommand must be created via NewReportPositionCommand constructor",
)

// ReportPositionCommand is a location ping from a delivery partner.
// A zero recordedAt means "now" at the time the ping is handled.
type ReportPositionCommand struct {
	orderID    kernel.UUID
	partnerID  kernel.UUID
	point      kernel.GeoPoint
	recordedAt time.Time

	guard guard.ConstructorGuard
}

func NewReportPositionCommand(
	orderID, partnerID kernel.UUID,
	point kernel.GeoPoint,
	recordedAt time.Time,
) (ReportPositionCommand, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate(), point.Validate()); err != nil {
		return ReportPositionCommand{}, err
	}

	return ReportPositionCommand{
		orderID:    orderID,
		partnerID:  partnerID,
		point:      point,
		recordedAt: recordedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReportPositionCommand) Validate() error {
	return c.guard.Validate(ErrReportPositionCommandIsNotConstructed)
}

func (c ReportPositionCommand) OrderID() kernel.UUID   { return c.orderID }
func (c ReportPositionCommand) PartnerID() kernel.UUID { return c.partnerID }
func (c ReportPositionCommand) Point() kernel.GeoPoint { return c.point }
func (c ReportPositionCommand) RecordedAt() time.Time  { return c.recordedAt }
