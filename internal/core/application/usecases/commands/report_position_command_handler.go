package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ReportPositionCommandHandler validates a ping against the order and the
// track, appends it, and moves the partner's last known position.
//
// It does not serialize concurrent pings or transitions of the same order; the
// broadcaster runs both under the order's feed lock. Across processes the unit
// of work's order read keeps the status from changing until commit.
type ReportPositionCommandHandler struct {
	uowFactory ports.UnitOfWorkFactory
	now        Clock
}

func NewReportPositionCommandHandler(uowFactory ports.UnitOfWorkFactory, now Clock) ReportPositionCommandHandler {
	return ReportPositionCommandHandler{
		uowFactory: uowFactory,
		now:        clockOrDefault(now),
	}
}

// Handle returns the accepted sample, or one of tracking.ErrStaleOrder,
// tracking.ErrNotAssigned, tracking.ErrOutOfOrder, tracking.ErrDuplicateSample.
func (h *ReportPositionCommandHandler) Handle(ctx context.Context, cmd ReportPositionCommand) (tracking.Sample, error) {
	if err := cmd.Validate(); err != nil {
		return tracking.Sample{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return tracking.Sample{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderStore().Get(ctx, cmd.OrderID())
	if err != nil {
		return tracking.Sample{}, err
	}

	if err = tracking.CheckReport(o, cmd.PartnerID()); err != nil {
		return tracking.Sample{}, err
	}

	at := cmd.RecordedAt()
	if at.IsZero() {
		at = h.now()
	}

	sample, err := tracking.NewSample(o.ID(), cmd.PartnerID(), cmd.Point(), o.Status(), at)
	if err != nil {
		return tracking.Sample{}, err
	}

	tracks := uow.TrackRepository()
	last, ok, err := tracks.Last(ctx, o.ID(), cmd.PartnerID())
	if err != nil {
		return tracking.Sample{}, err
	}
	if ok {
		if err = sample.Supersedes(last); err != nil {
			return tracking.Sample{}, err
		}
	}

	if err = tracks.Append(ctx, sample); err != nil {
		return tracking.Sample{}, err
	}

	partners := uow.PartnerDirectory()
	partner, err := partners.Get(ctx, cmd.PartnerID())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// partner not published by the directory yet; the track is still kept
	case err != nil:
		return tracking.Sample{}, err
	default:
		if err = partner.MoveTo(sample.Point(), sample.RecordedAt()); err != nil {
			return tracking.Sample{}, err
		}
		if err = partners.Upsert(ctx, partner); err != nil {
			return tracking.Sample{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return tracking.Sample{}, err
	}

	return sample, nil
}
