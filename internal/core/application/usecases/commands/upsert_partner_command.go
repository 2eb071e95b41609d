package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpsertPartnerCommandIsNotConstructed = errors.New(
	"UpsertPartnerCommand must be created via NewUpsertPartnerCommand constructor",
)

// UpsertPartnerCommand mirrors a partner presence update from the partner directory.
type UpsertPartnerCommand struct {
	partnerID kernel.UUID
	name      string
	online    bool
	position  kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpsertPartnerCommand(partnerID kernel.UUID, name string, online bool, position kernel.GeoPoint) (UpsertPartnerCommand, error) {
	if err := errors.Join(partnerID.Validate(), position.Validate()); err != nil {
		return UpsertPartnerCommand{}, err
	}
	return UpsertPartnerCommand{
		partnerID: partnerID,
		name:      name,
		online:    online,
		position:  position,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c UpsertPartnerCommand) Validate() error {
	return c.guard.Validate(ErrUpsertPartnerCommandIsNotConstructed)
}

type UpsertPartnerCommandHandler struct {
	partners ports.PartnerDirectory
	now      Clock
}

func NewUpsertPartnerCommandHandler(partners ports.PartnerDirectory, now Clock) UpsertPartnerCommandHandler {
	return UpsertPartnerCommandHandler{partners: partners, now: clockOrDefault(now)}
}

// Handle creates the partner or updates presence and position of a known one.
// An empty name keeps the stored name.
func (h *UpsertPartnerCommandHandler) Handle(ctx context.Context, cmd UpsertPartnerCommand) (*directory.Partner, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	now := h.now()
	p, err := h.partners.Get(ctx, cmd.partnerID)
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		p, err = directory.NewPartner(cmd.partnerID, cmd.name, cmd.online, cmd.position, now)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if cmd.name != "" {
			if err = p.Rename(cmd.name); err != nil {
				return nil, err
			}
		}
		p.SetOnline(cmd.online)
		if err = p.MoveTo(cmd.position, now); err != nil {
			return nil, err
		}
	}

	if err = h.partners.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
