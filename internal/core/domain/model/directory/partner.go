package directory

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	ErrNameIsRequired          = errs.NewValueIsRequiredError("name")
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner constructor")
)

// Partner is the dispatcher's snapshot of a delivery partner as published by the
// partner directory: presence and last known position.
type Partner struct {
	id         kernel.UUID
	name       string
	online     bool
	position   kernel.GeoPoint
	lastSeenAt time.Time
	guard      guard.ConstructorGuard
}

func NewPartner(id kernel.UUID, name string, online bool, position kernel.GeoPoint, lastSeenAt time.Time) (*Partner, error) {
	p := &Partner{
		online: online,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.MoveTo(position, lastSeenAt),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

func (p *Partner) ID() kernel.UUID {
	return p.id
}

func (p *Partner) Name() string {
	return p.name
}

func (p *Partner) IsOnline() bool {
	return p.online
}

func (p *Partner) Position() kernel.GeoPoint {
	return p.position
}

func (p *Partner) LastSeenAt() time.Time {
	return p.lastSeenAt
}

func (p *Partner) Rename(name string) error {
	return p.setName(name)
}

func (p *Partner) SetOnline(online bool) {
	p.online = online
}

// MoveTo updates the last known position. Reports older than the current one are ignored.
func (p *Partner) MoveTo(position kernel.GeoPoint, at time.Time) error {
	if err := position.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("last seen at")
	}
	if at.Before(p.lastSeenAt) {
		return nil
	}
	p.position = position
	p.lastSeenAt = at
	return nil
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}
