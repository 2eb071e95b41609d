package directory

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrShopIsNotConstructed = errors.New("Shop must be created via NewShop constructor")

// Shop is a read-only snapshot used for nearby browsing.
type Shop struct {
	id      kernel.UUID
	name    string
	address kernel.Address
	guard   guard.ConstructorGuard
}

func NewShop(id kernel.UUID, name string, address kernel.Address) (*Shop, error) {
	name = strings.TrimSpace(name)

	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	if err := errors.Join(id.Validate(), nameErr, address.Validate()); err != nil {
		return nil, err
	}

	return &Shop{
		id:      id,
		name:    name,
		address: address,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (s *Shop) Validate() error {
	if s == nil {
		return ErrShopIsNotConstructed
	}
	return s.guard.Validate(ErrShopIsNotConstructed)
}

func (s *Shop) ID() kernel.UUID {
	return s.id
}

func (s *Shop) Name() string {
	return s.name
}

func (s *Shop) Address() kernel.Address {
	return s.address
}

// Position is the shop's pickup point.
func (s *Shop) Position() kernel.GeoPoint {
	return s.address.Point()
}
