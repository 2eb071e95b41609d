package kernel

import (
	"errors"
	"strings"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"address must be created via NewAddress constructor")

// Address is a human readable street line paired with its coordinates.
type Address struct { //nolint:recvcheck // setters use pointer receivers during construction
	street string
	point  GeoPoint
	guard  guard.ConstructorGuard
}

func NewAddress(street string, point GeoPoint) (Address, error) {
	a := Address{guard: guard.NewConstructorGuard()}

	if err := errors.Join(a.setStreet(street), a.setPoint(point)); err != nil {
		return Address{}, err
	}

	return a, nil
}

func (a Address) Validate() error {
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a Address) Street() string {
	return a.street
}

func (a Address) Point() GeoPoint {
	return a.point
}

func (a *Address) setStreet(street string) error {
	street = strings.TrimSpace(street)
	if street == "" {
		return errs.NewValueIsRequiredError("street")
	}
	a.street = street
	return nil
}

func (a *Address) setPoint(point GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	a.point = point
	return nil
}
