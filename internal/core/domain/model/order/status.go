package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> accepted ──> preparing ──> ready ──> picked_up ──> on_the_way ──> delivered
//	   │  └──────────────────────^          │  ^
//	   │                                    └──┘ partner assignment (ready -> accepted)
//	   └──> cancelled
//
// delivered and cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota
	Pending
	Accepted
	Preparing
	Ready
	PickedUp
	OnTheWay
	Delivered
	Cancelled
)

var statusNames = map[Status]string{
	Pending:   "pending",
	Accepted:  "accepted",
	Preparing: "preparing",
	Ready:     "ready",
	PickedUp:  "picked_up",
	OnTheWay:  "on_the_way",
	Delivered: "delivered",
	Cancelled: "cancelled",
}

// ParseStatus maps the wire name back to a Status.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Validate rejects Unknown and out-of-range values, e.g. ones read from storage.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsTerminal reports delivered or cancelled.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// IsActive is the complement of IsTerminal for valid statuses.
func (s Status) IsActive() bool {
	return s.Validate() == nil && !s.IsTerminal()
}

// CanHavePartner lists the statuses in which a delivery partner may be assigned.
func (s Status) CanHavePartner() bool {
	switch s { //nolint:exhaustive // every other status forbids a partner
	case Accepted, Preparing, Ready, PickedUp, OnTheWay, Delivered:
		return true
	default:
		return false
	}
}

// ValidateCanHavePartner checks the assignment invariant for a stored order.
func (s Status) ValidateCanHavePartner(hasPartner bool) error {
	if hasPartner && !s.CanHavePartner() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a delivery partner", s),
		)
	}
	return nil
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Accepted, Preparing, Ready, PickedUp, OnTheWay, Delivered, Cancelled}
}
