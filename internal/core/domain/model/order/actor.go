package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Actor is one of the three principals allowed to request transitions.
type Actor int

const (
	UnknownActor Actor = iota
	Customer
	Shop
	Partner
)

var actorNames = map[Actor]string{
	Customer: "customer",
	Shop:     "shop",
	Partner:  "partner",
}

func ParseActor(s string) (Actor, error) {
	for a, name := range actorNames {
		if name == s {
			return a, nil
		}
	}
	return UnknownActor, errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is not a valid actor", s))
}

func (a Actor) String() string {
	if name, ok := actorNames[a]; ok {
		return name
	}
	return "unknown"
}

func (a Actor) Validate() error {
	if _, ok := actorNames[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%d is not a valid actor", a))
	}
	return nil
}

// Action is what an actor asks for. Each action has exactly one target status.
type Action int

const (
	UnknownAction Action = iota
	Accept
	Prepare
	MarkReady
	PickUp
	StartDelivery
	Deliver
	Cancel
)

var actionNames = map[Action]string{
	Accept:        "accept",
	Prepare:       "prepare",
	MarkReady:     "mark_ready",
	PickUp:        "pick_up",
	StartDelivery: "start_delivery",
	Deliver:       "deliver",
	Cancel:        "cancel",
}

var actionTargets = map[Action]Status{
	Accept:        Accepted,
	Prepare:       Preparing,
	MarkReady:     Ready,
	PickUp:        PickedUp,
	StartDelivery: OnTheWay,
	Deliver:       Delivered,
	Cancel:        Cancelled,
}

func ParseAction(s string) (Action, error) {
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return UnknownAction, errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not a valid action", s))
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

func (a Action) Validate() error {
	if _, ok := actionNames[a]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%d is not a valid action", a))
	}
	return nil
}

// Target is the status the action leads to.
func (a Action) Target() Status {
	return actionTargets[a]
}
