package order

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
)

var (
	// ErrInvalidTransition: the action is not legal for the actor from the current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrAlreadyAssigned: another partner won the assignment race.
	ErrAlreadyAssigned = errors.New("order already assigned")

	// ErrActorNotPermitted: the actor is not a party to the order.
	ErrActorNotPermitted = errors.New("actor is not permitted to act on this order")
)

// InvalidTransitionError carries enough context for the caller to re-render
// the correct state.
type InvalidTransitionError struct {
	Actor  Actor
	Action Action
	From   Status
}

func NewInvalidTransitionError(actor Actor, action Action, from Status) *InvalidTransitionError {
	return &InvalidTransitionError{Actor: actor, Action: action, From: from}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot %s an order in status %s",
		ErrInvalidTransition, e.Actor, e.Action, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

type AlreadyAssignedError struct {
	OrderID kernel.UUID
}

func NewAlreadyAssignedError(orderID kernel.UUID) *AlreadyAssignedError {
	return &AlreadyAssignedError{OrderID: orderID}
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyAssigned, e.OrderID)
}

func (e *AlreadyAssignedError) Unwrap() error {
	return ErrAlreadyAssigned
}

type ActorNotPermittedError struct {
	Actor   Actor
	ActorID kernel.UUID
	OrderID kernel.UUID
}

func NewActorNotPermittedError(actor Actor, actorID, orderID kernel.UUID) *ActorNotPermittedError {
	return &ActorNotPermittedError{Actor: actor, ActorID: actorID, OrderID: orderID}
}

func (e *ActorNotPermittedError) Error() string {
	return fmt.Sprintf("%s: %s %s on order %s", ErrActorNotPermitted, e.Actor, e.ActorID, e.OrderID)
}

func (e *ActorNotPermittedError) Unwrap() error {
	return ErrActorNotPermitted
}
