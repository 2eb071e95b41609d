package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand is one actor's request to move an order along its lifecycle.
type TransitionOrderCommand struct {
	orderID kernel.UUID
	actor   order.Actor
	actorID kernel.UUID
	action  order.Action

	guard guard.ConstructorGuard
}

func NewTransitionOrderCommand(
	orderID kernel.UUID,
	actor order.Actor,
	actorID kernel.UUID,
	action order.Action,
) (TransitionOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		actor.Validate(),
		actorID.Validate(),
		action.Validate(),
	); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID: orderID,
		actor:   actor,
		actorID: actorID,
		action:  action,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c TransitionOrderCommand) Actor() order.Actor   { return c.actor }
func (c TransitionOrderCommand) ActorID() kernel.UUID { return c.actorID }
func (c TransitionOrderCommand) Action() order.Action { return c.action }
