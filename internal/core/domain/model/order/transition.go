package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// rule is one row of the transition table.
type rule struct {
	actor   Actor
	action  Action
	from    []Status
	assigns bool
}

// transitionTable lists every legal (actor, action, from) combination.
// Anything else is an InvalidTransition.
var transitionTable = []rule{
	{actor: Customer, action: Cancel, from: []Status{Pending}},

	{actor: Shop, action: Accept, from: []Status{Pending}},
	{actor: Shop, action: Prepare, from: []Status{Pending, Accepted}},
	{actor: Shop, action: MarkReady, from: []Status{Preparing}},

	{actor: Partner, action: Accept, from: []Status{Pending, Ready}, assigns: true},
	{actor: Partner, action: PickUp, from: []Status{Accepted, Ready}},
	{actor: Partner, action: StartDelivery, from: []Status{PickedUp}},
	{actor: Partner, action: Deliver, from: []Status{OnTheWay}},
}

func findRule(actor Actor, action Action) (rule, bool) {
	for _, r := range transitionTable {
		if r.actor == actor && r.action == action {
			return r, true
		}
	}
	return rule{}, false
}

// IsEdge reports whether from -> to is reachable through any row of the table.
func IsEdge(from, to Status) bool {
	for _, r := range transitionTable {
		if r.action.Target() == to && slices.Contains(r.from, from) {
			return true
		}
	}
	return false
}

// Transition is a planned, not yet persisted, status change. From and
// AssignsPartner form the expectation of the conditional write.
type Transition struct {
	OrderID        kernel.UUID
	Actor          Actor
	ActorID        kernel.UUID
	Action         Action
	From           Status
	To             Status
	AssignsPartner bool
}

// HasApplied reports whether the same actor already performed action on this
// order. Retries of an applied request are answered with the current state.
func (o *Order) HasApplied(actor Actor, actorID kernel.UUID, action Action) bool {
	for _, h := range o.history {
		if h.Actor == actor && h.Action == action && h.ActorID.IsEqual(actorID) {
			return true
		}
	}
	return false
}

// Plan checks a request against the transition table and the parties of the
// order. It does not mutate the order.
//
// Returns:
//   - ActorNotPermittedError when the customer or shop is not the one on the order,
//     or a partner other than the assigned one asks for a non-assigning action
//   - AlreadyAssignedError when a partner asks to accept an order that has a partner
//   - InvalidTransitionError for everything not in the table
func (o *Order) Plan(actor Actor, actorID kernel.UUID, action Action) (Transition, error) {
	if err := errors.Join(actor.Validate(), actorID.Validate(), action.Validate()); err != nil {
		return Transition{}, err
	}

	r, ok := findRule(actor, action)
	if !ok {
		return Transition{}, NewInvalidTransitionError(actor, action, o.status)
	}

	switch actor { //nolint:exhaustive // UnknownActor rejected above
	case Customer:
		if !o.customerID.IsEqual(actorID) {
			return Transition{}, NewActorNotPermittedError(actor, actorID, o.id)
		}
	case Shop:
		if !o.shopID.IsEqual(actorID) {
			return Transition{}, NewActorNotPermittedError(actor, actorID, o.id)
		}
	case Partner:
		if r.assigns && o.partnerID != nil {
			return Transition{}, NewAlreadyAssignedError(o.id)
		}
		if !r.assigns && !o.IsAssignedTo(actorID) {
			return Transition{}, NewActorNotPermittedError(actor, actorID, o.id)
		}
	}

	if !slices.Contains(r.from, o.status) {
		return Transition{}, NewInvalidTransitionError(actor, action, o.status)
	}

	return Transition{
		OrderID:        o.id,
		Actor:          actor,
		ActorID:        actorID,
		Action:         action,
		From:           o.status,
		To:             action.Target(),
		AssignsPartner: r.assigns,
	}, nil
}

// Apply performs a planned transition in memory and returns the event to
// publish once the change is persisted.
func (o *Order) Apply(t Transition, at time.Time) (StatusChanged, error) {
	if !t.OrderID.IsEqual(o.id) {
		return StatusChanged{}, fmt.Errorf("transition planned for order %s applied to %s", t.OrderID, o.id)
	}
	if o.status != t.From || (t.AssignsPartner && o.partnerID != nil) {
		return StatusChanged{}, NewInvalidTransitionError(t.Actor, t.Action, o.status)
	}

	if t.AssignsPartner {
		id := t.ActorID
		o.partnerID = &id
	}
	o.status = t.To
	o.updatedAt = at
	o.history = append(o.history, StatusChange{
		From:    t.From,
		To:      t.To,
		Actor:   t.Actor,
		ActorID: t.ActorID,
		Action:  t.Action,
		At:      at,
	})

	if err := o.status.ValidateCanHavePartner(o.partnerID != nil); err != nil {
		return StatusChanged{}, err
	}

	return StatusChanged{
		OrderID:    o.id,
		CustomerID: o.customerID,
		ShopID:     o.shopID,
		PartnerID:  o.PartnerID(),
		From:       t.From,
		To:         t.To,
		Actor:      t.Actor,
		ActorID:    t.ActorID,
		Action:     t.Action,
		At:         at,
	}, nil
}
