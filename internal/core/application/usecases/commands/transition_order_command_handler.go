package commands

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// DefaultMaxTransitionAttempts bounds the re-read loop after lost conditional updates.
const DefaultMaxTransitionAttempts = 5

// ErrTransitionContention is returned when every attempt lost its conditional
// update. The caller may retry.
var ErrTransitionContention = errors.New("order is being changed concurrently, retry")

// TransitionResult is the outcome of a transition request.
//
// Applied is false when the same (actor, actorId, action) was already recorded;
// Order then holds the current state and Event is nil.
type TransitionResult struct {
	Order   *order.Order
	Applied bool
	Event   *order.StatusChanged
}

// TransitionOrderCommandHandler runs the order state machine against the order
// store. Every write is a conditional update on the status it was planned from
// (and, for partner assignment, on the order having no partner), so concurrent
// requests are serialized by the store and a loser is re-evaluated against the
// winner's state.
type TransitionOrderCommandHandler struct {
	store       ports.OrderStore
	now         Clock
	maxAttempts int
}

func NewTransitionOrderCommandHandler(store ports.OrderStore, now Clock) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		store:       store,
		now:         clockOrDefault(now),
		maxAttempts: DefaultMaxTransitionAttempts,
	}
}

func (h *TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	for attempt := 0; attempt < h.maxAttempts; attempt++ {
		o, err := h.store.Get(ctx, cmd.OrderID())
		if err != nil {
			return TransitionResult{}, err
		}

		if o.HasApplied(cmd.Actor(), cmd.ActorID(), cmd.Action()) {
			return TransitionResult{Order: o}, nil
		}

		t, err := o.Plan(cmd.Actor(), cmd.ActorID(), cmd.Action())
		if err != nil {
			return TransitionResult{Order: o}, err
		}

		evt, err := o.Apply(t, h.now())
		if err != nil {
			return TransitionResult{}, err
		}

		err = h.store.ConditionalUpdate(ctx, o, ports.Expectation{
			Status:            t.From,
			PartnerUnassigned: t.AssignsPartner,
		})
		if errors.Is(err, ports.ErrConditionFailed) {
			continue
		}
		if err != nil {
			return TransitionResult{}, err
		}

		return TransitionResult{Order: o, Applied: true, Event: &evt}, nil
	}

	return TransitionResult{}, fmt.Errorf("%w: order %s after %d attempts",
		ErrTransitionContention, cmd.OrderID(), h.maxAttempts)
}
