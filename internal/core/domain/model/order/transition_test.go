package order_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func apply(t *testing.T, o *order.Order, actor order.Actor, actorID kernel.UUID, action order.Action) order.StatusChanged {
	t.Helper()
	tr, err := o.Plan(actor, actorID, action)
	require.NoError(t, err)
	evt, err := o.Apply(tr, o.UpdatedAt().Add(time.Second))
	require.NoError(t, err)
	return evt
}

func TestPlanHappyPath(t *testing.T) {
	o, p := newOrder(t)
	partner := kernel.NewUUID()

	apply(t, o, order.Shop, p.shop, order.Accept)
	apply(t, o, order.Shop, p.shop, order.Prepare)
	evt := apply(t, o, order.Shop, p.shop, order.MarkReady)
	assert.True(t, evt.NeedsPartner())

	evt = apply(t, o, order.Partner, partner, order.Accept)
	assert.Equal(t, order.Ready, evt.From)
	assert.Equal(t, order.Accepted, evt.To)
	require.NotNil(t, evt.PartnerID)
	assert.True(t, evt.PartnerID.IsEqual(partner))

	apply(t, o, order.Partner, partner, order.PickUp)
	apply(t, o, order.Partner, partner, order.StartDelivery)
	evt = apply(t, o, order.Partner, partner, order.Deliver)

	assert.Equal(t, order.Delivered, o.Status())
	assert.True(t, evt.To.IsTerminal())

	var observed []order.Status
	for _, h := range o.History() {
		observed = append(observed, h.To)
	}
	assert.Equal(t, []order.Status{
		order.Accepted, order.Preparing, order.Ready,
		order.Accepted, order.PickedUp, order.OnTheWay, order.Delivered,
	}, observed)
}

func TestPlanRejections(t *testing.T) {
	t.Run("customer cannot cancel after acceptance", func(t *testing.T) {
		o, p := newOrder(t)
		apply(t, o, order.Shop, p.shop, order.Accept)

		_, err := o.Plan(order.Customer, p.customer, order.Cancel)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Contains(t, err.Error(), "customer cannot cancel an order in status accepted")
	})

	t.Run("shop cannot deliver", func(t *testing.T) {
		o, p := newOrder(t)

		_, err := o.Plan(order.Shop, p.shop, order.Deliver)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("other shop is not permitted", func(t *testing.T) {
		o, _ := newOrder(t)

		_, err := o.Plan(order.Shop, kernel.NewUUID(), order.Accept)

		require.ErrorIs(t, err, order.ErrActorNotPermitted)
	})

	t.Run("other customer is not permitted", func(t *testing.T) {
		o, _ := newOrder(t)

		_, err := o.Plan(order.Customer, kernel.NewUUID(), order.Cancel)

		require.ErrorIs(t, err, order.ErrActorNotPermitted)
	})

	t.Run("second partner gets already assigned", func(t *testing.T) {
		o, _ := newOrder(t)
		apply(t, o, order.Partner, kernel.NewUUID(), order.Accept)

		_, err := o.Plan(order.Partner, kernel.NewUUID(), order.Accept)

		require.ErrorIs(t, err, order.ErrAlreadyAssigned)
	})

	t.Run("unassigned partner cannot pick up", func(t *testing.T) {
		o, p := newOrder(t)
		apply(t, o, order.Shop, p.shop, order.Prepare)
		apply(t, o, order.Shop, p.shop, order.MarkReady)

		_, err := o.Plan(order.Partner, kernel.NewUUID(), order.PickUp)

		require.ErrorIs(t, err, order.ErrActorNotPermitted)
	})

	t.Run("partner cannot accept while preparing", func(t *testing.T) {
		o, p := newOrder(t)
		apply(t, o, order.Shop, p.shop, order.Prepare)

		_, err := o.Plan(order.Partner, kernel.NewUUID(), order.Accept)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("nothing leaves a terminal status", func(t *testing.T) {
		o, p := newOrder(t)
		apply(t, o, order.Customer, p.customer, order.Cancel)

		_, err := o.Plan(order.Shop, p.shop, order.Accept)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
		_, err = o.Plan(order.Partner, kernel.NewUUID(), order.Accept)
		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("unknown actor is a validation error", func(t *testing.T) {
		o, _ := newOrder(t)

		_, err := o.Plan(order.UnknownActor, kernel.NewUUID(), order.Accept)

		require.Error(t, err)
		assert.NotErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestApplyRejectsStalePlan(t *testing.T) {
	o, p := newOrder(t)
	first, err := o.Plan(order.Partner, kernel.NewUUID(), order.Accept)
	require.NoError(t, err)
	second, err := o.Plan(order.Partner, kernel.NewUUID(), order.Accept)
	require.NoError(t, err)

	_, err = o.Apply(first, createdAt.Add(time.Second))
	require.NoError(t, err)
	_, err = o.Apply(second, createdAt.Add(2*time.Second))
	require.ErrorIs(t, err, order.ErrInvalidTransition)

	assert.True(t, o.IsAssignedTo(first.ActorID))
	assert.Len(t, o.History(), 1)
	assert.True(t, o.CustomerID().IsEqual(p.customer))
}

func TestHasApplied(t *testing.T) {
	o, p := newOrder(t)
	assert.False(t, o.HasApplied(order.Shop, p.shop, order.Accept))

	apply(t, o, order.Shop, p.shop, order.Accept)

	assert.True(t, o.HasApplied(order.Shop, p.shop, order.Accept))
	assert.False(t, o.HasApplied(order.Shop, kernel.NewUUID(), order.Accept))
	assert.False(t, o.HasApplied(order.Partner, p.shop, order.Accept))
}

func TestIsEdge(t *testing.T) {
	assert.True(t, order.IsEdge(order.Pending, order.Cancelled))
	assert.True(t, order.IsEdge(order.Ready, order.Accepted))
	assert.False(t, order.IsEdge(order.Ready, order.Cancelled))
	assert.False(t, order.IsEdge(order.Delivered, order.Accepted))
	assert.False(t, order.IsEdge(order.Pending, order.Delivered))
}

// Random request sequences must never break the partner invariant or record
// an edge outside the table.
func TestRandomRequestsKeepInvariants(t *testing.T) {
	actions := []order.Action{
		order.Accept, order.Prepare, order.MarkReady, order.PickUp,
		order.StartDelivery, order.Deliver, order.Cancel,
	}
	rng := rand.New(rand.NewPCG(7, 11))

	for run := 0; run < 200; run++ {
		o, p := newOrder(t)
		partners := []kernel.UUID{kernel.NewUUID(), kernel.NewUUID()}
		at := createdAt

		for step := 0; step < 30; step++ {
			var actor order.Actor
			var actorID kernel.UUID
			switch rng.IntN(3) {
			case 0:
				actor, actorID = order.Customer, p.customer
			case 1:
				actor, actorID = order.Shop, p.shop
			default:
				actor, actorID = order.Partner, partners[rng.IntN(len(partners))]
			}
			action := actions[rng.IntN(len(actions))]

			tr, err := o.Plan(actor, actorID, action)
			if err != nil {
				continue
			}
			at = at.Add(time.Second)
			_, err = o.Apply(tr, at)
			require.NoError(t, err)

			require.NoError(t, o.Status().ValidateCanHavePartner(o.PartnerID() != nil))
		}

		prev := order.Pending
		for _, h := range o.History() {
			require.Equal(t, prev, h.From)
			require.True(t, order.IsEdge(h.From, h.To), "%s -> %s", h.From, h.To)
			prev = h.To
		}
	}
}
