package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionOrderCommand(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.UnknownActor, kernel.NewUUID(), order.Accept)
	require.Error(t, err)

	cmd, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Shop, kernel.NewUUID(), order.Accept)
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, order.Shop, cmd.Actor())

	var zero commands.TransitionOrderCommand
	require.ErrorIs(t, zero.Validate(), commands.ErrTransitionOrderCommandIsNotConstructed)
}

func TestTransitionOrderCommandHandler_Applies(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)

	store := new(MockOrderStore)
	store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
	store.On("ConditionalUpdate", ctx, mock.AnythingOfType("*order.Order"),
		ports.Expectation{Status: order.Pending}).Return(nil).Once()

	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Shop, f.shop, order.Accept)
	h := commands.NewTransitionOrderCommandHandler(store, clock)

	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, order.Accepted, res.Order.Status())
	require.NotNil(t, res.Event)
	assert.Equal(t, order.Pending, res.Event.From)
	assert.Equal(t, order.Accepted, res.Event.To)
	assert.Equal(t, fixedNow, res.Event.At)
	store.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_AssignmentExpectsNoPartner(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)

	store := new(MockOrderStore)
	store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
	store.On("ConditionalUpdate", ctx, mock.MatchedBy(func(u *order.Order) bool {
		return u.IsAssignedTo(f.partner)
	}), ports.Expectation{Status: order.Pending, PartnerUnassigned: true}).Return(nil).Once()

	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Partner, f.partner, order.Accept)
	h := commands.NewTransitionOrderCommandHandler(store, clock)

	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, res.Applied)
	store.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_IdempotentRetry(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)
	advance(t, o, step{order.Shop, f.shop, order.Accept})

	store := new(MockOrderStore)
	store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()

	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Shop, f.shop, order.Accept)
	h := commands.NewTransitionOrderCommandHandler(store, clock)

	res, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Nil(t, res.Event)
	assert.Equal(t, order.Accepted, res.Order.Status())
	store.AssertNotCalled(t, "ConditionalUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionOrderCommandHandler_LostRaceBecomesAlreadyAssigned(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)
	winner := o.Clone()
	advance(t, winner, step{order.Partner, kernel.NewUUID(), order.Accept})

	store := new(MockOrderStore)
	store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
	store.On("ConditionalUpdate", ctx, mock.Anything, mock.Anything).Return(ports.ErrConditionFailed).Once()
	store.On("Get", ctx, o.ID()).Return(winner, nil).Once()

	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Partner, f.partner, order.Accept)
	h := commands.NewTransitionOrderCommandHandler(store, clock)

	res, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrAlreadyAssigned)
	assert.False(t, res.Applied)
	store.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_GivesUpAfterMaxAttempts(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)

	store := new(MockOrderStore)
	for i := 0; i < commands.DefaultMaxTransitionAttempts; i++ {
		store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
	}
	store.On("ConditionalUpdate", ctx, mock.Anything, mock.Anything).
		Return(ports.ErrConditionFailed).Times(commands.DefaultMaxTransitionAttempts)

	cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Shop, f.shop, order.Accept)
	h := commands.NewTransitionOrderCommandHandler(store, clock)

	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, commands.ErrTransitionContention)
	store.AssertExpectations(t)
}

func TestTransitionOrderCommandHandler_Errors(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	o := f.newOrder(t)

	t.Run("not found", func(t *testing.T) {
		store := new(MockOrderStore)
		store.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("order", o.ID())).Once()
		h := commands.NewTransitionOrderCommandHandler(store, clock)
		cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Shop, f.shop, order.Accept)

		_, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("invalid transition keeps state", func(t *testing.T) {
		store := new(MockOrderStore)
		store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
		h := commands.NewTransitionOrderCommandHandler(store, clock)
		cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Shop, f.shop, order.MarkReady)

		res, err := h.Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Pending, res.Order.Status())
		store.AssertNotCalled(t, "ConditionalUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		store := new(MockOrderStore)
		store.On("Get", ctx, o.ID()).Return(o.Clone(), nil).Once()
		store.On("ConditionalUpdate", ctx, mock.Anything, mock.Anything).Return(errors.New("db down")).Once()
		h := commands.NewTransitionOrderCommandHandler(store, clock)
		cmd, _ := commands.NewTransitionOrderCommand(o.ID(), order.Customer, f.customer, order.Cancel)

		_, err := h.Handle(ctx, cmd)

		require.EqualError(t, err, "db down")
	})
}
