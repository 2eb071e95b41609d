package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/directory"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/notification"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type MockOrderStore struct{ mock.Mock }

func (m *MockOrderStore) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderStore) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderStore) ConditionalUpdate(ctx context.Context, o *order.Order, expect ports.Expectation) error {
	return m.Called(ctx, o, expect).Error(0)
}

func (m *MockOrderStore) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockTrackRepository struct{ mock.Mock }

func (m *MockTrackRepository) Append(ctx context.Context, s tracking.Sample) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockTrackRepository) Last(ctx context.Context, orderID, partnerID kernel.UUID) (tracking.Sample, bool, error) {
	args := m.Called(ctx, orderID, partnerID)
	s, _ := args.Get(0).(tracking.Sample)
	return s, args.Bool(1), args.Error(2)
}

func (m *MockTrackRepository) List(ctx context.Context, orderID kernel.UUID) ([]tracking.Sample, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).([]tracking.Sample)
	return s, args.Error(1)
}

type MockPartnerDirectory struct{ mock.Mock }

func (m *MockPartnerDirectory) Upsert(ctx context.Context, p *directory.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerDirectory) Get(ctx context.Context, id kernel.UUID) (*directory.Partner, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*directory.Partner)
	return p, args.Error(1)
}

func (m *MockPartnerDirectory) ListOnline(ctx context.Context) ([]*directory.Partner, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).([]*directory.Partner)
	return p, args.Error(1)
}

type MockShopDirectory struct{ mock.Mock }

func (m *MockShopDirectory) Upsert(ctx context.Context, s *directory.Shop) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockShopDirectory) Get(ctx context.Context, id kernel.UUID) (*directory.Shop, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*directory.Shop)
	return s, args.Error(1)
}

func (m *MockShopDirectory) List(ctx context.Context) ([]*directory.Shop, error) {
	args := m.Called(ctx)
	s, _ := args.Get(0).([]*directory.Shop)
	return s, args.Error(1)
}

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, id)
	n, _ := args.Get(0).(*notification.Notification)
	return n, args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) ListForRecipient(
	ctx context.Context, recipientID kernel.UUID, unreadOnly bool,
) ([]*notification.Notification, error) {
	args := m.Called(ctx, recipientID, unreadOnly)
	n, _ := args.Get(0).([]*notification.Notification)
	return n, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderStore() ports.OrderStore {
	return m.Called().Get(0).(ports.OrderStore)
}

func (m *MockUoW) TrackRepository() ports.TrackRepository {
	return m.Called().Get(0).(ports.TrackRepository)
}

func (m *MockUoW) PartnerDirectory() ports.PartnerDirectory {
	return m.Called().Get(0).(ports.PartnerDirectory)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

type fixture struct {
	customer kernel.UUID
	shop     kernel.UUID
	partner  kernel.UUID
	pickup   kernel.Address
	dropoff  kernel.Address
	items    []order.Item
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	pickup, err := kernel.NewAddress("Connaught Place 1", kernel.MustGeoPoint(28.6139, 77.2090))
	require.NoError(t, err)
	dropoff, err := kernel.NewAddress("Janpath 22", kernel.MustGeoPoint(28.6200, 77.2150))
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), 2, 15000)
	require.NoError(t, err)
	return fixture{
		customer: kernel.NewUUID(),
		shop:     kernel.NewUUID(),
		partner:  kernel.NewUUID(),
		pickup:   pickup,
		dropoff:  dropoff,
		items:    []order.Item{item},
	}
}

func (f fixture) newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), f.customer, f.shop, f.items, f.pickup, f.dropoff, fixedNow)
	require.NoError(t, err)
	return o
}

// advance applies actions in order, failing the test on any error.
func advance(t *testing.T, o *order.Order, steps ...step) {
	t.Helper()
	for _, s := range steps {
		tr, err := o.Plan(s.actor, s.actorID, s.action)
		require.NoError(t, err)
		_, err = o.Apply(tr, fixedNow)
		require.NoError(t, err)
	}
}

type step struct {
	actor   order.Actor
	actorID kernel.UUID
	action  order.Action
}
