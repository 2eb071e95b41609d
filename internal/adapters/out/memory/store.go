// Package memory provides in-process implementations of the store ports. They
// back STORE_DRIVER=memory and the application tests. Each store guards its own
// state; there is no cross-store transaction.
package memory

import (
	"context"

	"dispatch/internal/core/ports"
)

// Store bundles one instance of every in-memory store.
type Store struct {
	Orders        *OrderStore
	Tracks        *TrackRepository
	Partners      *PartnerDirectory
	Shops         *ShopDirectory
	Notifications *NotificationRepository
}

func NewStore() *Store {
	return &Store{
		Orders:        NewOrderStore(),
		Tracks:        NewTrackRepository(),
		Partners:      NewPartnerDirectory(),
		Shops:         NewShopDirectory(),
		Notifications: NewNotificationRepository(),
	}
}

// UnitOfWorkFactory hands out units of work over the same stores.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &unitOfWork{store: f.store}
}

// unitOfWork writes through immediately; Rollback does not undo writes.
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(context.Context) error    { return nil }
func (u *unitOfWork) Commit(context.Context) error   { return nil }
func (u *unitOfWork) Rollback(context.Context) error { return nil }

func (u *unitOfWork) OrderStore() ports.OrderStore             { return u.store.Orders }
func (u *unitOfWork) TrackRepository() ports.TrackRepository   { return u.store.Tracks }
func (u *unitOfWork) PartnerDirectory() ports.PartnerDirectory { return u.store.Partners }
