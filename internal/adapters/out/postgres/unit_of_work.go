// Package postgres wires the GORM repositories into the store ports and runs
// the multi-repository writes of a position report in one transaction.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer uow.Rollback(ctx)
//
//	if err := uow.TrackRepository().Append(ctx, sample); err != nil {
//	    return err
//	}
//	if err := uow.PartnerDirectory().Upsert(ctx, partner); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and can
// be ignored, which is what the deferred call relies on.
package postgres

import (
	"context"

	"dispatch/internal/adapters/out/postgres/directoryrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/adapters/out/postgres/trackrepo"
	"dispatch/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWorkFactory hands out a fresh unit of work per business operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork is not safe for concurrent use; each goroutine creates its own.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin is a no-op when a transaction is already open.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx
	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn is the open transaction, or the plain connection outside Begin/Commit.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderStore reads inside Begin/Commit share-lock the order row, so a ping
// validated against an active order is stored before any status change commits.
func (uow *GormUnitOfWork) OrderStore() ports.OrderStore {
	if uow.tx != nil {
		return orderrepo.NewLockingGormOrderStore(uow.tx)
	}
	return orderrepo.NewGormOrderStore(uow.db)
}

func (uow *GormUnitOfWork) TrackRepository() ports.TrackRepository {
	return trackrepo.NewGormTrackRepository(uow.conn())
}

func (uow *GormUnitOfWork) PartnerDirectory() ports.PartnerDirectory {
	return directoryrepo.NewGormPartnerDirectory(uow.conn())
}
