package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary across the stores. The in-memory
// adapters implement it without isolation.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// Repositories returned here use the transaction started by Begin.
	OrderStore() OrderStore
	TrackRepository() TrackRepository
	PartnerDirectory() PartnerDirectory
}
