package unitofwork

import "context"

// RepositoryFactory hands out request-scoped units of work bound to ctx.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
