package partner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
)

// CustomerRepository defines persistence operations for customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Customer, error)
	FindByRoute(ctx context.Context, routeID uuid.UUID) ([]*Customer, error)
	Save(ctx context.Context, customer *Customer) error
}

// RouteRepository defines persistence operations for routes
type RouteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Route, error)
	FindAll(ctx context.Context) ([]*Route, error)
}

// TransactionFilter narrows ledger transaction listings
type TransactionFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	SheetID    *uuid.UUID
	Type       *TransactionType
	DateFrom   *time.Time
	DateTo     *time.Time
}

// LedgerTransactionRepository defines persistence operations for the
// append-only customer ledger. Transactions are never updated or deleted.
type LedgerTransactionRepository interface {
	Create(ctx context.Context, tx *LedgerTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerTransaction, error)
	FindAll(ctx context.Context, filter TransactionFilter) ([]*LedgerTransaction, int64, error)
	NextReferenceNumber(ctx context.Context, date time.Time) (string, error)
}
