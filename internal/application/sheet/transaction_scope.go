package sheet

import (
	"context"

	"github.com/routeledger/backend/internal/domain/billing"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/sheet"
)

// Repos bundles the repositories that participate in a sheet settlement.
// Inside a transaction scope all of them share one database transaction.
type Repos struct {
	Sheets       sheet.DeliverySheetRepository
	Customers    partner.CustomerRepository
	Invoices     billing.InvoiceRepository
	Transactions partner.LedgerTransactionRepository
}

// TransactionScope executes a function within a single atomic unit of work.
// Closing a sheet writes invoices, ledger transactions, customer balances and
// the sheet itself; either all of it lands or none of it does.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repos) error) error
}

// NoOpTransactionScope runs the function against the supplied repositories
// without any transaction. Used in tests.
type NoOpTransactionScope struct {
	Repos Repos
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repos) error) error {
	return fn(s.Repos)
}
