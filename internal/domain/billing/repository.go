package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	SheetID    *uuid.UUID
	Status     *InvoiceStatus
	DateFrom   *time.Time
	DateTo     *time.Time
}

// InvoiceRepository defines persistence operations for invoices.
// Invoices are synthesized at sheet close and never edited afterwards.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindBySheet(ctx context.Context, sheetID uuid.UUID) ([]*Invoice, error)
	FindAll(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)
	NextInvoiceNumber(ctx context.Context, date time.Time) (string, error)
}
