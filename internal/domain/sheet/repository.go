package sheet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
)

// SheetFilter narrows sheet listings
type SheetFilter struct {
	shared.Filter
	RouteID  *uuid.UUID
	Status   *SheetStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// DeliverySheetRepository defines persistence operations for delivery sheets
type DeliverySheetRepository interface {
	Create(ctx context.Context, s *DeliverySheet) error
	Save(ctx context.Context, s *DeliverySheet) error
	FindByID(ctx context.Context, id uuid.UUID) (*DeliverySheet, error)
	// FindActiveByRoute returns the route's active sheet, or
	// shared.ErrNotFound when none is open.
	FindActiveByRoute(ctx context.Context, routeID uuid.UUID) (*DeliverySheet, error)
	FindAll(ctx context.Context, filter SheetFilter) ([]*DeliverySheet, int64, error)
	// MarkClosed flips the stored status from active to closed, returning
	// ErrAlreadyClosed if the sheet was no longer active. Run inside the
	// settlement transaction so concurrent closes serialize on the row and
	// only one settles.
	MarkClosed(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
