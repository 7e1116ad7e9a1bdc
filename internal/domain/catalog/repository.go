package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository provides read access to products.
// Product CRUD itself is handled outside this subsystem; the sheet ledger
// only needs lookups for rate resolution and invoice line synthesis.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Product, error)
}
