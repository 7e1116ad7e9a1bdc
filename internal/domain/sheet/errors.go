package sheet

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
)

// Domain errors for sheet lifecycle violations
var (
	ErrAlreadyClosed        = shared.NewDomainError("ALREADY_CLOSED", "Delivery sheet is already closed")
	ErrClosedSheetImmutable = shared.NewDomainError("CLOSED_SHEET_IMMUTABLE", "Closed delivery sheets cannot be modified or deleted")
	ErrUnknownCustomer      = shared.NewDomainError("UNKNOWN_CUSTOMER", "Customer is not part of this delivery sheet")
)

// DuplicateActiveSheetError reports an attempt to open a second active sheet
// on a route. It carries the existing sheet's identity so callers can point
// the operator at the sheet that must be closed first.
type DuplicateActiveSheetError struct {
	RouteID         uuid.UUID
	RouteName       string
	ExistingSheetID uuid.UUID
}

func (e *DuplicateActiveSheetError) Error() string {
	return fmt.Sprintf("route %q already has an active delivery sheet (%s)", e.RouteName, e.ExistingSheetID)
}

// Code returns the stable error code for transport-layer mapping
func (e *DuplicateActiveSheetError) Code() string {
	return "DUPLICATE_ACTIVE_SHEET"
}
