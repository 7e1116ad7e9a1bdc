package sheet

import (
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/shopspring/decimal"
)

// CreateSheetRequest opens a new sheet on a route
type CreateSheetRequest struct {
	RouteID uuid.UUID
	Date    time.Time
}

// UpdateSheetRequest replaces a sheet's working data. Nil fields are left
// unchanged.
type UpdateSheetRequest struct {
	Deliveries sheet.DeliveryData
	Payments   sheet.PaymentData
	Notes      *string
}

// RecordDeliveryRequest sets one delivery line
type RecordDeliveryRequest struct {
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	Quantity   int64
}

// RecordPaymentRequest sets one collection amount
type RecordPaymentRequest struct {
	CustomerID uuid.UUID
	Channel    sheet.PaymentChannel
	Amount     decimal.Decimal
}

// ListSheetsRequest narrows sheet listings
type ListSheetsRequest struct {
	RouteID  *uuid.UUID
	Status   *sheet.SheetStatus
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// SheetDetail pairs a sheet with its derived summary
type SheetDetail struct {
	Sheet   *sheet.DeliverySheet
	Summary sheet.Summary
}

// CloseResult reports what a settlement produced
type CloseResult struct {
	SheetID             uuid.UUID
	InvoicesCreated     int
	TransactionsCreated int
	Summary             sheet.Summary
}
