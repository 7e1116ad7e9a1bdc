package billing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus categorizes how much of an invoice has been settled
type InvoiceStatus string

const (
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusPartial InvoiceStatus = "partial"
	InvoiceStatusPending InvoiceStatus = "pending"
)

// IsValid checks if the invoice status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPaid, InvoiceStatusPartial, InvoiceStatusPending:
		return true
	}
	return false
}

// DeriveStatus computes the settlement status from the signed balance change
// and the invoice total. A non-positive balance change (fully collected or
// overpaid) is paid; anything collected at all is partial; nothing collected
// is pending.
func DeriveStatus(balanceChange, total decimal.Decimal) InvoiceStatus {
	switch {
	case balanceChange.LessThanOrEqual(decimal.Zero):
		return InvoiceStatusPaid
	case balanceChange.LessThan(total):
		return InvoiceStatusPartial
	default:
		return InvoiceStatusPending
	}
}

// InvoiceItem is a single product line on an invoice
type InvoiceItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceItems is stored as a JSONB column on the invoice
type InvoiceItems []InvoiceItem

// Value implements driver.Valuer for JSONB storage
func (i InvoiceItems) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner for JSONB retrieval
func (i *InvoiceItems) Scan(value any) error {
	if value == nil {
		*i = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceItems", value)
	}
	return json.Unmarshal(data, i)
}

// Invoice is the per-customer billing record synthesized when a delivery
// sheet is closed. One invoice per customer with nonzero deliveries.
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber  string
	SheetID        uuid.UUID
	CustomerID     uuid.UUID
	CustomerName   string
	Date           time.Time
	Items          InvoiceItems
	Subtotal       decimal.Decimal
	Total          decimal.Decimal
	AmountReceived decimal.Decimal
	BalanceChange  decimal.Decimal
	Status         InvoiceStatus
}

// NewInvoice creates an invoice from delivery lines and the amount collected.
// Subtotal and total are derived from the items; the balance change is total
// minus amount received and drives the settlement status.
func NewInvoice(invoiceNumber string, sheetID, customerID uuid.UUID, customerName string, date time.Time, items []InvoiceItem, amountReceived decimal.Decimal) (*Invoice, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if sheetID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SHEET", "Invoice must reference a sheet")
	}
	if customerID == uuid.Nil || customerName == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Invoice must reference a customer")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_INVOICE", "Invoice must have at least one item")
	}
	if amountReceived.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount received cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Invoice item quantity cannot be negative")
		}
		subtotal = subtotal.Add(item.LineTotal)
	}

	total := subtotal
	balanceChange := total.Sub(amountReceived)

	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SheetID:           sheetID,
		CustomerID:        customerID,
		CustomerName:      customerName,
		Date:              date,
		Items:             items,
		Subtotal:          subtotal,
		Total:             total,
		AmountReceived:    amountReceived,
		BalanceChange:     balanceChange,
		Status:            DeriveStatus(balanceChange, total),
	}, nil
}
