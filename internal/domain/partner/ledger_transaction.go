package partner

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType categorizes ledger transactions
type TransactionType string

const (
	TransactionTypeSale       TransactionType = "sale"
	TransactionTypePayment    TransactionType = "payment"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// IsValid checks if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeSale, TransactionTypePayment, TransactionTypeAdjustment:
		return true
	}
	return false
}

// TransactionItem is a product line captured on a sale transaction
type TransactionItem struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// TransactionItems is stored as a JSONB column on the transaction
type TransactionItems []TransactionItem

// Value implements driver.Valuer for JSONB storage
func (i TransactionItems) Value() (driver.Value, error) {
	if i == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner for JSONB retrieval
func (i *TransactionItems) Scan(value any) error {
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
		return fmt.Errorf("cannot scan %T into TransactionItems", value)
	}
	return json.Unmarshal(data, i)
}

// LedgerTransaction is an append-only record of a customer balance movement.
//
// BalanceChange is signed: for a sale it is total minus amount received
// (positive when the customer still owes, negative when they overpaid), for a
// payment it is the negated payment amount. BalanceAfter snapshots the
// customer's outstanding balance after the change was applied.
type LedgerTransaction struct {
	shared.BaseAggregateRoot
	ReferenceNumber string
	Type            TransactionType
	CustomerID      uuid.UUID
	CustomerName    string
	SheetID         *uuid.UUID
	Date            time.Time
	Items           TransactionItems
	TotalAmount     decimal.Decimal
	AmountReceived  decimal.Decimal
	BalanceChange   decimal.Decimal
	BalanceAfter    decimal.Decimal
	Notes           string
}

// NewSaleTransaction records a delivery sale against a customer. The balance
// change is derived from the total and the amount received at delivery time.
func NewSaleTransaction(referenceNumber string, customer *Customer, sheetID uuid.UUID, date time.Time, items []TransactionItem, total, received decimal.Decimal) (*LedgerTransaction, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if customer == nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_TRANSACTION", "Sale transaction must have at least one item")
	}
	if total.IsNegative() || received.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amounts cannot be negative")
	}

	sheet := sheetID
	return &LedgerTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Type:              TransactionTypeSale,
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		SheetID:           &sheet,
		Date:              date,
		Items:             items,
		TotalAmount:       total,
		AmountReceived:    received,
		BalanceChange:     total.Sub(received),
	}, nil
}

// NewPaymentTransaction records a standalone payment from a customer,
// reducing the outstanding balance by the payment amount.
func NewPaymentTransaction(referenceNumber string, customer *Customer, date time.Time, amount decimal.Decimal, notes string) (*LedgerTransaction, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if customer == nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}

	return &LedgerTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Type:              TransactionTypePayment,
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		Date:              date,
		AmountReceived:    amount,
		BalanceChange:     amount.Neg(),
		Notes:             notes,
	}, nil
}

// NewAdjustmentTransaction records a manual balance correction
func NewAdjustmentTransaction(referenceNumber string, customer *Customer, date time.Time, delta decimal.Decimal, notes string) (*LedgerTransaction, error) {
	if referenceNumber == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Reference number cannot be empty")
	}
	if customer == nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Adjustment delta cannot be zero")
	}

	return &LedgerTransaction{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReferenceNumber:   referenceNumber,
		Type:              TransactionTypeAdjustment,
		CustomerID:        customer.ID,
		CustomerName:      customer.Name,
		Date:              date,
		BalanceChange:     delta,
		Notes:             notes,
	}, nil
}

// RecordBalanceAfter snapshots the customer balance after the change applied
func (t *LedgerTransaction) RecordBalanceAfter(balance decimal.Decimal) {
	t.BalanceAfter = balance
}
