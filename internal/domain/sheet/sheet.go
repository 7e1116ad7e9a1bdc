package sheet

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SheetStatus represents the lifecycle state of a delivery sheet
type SheetStatus string

const (
	SheetStatusActive SheetStatus = "active"
	SheetStatusClosed SheetStatus = "closed"
)

// IsValid checks if the status is valid
func (s SheetStatus) IsValid() bool {
	return s == SheetStatusActive || s == SheetStatusClosed
}

// CanTransitionTo checks if transition to target status is allowed.
// The only transition is active to closed; closing is terminal.
func (s SheetStatus) CanTransitionTo(target SheetStatus) bool {
	return s == SheetStatusActive && target == SheetStatusClosed
}

// CustomerSnapshot captures a customer's identity, outstanding balance and
// price overrides at the moment a sheet is created. Later edits to the
// customer record do not affect sheets already in flight.
type CustomerSnapshot struct {
	CustomerID    uuid.UUID                     `json:"customerId"`
	Name          string                        `json:"name"`
	Phone         string                        `json:"phone,omitempty"`
	Outstanding   decimal.Decimal               `json:"outstanding"`
	ProductPrices map[uuid.UUID]decimal.Decimal `json:"productPrices,omitempty"`
}

// SnapshotCustomer builds a snapshot from a live customer record
func SnapshotCustomer(c *partner.Customer) CustomerSnapshot {
	prices := make(map[uuid.UUID]decimal.Decimal, len(c.ProductPrices))
	for productID, price := range c.ProductPrices {
		prices[productID] = price
	}
	return CustomerSnapshot{
		CustomerID:    c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Outstanding:   c.OutstandingAmount,
		ProductPrices: prices,
	}
}

// CustomerSnapshots is the ordered list of snapshots on a sheet.
// Stored as a JSONB column.
type CustomerSnapshots []CustomerSnapshot

// Find returns the snapshot for the given customer, if present
func (s CustomerSnapshots) Find(customerID uuid.UUID) (CustomerSnapshot, bool) {
	for _, snap := range s {
		if snap.CustomerID == customerID {
			return snap, true
		}
	}
	return CustomerSnapshot{}, false
}

// Value implements driver.Valuer for JSONB storage
func (s CustomerSnapshots) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB retrieval
func (s *CustomerSnapshots) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into CustomerSnapshots", value)
	}
	return json.Unmarshal(data, s)
}

// DeliveryLine records one product delivered to one customer. Amount is
// stored alongside quantity so that historical rows survive later rate
// changes; consistency between the two is enforced at validation time.
type DeliveryLine struct {
	Quantity int64           `json:"quantity"`
	Amount   decimal.Decimal `json:"amount"`
}

// DeliveryData maps customer ID to product ID to the delivered line.
// Stored as a JSONB column on the sheet.
type DeliveryData map[uuid.UUID]map[uuid.UUID]DeliveryLine

// Value implements driver.Valuer for JSONB storage
func (d DeliveryData) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval
func (d *DeliveryData) Scan(value any) error {
	if value == nil {
		*d = make(DeliveryData)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DeliveryData", value)
	}
	return json.Unmarshal(data, d)
}

// DeliverySheet is the aggregate root for one day's deliveries on a route.
//
// A sheet is a working document while active: quantities and collections can
// be edited freely. Closing a sheet settles it into invoices and ledger
// transactions and freezes it permanently. At most one sheet per route may be
// active at a time.
type DeliverySheet struct {
	shared.BaseAggregateRoot
	Date             time.Time
	RouteID          uuid.UUID
	RouteName        string
	Customers        CustomerSnapshots
	RouteOutstanding decimal.Decimal
	Deliveries       DeliveryData
	Payments         PaymentData
	Notes            string
	Status           SheetStatus
	ClosedAt         *time.Time
}

// NewDeliverySheet creates an active sheet for a route, snapshotting the
// route's customers. RouteOutstanding records the combined balance of the
// snapshot at creation time, for the old-versus-new comparison at close.
func NewDeliverySheet(routeID uuid.UUID, routeName string, date time.Time, customers []*partner.Customer) (*DeliverySheet, error) {
	if routeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Delivery sheet must reference a route")
	}
	if routeName == "" {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Route name cannot be empty")
	}
	if date.IsZero() {
		date = time.Now()
	}

	snapshots := make(CustomerSnapshots, 0, len(customers))
	outstanding := decimal.Zero
	for _, c := range customers {
		snap := SnapshotCustomer(c)
		snapshots = append(snapshots, snap)
		outstanding = outstanding.Add(snap.Outstanding)
	}

	s := &DeliverySheet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Date:              date,
		RouteID:           routeID,
		RouteName:         routeName,
		Customers:         snapshots,
		RouteOutstanding:  outstanding,
		Deliveries:        make(DeliveryData),
		Payments:          make(PaymentData),
		Status:            SheetStatusActive,
	}
	s.AddDomainEvent(NewDeliverySheetCreatedEvent(s))
	return s, nil
}

// Snapshot returns the customer snapshot for the given ID
func (s *DeliverySheet) Snapshot(customerID uuid.UUID) (CustomerSnapshot, bool) {
	return s.Customers.Find(customerID)
}

// IsActive returns true while the sheet accepts edits
func (s *DeliverySheet) IsActive() bool {
	return s.Status == SheetStatusActive
}

func (s *DeliverySheet) ensureMutable() error {
	if s.Status == SheetStatusClosed {
		return ErrClosedSheetImmutable
	}
	return nil
}

// SetQuantity records the delivered quantity of a product for a customer.
// The line amount is derived from the snapshot-resolved rate. Setting zero
// removes the line.
func (s *DeliverySheet) SetQuantity(customerID uuid.UUID, product *catalog.Product, quantity int64) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if quantity < 0 {
		return shared.NewDomainError("NEGATIVE_QUANTITY", "Delivered quantity cannot be negative")
	}
	snap, ok := s.Snapshot(customerID)
	if !ok {
		return ErrUnknownCustomer
	}
	if product == nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product is required")
	}

	if quantity == 0 {
		if lines, ok := s.Deliveries[customerID]; ok {
			delete(lines, product.ID)
			if len(lines) == 0 {
				delete(s.Deliveries, customerID)
			}
		}
		s.Touch()
		return nil
	}

	rate, ok := ResolveRate(snap, product)
	if !ok || rate.IsZero() {
		return shared.NewDomainError("MISSING_RATE", fmt.Sprintf("No rate available for product %q and customer %q", product.Name, snap.Name))
	}

	if s.Deliveries == nil {
		s.Deliveries = make(DeliveryData)
	}
	if s.Deliveries[customerID] == nil {
		s.Deliveries[customerID] = make(map[uuid.UUID]DeliveryLine)
	}
	s.Deliveries[customerID][product.ID] = DeliveryLine{
		Quantity: quantity,
		Amount:   rate.Mul(decimal.NewFromInt(quantity)),
	}
	s.Touch()
	return nil
}

// SetReceived records the amount collected from a customer on one channel.
// The entry total tracks the channel sum.
func (s *DeliverySheet) SetReceived(customerID uuid.UUID, channel PaymentChannel, amount decimal.Decimal) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if !channel.IsValid() {
		return shared.NewDomainError("INVALID_CHANNEL", "Payment channel must be cash or upi")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("NEGATIVE_AMOUNT", "Collected amount cannot be negative")
	}
	if _, ok := s.Snapshot(customerID); !ok {
		return ErrUnknownCustomer
	}

	if s.Payments == nil {
		s.Payments = make(PaymentData)
	}
	entry := s.Payments[customerID]
	switch channel {
	case ChannelCash:
		entry.Cash = amount
	case ChannelUPI:
		entry.UPI = amount
	}
	entry.Total = entry.ChannelSum()

	if entry.IsZero() {
		delete(s.Payments, customerID)
	} else {
		s.Payments[customerID] = entry
	}
	s.Touch()
	return nil
}

// ApplyUpdate replaces the sheet's working data wholesale. Callers are
// expected to validate the resulting sheet before persisting it.
func (s *DeliverySheet) ApplyUpdate(deliveries DeliveryData, payments PaymentData, notes *string) error {
	if err := s.ensureMutable(); err != nil {
		return err
	}
	if deliveries != nil {
		s.Deliveries = deliveries
	}
	if payments != nil {
		s.Payments = payments
	}
	if notes != nil {
		s.Notes = *notes
	}
	s.Touch()
	return nil
}

// CustomerDeliveryTotal sums the line amounts delivered to one customer
func (s *DeliverySheet) CustomerDeliveryTotal(customerID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Deliveries[customerID] {
		total = total.Add(line.Amount)
	}
	return total
}

// HasDeliveries returns true if the customer has any nonzero delivery line
func (s *DeliverySheet) HasDeliveries(customerID uuid.UUID) bool {
	for _, line := range s.Deliveries[customerID] {
		if line.Quantity > 0 || !line.Amount.IsZero() {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the sheet has no deliveries and no collections
func (s *DeliverySheet) IsEmpty() bool {
	for customerID := range s.Deliveries {
		if s.HasDeliveries(customerID) {
			return false
		}
	}
	for _, entry := range s.Payments {
		if !entry.IsZero() {
			return false
		}
	}
	return true
}

// Received returns the payment entry recorded for a customer
func (s *DeliverySheet) Received(customerID uuid.UUID) PaymentEntry {
	return s.Payments[customerID]
}

// Close transitions the sheet to closed. Closing is terminal; a closed sheet
// can never be reopened or edited.
func (s *DeliverySheet) Close() error {
	if s.Status == SheetStatusClosed {
		return ErrAlreadyClosed
	}
	if !s.Status.CanTransitionTo(SheetStatusClosed) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot close sheet in status %s", s.Status))
	}

	now := time.Now()
	s.Status = SheetStatusClosed
	s.ClosedAt = &now
	s.Touch()
	s.AddDomainEvent(NewDeliverySheetClosedEvent(s))
	return nil
}

// EnsureDeletable checks that the sheet may be deleted. Only active sheets
// can be deleted; closed sheets are part of the financial record.
func (s *DeliverySheet) EnsureDeletable() error {
	if s.Status == SheetStatusClosed {
		return ErrClosedSheetImmutable
	}
	return nil
}
