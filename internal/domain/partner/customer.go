package partner

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Customer represents a delivery customer assigned to a route.
//
// OutstandingAmount is a signed running balance: positive means the customer
// owes money, negative means the customer holds credit (overpaid). It is only
// ever moved through balance-change appliers so that every movement leaves a
// ledger transaction behind.
type Customer struct {
	shared.BaseAggregateRoot
	Name              string
	Phone             string
	Address           string
	RouteID           uuid.UUID
	ProductPrices     PriceOverrides
	OutstandingAmount decimal.Decimal
	Active            bool
}

// PriceOverrides maps product IDs to customer-specific unit prices.
// A missing entry means the product's default price applies.
// Stored as a JSONB column on the customer.
type PriceOverrides map[uuid.UUID]decimal.Decimal

// Value implements driver.Valuer for JSONB storage
func (p PriceOverrides) Value() (driver.Value, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for JSONB retrieval
func (p *PriceOverrides) Scan(value any) error {
	if value == nil {
		*p = make(PriceOverrides)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PriceOverrides", value)
	}
	return json.Unmarshal(data, p)
}

// NewCustomer creates a new customer on the given route
func NewCustomer(name string, routeID uuid.UUID) (*Customer, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name cannot be empty")
	}
	if routeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ROUTE", "Customer must be assigned to a route")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		RouteID:           routeID,
		ProductPrices:     make(PriceOverrides),
		OutstandingAmount: decimal.Zero,
		Active:            true,
	}, nil
}

// PriceFor returns the customer's override price for a product, if any
func (c *Customer) PriceFor(productID uuid.UUID) (decimal.Decimal, bool) {
	if c.ProductPrices == nil {
		return decimal.Decimal{}, false
	}
	price, ok := c.ProductPrices[productID]
	return price, ok
}

// SetPriceOverride sets a customer-specific price for a product
func (c *Customer) SetPriceOverride(productID uuid.UUID, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Override price cannot be negative")
	}
	if c.ProductPrices == nil {
		c.ProductPrices = make(PriceOverrides)
	}
	c.ProductPrices[productID] = price
	c.Touch()
	return nil
}

// RemovePriceOverride removes a customer-specific price, falling back to the default
func (c *Customer) RemovePriceOverride(productID uuid.UUID) {
	delete(c.ProductPrices, productID)
	c.Touch()
}

// ApplyBalanceChange moves the outstanding balance by the given signed delta
// and returns the new balance. Positive deltas increase what the customer
// owes; negative deltas record collections in excess of the sale.
func (c *Customer) ApplyBalanceChange(delta decimal.Decimal) decimal.Decimal {
	c.OutstandingAmount = c.OutstandingAmount.Add(delta)
	c.Touch()
	return c.OutstandingAmount
}

// AssignRoute moves the customer to a different route
func (c *Customer) AssignRoute(routeID uuid.UUID) error {
	if routeID == uuid.Nil {
		return shared.NewDomainError("INVALID_ROUTE", "Customer must be assigned to a route")
	}
	c.RouteID = routeID
	c.Touch()
	return nil
}
