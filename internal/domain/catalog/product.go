package catalog

import (
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product with its default unit price.
// Customer-specific override prices live on the customer record; the default
// price here is the fallback rate used when no override exists.
type Product struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Unit         string
	DefaultPrice decimal.Decimal
	Active       bool
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, defaultPrice decimal.Decimal) (*Product, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_CODE", "Product code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if defaultPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Default price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Unit:              unit,
		DefaultPrice:      defaultPrice,
		Active:            true,
	}, nil
}

// UpdatePrice updates the default unit price
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Default price cannot be negative")
	}
	p.DefaultPrice = price
	p.Touch()
	return nil
}

// Deactivate marks the product as no longer sellable.
// Historical sheets keep referencing it for rate resolution.
func (p *Product) Deactivate() {
	p.Active = false
	p.Touch()
}
