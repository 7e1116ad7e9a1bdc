package sheet

import (
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ResolveRate determines the unit price for a product delivered to a
// snapshot customer. A customer-specific override captured in the snapshot
// wins; otherwise the product's default price applies. The boolean reports
// whether any price source existed at all.
func ResolveRate(snap CustomerSnapshot, product *catalog.Product) (decimal.Decimal, bool) {
	if product == nil {
		return decimal.Decimal{}, false
	}
	if snap.ProductPrices != nil {
		if override, ok := snap.ProductPrices[product.ID]; ok {
			return override, true
		}
	}
	return product.DefaultPrice, true
}
