package sheet

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Summary presents the derived financial totals of a sheet. Nothing here is
// stored; every figure is recomputed from the sheet's working data and, for
// the current outstanding, from live customer balances.
type Summary struct {
	TotalSale           decimal.Decimal `json:"totalSale"`
	TotalCash           decimal.Decimal `json:"totalCash"`
	TotalUPI            decimal.Decimal `json:"totalUpi"`
	TotalCollected      decimal.Decimal `json:"totalCollected"`
	AmountPending       decimal.Decimal `json:"amountPending"`
	PreviousOutstanding decimal.Decimal `json:"previousOutstanding"`
	CurrentOutstanding  decimal.Decimal `json:"currentOutstanding"`
	CustomersServed     int             `json:"customersServed"`
}

// Summarize computes the sheet's totals. currentBalances carries the live
// outstanding balance per snapshot customer; pass nil to reuse the balances
// captured at sheet creation.
func (s *DeliverySheet) Summarize(currentBalances map[uuid.UUID]decimal.Decimal) Summary {
	summary := Summary{
		TotalSale:           decimal.Zero,
		TotalCash:           decimal.Zero,
		TotalUPI:            decimal.Zero,
		TotalCollected:      decimal.Zero,
		PreviousOutstanding: s.RouteOutstanding,
		CurrentOutstanding:  decimal.Zero,
	}

	for customerID := range s.Deliveries {
		if s.HasDeliveries(customerID) {
			summary.CustomersServed++
		}
		summary.TotalSale = summary.TotalSale.Add(s.CustomerDeliveryTotal(customerID))
	}

	for _, entry := range s.Payments {
		summary.TotalCash = summary.TotalCash.Add(entry.Cash)
		summary.TotalUPI = summary.TotalUPI.Add(entry.UPI)
		summary.TotalCollected = summary.TotalCollected.Add(entry.Total)
	}

	summary.AmountPending = summary.TotalSale.Sub(summary.TotalCollected)

	for _, snap := range s.Customers {
		if currentBalances != nil {
			if balance, ok := currentBalances[snap.CustomerID]; ok {
				summary.CurrentOutstanding = summary.CurrentOutstanding.Add(balance)
				continue
			}
		}
		summary.CurrentOutstanding = summary.CurrentOutstanding.Add(snap.Outstanding)
	}

	return summary
}
