package sheet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/routeledger/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Violation codes reported by Validate
const (
	ViolationNegativeQuantity     = "NEGATIVE_QUANTITY"
	ViolationNegativeAmount       = "NEGATIVE_AMOUNT"
	ViolationAmountMismatch       = "AMOUNT_MISMATCH"
	ViolationPaymentTotalMismatch = "PAYMENT_TOTAL_MISMATCH"
	ViolationMissingRate          = "MISSING_RATE"
	ViolationUnknownCustomer      = "UNKNOWN_CUSTOMER"
)

// Violation describes one consistency failure found on a sheet. It carries
// enough context for the operator to locate and fix the offending entry.
type Violation struct {
	Code       string     `json:"code"`
	CustomerID uuid.UUID  `json:"customerId"`
	ProductID  *uuid.UUID `json:"productId,omitempty"`
	Field      string     `json:"field,omitempty"`
	Expected   string     `json:"expected,omitempty"`
	Actual     string     `json:"actual,omitempty"`
	Message    string     `json:"message"`
}

// ValidationError aggregates all violations found on a sheet. A sheet with
// violations is never partially saved and never closed.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	codes := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		codes = append(codes, v.Code)
	}
	return fmt.Sprintf("delivery sheet validation failed: %s", strings.Join(codes, ", "))
}

// Validate checks the sheet's delivery and payment data for consistency and
// returns every violation found rather than stopping at the first. The
// products map supplies default prices for rate resolution; tolerance on
// amount comparisons absorbs rounding drift in imported data.
func (s *DeliverySheet) Validate(products map[uuid.UUID]catalog.Product) []Violation {
	var violations []Violation

	for customerID, lines := range s.Deliveries {
		snap, known := s.Snapshot(customerID)
		if !known {
			violations = append(violations, Violation{
				Code:       ViolationUnknownCustomer,
				CustomerID: customerID,
				Message:    "Delivery recorded for a customer not on this sheet",
			})
			continue
		}

		for productID, line := range lines {
			pid := productID

			if line.Quantity < 0 {
				violations = append(violations, Violation{
					Code:       ViolationNegativeQuantity,
					CustomerID: customerID,
					ProductID:  &pid,
					Field:      "quantity",
					Actual:     fmt.Sprintf("%d", line.Quantity),
					Message:    fmt.Sprintf("Negative quantity for customer %q", snap.Name),
				})
			}
			if line.Amount.IsNegative() {
				violations = append(violations, Violation{
					Code:       ViolationNegativeAmount,
					CustomerID: customerID,
					ProductID:  &pid,
					Field:      "amount",
					Actual:     line.Amount.String(),
					Message:    fmt.Sprintf("Negative amount for customer %q", snap.Name),
				})
			}
			if line.Quantity < 0 || line.Amount.IsNegative() {
				continue
			}

			var rate decimal.Decimal
			resolved := false
			if product, ok := products[productID]; ok {
				rate, resolved = ResolveRate(snap, &product)
			} else if snap.ProductPrices != nil {
				rate, resolved = snap.ProductPrices[productID]
			}

			if !resolved || rate.IsZero() {
				if line.Quantity > 0 {
					violations = append(violations, Violation{
						Code:       ViolationMissingRate,
						CustomerID: customerID,
						ProductID:  &pid,
						Message:    fmt.Sprintf("No rate available for customer %q", snap.Name),
					})
				}
				continue
			}

			expected := rate.Mul(decimal.NewFromInt(line.Quantity))
			if expected.Sub(line.Amount).Abs().GreaterThan(valueobject.AmountTolerance) {
				violations = append(violations, Violation{
					Code:       ViolationAmountMismatch,
					CustomerID: customerID,
					ProductID:  &pid,
					Field:      "amount",
					Expected:   expected.String(),
					Actual:     line.Amount.String(),
					Message:    fmt.Sprintf("Amount does not match quantity times rate for customer %q", snap.Name),
				})
			}
		}
	}

	for customerID, entry := range s.Payments {
		snap, known := s.Snapshot(customerID)
		if !known {
			violations = append(violations, Violation{
				Code:       ViolationUnknownCustomer,
				CustomerID: customerID,
				Message:    "Payment recorded for a customer not on this sheet",
			})
			continue
		}

		negative := false
		for field, amount := range map[string]decimal.Decimal{
			"cash":  entry.Cash,
			"upi":   entry.UPI,
			"total": entry.Total,
		} {
			if amount.IsNegative() {
				negative = true
				violations = append(violations, Violation{
					Code:       ViolationNegativeAmount,
					CustomerID: customerID,
					Field:      field,
					Actual:     amount.String(),
					Message:    fmt.Sprintf("Negative %s payment for customer %q", field, snap.Name),
				})
			}
		}
		if negative {
			continue
		}

		sum := entry.ChannelSum()
		if sum.Sub(entry.Total).Abs().GreaterThan(valueobject.AmountTolerance) {
			violations = append(violations, Violation{
				Code:       ViolationPaymentTotalMismatch,
				CustomerID: customerID,
				Field:      "total",
				Expected:   sum.String(),
				Actual:     entry.Total.String(),
				Message:    fmt.Sprintf("Payment total does not match cash plus UPI for customer %q", snap.Name),
			})
		}
	}

	return violations
}
