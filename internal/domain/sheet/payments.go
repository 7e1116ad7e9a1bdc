package sheet

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentChannel identifies how money was collected at the doorstep
type PaymentChannel string

const (
	ChannelCash PaymentChannel = "cash"
	ChannelUPI  PaymentChannel = "upi"
)

// IsValid checks if the payment channel is valid
func (c PaymentChannel) IsValid() bool {
	return c == ChannelCash || c == ChannelUPI
}

// PaymentEntry is the per-customer collection record on a sheet, split by
// channel. Total is stored rather than derived so that imported rows whose
// split was never recorded keep their collected amount.
type PaymentEntry struct {
	Cash  decimal.Decimal `json:"cash"`
	UPI   decimal.Decimal `json:"upi"`
	Total decimal.Decimal `json:"total"`
}

// UnmarshalJSON accepts both the structured form and the legacy bare-number
// form in which a plain amount was stored per customer. Bare numbers are
// normalized to an all-cash entry.
func (p *PaymentEntry) UnmarshalJSON(data []byte) error {
	var bare decimal.Decimal
	if err := json.Unmarshal(data, &bare); err == nil {
		p.Cash = bare
		p.UPI = decimal.Zero
		p.Total = bare
		return nil
	}

	type entry PaymentEntry
	var v entry
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid payment entry: %w", err)
	}
	*p = PaymentEntry(v)
	return nil
}

// IsZero returns true if nothing was collected
func (p PaymentEntry) IsZero() bool {
	return p.Cash.IsZero() && p.UPI.IsZero() && p.Total.IsZero()
}

// ChannelSum returns cash plus UPI
func (p PaymentEntry) ChannelSum() decimal.Decimal {
	return p.Cash.Add(p.UPI)
}

// PaymentData maps customer IDs to their payment entries.
// Stored as a JSONB column on the sheet.
type PaymentData map[uuid.UUID]PaymentEntry

// Value implements driver.Valuer for JSONB storage
func (d PaymentData) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner for JSONB retrieval
func (d *PaymentData) Scan(value any) error {
	if value == nil {
		*d = make(PaymentData)
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentData", value)
	}
	return json.Unmarshal(data, d)
}
