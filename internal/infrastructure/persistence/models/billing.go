package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber  string                `gorm:"type:varchar(30);not null;uniqueIndex"`
	SheetID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerName   string                `gorm:"type:varchar(200);not null"`
	Date           time.Time             `gorm:"not null;index"`
	Items          billing.InvoiceItems  `gorm:"type:jsonb;not null;default:'[]'"`
	Subtotal       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Total          decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceChange  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Status         billing.InvoiceStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	return &billing.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		SheetID:           m.SheetID,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		Date:              m.Date,
		Items:             m.Items,
		Subtotal:          m.Subtotal,
		Total:             m.Total,
		AmountReceived:    m.AmountReceived,
		BalanceChange:     m.BalanceChange,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *billing.Invoice) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.InvoiceNumber = i.InvoiceNumber
	m.SheetID = i.SheetID
	m.CustomerID = i.CustomerID
	m.CustomerName = i.CustomerName
	m.Date = i.Date
	m.Items = i.Items
	m.Subtotal = i.Subtotal
	m.Total = i.Total
	m.AmountReceived = i.AmountReceived
	m.BalanceChange = i.BalanceChange
	m.Status = i.Status
}
