package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// RouteModel is the persistence model for the Route aggregate root.
type RouteModel struct {
	AggregateModel
	Name   string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RouteModel) TableName() string {
	return "routes"
}

// ToDomain converts the persistence model to a domain Route entity.
func (m *RouteModel) ToDomain() *partner.Route {
	return &partner.Route{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Route entity.
func (m *RouteModel) FromDomain(r *partner.Route) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.Active = r.Active
}

// CustomerModel is the persistence model for the Customer aggregate root.
type CustomerModel struct {
	AggregateModel
	Name              string                 `gorm:"type:varchar(200);not null"`
	Phone             string                 `gorm:"type:varchar(20)"`
	Address           string                 `gorm:"type:varchar(500)"`
	RouteID           uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductPrices     partner.PriceOverrides `gorm:"type:jsonb;not null;default:'{}'"`
	OutstandingAmount decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Active            bool                   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		RouteID:           m.RouteID,
		ProductPrices:     m.ProductPrices,
		OutstandingAmount: m.OutstandingAmount,
		Active:            m.Active,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Address = c.Address
	m.RouteID = c.RouteID
	m.ProductPrices = c.ProductPrices
	m.OutstandingAmount = c.OutstandingAmount
	m.Active = c.Active
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// LedgerTransactionModel is the persistence model for the LedgerTransaction
// aggregate root. Rows are append-only.
type LedgerTransactionModel struct {
	AggregateModel
	ReferenceNumber string                   `gorm:"type:varchar(30);not null;uniqueIndex"`
	Type            partner.TransactionType  `gorm:"type:varchar(20);not null;index"`
	CustomerID      uuid.UUID                `gorm:"type:uuid;not null;index"`
	CustomerName    string                   `gorm:"type:varchar(200);not null"`
	SheetID         *uuid.UUID               `gorm:"type:uuid;index"`
	Date            time.Time                `gorm:"not null;index"`
	Items           partner.TransactionItems `gorm:"type:jsonb;not null;default:'[]'"`
	TotalAmount     decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	AmountReceived  decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceChange   decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	BalanceAfter    decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	Notes           string                   `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LedgerTransactionModel) TableName() string {
	return "ledger_transactions"
}

// ToDomain converts the persistence model to a domain LedgerTransaction entity.
func (m *LedgerTransactionModel) ToDomain() *partner.LedgerTransaction {
	return &partner.LedgerTransaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ReferenceNumber:   m.ReferenceNumber,
		Type:              m.Type,
		CustomerID:        m.CustomerID,
		CustomerName:      m.CustomerName,
		SheetID:           m.SheetID,
		Date:              m.Date,
		Items:             m.Items,
		TotalAmount:       m.TotalAmount,
		AmountReceived:    m.AmountReceived,
		BalanceChange:     m.BalanceChange,
		BalanceAfter:      m.BalanceAfter,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain LedgerTransaction entity.
func (m *LedgerTransactionModel) FromDomain(t *partner.LedgerTransaction) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.ReferenceNumber = t.ReferenceNumber
	m.Type = t.Type
	m.CustomerID = t.CustomerID
	m.CustomerName = t.CustomerName
	m.SheetID = t.SheetID
	m.Date = t.Date
	m.Items = t.Items
	m.TotalAmount = t.TotalAmount
	m.AmountReceived = t.AmountReceived
	m.BalanceChange = t.BalanceChange
	m.BalanceAfter = t.BalanceAfter
	m.Notes = t.Notes
}
