package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/shopspring/decimal"
)

// DeliverySheetModel is the persistence model for the DeliverySheet
// aggregate root. A partial unique index on (route_id) where status is
// 'active' backs the one-active-sheet-per-route rule.
type DeliverySheetModel struct {
	AggregateModel
	Date             time.Time               `gorm:"not null;index"`
	RouteID          uuid.UUID               `gorm:"type:uuid;not null;index"`
	RouteName        string                  `gorm:"type:varchar(100);not null"`
	Customers        sheet.CustomerSnapshots `gorm:"type:jsonb;not null;default:'[]'"`
	RouteOutstanding decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Deliveries       sheet.DeliveryData      `gorm:"type:jsonb;not null;default:'{}'"`
	Payments         sheet.PaymentData       `gorm:"type:jsonb;not null;default:'{}'"`
	Notes            string                  `gorm:"type:text"`
	Status           sheet.SheetStatus       `gorm:"type:varchar(20);not null;index"`
	ClosedAt         *time.Time
}

// TableName returns the table name for GORM
func (DeliverySheetModel) TableName() string {
	return "delivery_sheets"
}

// ToDomain converts the persistence model to a domain DeliverySheet entity.
func (m *DeliverySheetModel) ToDomain() *sheet.DeliverySheet {
	return &sheet.DeliverySheet{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Date:              m.Date,
		RouteID:           m.RouteID,
		RouteName:         m.RouteName,
		Customers:         m.Customers,
		RouteOutstanding:  m.RouteOutstanding,
		Deliveries:        m.Deliveries,
		Payments:          m.Payments,
		Notes:             m.Notes,
		Status:            m.Status,
		ClosedAt:          m.ClosedAt,
	}
}

// FromDomain populates the persistence model from a domain DeliverySheet entity.
func (m *DeliverySheetModel) FromDomain(s *sheet.DeliverySheet) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Date = s.Date
	m.RouteID = s.RouteID
	m.RouteName = s.RouteName
	m.Customers = s.Customers
	m.RouteOutstanding = s.RouteOutstanding
	m.Deliveries = s.Deliveries
	m.Payments = s.Payments
	m.Notes = s.Notes
	m.Status = s.Status
	m.ClosedAt = s.ClosedAt
}

// DeliverySheetModelFromDomain creates a new persistence model from a domain DeliverySheet entity.
func DeliverySheetModelFromDomain(s *sheet.DeliverySheet) *DeliverySheetModel {
	m := &DeliverySheetModel{}
	m.FromDomain(s)
	return m
}
