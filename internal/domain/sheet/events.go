package sheet

import (
	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/shared"
)

// DeliverySheetCreatedEvent is raised when a new sheet is opened on a route
type DeliverySheetCreatedEvent struct {
	shared.BaseDomainEvent
	RouteID   uuid.UUID `json:"routeId"`
	RouteName string    `json:"routeName"`
	Customers int       `json:"customers"`
}

// NewDeliverySheetCreatedEvent creates a sheet-created event
func NewDeliverySheetCreatedEvent(s *DeliverySheet) *DeliverySheetCreatedEvent {
	return &DeliverySheetCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sheet.created", s.ID),
		RouteID:         s.RouteID,
		RouteName:       s.RouteName,
		Customers:       len(s.Customers),
	}
}

// DeliverySheetClosedEvent is raised when a sheet is settled and frozen
type DeliverySheetClosedEvent struct {
	shared.BaseDomainEvent
	RouteID   uuid.UUID `json:"routeId"`
	RouteName string    `json:"routeName"`
}

// NewDeliverySheetClosedEvent creates a sheet-closed event
func NewDeliverySheetClosedEvent(s *DeliverySheet) *DeliverySheetClosedEvent {
	return &DeliverySheetClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("sheet.closed", s.ID),
		RouteID:         s.RouteID,
		RouteName:       s.RouteName,
	}
}
