package partner

import (
	"github.com/routeledger/backend/internal/domain/shared"
)

// Route represents a delivery route customers are assigned to
type Route struct {
	shared.BaseAggregateRoot
	Name   string
	Active bool
}

// NewRoute creates a new route
func NewRoute(name string) (*Route, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROUTE_NAME", "Route name cannot be empty")
	}
	return &Route{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Active:            true,
	}, nil
}
