package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRouteRepository implements RouteRepository using GORM
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByID finds a route by its ID
func (r *GormRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Route, error) {
	var model models.RouteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all routes ordered by name
func (r *GormRouteRepository) FindAll(ctx context.Context) ([]*partner.Route, error) {
	var found []models.RouteModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&found).Error; err != nil {
		return nil, err
	}

	routes := make([]*partner.Route, len(found))
	for i := range found {
		routes[i] = found[i].ToDomain()
	}
	return routes, nil
}
