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

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDs finds customers by their IDs
func (r *GormCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*partner.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []models.CustomerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	customers := make([]*partner.Customer, len(found))
	for i := range found {
		customers[i] = found[i].ToDomain()
	}
	return customers, nil
}

// FindByRoute finds active customers assigned to a route, ordered by name
func (r *GormCustomerRepository) FindByRoute(ctx context.Context, routeID uuid.UUID) ([]*partner.Customer, error) {
	var found []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("route_id = ? AND active = ?", routeID, true).
		Order("name ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}

	customers := make([]*partner.Customer, len(found))
	for i := range found {
		customers[i] = found[i].ToDomain()
	}
	return customers, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	return r.db.WithContext(ctx).Save(model).Error
}
