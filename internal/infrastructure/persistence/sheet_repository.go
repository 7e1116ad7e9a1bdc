package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/routeledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

// GormDeliverySheetRepository implements DeliverySheetRepository using GORM
type GormDeliverySheetRepository struct {
	db *gorm.DB
}

// NewGormDeliverySheetRepository creates a new GormDeliverySheetRepository
func NewGormDeliverySheetRepository(db *gorm.DB) *GormDeliverySheetRepository {
	return &GormDeliverySheetRepository{db: db}
}

// Create inserts a new sheet. The partial unique index on active sheets per
// route turns a concurrent duplicate create into a DuplicateActiveSheetError.
func (r *GormDeliverySheetRepository) Create(ctx context.Context, s *sheet.DeliverySheet) error {
	model := models.DeliverySheetModelFromDomain(s)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			dup := &sheet.DuplicateActiveSheetError{RouteID: s.RouteID, RouteName: s.RouteName}
			if existing, findErr := r.FindActiveByRoute(ctx, s.RouteID); findErr == nil {
				dup.ExistingSheetID = existing.ID
			}
			return dup
		}
		return err
	}
	return nil
}

// Save updates an existing sheet
func (r *GormDeliverySheetRepository) Save(ctx context.Context, s *sheet.DeliverySheet) error {
	model := models.DeliverySheetModelFromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a sheet by its ID
func (r *GormDeliverySheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*sheet.DeliverySheet, error) {
	var model models.DeliverySheetModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByRoute finds the active sheet for a route, if any
func (r *GormDeliverySheetRepository) FindActiveByRoute(ctx context.Context, routeID uuid.UUID) (*sheet.DeliverySheet, error) {
	var model models.DeliverySheetModel
	if err := r.db.WithContext(ctx).
		Where("route_id = ? AND status = ?", routeID, sheet.SheetStatusActive).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds sheets matching the filter, newest first
func (r *GormDeliverySheetRepository) FindAll(ctx context.Context, filter sheet.SheetFilter) ([]*sheet.DeliverySheet, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliverySheetModel{})

	if filter.RouteID != nil {
		query = query.Where("route_id = ?", *filter.RouteID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var found []models.DeliverySheetModel
	if err := query.
		Order("date DESC, created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&found).Error; err != nil {
		return nil, 0, err
	}

	sheets := make([]*sheet.DeliverySheet, len(found))
	for i := range found {
		sheets[i] = found[i].ToDomain()
	}
	return sheets, total, nil
}

// MarkClosed flips an active sheet to closed with a guarded update. The
// status predicate makes the second of two concurrent closes see zero
// affected rows instead of settling the sheet again.
func (r *GormDeliverySheetRepository) MarkClosed(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.DeliverySheetModel{}).
		Where("id = ? AND status = ?", id, sheet.SheetStatusActive).
		Update("status", sheet.SheetStatusClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sheet.ErrAlreadyClosed
	}
	return nil
}

// Delete removes a sheet by ID
func (r *GormDeliverySheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.DeliverySheetModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
