package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/routeledger/backend/internal/domain/billing"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts a new invoice. An invoice number collision (concurrent
// settlements computed the same same-day sequence) surfaces as a retryable
// conflict rather than a raw store error.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	model := &models.InvoiceModel{}
	model.FromDomain(invoice)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySheet finds all invoices produced by a sheet settlement
func (r *GormInvoiceRepository) FindBySheet(ctx context.Context, sheetID uuid.UUID) ([]*billing.Invoice, error) {
	var found []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("sheet_id = ?", sheetID).
		Order("customer_name ASC").
		Find(&found).Error; err != nil {
		return nil, err
	}

	invoices := make([]*billing.Invoice, len(found))
	for i := range found {
		invoices[i] = found[i].ToDomain()
	}
	return invoices, nil
}

// FindAll finds invoices matching the filter, newest first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SheetID != nil {
		query = query.Where("sheet_id = ?", *filter.SheetID)
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

	var found []models.InvoiceModel
	if err := query.
		Order("date DESC, invoice_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&found).Error; err != nil {
		return nil, 0, err
	}

	invoices := make([]*billing.Invoice, len(found))
	for i := range found {
		invoices[i] = found[i].ToDomain()
	}
	return invoices, total, nil
}

// NextInvoiceNumber produces the next sequential number for the given date,
// in the form INV-YYYYMMDD-NNNN. Intended to run inside the settlement
// transaction so concurrent closes cannot collide.
func (r *GormInvoiceRepository) NextInvoiceNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", date.Format("20060102"))

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
