package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerTransactionRepository implements LedgerTransactionRepository
// using GORM. The ledger is append-only; there is no update or delete.
type GormLedgerTransactionRepository struct {
	db *gorm.DB
}

// NewGormLedgerTransactionRepository creates a new GormLedgerTransactionRepository
func NewGormLedgerTransactionRepository(db *gorm.DB) *GormLedgerTransactionRepository {
	return &GormLedgerTransactionRepository{db: db}
}

// Create inserts a new ledger transaction. A reference number collision
// (concurrent settlements computed the same same-day sequence) surfaces as a
// retryable conflict rather than a raw store error.
func (r *GormLedgerTransactionRepository) Create(ctx context.Context, tx *partner.LedgerTransaction) error {
	model := &models.LedgerTransactionModel{}
	model.FromDomain(tx)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	return nil
}

// FindByID finds a transaction by its ID
func (r *GormLedgerTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.LedgerTransaction, error) {
	var model models.LedgerTransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds transactions matching the filter, newest first
func (r *GormLedgerTransactionRepository) FindAll(ctx context.Context, filter partner.TransactionFilter) ([]*partner.LedgerTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerTransactionModel{})

	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.SheetID != nil {
		query = query.Where("sheet_id = ?", *filter.SheetID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
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

	var found []models.LedgerTransactionModel
	if err := query.
		Order("date DESC, reference_number DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&found).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*partner.LedgerTransaction, len(found))
	for i := range found {
		transactions[i] = found[i].ToDomain()
	}
	return transactions, total, nil
}

// NextReferenceNumber produces the next sequential reference for the given
// date, in the form TXN-YYYYMMDD-NNNN. Intended to run inside the caller's
// transaction so concurrent writers cannot collide.
func (r *GormLedgerTransactionRepository) NextReferenceNumber(ctx context.Context, date time.Time) (string, error) {
	prefix := fmt.Sprintf("TXN-%s-", date.Format("20060102"))

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.LedgerTransactionModel{}).
		Where("reference_number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%04d", prefix, count+1), nil
}
