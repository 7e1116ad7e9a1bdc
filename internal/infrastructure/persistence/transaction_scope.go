package persistence

import (
	"context"

	apppartner "github.com/routeledger/backend/internal/application/partner"
	appsheet "github.com/routeledger/backend/internal/application/sheet"
	"gorm.io/gorm"
)

// GormSheetTransactionScope implements the sheet settlement TransactionScope
// using GORM transactions. All repositories handed to the function share one
// database transaction, so a sheet close commits or rolls back as a unit.
type GormSheetTransactionScope struct {
	db *gorm.DB
}

// NewGormSheetTransactionScope creates a new GormSheetTransactionScope
func NewGormSheetTransactionScope(db *gorm.DB) *GormSheetTransactionScope {
	return &GormSheetTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormSheetTransactionScope) Execute(ctx context.Context, fn func(repos appsheet.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(appsheet.Repos{
			Sheets:       NewGormDeliverySheetRepository(tx),
			Customers:    NewGormCustomerRepository(tx),
			Invoices:     NewGormInvoiceRepository(tx),
			Transactions: NewGormLedgerTransactionRepository(tx),
		})
	})
}

// GormPartnerTransactionScope implements the payment TransactionScope using
// GORM transactions.
type GormPartnerTransactionScope struct {
	db *gorm.DB
}

// NewGormPartnerTransactionScope creates a new GormPartnerTransactionScope
func NewGormPartnerTransactionScope(db *gorm.DB) *GormPartnerTransactionScope {
	return &GormPartnerTransactionScope{db: db}
}

// Execute runs the given function within a database transaction
func (s *GormPartnerTransactionScope) Execute(ctx context.Context, fn func(repos apppartner.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(apppartner.Repos{
			Customers:    NewGormCustomerRepository(tx),
			Transactions: NewGormLedgerTransactionRepository(tx),
		})
	})
}

// Ensure the scopes satisfy their application interfaces
var (
	_ appsheet.TransactionScope   = (*GormSheetTransactionScope)(nil)
	_ apppartner.TransactionScope = (*GormPartnerTransactionScope)(nil)
)
