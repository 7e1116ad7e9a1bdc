package partner

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Repos bundles the repositories a payment touches
type Repos struct {
	Customers    partner.CustomerRepository
	Transactions partner.LedgerTransactionRepository
}

// TransactionScope executes a function within a single atomic unit of work
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repos) error) error
}

// NoOpTransactionScope runs the function without a transaction. Used in tests.
type NoOpTransactionScope struct {
	Repos Repos
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repos) error) error {
	return fn(s.Repos)
}

// RecordPaymentRequest records a payment made outside a delivery round,
// such as a customer settling dues at the shop
type RecordPaymentRequest struct {
	CustomerID uuid.UUID
	Amount     decimal.Decimal
	Date       time.Time
	Notes      string
}

// RecordAdjustmentRequest corrects a customer balance by a signed delta
type RecordAdjustmentRequest struct {
	CustomerID uuid.UUID
	Delta      decimal.Decimal
	Date       time.Time
	Notes      string
}

// PaymentService records customer payments and balance adjustments that
// happen outside the delivery sheet flow. Every balance movement leaves a
// ledger transaction behind.
type PaymentService struct {
	scope        TransactionScope
	transactions partner.LedgerTransactionRepository
	logger       *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(scope TransactionScope, transactions partner.LedgerTransactionRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{scope: scope, transactions: transactions, logger: logger}
}

// RecordPayment applies a standalone payment to a customer's outstanding
// balance. The payment transaction and the balance update land atomically.
func (s *PaymentService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*partner.LedgerTransaction, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var created *partner.LedgerTransaction
	err := s.scope.Execute(ctx, func(repos Repos) error {
		customer, err := repos.Customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		reference, err := repos.Transactions.NextReferenceNumber(ctx, date)
		if err != nil {
			return err
		}
		tx, err := partner.NewPaymentTransaction(reference, customer, date, req.Amount, req.Notes)
		if err != nil {
			return err
		}

		balance := customer.ApplyBalanceChange(tx.BalanceChange)
		tx.RecordBalanceAfter(balance)

		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("reference", created.ReferenceNumber),
		zap.String("customer", created.CustomerName),
		zap.String("amount", req.Amount.String()))
	return created, nil
}

// RecordAdjustment applies a manual balance correction
func (s *PaymentService) RecordAdjustment(ctx context.Context, req RecordAdjustmentRequest) (*partner.LedgerTransaction, error) {
	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	var created *partner.LedgerTransaction
	err := s.scope.Execute(ctx, func(repos Repos) error {
		customer, err := repos.Customers.FindByID(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		reference, err := repos.Transactions.NextReferenceNumber(ctx, date)
		if err != nil {
			return err
		}
		tx, err := partner.NewAdjustmentTransaction(reference, customer, date, req.Delta, req.Notes)
		if err != nil {
			return err
		}

		balance := customer.ApplyBalanceChange(tx.BalanceChange)
		tx.RecordBalanceAfter(balance)

		if err := repos.Transactions.Create(ctx, tx); err != nil {
			return err
		}
		if err := repos.Customers.Save(ctx, customer); err != nil {
			return err
		}
		created = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("balance adjustment recorded",
		zap.String("reference", created.ReferenceNumber),
		zap.String("customer", created.CustomerName),
		zap.String("delta", req.Delta.String()))
	return created, nil
}

// ListTransactionsRequest narrows transaction listings
type ListTransactionsRequest struct {
	CustomerID *uuid.UUID
	SheetID    *uuid.UUID
	Type       *partner.TransactionType
	DateFrom   *time.Time
	DateTo     *time.Time
	Page       int
	PageSize   int
}

// ListTransactions returns ledger transactions matching the filter
func (s *PaymentService) ListTransactions(ctx context.Context, req ListTransactionsRequest) ([]*partner.LedgerTransaction, int64, error) {
	filter := partner.TransactionFilter{
		CustomerID: req.CustomerID,
		SheetID:    req.SheetID,
		Type:       req.Type,
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
	}
	filter.Filter = sharedFilter(req.Page, req.PageSize)
	return s.transactions.FindAll(ctx, filter)
}

func sharedFilter(page, pageSize int) shared.Filter {
	f := shared.NewFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return f
}
