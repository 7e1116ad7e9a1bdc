package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockTransactionRepository(t *testing.T) (*GormLedgerTransactionRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormLedgerTransactionRepository(gormDB), mock, mockDB
}

func TestGormLedgerTransactionRepository_Create_ReferenceCollision(t *testing.T) {
	repo, mock, mockDB := newMockTransactionRepository(t)
	defer mockDB.Close()

	customer, err := partner.NewCustomer("Sharma General Store", uuid.New())
	require.NoError(t, err)

	tx, err := partner.NewPaymentTransaction("TXN-20260901-0007", customer, time.Now(),
		decimal.NewFromInt(100), "paid at shop")
	require.NoError(t, err)

	// The items column carries a default clause, so GORM issues the insert
	// as a query with a RETURNING list.
	mock.ExpectQuery(`INSERT INTO "ledger_transactions"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "idx_ledger_transactions_reference"})

	err = repo.Create(context.Background(), tx)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict,
		"a reference collision must surface as a retryable conflict")
}
