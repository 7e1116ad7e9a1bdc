package partner

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomer(t *testing.T) *Customer {
	t.Helper()
	c, err := NewCustomer("Sharma General Store", uuid.New())
	require.NoError(t, err)
	return c
}

func TestNewSaleTransaction(t *testing.T) {
	customer := testCustomer(t)
	sheetID := uuid.New()
	items := []TransactionItem{
		{ProductID: uuid.New(), ProductName: "Milk 500ml", Quantity: 10, UnitPrice: decimal.NewFromInt(25), LineTotal: decimal.NewFromInt(250)},
	}

	tx, err := NewSaleTransaction("TXN-20260901-0001", customer, sheetID, time.Now(), items,
		decimal.NewFromInt(250), decimal.NewFromInt(200))
	require.NoError(t, err)

	assert.Equal(t, TransactionTypeSale, tx.Type)
	assert.Equal(t, customer.ID, tx.CustomerID)
	require.NotNil(t, tx.SheetID)
	assert.Equal(t, sheetID, *tx.SheetID)
	assert.True(t, tx.BalanceChange.Equal(decimal.NewFromInt(50)), "balance change should be total minus received")
}

func TestNewSaleTransaction_Overpayment(t *testing.T) {
	customer := testCustomer(t)
	items := []TransactionItem{
		{ProductID: uuid.New(), ProductName: "Curd 200g", Quantity: 4, UnitPrice: decimal.NewFromInt(30), LineTotal: decimal.NewFromInt(120)},
	}

	tx, err := NewSaleTransaction("TXN-20260901-0002", customer, uuid.New(), time.Now(), items,
		decimal.NewFromInt(120), decimal.NewFromInt(150))
	require.NoError(t, err)

	assert.True(t, tx.BalanceChange.Equal(decimal.NewFromInt(-30)), "overpayment should produce a negative balance change")
}

func TestNewSaleTransaction_Validation(t *testing.T) {
	customer := testCustomer(t)
	items := []TransactionItem{{ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(10), LineTotal: decimal.NewFromInt(10)}}

	tests := []struct {
		name string
		run  func() error
	}{
		{"empty reference", func() error {
			_, err := NewSaleTransaction("", customer, uuid.New(), time.Now(), items, decimal.NewFromInt(10), decimal.Zero)
			return err
		}},
		{"no items", func() error {
			_, err := NewSaleTransaction("TXN-20260901-0003", customer, uuid.New(), time.Now(), nil, decimal.NewFromInt(10), decimal.Zero)
			return err
		}},
		{"negative total", func() error {
			_, err := NewSaleTransaction("TXN-20260901-0004", customer, uuid.New(), time.Now(), items, decimal.NewFromInt(-10), decimal.Zero)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.run())
		})
	}
}

func TestNewPaymentTransaction(t *testing.T) {
	customer := testCustomer(t)
	customer.ApplyBalanceChange(decimal.NewFromInt(500))

	tx, err := NewPaymentTransaction("TXN-20260901-0005", customer, time.Now(), decimal.NewFromInt(300), "cash at shop")
	require.NoError(t, err)

	assert.Equal(t, TransactionTypePayment, tx.Type)
	assert.True(t, tx.BalanceChange.Equal(decimal.NewFromInt(-300)))

	balance := customer.ApplyBalanceChange(tx.BalanceChange)
	tx.RecordBalanceAfter(balance)
	assert.True(t, tx.BalanceAfter.Equal(decimal.NewFromInt(200)))
}

func TestNewPaymentTransaction_RejectsNonPositive(t *testing.T) {
	customer := testCustomer(t)

	_, err := NewPaymentTransaction("TXN-20260901-0006", customer, time.Now(), decimal.Zero, "")
	assert.Error(t, err)

	_, err = NewPaymentTransaction("TXN-20260901-0007", customer, time.Now(), decimal.NewFromInt(-5), "")
	assert.Error(t, err)
}

func TestCustomer_BalanceLifecycle(t *testing.T) {
	customer := testCustomer(t)
	assert.True(t, customer.OutstandingAmount.IsZero())

	customer.ApplyBalanceChange(decimal.NewFromInt(250))
	customer.ApplyBalanceChange(decimal.NewFromInt(-300))
	assert.True(t, customer.OutstandingAmount.Equal(decimal.NewFromInt(-50)), "customer may carry credit")
}

func TestCustomer_PriceOverrides(t *testing.T) {
	customer := testCustomer(t)
	productID := uuid.New()

	_, ok := customer.PriceFor(productID)
	assert.False(t, ok)

	require.NoError(t, customer.SetPriceOverride(productID, decimal.NewFromInt(22)))
	price, ok := customer.PriceFor(productID)
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(22)))

	assert.Error(t, customer.SetPriceOverride(productID, decimal.NewFromInt(-1)))

	customer.RemovePriceOverride(productID)
	_, ok = customer.PriceFor(productID)
	assert.False(t, ok)
}
