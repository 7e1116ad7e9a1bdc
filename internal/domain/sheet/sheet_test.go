package sheet

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T, name string, defaultPrice int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("P-"+name, name, "unit", decimal.NewFromInt(defaultPrice))
	require.NoError(t, err)
	return p
}

func newTestCustomer(t *testing.T, routeID uuid.UUID, name string, outstanding int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, routeID)
	require.NoError(t, err)
	c.OutstandingAmount = decimal.NewFromInt(outstanding)
	return c
}

func newTestSheet(t *testing.T, customers ...*partner.Customer) *DeliverySheet {
	t.Helper()
	routeID := uuid.New()
	if len(customers) > 0 {
		routeID = customers[0].RouteID
	}
	s, err := NewDeliverySheet(routeID, "Sector 12", time.Now(), customers)
	require.NoError(t, err)
	return s
}

func TestNewDeliverySheet(t *testing.T) {
	routeID := uuid.New()
	c1 := newTestCustomer(t, routeID, "Sharma General Store", 150)
	c2 := newTestCustomer(t, routeID, "Gupta Tea Stall", -50)

	s, err := NewDeliverySheet(routeID, "Sector 12", time.Now(), []*partner.Customer{c1, c2})
	require.NoError(t, err)

	assert.Equal(t, SheetStatusActive, s.Status)
	assert.Len(t, s.Customers, 2)
	assert.True(t, s.RouteOutstanding.Equal(decimal.NewFromInt(100)), "route outstanding should sum snapshot balances")
	events := s.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, "sheet.created", events[0].EventType())
	assert.Equal(t, s.ID, events[0].AggregateID())

	snap, ok := s.Snapshot(c2.ID)
	require.True(t, ok)
	assert.True(t, snap.Outstanding.Equal(decimal.NewFromInt(-50)), "credit balances are snapshotted as-is")
}

func TestNewDeliverySheet_Validation(t *testing.T) {
	_, err := NewDeliverySheet(uuid.Nil, "Sector 12", time.Now(), nil)
	assert.Error(t, err)

	_, err = NewDeliverySheet(uuid.New(), "", time.Now(), nil)
	assert.Error(t, err)
}

func TestSheet_SnapshotIsolation(t *testing.T) {
	routeID := uuid.New()
	milk := newTestProduct(t, "Milk 500ml", 25)
	customer := newTestCustomer(t, routeID, "Sharma General Store", 0)
	require.NoError(t, customer.SetPriceOverride(milk.ID, decimal.NewFromInt(22)))

	s := newTestSheet(t, customer)

	// Changing the live customer after sheet creation must not leak into
	// the snapshot.
	require.NoError(t, customer.SetPriceOverride(milk.ID, decimal.NewFromInt(30)))
	customer.ApplyBalanceChange(decimal.NewFromInt(500))

	snap, _ := s.Snapshot(customer.ID)
	assert.True(t, snap.ProductPrices[milk.ID].Equal(decimal.NewFromInt(22)))
	assert.True(t, snap.Outstanding.IsZero())
}

func TestSheet_SetQuantity(t *testing.T) {
	routeID := uuid.New()
	milk := newTestProduct(t, "Milk 500ml", 25)
	customer := newTestCustomer(t, routeID, "Sharma General Store", 0)
	require.NoError(t, customer.SetPriceOverride(milk.ID, decimal.NewFromInt(22)))

	s := newTestSheet(t, customer)

	require.NoError(t, s.SetQuantity(customer.ID, milk, 10))
	line := s.Deliveries[customer.ID][milk.ID]
	assert.Equal(t, int64(10), line.Quantity)
	assert.True(t, line.Amount.Equal(decimal.NewFromInt(220)), "amount uses the override rate, not the default")

	// Setting zero removes the line.
	require.NoError(t, s.SetQuantity(customer.ID, milk, 0))
	assert.Empty(t, s.Deliveries)
}

func TestSheet_SetQuantity_DefaultRate(t *testing.T) {
	routeID := uuid.New()
	curd := newTestProduct(t, "Curd 200g", 30)
	customer := newTestCustomer(t, routeID, "Gupta Tea Stall", 0)

	s := newTestSheet(t, customer)

	require.NoError(t, s.SetQuantity(customer.ID, curd, 4))
	assert.True(t, s.Deliveries[customer.ID][curd.ID].Amount.Equal(decimal.NewFromInt(120)))
}

func TestSheet_SetQuantity_Errors(t *testing.T) {
	routeID := uuid.New()
	milk := newTestProduct(t, "Milk 500ml", 25)
	unpriced := newTestProduct(t, "Sample Pack", 0)
	customer := newTestCustomer(t, routeID, "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	assert.Error(t, s.SetQuantity(customer.ID, milk, -1))
	assert.ErrorIs(t, s.SetQuantity(uuid.New(), milk, 1), ErrUnknownCustomer)
	assert.Error(t, s.SetQuantity(customer.ID, unpriced, 1), "zero default with no override has no usable rate")

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.SetQuantity(customer.ID, milk, 1), ErrClosedSheetImmutable)
}

func TestSheet_SetReceived(t *testing.T) {
	customer := newTestCustomer(t, uuid.New(), "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	require.NoError(t, s.SetReceived(customer.ID, ChannelCash, decimal.NewFromInt(200)))
	require.NoError(t, s.SetReceived(customer.ID, ChannelUPI, decimal.NewFromInt(50)))

	entry := s.Received(customer.ID)
	assert.True(t, entry.Total.Equal(decimal.NewFromInt(250)), "total tracks cash plus UPI")

	// Zeroing both channels removes the entry.
	require.NoError(t, s.SetReceived(customer.ID, ChannelCash, decimal.Zero))
	require.NoError(t, s.SetReceived(customer.ID, ChannelUPI, decimal.Zero))
	assert.Empty(t, s.Payments)
}

func TestSheet_SetReceived_Errors(t *testing.T) {
	customer := newTestCustomer(t, uuid.New(), "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	assert.Error(t, s.SetReceived(customer.ID, "card", decimal.NewFromInt(10)))
	assert.Error(t, s.SetReceived(customer.ID, ChannelCash, decimal.NewFromInt(-10)))
	assert.ErrorIs(t, s.SetReceived(uuid.New(), ChannelCash, decimal.NewFromInt(10)), ErrUnknownCustomer)
}

func TestSheet_CloseLifecycle(t *testing.T) {
	customer := newTestCustomer(t, uuid.New(), "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	require.NoError(t, s.Close())
	assert.Equal(t, SheetStatusClosed, s.Status)
	require.NotNil(t, s.ClosedAt)

	assert.ErrorIs(t, s.Close(), ErrAlreadyClosed)
	assert.ErrorIs(t, s.EnsureDeletable(), ErrClosedSheetImmutable)

	notes := "late entry"
	assert.ErrorIs(t, s.ApplyUpdate(nil, nil, &notes), ErrClosedSheetImmutable)
}

func TestSheet_DeleteActiveAllowed(t *testing.T) {
	customer := newTestCustomer(t, uuid.New(), "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	assert.NoError(t, s.EnsureDeletable())
}

func TestSheetStatus_Transitions(t *testing.T) {
	assert.True(t, SheetStatusActive.CanTransitionTo(SheetStatusClosed))
	assert.False(t, SheetStatusClosed.CanTransitionTo(SheetStatusActive))
	assert.False(t, SheetStatusClosed.CanTransitionTo(SheetStatusClosed))
	assert.True(t, SheetStatusActive.IsValid())
	assert.False(t, SheetStatus("draft").IsValid())
}

func TestSheet_IsEmpty(t *testing.T) {
	milk := newTestProduct(t, "Milk 500ml", 25)
	customer := newTestCustomer(t, uuid.New(), "Sharma General Store", 0)
	s := newTestSheet(t, customer)

	assert.True(t, s.IsEmpty())

	require.NoError(t, s.SetQuantity(customer.ID, milk, 2))
	assert.False(t, s.IsEmpty())

	require.NoError(t, s.SetQuantity(customer.ID, milk, 0))
	require.NoError(t, s.SetReceived(customer.ID, ChannelCash, decimal.NewFromInt(100)))
	assert.False(t, s.IsEmpty(), "a payment without deliveries still counts as activity")
}

func TestSheet_Summarize(t *testing.T) {
	routeID := uuid.New()
	milk := newTestProduct(t, "Milk 500ml", 25)
	curd := newTestProduct(t, "Curd 200g", 30)
	c1 := newTestCustomer(t, routeID, "Sharma General Store", 150)
	c2 := newTestCustomer(t, routeID, "Gupta Tea Stall", 50)

	s := newTestSheet(t, c1, c2)
	require.NoError(t, s.SetQuantity(c1.ID, milk, 10))  // 250
	require.NoError(t, s.SetQuantity(c2.ID, curd, 4))   // 120
	require.NoError(t, s.SetReceived(c1.ID, ChannelCash, decimal.NewFromInt(200)))
	require.NoError(t, s.SetReceived(c2.ID, ChannelUPI, decimal.NewFromInt(120)))

	summary := s.Summarize(map[uuid.UUID]decimal.Decimal{
		c1.ID: decimal.NewFromInt(200),
		c2.ID: decimal.NewFromInt(50),
	})

	assert.True(t, summary.TotalSale.Equal(decimal.NewFromInt(370)))
	assert.True(t, summary.TotalCash.Equal(decimal.NewFromInt(200)))
	assert.True(t, summary.TotalUPI.Equal(decimal.NewFromInt(120)))
	assert.True(t, summary.TotalCollected.Equal(decimal.NewFromInt(320)))
	assert.True(t, summary.AmountPending.Equal(decimal.NewFromInt(50)))
	assert.True(t, summary.PreviousOutstanding.Equal(decimal.NewFromInt(200)))
	assert.True(t, summary.CurrentOutstanding.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, 2, summary.CustomersServed)
}

func TestSheet_SummarizeWithoutLiveBalances(t *testing.T) {
	c := newTestCustomer(t, uuid.New(), "Sharma General Store", 150)
	s := newTestSheet(t, c)

	summary := s.Summarize(nil)
	assert.True(t, summary.CurrentOutstanding.Equal(decimal.NewFromInt(150)), "falls back to snapshot balances")
}
