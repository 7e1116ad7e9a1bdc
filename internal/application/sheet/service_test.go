package sheet

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/billing"
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSheetRepository is a mock implementation of sheet.DeliverySheetRepository
type MockSheetRepository struct {
	mock.Mock
}

func (m *MockSheetRepository) Create(ctx context.Context, s *sheet.DeliverySheet) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSheetRepository) Save(ctx context.Context, s *sheet.DeliverySheet) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*sheet.DeliverySheet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sheet.DeliverySheet), args.Error(1)
}

func (m *MockSheetRepository) FindActiveByRoute(ctx context.Context, routeID uuid.UUID) (*sheet.DeliverySheet, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sheet.DeliverySheet), args.Error(1)
}

func (m *MockSheetRepository) FindAll(ctx context.Context, filter sheet.SheetFilter) ([]*sheet.DeliverySheet, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*sheet.DeliverySheet), args.Get(1).(int64), args.Error(2)
}

func (m *MockSheetRepository) MarkClosed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*partner.Customer, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByRoute(ctx context.Context, routeID uuid.UUID) ([]*partner.Customer, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockRouteRepository is a mock implementation of partner.RouteRepository
type MockRouteRepository struct {
	mock.Mock
}

func (m *MockRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Route), args.Error(1)
}

func (m *MockRouteRepository) FindAll(ctx context.Context) ([]*partner.Route, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Route), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]catalog.Product), args.Error(1)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindBySheet(ctx context.Context, sheetID uuid.UUID) ([]*billing.Invoice, error) {
	args := m.Called(ctx, sheetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]*billing.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) NextInvoiceNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

// MockTransactionRepository is a mock implementation of partner.LedgerTransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx *partner.LedgerTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.LedgerTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.LedgerTransaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter partner.TransactionFilter) ([]*partner.LedgerTransaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*partner.LedgerTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) NextReferenceNumber(ctx context.Context, date time.Time) (string, error) {
	args := m.Called(ctx, date)
	return args.String(0), args.Error(1)
}

type serviceFixture struct {
	sheets       *MockSheetRepository
	customers    *MockCustomerRepository
	routes       *MockRouteRepository
	products     *MockProductRepository
	invoices     *MockInvoiceRepository
	transactions *MockTransactionRepository
	service      *Service
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		sheets:       new(MockSheetRepository),
		customers:    new(MockCustomerRepository),
		routes:       new(MockRouteRepository),
		products:     new(MockProductRepository),
		invoices:     new(MockInvoiceRepository),
		transactions: new(MockTransactionRepository),
	}
	scope := &NoOpTransactionScope{Repos: Repos{
		Sheets:       f.sheets,
		Customers:    f.customers,
		Invoices:     f.invoices,
		Transactions: f.transactions,
	}}
	f.service = NewService(f.sheets, f.customers, f.routes, f.products, scope, zap.NewNop())
	return f
}

func mustRoute(t *testing.T, name string) *partner.Route {
	t.Helper()
	route, err := partner.NewRoute(name)
	require.NoError(t, err)
	return route
}

func mustCustomer(t *testing.T, routeID uuid.UUID, name string, outstanding int64) *partner.Customer {
	t.Helper()
	c, err := partner.NewCustomer(name, routeID)
	require.NoError(t, err)
	c.OutstandingAmount = decimal.NewFromInt(outstanding)
	return c
}

func mustProduct(t *testing.T, name string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct("P-"+name, name, "unit", decimal.NewFromInt(price))
	require.NoError(t, err)
	return p
}

func mustSheet(t *testing.T, route *partner.Route, customers ...*partner.Customer) *sheet.DeliverySheet {
	t.Helper()
	s, err := sheet.NewDeliverySheet(route.ID, route.Name, time.Now(), customers)
	require.NoError(t, err)
	return s
}

func TestService_Create(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 150)

	f.routes.On("FindByID", mock.Anything, route.ID).Return(route, nil)
	f.sheets.On("FindActiveByRoute", mock.Anything, route.ID).Return(nil, shared.ErrNotFound)
	f.customers.On("FindByRoute", mock.Anything, route.ID).Return([]*partner.Customer{customer}, nil)
	f.sheets.On("Create", mock.Anything, mock.AnythingOfType("*sheet.DeliverySheet")).Return(nil)

	created, err := f.service.Create(context.Background(), CreateSheetRequest{RouteID: route.ID, Date: time.Now()})
	require.NoError(t, err)

	assert.Equal(t, sheet.SheetStatusActive, created.Status)
	assert.Equal(t, route.Name, created.RouteName)
	assert.Len(t, created.Customers, 1)
	assert.True(t, created.RouteOutstanding.Equal(decimal.NewFromInt(150)))
	assert.Empty(t, created.GetDomainEvents(), "events are drained after persisting")
	f.sheets.AssertExpectations(t)
}

func TestService_Create_DuplicateActiveSheet(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	existing := mustSheet(t, route)

	f.routes.On("FindByID", mock.Anything, route.ID).Return(route, nil)
	f.sheets.On("FindActiveByRoute", mock.Anything, route.ID).Return(existing, nil)

	_, err := f.service.Create(context.Background(), CreateSheetRequest{RouteID: route.ID})
	require.Error(t, err)

	var dup *sheet.DuplicateActiveSheetError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existing.ID, dup.ExistingSheetID)
	assert.Equal(t, route.Name, dup.RouteName)
	f.sheets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_RouteNotFound(t *testing.T) {
	f := newFixture()
	routeID := uuid.New()

	f.routes.On("FindByID", mock.Anything, routeID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(context.Background(), CreateSheetRequest{RouteID: routeID})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestService_Update_ValidationBlocksPersist(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 0)
	milk := mustProduct(t, "Milk 500ml", 25)
	s := mustSheet(t, route, customer)

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]catalog.Product{milk.ID: *milk}, nil)

	_, err := f.service.Update(context.Background(), s.ID, UpdateSheetRequest{
		Deliveries: sheet.DeliveryData{
			customer.ID: {milk.ID: {Quantity: 10, Amount: decimal.NewFromInt(999)}},
		},
	})
	require.Error(t, err)

	var verr *sheet.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, sheet.ViolationAmountMismatch, verr.Violations[0].Code)
	f.sheets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Update_Success(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 0)
	milk := mustProduct(t, "Milk 500ml", 25)
	s := mustSheet(t, route, customer)

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]catalog.Product{milk.ID: *milk}, nil)
	f.sheets.On("Save", mock.Anything, s).Return(nil)

	notes := "two shops closed today"
	updated, err := f.service.Update(context.Background(), s.ID, UpdateSheetRequest{
		Deliveries: sheet.DeliveryData{
			customer.ID: {milk.ID: {Quantity: 10, Amount: decimal.NewFromInt(250)}},
		},
		Payments: sheet.PaymentData{
			customer.ID: {Cash: decimal.NewFromInt(250), Total: decimal.NewFromInt(250)},
		},
		Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
	f.sheets.AssertExpectations(t)
}

func TestService_RecordDelivery(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 0)
	milk := mustProduct(t, "Milk 500ml", 25)
	s := mustSheet(t, route, customer)

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.products.On("FindByID", mock.Anything, milk.ID).Return(milk, nil)
	f.sheets.On("Save", mock.Anything, s).Return(nil)

	updated, err := f.service.RecordDelivery(context.Background(), s.ID, RecordDeliveryRequest{
		CustomerID: customer.ID,
		ProductID:  milk.ID,
		Quantity:   10,
	})
	require.NoError(t, err)
	assert.True(t, updated.Deliveries[customer.ID][milk.ID].Amount.Equal(decimal.NewFromInt(250)))
}

func TestService_Close_SettlesSheet(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	milk := mustProduct(t, "Milk 500ml", 25)
	curd := mustProduct(t, "Curd 200g", 30)

	// Three settlement shapes: a partial payer, an overpayer, and a
	// payment with no delivery.
	partialPayer := mustCustomer(t, route.ID, "Sharma General Store", 100)
	overPayer := mustCustomer(t, route.ID, "Gupta Tea Stall", 0)
	payerOnly := mustCustomer(t, route.ID, "Verma Dairy Corner", 400)

	s := mustSheet(t, route, partialPayer, overPayer, payerOnly)
	require.NoError(t, s.SetQuantity(partialPayer.ID, milk, 10)) // 250
	require.NoError(t, s.SetReceived(partialPayer.ID, sheet.ChannelCash, decimal.NewFromInt(200)))
	require.NoError(t, s.SetQuantity(overPayer.ID, curd, 4)) // 120
	require.NoError(t, s.SetReceived(overPayer.ID, sheet.ChannelUPI, decimal.NewFromInt(150)))
	require.NoError(t, s.SetReceived(payerOnly.ID, sheet.ChannelCash, decimal.NewFromInt(100)))

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.sheets.On("MarkClosed", mock.Anything, s.ID).Return(nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]catalog.Product{milk.ID: *milk, curd.ID: *curd}, nil)
	f.customers.On("FindByID", mock.Anything, partialPayer.ID).Return(partialPayer, nil)
	f.customers.On("FindByID", mock.Anything, overPayer.ID).Return(overPayer, nil)
	f.customers.On("FindByID", mock.Anything, payerOnly.ID).Return(payerOnly, nil)
	f.invoices.On("NextInvoiceNumber", mock.Anything, mock.Anything).Return("INV-20260901-0001", nil)
	f.transactions.On("NextReferenceNumber", mock.Anything, mock.Anything).Return("TXN-20260901-0001", nil)

	var invoices []*billing.Invoice
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).
		Run(func(args mock.Arguments) {
			invoices = append(invoices, args.Get(1).(*billing.Invoice))
		}).Return(nil)

	var transactions []*partner.LedgerTransaction
	f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*partner.LedgerTransaction")).
		Run(func(args mock.Arguments) {
			transactions = append(transactions, args.Get(1).(*partner.LedgerTransaction))
		}).Return(nil)

	f.customers.On("Save", mock.Anything, mock.AnythingOfType("*partner.Customer")).Return(nil)
	f.sheets.On("Save", mock.Anything, s).Return(nil)

	result, err := f.service.Close(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, result.InvoicesCreated)
	assert.Equal(t, 3, result.TransactionsCreated)
	assert.Equal(t, sheet.SheetStatusClosed, s.Status)
	assert.Empty(t, s.GetDomainEvents(), "events are drained after settlement")

	// Balances move by the signed change: +50, -30, -100.
	assert.True(t, partialPayer.OutstandingAmount.Equal(decimal.NewFromInt(150)))
	assert.True(t, overPayer.OutstandingAmount.Equal(decimal.NewFromInt(-30)), "overpayment leaves a credit")
	assert.True(t, payerOnly.OutstandingAmount.Equal(decimal.NewFromInt(300)))

	statusByCustomer := make(map[uuid.UUID]billing.InvoiceStatus)
	for _, inv := range invoices {
		statusByCustomer[inv.CustomerID] = inv.Status
	}
	assert.Equal(t, billing.InvoiceStatusPartial, statusByCustomer[partialPayer.ID])
	assert.Equal(t, billing.InvoiceStatusPaid, statusByCustomer[overPayer.ID])

	typeByCustomer := make(map[uuid.UUID]partner.TransactionType)
	for _, tx := range transactions {
		typeByCustomer[tx.CustomerID] = tx.Type
	}
	assert.Equal(t, partner.TransactionTypeSale, typeByCustomer[partialPayer.ID])
	assert.Equal(t, partner.TransactionTypePayment, typeByCustomer[payerOnly.ID])

	assert.True(t, result.Summary.TotalSale.Equal(decimal.NewFromInt(370)))
	assert.True(t, result.Summary.TotalCollected.Equal(decimal.NewFromInt(450)))
}

func TestService_Close_RacingCloseSettlesOnce(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 100)
	milk := mustProduct(t, "Milk 500ml", 25)

	s1 := mustSheet(t, route, customer)
	require.NoError(t, s1.SetQuantity(customer.ID, milk, 10)) // 250
	require.NoError(t, s1.SetReceived(customer.ID, sheet.ChannelCash, decimal.NewFromInt(200)))

	// A second session that loaded the same active row before the first
	// close committed gets its own aggregate instance.
	s2 := &sheet.DeliverySheet{}
	*s2 = *s1

	f.sheets.On("FindByID", mock.Anything, s1.ID).Return(s1, nil).Once()
	f.sheets.On("FindByID", mock.Anything, s1.ID).Return(s2, nil).Once()
	f.products.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]catalog.Product{milk.ID: *milk}, nil)
	f.customers.On("FindByID", mock.Anything, customer.ID).Return(customer, nil)
	f.invoices.On("NextInvoiceNumber", mock.Anything, mock.Anything).Return("INV-20260901-0001", nil)
	f.invoices.On("Create", mock.Anything, mock.AnythingOfType("*billing.Invoice")).Return(nil)
	f.transactions.On("NextReferenceNumber", mock.Anything, mock.Anything).Return("TXN-20260901-0001", nil)
	f.transactions.On("Create", mock.Anything, mock.AnythingOfType("*partner.LedgerTransaction")).Return(nil)
	f.customers.On("Save", mock.Anything, customer).Return(nil)
	f.sheets.On("Save", mock.Anything, s1).Return(nil)

	// The stored row is claimed by the first close; the second sees the
	// guard fail.
	f.sheets.On("MarkClosed", mock.Anything, s1.ID).Return(nil).Once()
	f.sheets.On("MarkClosed", mock.Anything, s1.ID).Return(sheet.ErrAlreadyClosed).Once()

	result, err := f.service.Close(context.Background(), s1.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.InvoicesCreated)

	_, err = f.service.Close(context.Background(), s1.ID)
	assert.ErrorIs(t, err, sheet.ErrAlreadyClosed)

	// 100 + (250 - 200), applied exactly once.
	assert.True(t, customer.OutstandingAmount.Equal(decimal.NewFromInt(150)),
		"balance delta must not be applied twice")
	f.invoices.AssertNumberOfCalls(t, "Create", 1)
	f.transactions.AssertNumberOfCalls(t, "Create", 1)
}

func TestService_Close_AlreadyClosed(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	s := mustSheet(t, route)
	require.NoError(t, s.Close())

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)

	_, err := f.service.Close(context.Background(), s.ID)
	assert.ErrorIs(t, err, sheet.ErrAlreadyClosed)
	f.invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Close_EmptySheet(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 100)
	s := mustSheet(t, route, customer)

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.sheets.On("MarkClosed", mock.Anything, s.ID).Return(nil)
	f.sheets.On("Save", mock.Anything, s).Return(nil)

	result, err := f.service.Close(context.Background(), s.ID)
	require.NoError(t, err)

	assert.Zero(t, result.InvoicesCreated)
	assert.Zero(t, result.TransactionsCreated)
	assert.Equal(t, sheet.SheetStatusClosed, s.Status)
	assert.True(t, customer.OutstandingAmount.Equal(decimal.NewFromInt(100)), "no activity leaves balances untouched")
}

func TestService_Close_ValidationFailureLeavesSheetActive(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	customer := mustCustomer(t, route.ID, "Sharma General Store", 0)
	milk := mustProduct(t, "Milk 500ml", 25)
	s := mustSheet(t, route, customer)
	s.Deliveries = sheet.DeliveryData{
		customer.ID: {milk.ID: {Quantity: 10, Amount: decimal.NewFromInt(999)}},
	}

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.products.On("FindByIDs", mock.Anything, mock.Anything).
		Return(map[uuid.UUID]catalog.Product{milk.ID: *milk}, nil)

	_, err := f.service.Close(context.Background(), s.ID)

	var verr *sheet.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, sheet.SheetStatusActive, s.Status)
	f.sheets.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestService_Delete(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	s := mustSheet(t, route)

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)
	f.sheets.On("Delete", mock.Anything, s.ID).Return(nil)

	assert.NoError(t, f.service.Delete(context.Background(), s.ID))
	f.sheets.AssertExpectations(t)
}

func TestService_Delete_ClosedSheetRejected(t *testing.T) {
	f := newFixture()
	route := mustRoute(t, "Sector 12")
	s := mustSheet(t, route)
	require.NoError(t, s.Close())

	f.sheets.On("FindByID", mock.Anything, s.ID).Return(s, nil)

	err := f.service.Delete(context.Background(), s.ID)
	assert.ErrorIs(t, err, sheet.ErrClosedSheetImmutable)
	f.sheets.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
