package sheet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/routeledger/backend/internal/domain/billing"
	"github.com/routeledger/backend/internal/domain/catalog"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service orchestrates the delivery sheet lifecycle: opening a sheet for a
// route, recording deliveries and collections while it is active, and
// settling it into invoices and ledger transactions at close.
type Service struct {
	sheets    sheet.DeliverySheetRepository
	customers partner.CustomerRepository
	routes    partner.RouteRepository
	products  catalog.ProductRepository
	scope     TransactionScope
	logger    *zap.Logger
}

// NewService creates a sheet service
func NewService(
	sheets sheet.DeliverySheetRepository,
	customers partner.CustomerRepository,
	routes partner.RouteRepository,
	products catalog.ProductRepository,
	scope TransactionScope,
	logger *zap.Logger,
) *Service {
	return &Service{
		sheets:    sheets,
		customers: customers,
		routes:    routes,
		products:  products,
		scope:     scope,
		logger:    logger,
	}
}

// Create opens a new active sheet for a route, snapshotting the route's
// customers. At most one active sheet per route is allowed; the check here is
// backed by a partial unique index in the store, so concurrent creates cannot
// both succeed.
func (s *Service) Create(ctx context.Context, req CreateSheetRequest) (*sheet.DeliverySheet, error) {
	route, err := s.routes.FindByID(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load route: %w", err)
	}

	existing, err := s.sheets.FindActiveByRoute(ctx, req.RouteID)
	if err == nil {
		return nil, &sheet.DuplicateActiveSheetError{
			RouteID:         req.RouteID,
			RouteName:       route.Name,
			ExistingSheetID: existing.ID,
		}
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for active sheet: %w", err)
	}

	customers, err := s.customers.FindByRoute(ctx, req.RouteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load route customers: %w", err)
	}

	newSheet, err := sheet.NewDeliverySheet(req.RouteID, route.Name, req.Date, customers)
	if err != nil {
		return nil, err
	}

	if err := s.sheets.Create(ctx, newSheet); err != nil {
		return nil, err
	}

	s.publishEvents(newSheet)
	s.logger.Info("delivery sheet created",
		zap.String("sheet_id", newSheet.ID.String()),
		zap.String("route", route.Name),
		zap.Int("customers", len(customers)))
	return newSheet, nil
}

// publishEvents drains the aggregate's pending domain events into the log.
// Events are only published after the aggregate has been persisted.
func (s *Service) publishEvents(found *sheet.DeliverySheet) {
	for _, event := range found.GetDomainEvents() {
		s.logger.Info("domain event",
			zap.String("type", event.EventType()),
			zap.String("aggregate_id", event.AggregateID().String()),
			zap.Time("occurred_at", event.OccurredAt()))
	}
	found.ClearDomainEvents()
}

// Get returns a sheet with its derived summary computed against live
// customer balances
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*SheetDetail, error) {
	found, err := s.sheets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	balances, err := s.liveBalances(ctx, found)
	if err != nil {
		return nil, err
	}
	return &SheetDetail{Sheet: found, Summary: found.Summarize(balances)}, nil
}

// List returns sheets matching the filter
func (s *Service) List(ctx context.Context, req ListSheetsRequest) ([]*sheet.DeliverySheet, int64, error) {
	filter := sheet.SheetFilter{
		Filter:   shared.NewFilter(),
		RouteID:  req.RouteID,
		Status:   req.Status,
		DateFrom: req.DateFrom,
		DateTo:   req.DateTo,
	}
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	return s.sheets.FindAll(ctx, filter)
}

// Update replaces the sheet's working data. The updated sheet is validated
// in full before anything is persisted; a sheet with violations is left
// untouched in the store.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSheetRequest) (*sheet.DeliverySheet, error) {
	found, err := s.sheets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := found.ApplyUpdate(req.Deliveries, req.Payments, req.Notes); err != nil {
		return nil, err
	}

	products, err := s.productsFor(ctx, found)
	if err != nil {
		return nil, err
	}
	if violations := found.Validate(products); len(violations) > 0 {
		return nil, &sheet.ValidationError{Violations: violations}
	}

	if err := s.sheets.Save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// RecordDelivery sets the delivered quantity of one product for one customer
func (s *Service) RecordDelivery(ctx context.Context, sheetID uuid.UUID, req RecordDeliveryRequest) (*sheet.DeliverySheet, error) {
	found, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if err := found.SetQuantity(req.CustomerID, product, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.sheets.Save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// RecordPayment sets the amount collected from one customer on one channel
func (s *Service) RecordPayment(ctx context.Context, sheetID uuid.UUID, req RecordPaymentRequest) (*sheet.DeliverySheet, error) {
	found, err := s.sheets.FindByID(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	if err := found.SetReceived(req.CustomerID, req.Channel, req.Amount); err != nil {
		return nil, err
	}
	if err := s.sheets.Save(ctx, found); err != nil {
		return nil, err
	}
	return found, nil
}

// Close settles a sheet: one invoice and one sale transaction per customer
// with deliveries, a payment transaction for customers who paid without a
// delivery, and a balance movement on every affected customer. The whole
// settlement and the status flip run in a single transaction, so a failed
// close leaves the sheet active and untouched.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*CloseResult, error) {
	found, err := s.sheets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found.IsActive() {
		return nil, sheet.ErrAlreadyClosed
	}

	products, err := s.productsFor(ctx, found)
	if err != nil {
		return nil, err
	}
	if violations := found.Validate(products); len(violations) > 0 {
		return nil, &sheet.ValidationError{Violations: violations}
	}

	result := &CloseResult{SheetID: found.ID}
	balances := make(map[uuid.UUID]decimal.Decimal, len(found.Customers))

	err = s.scope.Execute(ctx, func(repos Repos) error {
		// Claim the sheet before touching any balance. A concurrent close
		// that read the same active row blocks here and then gets
		// ErrAlreadyClosed, so each delta is applied exactly once.
		if err := repos.Sheets.MarkClosed(ctx, found.ID); err != nil {
			return err
		}

		for _, snap := range found.Customers {
			delivered := found.HasDeliveries(snap.CustomerID)
			received := found.Received(snap.CustomerID)
			if !delivered && received.Total.IsZero() {
				continue
			}

			customer, err := repos.Customers.FindByID(ctx, snap.CustomerID)
			if err != nil {
				return fmt.Errorf("failed to load customer %s: %w", snap.CustomerID, err)
			}

			var tx *partner.LedgerTransaction
			if delivered {
				items := s.invoiceItems(found, snap, products)
				total := found.CustomerDeliveryTotal(snap.CustomerID)

				invoiceNumber, err := repos.Invoices.NextInvoiceNumber(ctx, found.Date)
				if err != nil {
					return err
				}
				invoice, err := billing.NewInvoice(invoiceNumber, found.ID, customer.ID, customer.Name,
					found.Date, items, received.Total)
				if err != nil {
					return err
				}
				if err := repos.Invoices.Create(ctx, invoice); err != nil {
					return err
				}
				result.InvoicesCreated++

				reference, err := repos.Transactions.NextReferenceNumber(ctx, found.Date)
				if err != nil {
					return err
				}
				tx, err = partner.NewSaleTransaction(reference, customer, found.ID, found.Date,
					transactionItems(items), total, received.Total)
				if err != nil {
					return err
				}
			} else {
				reference, err := repos.Transactions.NextReferenceNumber(ctx, found.Date)
				if err != nil {
					return err
				}
				tx, err = partner.NewPaymentTransaction(reference, customer, found.Date,
					received.Total, "collected on delivery round")
				if err != nil {
					return err
				}
			}

			balance := customer.ApplyBalanceChange(tx.BalanceChange)
			tx.RecordBalanceAfter(balance)
			balances[customer.ID] = balance

			if err := repos.Transactions.Create(ctx, tx); err != nil {
				return err
			}
			if err := repos.Customers.Save(ctx, customer); err != nil {
				return err
			}
			result.TransactionsCreated++
		}

		if err := found.Close(); err != nil {
			return err
		}
		return repos.Sheets.Save(ctx, found)
	})
	if err != nil {
		return nil, err
	}

	result.Summary = found.Summarize(balances)
	s.publishEvents(found)
	s.logger.Info("delivery sheet closed",
		zap.String("sheet_id", found.ID.String()),
		zap.String("route", found.RouteName),
		zap.Int("invoices", result.InvoicesCreated),
		zap.Int("transactions", result.TransactionsCreated))
	return result, nil
}

// Delete removes an active sheet and its working data. Closed sheets are
// part of the financial record and cannot be deleted.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.sheets.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := found.EnsureDeletable(); err != nil {
		return err
	}

	if err := s.sheets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("delivery sheet deleted",
		zap.String("sheet_id", id.String()),
		zap.String("route", found.RouteName))
	return nil
}

// Summary computes the sheet's totals against live customer balances
func (s *Service) Summary(ctx context.Context, id uuid.UUID) (sheet.Summary, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return sheet.Summary{}, err
	}
	return detail.Summary, nil
}

func (s *Service) productsFor(ctx context.Context, found *sheet.DeliverySheet) (map[uuid.UUID]catalog.Product, error) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, lines := range found.Deliveries {
		for productID := range lines {
			if _, ok := seen[productID]; !ok {
				seen[productID] = struct{}{}
				ids = append(ids, productID)
			}
		}
	}
	if len(ids) == 0 {
		return map[uuid.UUID]catalog.Product{}, nil
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

func (s *Service) invoiceItems(found *sheet.DeliverySheet, snap sheet.CustomerSnapshot, products map[uuid.UUID]catalog.Product) []billing.InvoiceItem {
	var items []billing.InvoiceItem
	for productID, line := range found.Deliveries[snap.CustomerID] {
		if line.Quantity == 0 && line.Amount.IsZero() {
			continue
		}

		name := productID.String()
		var rate decimal.Decimal
		if product, ok := products[productID]; ok {
			name = product.Name
			rate, _ = sheet.ResolveRate(snap, &product)
		}

		items = append(items, billing.InvoiceItem{
			ProductID:   productID,
			ProductName: name,
			Quantity:    line.Quantity,
			UnitPrice:   rate,
			LineTotal:   line.Amount,
		})
	}
	return items
}

func transactionItems(items []billing.InvoiceItem) []partner.TransactionItem {
	converted := make([]partner.TransactionItem, 0, len(items))
	for _, item := range items {
		converted = append(converted, partner.TransactionItem{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			LineTotal:   item.LineTotal,
		})
	}
	return converted
}

func (s *Service) liveBalances(ctx context.Context, found *sheet.DeliverySheet) (map[uuid.UUID]decimal.Decimal, error) {
	if len(found.Customers) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(found.Customers))
	for _, snap := range found.Customers {
		ids = append(ids, snap.CustomerID)
	}

	customers, err := s.customers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer balances: %w", err)
	}

	balances := make(map[uuid.UUID]decimal.Decimal, len(customers))
	for _, customer := range customers {
		balances[customer.ID] = customer.OutstandingAmount
	}
	return balances, nil
}
