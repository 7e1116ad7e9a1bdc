package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appsheet "github.com/routeledger/backend/internal/application/sheet"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/shopspring/decimal"
)

// SheetHandler handles delivery sheet API endpoints
type SheetHandler struct {
	BaseHandler
	sheetService *appsheet.Service
}

// NewSheetHandler creates a new SheetHandler
func NewSheetHandler(sheetService *appsheet.Service) *SheetHandler {
	return &SheetHandler{sheetService: sheetService}
}

// RegisterRoutes registers delivery sheet routes
func (h *SheetHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sheets := rg.Group("/sheets")
	sheets.POST("", h.Create)
	sheets.GET("", h.List)
	sheets.GET("/:id", h.GetByID)
	sheets.PUT("/:id", h.Update)
	sheets.POST("/:id/deliveries", h.RecordDelivery)
	sheets.POST("/:id/payments", h.RecordPayment)
	sheets.POST("/:id/close", h.Close)
	sheets.GET("/:id/summary", h.Summary)
	sheets.DELETE("/:id", h.Delete)
}

// CreateSheetRequest represents a request to open a delivery sheet
type CreateSheetRequest struct {
	RouteID string `json:"route_id" binding:"required,uuid"`
	Date    string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// DeliveryLineInput represents one delivered line in a sheet update
type DeliveryLineInput struct {
	Quantity int64   `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// PaymentEntryInput represents one customer's collection in a sheet update.
// Total defaults to cash + upi when omitted.
type PaymentEntryInput struct {
	Cash  float64  `json:"cash"`
	UPI   float64  `json:"upi"`
	Total *float64 `json:"total"`
}

// UpdateSheetRequest represents a bulk update of a sheet's working data
type UpdateSheetRequest struct {
	Deliveries map[string]map[string]DeliveryLineInput `json:"deliveries"`
	Payments   map[string]PaymentEntryInput            `json:"payments"`
	Notes      *string                                 `json:"notes"`
}

// RecordDeliveryRequest represents a single delivery line entry
type RecordDeliveryRequest struct {
	CustomerID string `json:"customer_id" binding:"required,uuid"`
	ProductID  string `json:"product_id" binding:"required,uuid"`
	Quantity   int64  `json:"quantity" binding:"gte=0"`
}

// RecordSheetPaymentRequest represents a single collection entry
type RecordSheetPaymentRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Channel    string  `json:"channel" binding:"required,oneof=cash upi"`
	Amount     float64 `json:"amount" binding:"gte=0"`
}

// ListSheetsQuery represents sheet listing filters
type ListSheetsQuery struct {
	RouteID  string `form:"route_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active closed"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CustomerSnapshotResponse represents a snapshotted customer in responses
type CustomerSnapshotResponse struct {
	CustomerID    string             `json:"customer_id"`
	Name          string             `json:"name"`
	Phone         string             `json:"phone,omitempty"`
	Outstanding   float64            `json:"outstanding"`
	ProductPrices map[string]float64 `json:"product_prices,omitempty"`
}

// DeliveryLineResponse represents one delivered line in responses
type DeliveryLineResponse struct {
	Quantity int64   `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// PaymentEntryResponse represents one customer's collection in responses
type PaymentEntryResponse struct {
	Cash  float64 `json:"cash"`
	UPI   float64 `json:"upi"`
	Total float64 `json:"total"`
}

// SummaryResponse represents the derived totals of a sheet
type SummaryResponse struct {
	TotalSale           float64 `json:"total_sale"`
	TotalCash           float64 `json:"total_cash"`
	TotalUPI            float64 `json:"total_upi"`
	TotalCollected      float64 `json:"total_collected"`
	AmountPending       float64 `json:"amount_pending"`
	PreviousOutstanding float64 `json:"previous_outstanding"`
	CurrentOutstanding  float64 `json:"current_outstanding"`
	CustomersServed     int     `json:"customers_served"`
}

// SheetResponse represents a delivery sheet in API responses
type SheetResponse struct {
	ID               string                                     `json:"id"`
	Date             string                                     `json:"date"`
	RouteID          string                                     `json:"route_id"`
	RouteName        string                                     `json:"route_name"`
	Customers        []CustomerSnapshotResponse                 `json:"customers"`
	RouteOutstanding float64                                    `json:"route_outstanding"`
	Deliveries       map[string]map[string]DeliveryLineResponse `json:"deliveries"`
	Payments         map[string]PaymentEntryResponse            `json:"payments"`
	Notes            string                                     `json:"notes,omitempty"`
	Status           string                                     `json:"status"`
	ClosedAt         *time.Time                                 `json:"closed_at,omitempty"`
	CreatedAt        time.Time                                  `json:"created_at"`
	UpdatedAt        time.Time                                  `json:"updated_at"`
	Version          int                                        `json:"version"`
}

// SheetDetailResponse pairs a sheet with its derived summary
type SheetDetailResponse struct {
	Sheet   SheetResponse   `json:"sheet"`
	Summary SummaryResponse `json:"summary"`
}

// CloseResultResponse reports what a settlement produced
type CloseResultResponse struct {
	SheetID             string          `json:"sheet_id"`
	InvoicesCreated     int             `json:"invoices_created"`
	TransactionsCreated int             `json:"transactions_created"`
	Summary             SummaryResponse `json:"summary"`
}

// Create opens a new delivery sheet on a route
func (h *SheetHandler) Create(c *gin.Context) {
	var req CreateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	routeID, err := uuid.Parse(req.RouteID)
	if err != nil {
		h.BadRequest(c, "Invalid route ID format")
		return
	}

	date := time.Now()
	if req.Date != "" {
		date, _ = time.Parse("2006-01-02", req.Date)
	}

	created, err := h.sheetService.Create(c.Request.Context(), appsheet.CreateSheetRequest{
		RouteID: routeID,
		Date:    date,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSheetResponse(created))
}

// List returns delivery sheets matching the given filters
func (h *SheetHandler) List(c *gin.Context) {
	var query ListSheetsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	req := appsheet.ListSheetsRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.RouteID != "" {
		routeID, _ := uuid.Parse(query.RouteID)
		req.RouteID = &routeID
	}
	if query.Status != "" {
		status := sheet.SheetStatus(query.Status)
		req.Status = &status
	}
	if query.DateFrom != "" {
		from, _ := time.Parse("2006-01-02", query.DateFrom)
		req.DateFrom = &from
	}
	if query.DateTo != "" {
		// Inclusive upper bound: extend to the end of the day
		to, _ := time.Parse("2006-01-02", query.DateTo)
		to = to.Add(24*time.Hour - time.Nanosecond)
		req.DateTo = &to
	}

	sheets, total, err := h.sheetService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SheetResponse, 0, len(sheets))
	for _, s := range sheets {
		responses = append(responses, toSheetResponse(s))
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, responses, total, page, pageSize)
}

// GetByID returns a single sheet with its derived summary
func (h *SheetHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	detail, err := h.sheetService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, SheetDetailResponse{
		Sheet:   toSheetResponse(detail.Sheet),
		Summary: toSummaryResponse(detail.Summary),
	})
}

// Update replaces a sheet's working data in bulk
func (h *SheetHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req UpdateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	deliveries, err := toDeliveryData(req.Deliveries)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	payments, err := toPaymentData(req.Payments)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	updated, err := h.sheetService.Update(c.Request.Context(), id, appsheet.UpdateSheetRequest{
		Deliveries: deliveries,
		Payments:   payments,
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSheetResponse(updated))
}

// RecordDelivery sets one delivery line on a sheet
func (h *SheetHandler) RecordDelivery(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req RecordDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)
	productID, _ := uuid.Parse(req.ProductID)

	updated, err := h.sheetService.RecordDelivery(c.Request.Context(), id, appsheet.RecordDeliveryRequest{
		CustomerID: customerID,
		ProductID:  productID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSheetResponse(updated))
}

// RecordPayment sets one collection amount on a sheet
func (h *SheetHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req RecordSheetPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)

	updated, err := h.sheetService.RecordPayment(c.Request.Context(), id, appsheet.RecordPaymentRequest{
		CustomerID: customerID,
		Channel:    sheet.PaymentChannel(req.Channel),
		Amount:     decimal.NewFromFloat(req.Amount),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSheetResponse(updated))
}

// Close validates and settles a sheet
func (h *SheetHandler) Close(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	result, err := h.sheetService.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CloseResultResponse{
		SheetID:             result.SheetID.String(),
		InvoicesCreated:     result.InvoicesCreated,
		TransactionsCreated: result.TransactionsCreated,
		Summary:             toSummaryResponse(result.Summary),
	})
}

// Summary returns the derived totals of a sheet
func (h *SheetHandler) Summary(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	summary, err := h.sheetService.Summary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSummaryResponse(summary))
}

// Delete removes an active sheet without settling it
func (h *SheetHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.sheetService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *SheetHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sheet ID format")
		return uuid.Nil, false
	}
	return id, true
}

func toDeliveryData(input map[string]map[string]DeliveryLineInput) (sheet.DeliveryData, error) {
	if input == nil {
		return nil, nil
	}
	data := make(sheet.DeliveryData, len(input))
	for customerKey, lines := range input {
		customerID, err := uuid.Parse(customerKey)
		if err != nil {
			return nil, err
		}
		converted := make(map[uuid.UUID]sheet.DeliveryLine, len(lines))
		for productKey, line := range lines {
			productID, err := uuid.Parse(productKey)
			if err != nil {
				return nil, err
			}
			converted[productID] = sheet.DeliveryLine{
				Quantity: line.Quantity,
				Amount:   decimal.NewFromFloat(line.Amount),
			}
		}
		data[customerID] = converted
	}
	return data, nil
}

func toPaymentData(input map[string]PaymentEntryInput) (sheet.PaymentData, error) {
	if input == nil {
		return nil, nil
	}
	data := make(sheet.PaymentData, len(input))
	for customerKey, entry := range input {
		customerID, err := uuid.Parse(customerKey)
		if err != nil {
			return nil, err
		}
		cash := decimal.NewFromFloat(entry.Cash)
		upi := decimal.NewFromFloat(entry.UPI)
		total := cash.Add(upi)
		if entry.Total != nil {
			total = decimal.NewFromFloat(*entry.Total)
		}
		data[customerID] = sheet.PaymentEntry{Cash: cash, UPI: upi, Total: total}
	}
	return data, nil
}

func toSheetResponse(s *sheet.DeliverySheet) SheetResponse {
	customers := make([]CustomerSnapshotResponse, 0, len(s.Customers))
	for _, snap := range s.Customers {
		var prices map[string]float64
		if len(snap.ProductPrices) > 0 {
			prices = make(map[string]float64, len(snap.ProductPrices))
			for productID, price := range snap.ProductPrices {
				prices[productID.String()] = price.InexactFloat64()
			}
		}
		customers = append(customers, CustomerSnapshotResponse{
			CustomerID:    snap.CustomerID.String(),
			Name:          snap.Name,
			Phone:         snap.Phone,
			Outstanding:   snap.Outstanding.InexactFloat64(),
			ProductPrices: prices,
		})
	}

	deliveries := make(map[string]map[string]DeliveryLineResponse, len(s.Deliveries))
	for customerID, lines := range s.Deliveries {
		converted := make(map[string]DeliveryLineResponse, len(lines))
		for productID, line := range lines {
			converted[productID.String()] = DeliveryLineResponse{
				Quantity: line.Quantity,
				Amount:   line.Amount.InexactFloat64(),
			}
		}
		deliveries[customerID.String()] = converted
	}

	payments := make(map[string]PaymentEntryResponse, len(s.Payments))
	for customerID, entry := range s.Payments {
		payments[customerID.String()] = PaymentEntryResponse{
			Cash:  entry.Cash.InexactFloat64(),
			UPI:   entry.UPI.InexactFloat64(),
			Total: entry.Total.InexactFloat64(),
		}
	}

	return SheetResponse{
		ID:               s.ID.String(),
		Date:             s.Date.Format("2006-01-02"),
		RouteID:          s.RouteID.String(),
		RouteName:        s.RouteName,
		Customers:        customers,
		RouteOutstanding: s.RouteOutstanding.InexactFloat64(),
		Deliveries:       deliveries,
		Payments:         payments,
		Notes:            s.Notes,
		Status:           string(s.Status),
		ClosedAt:         s.ClosedAt,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
		Version:          s.Version,
	}
}

func toSummaryResponse(summary sheet.Summary) SummaryResponse {
	return SummaryResponse{
		TotalSale:           summary.TotalSale.InexactFloat64(),
		TotalCash:           summary.TotalCash.InexactFloat64(),
		TotalUPI:            summary.TotalUPI.InexactFloat64(),
		TotalCollected:      summary.TotalCollected.InexactFloat64(),
		AmountPending:       summary.AmountPending.InexactFloat64(),
		PreviousOutstanding: summary.PreviousOutstanding.InexactFloat64(),
		CurrentOutstanding:  summary.CurrentOutstanding.InexactFloat64(),
		CustomersServed:     summary.CustomersServed,
	}
}
