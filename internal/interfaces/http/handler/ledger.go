package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	apppartner "github.com/routeledger/backend/internal/application/partner"
	"github.com/routeledger/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// LedgerHandler handles customer ledger API endpoints
type LedgerHandler struct {
	BaseHandler
	paymentService *apppartner.PaymentService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(paymentService *apppartner.PaymentService) *LedgerHandler {
	return &LedgerHandler{paymentService: paymentService}
}

// RegisterRoutes registers customer ledger routes
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	ledger.POST("/payments", h.RecordPayment)
	ledger.POST("/adjustments", h.RecordAdjustment)
	ledger.GET("/transactions", h.ListTransactions)
}

// RecordPaymentRequest represents an off-sheet customer payment
type RecordPaymentRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Date       string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes      string  `json:"notes" binding:"max=500"`
}

// RecordAdjustmentRequest represents a manual balance correction
type RecordAdjustmentRequest struct {
	CustomerID string  `json:"customer_id" binding:"required,uuid"`
	Delta      float64 `json:"delta" binding:"required"`
	Date       string  `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Notes      string  `json:"notes" binding:"required,max=500"`
}

// ListTransactionsQuery represents ledger transaction listing filters
type ListTransactionsQuery struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	SheetID    string `form:"sheet_id" binding:"omitempty,uuid"`
	Type       string `form:"type" binding:"omitempty,oneof=sale payment adjustment"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TransactionItemResponse represents one line of a sale transaction
type TransactionItemResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	LineTotal   float64 `json:"line_total"`
}

// TransactionResponse represents a ledger transaction in API responses
type TransactionResponse struct {
	ID              string                    `json:"id"`
	ReferenceNumber string                    `json:"reference_number"`
	Type            string                    `json:"type"`
	CustomerID      string                    `json:"customer_id"`
	CustomerName    string                    `json:"customer_name"`
	SheetID         *string                   `json:"sheet_id,omitempty"`
	Date            string                    `json:"date"`
	Items           []TransactionItemResponse `json:"items,omitempty"`
	TotalAmount     float64                   `json:"total_amount"`
	AmountReceived  float64                   `json:"amount_received"`
	BalanceChange   float64                   `json:"balance_change"`
	BalanceAfter    float64                   `json:"balance_after"`
	Notes           string                    `json:"notes,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// RecordPayment records an off-sheet payment against a customer's balance
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)

	tx, err := h.paymentService.RecordPayment(c.Request.Context(), apppartner.RecordPaymentRequest{
		CustomerID: customerID,
		Amount:     decimal.NewFromFloat(req.Amount),
		Date:       parseDateOrNow(req.Date),
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(tx))
}

// RecordAdjustment records a manual balance correction
func (h *LedgerHandler) RecordAdjustment(c *gin.Context) {
	var req RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	customerID, _ := uuid.Parse(req.CustomerID)

	tx, err := h.paymentService.RecordAdjustment(c.Request.Context(), apppartner.RecordAdjustmentRequest{
		CustomerID: customerID,
		Delta:      decimal.NewFromFloat(req.Delta),
		Date:       parseDateOrNow(req.Date),
		Notes:      req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toTransactionResponse(tx))
}

// ListTransactions returns ledger transactions matching the given filters
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	req := apppartner.ListTransactionsRequest{
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.CustomerID != "" {
		customerID, _ := uuid.Parse(query.CustomerID)
		req.CustomerID = &customerID
	}
	if query.SheetID != "" {
		sheetID, _ := uuid.Parse(query.SheetID)
		req.SheetID = &sheetID
	}
	if query.Type != "" {
		txType := partner.TransactionType(query.Type)
		req.Type = &txType
	}
	if query.DateFrom != "" {
		from, _ := time.Parse("2006-01-02", query.DateFrom)
		req.DateFrom = &from
	}
	if query.DateTo != "" {
		to, _ := time.Parse("2006-01-02", query.DateTo)
		to = to.Add(24*time.Hour - time.Nanosecond)
		req.DateTo = &to
	}

	transactions, total, err := h.paymentService.ListTransactions(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, toTransactionResponse(tx))
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

func parseDateOrNow(value string) time.Time {
	if value == "" {
		return time.Now()
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Now()
	}
	return date
}

func toTransactionResponse(tx *partner.LedgerTransaction) TransactionResponse {
	var items []TransactionItemResponse
	for _, item := range tx.Items {
		items = append(items, TransactionItemResponse{
			ProductID:   item.ProductID.String(),
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.InexactFloat64(),
			LineTotal:   item.LineTotal.InexactFloat64(),
		})
	}

	var sheetID *string
	if tx.SheetID != nil {
		id := tx.SheetID.String()
		sheetID = &id
	}

	return TransactionResponse{
		ID:              tx.ID.String(),
		ReferenceNumber: tx.ReferenceNumber,
		Type:            string(tx.Type),
		CustomerID:      tx.CustomerID.String(),
		CustomerName:    tx.CustomerName,
		SheetID:         sheetID,
		Date:            tx.Date.Format("2006-01-02"),
		Items:           items,
		TotalAmount:     tx.TotalAmount.InexactFloat64(),
		AmountReceived:  tx.AmountReceived.InexactFloat64(),
		BalanceChange:   tx.BalanceChange.InexactFloat64(),
		BalanceAfter:    tx.BalanceAfter.InexactFloat64(),
		Notes:           tx.Notes,
		CreatedAt:       tx.CreatedAt,
	}
}
