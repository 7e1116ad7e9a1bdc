package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/routeledger/backend/internal/domain/shared"
	"github.com/routeledger/backend/internal/domain/sheet"
	"github.com/routeledger/backend/internal/interfaces/http/dto"
	"github.com/routeledger/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, requestID))
}

// BindingError sends a 400 response carrying field-level binding details
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		dto.ErrCodeValidation,
		"Request validation failed",
		requestID,
		middleware.FormatBindingError(err),
	))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, message, requestID))
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	requestID := middleware.GetRequestID(c)
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, message, requestID))
}

// HandleError converts domain errors to HTTP responses. Validation errors
// carry the full violation list; everything else maps through the error
// code table.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	requestID := middleware.GetRequestID(c)

	var validationErr *sheet.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			dto.ErrCodeValidation,
			"Delivery sheet validation failed",
			requestID,
			violationDetails(validationErr.Violations),
		))
		return
	}

	var dupErr *sheet.DuplicateActiveSheetError
	if errors.As(err, &dupErr) {
		c.JSON(dto.GetHTTPStatus(dupErr.Code()), dto.NewErrorResponse(dupErr.Code(), dupErr.Error(), requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}

// violationDetails converts domain violations into response details
func violationDetails(violations []sheet.Violation) []dto.ViolationDetail {
	details := make([]dto.ViolationDetail, 0, len(violations))
	for _, v := range violations {
		detail := dto.ViolationDetail{
			Code:       v.Code,
			CustomerID: v.CustomerID.String(),
			Field:      v.Field,
			Expected:   v.Expected,
			Actual:     v.Actual,
			Message:    v.Message,
		}
		if v.ProductID != nil {
			detail.ProductID = v.ProductID.String()
		}
		details = append(details, detail)
	}
	return details
}
