package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/middleware"
)

// exchangeRateHandler handles exchange rates and ad-hoc conversions.
type exchangeRateHandler struct {
	rateService       portssvc.ExchangeRateSvcFacade
	conversionService portssvc.ConversionSvcFacade
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade, conversionService portssvc.ConversionSvcFacade) {
	h := &exchangeRateHandler{rateService: rateService, conversionService: conversionService}

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listExchangeRates)
		rates.POST("/convert", h.convert)
	}
}

// createExchangeRate godoc
// @Summary Record an exchange rate
// @Description Inserts a rate for a currency pair effective from a date. A
// @Description rate for the same pair and date is overwritten.
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	rate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to create exchange rate", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create exchange rate"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listExchangeRates godoc
// @Summary List exchange rates
// @Tags exchange-rates
// @Produce json
// @Param from query string false "From currency code"
// @Param to query string false "To currency code"
// @Param effectiveDate query string false "Only rates effective on or before this date (YYYY-MM-DD)"
// @Param page query int false "Page" default(1)
// @Param pageSize query int false "Page size" default(50)
// @Success 200 {object} dto.ListResponse[dto.ExchangeRateResponse]
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listExchangeRates(c *gin.Context) {
	var req dto.ListExchangeRatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	rates, total, err := h.rateService.ListExchangeRates(c.Request.Context(), req)
	if err != nil {
		logError(c, "Failed to list exchange rates", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list exchange rates"})
		return
	}

	items := make([]dto.ExchangeRateResponse, len(rates))
	for i := range rates {
		items[i] = dto.ToExchangeRateResponse(&rates[i])
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.ExchangeRateResponse]{Items: items, Total: total})
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Converts using the most recent rate effective on or before
// @Description asOf (now when omitted). Fails when no rate exists for the
// @Description exact pair.
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConvertResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "No applicable rate"
// @Security BearerAuth
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convert(c *gin.Context) {
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	amount := domain.MonetaryAmount{Amount: req.Amount, CurrencyCode: req.CurrencyCode}
	converted, err := h.conversionService.Convert(c.Request.Context(), amount, req.ToCode, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to convert amount", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert amount"})
		return
	}

	c.JSON(http.StatusOK, dto.ConvertResponse{Amount: converted, CurrencyCode: req.ToCode})
}
