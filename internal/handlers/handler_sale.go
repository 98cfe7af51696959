package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/middleware"
)

type saleHandler struct {
	saleService portssvc.SaleSvcFacade
}

func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade) {
	h := &saleHandler{saleService: saleService}

	sales := rg.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("/:id", h.getSaleByID)
		sales.PUT("/:id", h.updateSale)
		sales.DELETE("/:id", h.deleteSale)
	}

	rg.GET("/programs/:id/sales", h.listSalesByProgram)
}

// createSale godoc
// @Summary Record a sale
// @Description Creates a PENDING sale against a program.
// @Tags sales
// @Accept json
// @Produce json
// @Param sale body dto.CreateSaleRequest true "Sale details"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to create sale", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create sale"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSaleByID godoc
// @Summary Get a sale by ID
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [get]
func (h *saleHandler) getSaleByID(c *gin.Context) {
	sale, err := h.saleService.GetSaleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sale not found"})
			return
		}
		logError(c, "Failed to get sale", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve sale"})
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// listSalesByProgram godoc
// @Summary List a program's sales
// @Tags sales
// @Produce json
// @Param id path string true "Program ID"
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListResponse[dto.SaleResponse]
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs/{id}/sales [get]
func (h *saleHandler) listSalesByProgram(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	sales, total, err := h.saleService.ListSalesByProgram(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		logError(c, "Failed to list sales", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list sales"})
		return
	}

	items := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		items[i] = dto.ToSaleResponse(&sales[i])
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.SaleResponse]{Items: items, Total: total})
}

// updateSale godoc
// @Summary Update a sale
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param sale body dto.UpdateSaleRequest true "Fields to update"
// @Success 200 {object} dto.SaleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Sale already settled"
// @Security BearerAuth
// @Router /sales/{id} [put]
func (h *saleHandler) updateSale(c *gin.Context) {
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	sale, err := h.saleService.UpdateSale(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sale not found"})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			logError(c, "Failed to update sale", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update sale"})
		}
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// deleteSale godoc
// @Summary Delete a pending sale
// @Tags sales
// @Produce json
// @Param id path string true "Sale ID"
// @Success 204 {object} nil
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Sale already settled"
// @Security BearerAuth
// @Router /sales/{id} [delete]
func (h *saleHandler) deleteSale(c *gin.Context) {
	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.saleService.DeleteSale(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Sale not found"})
		case errors.Is(err, apperrors.ErrInvalidTransition):
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			logError(c, "Failed to delete sale", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete sale"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
