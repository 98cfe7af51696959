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

type budgetHandler struct {
	budgetService portssvc.BudgetSvcFacade
}

func registerBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvcFacade) {
	h := &budgetHandler{budgetService: budgetService}

	budgets := rg.Group("/budgets")
	{
		budgets.POST("", h.createBudget)
		budgets.GET("/:id", h.getBudgetByID)
		budgets.PUT("/:id", h.updateBudget)
		budgets.POST("/:id/transition", h.transitionBudget)
		budgets.DELETE("/:id", h.deleteBudget)
		budgets.GET("/:id/status", h.getBudgetStatus)
	}

	rg.GET("/programs/:id/budgets", h.listBudgetsByProgram)
}

// transitionRequest asks for a budget state change.
type transitionRequest struct {
	State string `json:"state" binding:"required,oneof=APPROVED ACTIVE CLOSED"`
}

// createBudget godoc
// @Summary Create a draft budget window
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body dto.CreateBudgetRequest true "Budget details"
// @Success 201 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets [post]
func (h *budgetHandler) createBudget(c *gin.Context) {
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.CreateBudget(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrNegativeBudget) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to create budget", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create budget"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToBudgetResponse(budget))
}

// getBudgetByID godoc
// @Summary Get a budget by ID
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 200 {object} dto.BudgetResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *budgetHandler) getBudgetByID(c *gin.Context) {
	budget, err := h.budgetService.GetBudgetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Budget not found"})
			return
		}
		logError(c, "Failed to get budget", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve budget"})
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// listBudgetsByProgram godoc
// @Summary List a program's budget windows
// @Description With includeStatus=true each budget carries its derived
// @Description metrics, computed the same way as the status endpoint.
// @Tags budgets
// @Produce json
// @Param id path string true "Program ID"
// @Param includeStatus query bool false "Embed derived metrics per budget"
// @Success 200 {array} dto.BudgetStatusResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs/{id}/budgets [get]
func (h *budgetHandler) listBudgetsByProgram(c *gin.Context) {
	budgets, err := h.budgetService.ListBudgetsByProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		logError(c, "Failed to list budgets", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list budgets"})
		return
	}

	if c.Query("includeStatus") == "true" {
		asOf := time.Now().UTC()
		responses := make([]dto.BudgetStatusResponse, len(budgets))
		for i := range budgets {
			_, metrics, err := h.budgetService.GetBudgetStatus(c.Request.Context(), budgets[i].BudgetID, asOf)
			if err != nil {
				if errors.Is(err, apperrors.ErrRateNotFound) {
					c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
					return
				}
				logError(c, "Failed to compute budget status", err)
				c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to compute budget status"})
				return
			}
			responses[i] = dto.BudgetStatusResponse{
				BudgetResponse: dto.ToBudgetResponse(&budgets[i]),
				Metrics:        *metrics,
				AsOf:           asOf,
			}
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	responses := make([]dto.BudgetResponse, len(budgets))
	for i := range budgets {
		responses[i] = dto.ToBudgetResponse(&budgets[i])
	}
	c.JSON(http.StatusOK, responses)
}

// updateBudget godoc
// @Summary Update a draft budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param budget body dto.UpdateBudgetRequest true "Fields to update"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Budget not editable in its state"
// @Security BearerAuth
// @Router /budgets/{id} [put]
func (h *budgetHandler) updateBudget(c *gin.Context) {
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.UpdateBudget(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		h.writeBudgetError(c, err, "Failed to update budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// transitionBudget godoc
// @Summary Advance a budget through its lifecycle
// @Description Moves the budget along DRAFT, APPROVED, ACTIVE, CLOSED. Any
// @Description other jump is rejected.
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID"
// @Param transition body transitionRequest true "Target state"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Transition not allowed"
// @Security BearerAuth
// @Router /budgets/{id}/transition [post]
func (h *budgetHandler) transitionBudget(c *gin.Context) {
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	budget, err := h.budgetService.TransitionBudget(c.Request.Context(), c.Param("id"), domain.BudgetState(req.State), updaterUserID)
	if err != nil {
		h.writeBudgetError(c, err, "Failed to transition budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(budget))
}

// deleteBudget godoc
// @Summary Delete a draft budget
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Success 204 {object} nil
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Only drafts can be deleted"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *budgetHandler) deleteBudget(c *gin.Context) {
	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.budgetService.DeleteBudget(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		h.writeBudgetError(c, err, "Failed to delete budget")
		return
	}
	c.Status(http.StatusNoContent)
}

// getBudgetStatus godoc
// @Summary Budget status and alert level
// @Description Aggregates the window's approved expenses and paid sales into
// @Description the budget currency and reports utilization, elapsed time and
// @Description the alert level.
// @Tags budgets
// @Produce json
// @Param id path string true "Budget ID"
// @Param asOf query string false "Evaluation date (YYYY-MM-DD), defaults to now"
// @Success 200 {object} dto.BudgetStatusResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate"
// @Security BearerAuth
// @Router /budgets/{id}/status [get]
func (h *budgetHandler) getBudgetStatus(c *gin.Context) {
	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid asOf date, expected YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	budget, metrics, err := h.budgetService.GetBudgetStatus(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrRateNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		h.writeBudgetError(c, err, "Failed to compute budget status")
		return
	}

	c.JSON(http.StatusOK, dto.BudgetStatusResponse{
		BudgetResponse: dto.ToBudgetResponse(budget),
		Metrics:        *metrics,
		AsOf:           asOf,
	})
}

func (h *budgetHandler) writeBudgetError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Budget not found"})
	case errors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrNegativeBudget), errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		logError(c, logMsg, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: logMsg})
	}
}
