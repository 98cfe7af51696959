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

type programHandler struct {
	programService portssvc.ProgramSvcFacade
	reportService  portssvc.ReportSvcFacade
}

func registerProgramRoutes(rg *gin.RouterGroup, programService portssvc.ProgramSvcFacade, reportService portssvc.ReportSvcFacade) {
	h := &programHandler{programService: programService, reportService: reportService}

	programs := rg.Group("/programs")
	{
		programs.POST("", h.createProgram)
		programs.GET("", h.listPrograms)
		programs.GET("/:id", h.getProgramByID)
		programs.PUT("/:id", h.updateProgram)
		programs.DELETE("/:id", h.deleteProgram)
		programs.GET("/:id/summary", h.programSummary)
	}
}

// createProgram godoc
// @Summary Create a program
// @Tags programs
// @Accept json
// @Produce json
// @Param program body dto.CreateProgramRequest true "Program details"
// @Success 201 {object} dto.ProgramResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs [post]
func (h *programHandler) createProgram(c *gin.Context) {
	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	program, err := h.programService.CreateProgram(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to create program", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create program"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToProgramResponse(program))
}

// listPrograms godoc
// @Summary List programs
// @Tags programs
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.ListResponse[dto.ProgramResponse]
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs [get]
func (h *programHandler) listPrograms(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	programs, total, err := h.programService.ListPrograms(c.Request.Context(), limit, offset)
	if err != nil {
		logError(c, "Failed to list programs", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list programs"})
		return
	}

	items := make([]dto.ProgramResponse, len(programs))
	for i := range programs {
		items[i] = dto.ToProgramResponse(&programs[i])
	}
	c.JSON(http.StatusOK, dto.ListResponse[dto.ProgramResponse]{Items: items, Total: total})
}

// getProgramByID godoc
// @Summary Get a program by ID
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} dto.ProgramResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs/{id} [get]
func (h *programHandler) getProgramByID(c *gin.Context) {
	program, err := h.programService.GetProgramByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Program not found"})
			return
		}
		logError(c, "Failed to get program", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve program"})
		return
	}
	c.JSON(http.StatusOK, dto.ToProgramResponse(program))
}

// updateProgram godoc
// @Summary Update a program
// @Tags programs
// @Accept json
// @Produce json
// @Param id path string true "Program ID"
// @Param program body dto.UpdateProgramRequest true "Fields to update"
// @Success 200 {object} dto.ProgramResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs/{id} [put]
func (h *programHandler) updateProgram(c *gin.Context) {
	updaterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	program, err := h.programService.UpdateProgram(c.Request.Context(), c.Param("id"), req, updaterUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Program not found"})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to update program", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update program"})
		return
	}
	c.JSON(http.StatusOK, dto.ToProgramResponse(program))
}

// deleteProgram godoc
// @Summary Delete a program
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 204 {object} nil
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /programs/{id} [delete]
func (h *programHandler) deleteProgram(c *gin.Context) {
	deleterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.programService.DeleteProgram(c.Request.Context(), c.Param("id"), deleterUserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Program not found"})
			return
		}
		logError(c, "Failed to delete program", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete program"})
		return
	}
	c.Status(http.StatusNoContent)
}

// programSummary godoc
// @Summary Program financial summary
// @Description Reports total paid income, approved expenses and net over a
// @Description date range, converted to the base currency.
// @Tags programs
// @Produce json
// @Param id path string true "Program ID"
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} dto.ProgramSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate"
// @Security BearerAuth
// @Router /programs/{id}/summary [get]
func (h *programHandler) programSummary(c *gin.Context) {
	var req dto.ProgramSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	summary, err := h.reportService.ProgramSummary(c.Request.Context(), c.Param("id"), req.From, req.To)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Program not found"})
			return
		}
		if errors.Is(err, apperrors.ErrRateNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		logError(c, "Failed to build program summary", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build program summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
