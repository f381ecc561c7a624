package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// leaveHandler handles HTTP requests for the leave ledger.
type leaveHandler struct {
	leaveService portssvc.LeaveSvcFacade
}

func newLeaveHandler(ls portssvc.LeaveSvcFacade) *leaveHandler {
	return &leaveHandler{leaveService: ls}
}

// registerLeaveRoutes registers routes for balances, grants and history.
func registerLeaveRoutes(rg *gin.RouterGroup, leaveService portssvc.LeaveSvcFacade) {
	h := newLeaveHandler(leaveService)

	leave := rg.Group("/leave")
	{
		leave.GET("/balances", h.listBalances)
		leave.PUT("/balances", h.setBalance)
		leave.DELETE("/balances/:employeeID", h.deleteBalance)
		leave.POST("/grants", h.grantLeave)
		leave.GET("/history", h.listHistory)
		leave.GET("/export", h.exportLeave)
		leave.GET("/balances/stream", h.streamBalances)
	}
}

// listBalances godoc
// @Summary List visible leave balances
// @Description Returns the viewer's own balance row, or every row for admins.
// @Tags leave
// @Produce json
// @Success 200 {array} dto.BalanceResponse
// @Security BearerAuth
// @Router /leave/balances [get]
func (h *leaveHandler) listBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	balances, err := h.leaveService.ListBalances(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "list balances", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListBalanceResponse(balances))
}

// grantLeave godoc
// @Summary Grant leave
// @Description Debits an employee's balance and appends the matching history entry atomically. Overdrafting annual or casual leave returns 409 until resubmitted with confirmOverdraft.
// @Tags leave
// @Accept json
// @Produce json
// @Param grant body dto.GrantLeaveRequest true "Grant details"
// @Success 201 {object} dto.GrantLeaveResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} map[string]interface{} "Overdraft confirmation required"
// @Security BearerAuth
// @Router /leave/grants [post]
func (h *leaveHandler) grantLeave(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.GrantLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GrantLeave", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	balance, entry, err := h.leaveService.GrantLeave(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "grant leave", err)
		return
	}

	logger.Info("Leave granted",
		slog.String("employee_id", entry.EmployeeID),
		slog.String("leave_type", string(entry.Type)),
		slog.String("days", entry.Days.String()))
	c.JSON(http.StatusCreated, dto.GrantLeaveResponse{
		Balance: dto.ToBalanceResponse(balance),
		Entry:   dto.ToHistoryResponse(entry),
	})
}

// setBalance godoc
// @Summary Overwrite a balance record
// @Description Directly sets an employee's counters without producing history. Admin only.
// @Tags leave
// @Accept json
// @Produce json
// @Param balance body dto.SetBalanceRequest true "New counters"
// @Success 200 {object} dto.BalanceResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave/balances [put]
func (h *leaveHandler) setBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	balance, err := h.leaveService.SetBalance(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "set balance", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(balance))
}

// deleteBalance godoc
// @Summary Delete a balance record
// @Description Removes the record, returning the employee to the undefined state. Admin only.
// @Tags leave
// @Param employeeID path string true "Employee ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /leave/balances/{employeeID} [delete]
func (h *leaveHandler) deleteBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	if err := h.leaveService.DeleteBalance(c.Request.Context(), viewer, c.Param("employeeID")); err != nil {
		respondServiceError(c, logger, "delete balance", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// listHistory godoc
// @Summary List visible debit history
// @Tags leave
// @Produce json
// @Success 200 {array} dto.HistoryResponse
// @Security BearerAuth
// @Router /leave/history [get]
func (h *leaveHandler) listHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	entries, err := h.leaveService.ListHistory(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "list history", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListHistoryResponse(entries))
}

// exportLeave godoc
// @Summary Export visible balances and history as CSV
// @Tags leave
// @Produce text/csv
// @Security BearerAuth
// @Router /leave/export [get]
func (h *leaveHandler) exportLeave(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	rows, err := h.leaveService.ExportRows(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "export leave", err)
		return
	}
	writeCSV(c, "leave.csv", rows)
}

// streamBalances godoc
// @Summary Live balance snapshots
// @Tags leave
// @Produce text/event-stream
// @Security BearerAuth
// @Router /leave/balances/stream [get]
func (h *leaveHandler) streamBalances(c *gin.Context) {
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	streamSnapshots(c, func(onChange func([]domain.LeaveBalance)) (store.Unsubscribe, error) {
		return h.leaveService.SubscribeBalances(c.Request.Context(), viewer, onChange)
	})
}
