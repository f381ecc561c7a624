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

// salesHandler handles HTTP requests for the sales ledger.
type salesHandler struct {
	salesService portssvc.SalesSvcFacade
}

func newSalesHandler(ss portssvc.SalesSvcFacade) *salesHandler {
	return &salesHandler{salesService: ss}
}

// registerSalesRoutes registers routes for the sales ledger.
func registerSalesRoutes(rg *gin.RouterGroup, salesService portssvc.SalesSvcFacade) {
	h := newSalesHandler(salesService)

	sales := rg.Group("/sales")
	{
		sales.GET("/session", h.blankSession)
		sales.GET("", h.listSales)
		sales.POST("", h.saveSale)
		sales.PUT("/:id", h.updateSale)
		sales.DELETE("/:id", h.deleteSale)
		sales.GET("/export", h.exportSales)
		sales.GET("/stream", h.streamSales)
	}
}

// blankSession godoc
// @Summary Blank sale entry session
// @Description Returns one zeroed row per fixed-catalog product for a fresh entry screen.
// @Tags sales
// @Produce json
// @Success 200 {object} dto.SessionResponse
// @Security BearerAuth
// @Router /sales/session [get]
func (h *salesHandler) blankSession(c *gin.Context) {
	items := h.salesService.BuildBlankSession()
	c.JSON(http.StatusOK, dto.SessionResponse{Items: items, RunningTotal: items.RunningTotal()})
}

// listSales godoc
// @Summary List visible sale records
// @Description Returns the sale records the viewer may see, in timestamp order.
// @Tags sales
// @Produce json
// @Success 200 {array} dto.SaleResponse
// @Security BearerAuth
// @Router /sales [get]
func (h *salesHandler) listSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	records, err := h.salesService.ListSales(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "list sales", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListSaleResponse(records))
}

// saveSale godoc
// @Summary Save a sale
// @Description Validates and persists a per-visit sale, returning the record and the reset entry session.
// @Tags sales
// @Accept json
// @Produce json
// @Param sale body dto.SaveSaleRequest true "Sale rows"
// @Success 201 {object} dto.SaveSaleResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales [post]
func (h *salesHandler) saveSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.SaveSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	record, session, err := h.salesService.SaveSale(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "save sale", err)
		return
	}

	logger.Info("Sale saved", slog.String("sale_id", record.ID), slog.String("market", record.Market))
	c.JSON(http.StatusCreated, dto.SaveSaleResponse{Record: dto.ToSaleResponse(record), Session: session})
}

// updateSale godoc
// @Summary Edit a saved sale
// @Description Applies post-save item edits, recomputing the total as price times quantity. Admin or author only.
// @Tags sales
// @Accept json
// @Produce json
// @Param id path string true "Sale ID"
// @Param sale body dto.UpdateSaleRequest true "Edited rows"
// @Success 200 {object} dto.SaleResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [put]
func (h *salesHandler) updateSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateSale", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.salesService.UpdateSale(c.Request.Context(), viewer, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, "update sale", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(record))
}

// deleteSale godoc
// @Summary Delete a saved sale
// @Description Removes a record. Admin or author only.
// @Tags sales
// @Param id path string true "Sale ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sales/{id} [delete]
func (h *salesHandler) deleteSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	if err := h.salesService.DeleteSale(c.Request.Context(), viewer, c.Param("id")); err != nil {
		respondServiceError(c, logger, "delete sale", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportSales godoc
// @Summary Export visible sales as CSV
// @Tags sales
// @Produce text/csv
// @Security BearerAuth
// @Router /sales/export [get]
func (h *salesHandler) exportSales(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	rows, err := h.salesService.ExportRows(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "export sales", err)
		return
	}
	writeCSV(c, "sales.csv", rows)
}

// streamSales godoc
// @Summary Live sales snapshots
// @Description Pushes viewer-filtered collection snapshots over SSE.
// @Tags sales
// @Produce text/event-stream
// @Security BearerAuth
// @Router /sales/stream [get]
func (h *salesHandler) streamSales(c *gin.Context) {
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	streamSnapshots(c, func(onChange func([]domain.SaleRecord)) (store.Unsubscribe, error) {
		return h.salesService.SubscribeSales(c.Request.Context(), viewer, onChange)
	})
}
