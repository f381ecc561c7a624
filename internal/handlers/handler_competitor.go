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

// competitorHandler handles HTTP requests for the competitor price tracker.
type competitorHandler struct {
	competitorService portssvc.CompetitorSvcFacade
}

func newCompetitorHandler(cs portssvc.CompetitorSvcFacade) *competitorHandler {
	return &competitorHandler{competitorService: cs}
}

// registerCompetitorRoutes registers routes for templates and posted reports.
func registerCompetitorRoutes(rg *gin.RouterGroup, competitorService portssvc.CompetitorSvcFacade) {
	h := newCompetitorHandler(competitorService)

	competitor := rg.Group("/competitor")
	{
		competitor.GET("/template", h.getTemplate)
		competitor.PUT("/template", h.putTemplate)
		competitor.POST("/template/items", h.upsertTemplateItem)
		competitor.DELETE("/template/items", h.deleteTemplateItem)

		competitor.POST("/reports", h.postReport)
		competitor.GET("/reports", h.listReports)
		competitor.PUT("/reports/:id/prices", h.updateReportPrices)
		competitor.DELETE("/reports/:id", h.deleteReport)
		competitor.GET("/reports/export", h.exportReports)
		competitor.GET("/reports/stream", h.streamReports)
	}
}

// getTemplate godoc
// @Summary Get the viewer's working template
// @Description Returns the viewer's template for a (market, company) pair, empty when none exists yet.
// @Tags competitor
// @Produce json
// @Param market query string true "Market name"
// @Param company query string true "Company name"
// @Success 200 {object} dto.TemplateResponse
// @Security BearerAuth
// @Router /competitor/template [get]
func (h *competitorHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	market, company := c.Query("market"), c.Query("company")
	if market == "" || company == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "market and company query parameters are required"})
		return
	}

	tpl, err := h.competitorService.GetTemplate(c.Request.Context(), viewer, market, company)
	if err != nil {
		respondServiceError(c, logger, "get template", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tpl))
}

// putTemplate godoc
// @Summary Overwrite the viewer's template
// @Tags competitor
// @Accept json
// @Produce json
// @Param template body dto.PutTemplateRequest true "Full row list"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/template [put]
func (h *competitorHandler) putTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.PutTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PutTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	tpl, err := h.competitorService.PutTemplateItems(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "put template", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tpl))
}

// upsertTemplateItem godoc
// @Summary Add or replace one template row
// @Description A nil index appends; an in-range index replaces that row.
// @Tags competitor
// @Accept json
// @Produce json
// @Param item body dto.UpsertTemplateItemRequest true "Row and position"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/template/items [post]
func (h *competitorHandler) upsertTemplateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.UpsertTemplateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpsertTemplateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	tpl, err := h.competitorService.UpsertTemplateItem(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "upsert template item", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tpl))
}

// deleteTemplateItem godoc
// @Summary Remove one template row by position
// @Tags competitor
// @Accept json
// @Produce json
// @Param item body dto.DeleteTemplateItemRequest true "Row position"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/template/items [delete]
func (h *competitorHandler) deleteTemplateItem(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.DeleteTemplateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteTemplateItem", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	tpl, err := h.competitorService.DeleteTemplateItem(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "delete template item", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tpl))
}

// postReport godoc
// @Summary Post a report from the viewer's template
// @Description Snapshots the template for the pair, keeping only rows with a name and a positive price.
// @Tags competitor
// @Accept json
// @Produce json
// @Param report body dto.PostReportRequest true "Template pair"
// @Success 201 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/reports [post]
func (h *competitorHandler) postReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.PostReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.competitorService.PostReport(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "post report", err)
		return
	}

	logger.Info("Competitor report posted", slog.String("report_id", report.ID), slog.String("market", report.Market), slog.String("company", report.Company))
	c.JSON(http.StatusCreated, dto.ToReportResponse(report))
}

// listReports godoc
// @Summary List posted reports
// @Description Returns posted reports across all employees, optionally narrowed by market and/or company.
// @Tags competitor
// @Produce json
// @Param market query string false "Market filter"
// @Param company query string false "Company filter"
// @Success 200 {array} dto.ReportResponse
// @Security BearerAuth
// @Router /competitor/reports [get]
func (h *competitorHandler) listReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	reports, err := h.competitorService.ListReports(c.Request.Context(), c.Query("market"), c.Query("company"))
	if err != nil {
		respondServiceError(c, logger, "list reports", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListReportResponse(reports))
}

// updateReportPrices godoc
// @Summary Edit prices on a posted report
// @Description Replaces row prices by position. Names and categories are fixed after posting. Admin or author only.
// @Tags competitor
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param prices body dto.UpdateReportPricesRequest true "Price edits"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/reports/{id}/prices [put]
func (h *competitorHandler) updateReportPrices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.UpdateReportPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateReportPrices", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.competitorService.UpdateReportPrices(c.Request.Context(), viewer, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, "update report prices", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// deleteReport godoc
// @Summary Delete a posted report
// @Tags competitor
// @Param id path string true "Report ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /competitor/reports/{id} [delete]
func (h *competitorHandler) deleteReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	if err := h.competitorService.DeleteReport(c.Request.Context(), viewer, c.Param("id")); err != nil {
		respondServiceError(c, logger, "delete report", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportReports godoc
// @Summary Export posted reports as CSV
// @Tags competitor
// @Produce text/csv
// @Param market query string false "Market filter"
// @Param company query string false "Company filter"
// @Security BearerAuth
// @Router /competitor/reports/export [get]
func (h *competitorHandler) exportReports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.competitorService.ExportRows(c.Request.Context(), c.Query("market"), c.Query("company"))
	if err != nil {
		respondServiceError(c, logger, "export reports", err)
		return
	}
	writeCSV(c, "competitor_reports.csv", rows)
}

// streamReports godoc
// @Summary Live report snapshots
// @Tags competitor
// @Produce text/event-stream
// @Security BearerAuth
// @Router /competitor/reports/stream [get]
func (h *competitorHandler) streamReports(c *gin.Context) {
	if _, ok := mustViewer(c); !ok {
		return
	}

	streamSnapshots(c, func(onChange func([]domain.CompetitorReport)) (store.Unsubscribe, error) {
		return h.competitorService.SubscribeReports(c.Request.Context(), onChange)
	})
}
