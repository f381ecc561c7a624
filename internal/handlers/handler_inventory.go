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

// inventoryHandler handles HTTP requests for the inventory ledger.
type inventoryHandler struct {
	inventoryService portssvc.InventorySvcFacade
}

func newInventoryHandler(is portssvc.InventorySvcFacade) *inventoryHandler {
	return &inventoryHandler{inventoryService: is}
}

// registerInventoryRoutes registers routes for the inventory ledger.
func registerInventoryRoutes(rg *gin.RouterGroup, inventoryService portssvc.InventorySvcFacade) {
	h := newInventoryHandler(inventoryService)

	inventory := rg.Group("/inventory")
	{
		inventory.GET("/session", h.blankSession)
		inventory.GET("", h.listInventory)
		inventory.POST("", h.saveInventory)
		inventory.PUT("/:id", h.updateInventory)
		inventory.DELETE("/:id", h.deleteInventory)
		inventory.GET("/export", h.exportInventory)
		inventory.GET("/stream", h.streamInventory)
	}
}

// blankSession godoc
// @Summary Blank count session
// @Description Returns one zeroed row per fixed-catalog product for a fresh count screen.
// @Tags inventory
// @Produce json
// @Success 200 {array} domain.InventoryItem
// @Security BearerAuth
// @Router /inventory/session [get]
func (h *inventoryHandler) blankSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventoryService.BuildBlankSession())
}

// listInventory godoc
// @Summary List visible count records
// @Tags inventory
// @Produce json
// @Success 200 {array} dto.InventoryResponse
// @Security BearerAuth
// @Router /inventory [get]
func (h *inventoryHandler) listInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	records, err := h.inventoryService.ListInventory(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "list inventory", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListInventoryResponse(records))
}

// saveInventory godoc
// @Summary Save a stock count
// @Description Persists a per-visit count, dropping zero-quantity rows. Returns the record and the reset session.
// @Tags inventory
// @Accept json
// @Produce json
// @Param count body dto.SaveInventoryRequest true "Counted rows"
// @Success 201 {object} dto.SaveInventoryResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /inventory [post]
func (h *inventoryHandler) saveInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.SaveInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SaveInventory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	record, session, err := h.inventoryService.SaveInventory(c.Request.Context(), viewer, req)
	if err != nil {
		respondServiceError(c, logger, "save inventory", err)
		return
	}

	logger.Info("Inventory count saved", slog.String("record_id", record.ID), slog.String("market", record.Market))
	c.JSON(http.StatusCreated, dto.SaveInventoryResponse{Record: dto.ToInventoryResponse(record), Session: session})
}

// updateInventory godoc
// @Summary Edit a saved count
// @Description Applies quantity-only edits, matched by row position. Admin or author only.
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param count body dto.UpdateInventoryRequest true "New quantities"
// @Success 200 {object} dto.InventoryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [put]
func (h *inventoryHandler) updateInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	var req dto.UpdateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateInventory", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	record, err := h.inventoryService.UpdateInventory(c.Request.Context(), viewer, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, logger, "update inventory", err)
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(record))
}

// deleteInventory godoc
// @Summary Delete a saved count
// @Tags inventory
// @Param id path string true "Record ID"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [delete]
func (h *inventoryHandler) deleteInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	if err := h.inventoryService.DeleteInventory(c.Request.Context(), viewer, c.Param("id")); err != nil {
		respondServiceError(c, logger, "delete inventory", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// exportInventory godoc
// @Summary Export visible counts as CSV
// @Tags inventory
// @Produce text/csv
// @Security BearerAuth
// @Router /inventory/export [get]
func (h *inventoryHandler) exportInventory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	rows, err := h.inventoryService.ExportRows(c.Request.Context(), viewer)
	if err != nil {
		respondServiceError(c, logger, "export inventory", err)
		return
	}
	writeCSV(c, "inventory.csv", rows)
}

// streamInventory godoc
// @Summary Live count snapshots
// @Tags inventory
// @Produce text/event-stream
// @Security BearerAuth
// @Router /inventory/stream [get]
func (h *inventoryHandler) streamInventory(c *gin.Context) {
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}

	streamSnapshots(c, func(onChange func([]domain.InventoryRecord)) (store.Unsubscribe, error) {
		return h.inventoryService.SubscribeInventory(c.Request.Context(), viewer, onChange)
	})
}
