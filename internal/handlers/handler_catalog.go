package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portsrepo "github.com/opsledger/ops_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/opsledger/ops_ledger_app/internal/core/ports/services"
	"github.com/opsledger/ops_ledger_app/internal/dto"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// catalogHandler handles HTTP requests for the fixed product catalogs and
// the editable market/company name lists.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newCatalogHandler(cs portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{catalogService: cs}
}

// registerCatalogRoutes registers routes for catalog resolution and edits.
func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade) {
	h := newCatalogHandler(catalogService)

	catalogs := rg.Group("/catalogs")
	{
		catalogs.GET("/products", h.listProducts)
		catalogs.GET("/:kind", h.listEntries)
		catalogs.POST("/:kind", h.addEntry)
		catalogs.PUT("/:kind/:key", h.renameEntry)
		catalogs.DELETE("/:kind/:key", h.deleteEntry)
	}
}

// catalogKind resolves the path parameter to a collection, or aborts with
// 400 for anything but markets/companies.
func catalogKind(c *gin.Context) (portsrepo.CatalogKind, bool) {
	kind := portsrepo.CatalogKind(c.Param("kind"))
	if kind != portsrepo.CatalogMarkets && kind != portsrepo.CatalogCompanies {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "catalog kind must be markets or companies"})
		return "", false
	}
	return kind, true
}

// listProducts godoc
// @Summary Compiled-in product catalog
// @Description Returns the fixed category to product-name lists used to build blank sessions.
// @Tags catalogs
// @Produce json
// @Success 200 {object} map[string][]string
// @Security BearerAuth
// @Router /catalogs/products [get]
func (h *catalogHandler) listProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogService.ProductCatalog())
}

// listEntries godoc
// @Summary List a name collection
// @Description Returns the markets or companies list, seeding it from the compiled-in fallback when empty.
// @Tags catalogs
// @Produce json
// @Param kind path string true "markets or companies"
// @Success 200 {array} domain.CatalogEntry
// @Security BearerAuth
// @Router /catalogs/{kind} [get]
func (h *catalogHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	entries, err := h.catalogService.ListEntries(c.Request.Context(), kind)
	if err != nil {
		respondServiceError(c, logger, "list catalog entries", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// addEntry godoc
// @Summary Append a name to a collection
// @Description Admin only.
// @Tags catalogs
// @Accept json
// @Produce json
// @Param kind path string true "markets or companies"
// @Param entry body dto.CatalogEntryRequest true "Name"
// @Success 201 {object} domain.CatalogEntry
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogs/{kind} [post]
func (h *catalogHandler) addEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	var req dto.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	entry, err := h.catalogService.AddEntry(c.Request.Context(), viewer, kind, req)
	if err != nil {
		respondServiceError(c, logger, "add catalog entry", err)
		return
	}

	logger.Info("Catalog entry added", slog.String("kind", string(kind)), slog.String("name", req.Name))
	c.JSON(http.StatusCreated, entry)
}

// renameEntry godoc
// @Summary Rename one entry in place
// @Description Admin only.
// @Tags catalogs
// @Accept json
// @Param kind path string true "markets or companies"
// @Param key path string true "Entry key"
// @Param entry body dto.CatalogEntryRequest true "New name"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogs/{kind}/{key} [put]
func (h *catalogHandler) renameEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	var req dto.CatalogEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.catalogService.RenameEntry(c.Request.Context(), viewer, kind, c.Param("key"), req); err != nil {
		respondServiceError(c, logger, "rename catalog entry", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteEntry godoc
// @Summary Remove one entry
// @Description Admin only. Sibling entries are untouched.
// @Tags catalogs
// @Param kind path string true "markets or companies"
// @Param key path string true "Entry key"
// @Success 204 "No Content"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /catalogs/{kind}/{key} [delete]
func (h *catalogHandler) deleteEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	viewer, ok := mustViewer(c)
	if !ok {
		return
	}
	kind, ok := catalogKind(c)
	if !ok {
		return
	}

	if err := h.catalogService.DeleteEntry(c.Request.Context(), viewer, kind, c.Param("key")); err != nil {
		respondServiceError(c, logger, "delete catalog entry", err)
		return
	}
	c.Status(http.StatusNoContent)
}
