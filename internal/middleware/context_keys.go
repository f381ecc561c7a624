package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/opsledger/ops_ledger_app/internal/core/domain"
)

const viewerCtxKey = contextKey("viewer")

// GetViewerFromContext retrieves the authenticated viewer from the request
// context. It returns the viewer and a boolean indicating if it was found.
func GetViewerFromContext(c *gin.Context) (domain.Viewer, bool) {
	viewer, ok := c.Request.Context().Value(viewerCtxKey).(domain.Viewer)
	return viewer, ok
}
