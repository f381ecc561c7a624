package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
	"github.com/opsledger/ops_ledger_app/internal/middleware"
)

// streamSnapshots serves collection snapshots over SSE until the client
// disconnects. Snapshots arriving faster than the client reads are coalesced
// to the newest one.
func streamSnapshots[T any](c *gin.Context, subscribe func(onChange func(T)) (store.Unsubscribe, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	ch := make(chan T, 1)
	unsubscribe, err := subscribe(func(snapshot T) {
		// The subscription delivers from a single goroutine, so the
		// drain-then-send below never races with itself.
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	})
	if err != nil {
		respondServiceError(c, logger, "subscribe", err)
		return
	}
	defer unsubscribe()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot := <-ch:
			c.SSEvent("snapshot", snapshot)
			return true
		case <-ctx.Done():
			return false
		}
	})
}

// writeCSV streams flat export rows as a CSV attachment.
func writeCSV(c *gin.Context, filename string, rows [][]string) {
	c.Writer.Header().Set("Content-Type", "text/csv")
	c.Writer.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}
