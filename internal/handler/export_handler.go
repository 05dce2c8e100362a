package handler

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/unmdp-fi/campus-records-api/pkg/response"
)

type exportService interface {
	Render(ctx context.Context, entity, format string) ([]byte, string, error)
}

// ExportHandler serves full-roster CSV/PDF downloads.
type ExportHandler struct {
	exports exportService
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(exports exportService) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Download godoc
// @Summary Export an entity roster as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Success 200
// @Router /{entity}/export [get]
func (h *ExportHandler) Download(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")
		payload, contentType, err := h.exports.Render(c.Request.Context(), entity, format)
		if err != nil {
			response.Error(c, err)
			return
		}
		filename := fmt.Sprintf("%s.%s", entity, format)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		c.Data(200, contentType, payload)
	}
}
