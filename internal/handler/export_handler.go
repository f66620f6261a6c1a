package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-gradebook/internal/service"
	appErrors "github.com/noah-isme/sma-gradebook/pkg/errors"
	"github.com/noah-isme/sma-gradebook/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, contextID string, format service.ExportFormat) (*service.ExportFile, error)
}

// ExportHandler serves class result downloads.
type ExportHandler struct {
	exports exportService
	enabled bool
}

// NewExportHandler constructs handler. A disabled handler answers FEATURE_DISABLED.
func NewExportHandler(exports exportService, enabled bool) *ExportHandler {
	return &ExportHandler{exports: exports, enabled: enabled}
}

// Register mounts the export route on rg.
func (h *ExportHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/contexts/:contextId/export", h.Export)
}

// Export godoc
// @Summary Download the class results table
// @Tags Results
// @Produce octet-stream
// @Param contextId path string true "Subject/class context"
// @Param format query string false "csv (default), pdf or xlsx"
// @Success 200 {file} file
// @Router /contexts/{contextId}/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	if !h.enabled || h.exports == nil {
		response.Error(c, appErrors.ErrFeatureDisabled)
		return
	}
	file, err := h.exports.Export(c.Request.Context(), c.Param("contextId"), service.ExportFormat(c.Query("format")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Content)
}
