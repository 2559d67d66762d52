package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"schemacanvas/internal/exporter"
	"schemacanvas/internal/middlewares"
	"schemacanvas/internal/models"
	"schemacanvas/internal/responses"
	"schemacanvas/internal/services"
)

type ExportHandler struct {
	schemaService *services.SchemaService
	exportClient  *exporter.Client
}

func NewExportHandler(schemaService *services.SchemaService, exportClient *exporter.Client) *ExportHandler {
	return &ExportHandler{
		schemaService: schemaService,
		exportClient:  exportClient,
	}
}

// Export generates DDL for an inline schema payload without touching storage.
func (h *ExportHandler) Export(c *gin.Context) {
	var req struct {
		Data   models.SchemaData `json:"data"`
		Format string            `json:"format" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid export payload")
		return
	}

	sql, err := h.exportClient.Export(c.Request.Context(), req.Data, req.Format)
	if err != nil {
		h.failExport(c, err)
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"sql":    sql,
		"format": req.Format,
	}, "Schema exported successfully")
}

// ExportSchema generates DDL for a stored schema, honoring its access rules.
func (h *ExportHandler) ExportSchema(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", exporter.FormatPostgres)

	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.GetByID(c.Request.Context(), id, userID, hasUser, c.Query("share_token"))
	if err != nil {
		failSchema(c, err, "Could not load schema")
		return
	}

	sql, err := h.exportClient.Export(c.Request.Context(), schema.Data, format)
	if err != nil {
		h.failExport(c, err)
		return
	}

	responses.Success(c, http.StatusOK, gin.H{
		"sql":    sql,
		"format": format,
	}, "Schema exported successfully")
}

// Download streams the generated DDL as a file attachment.
func (h *ExportHandler) Download(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", exporter.FormatPostgres)

	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.GetByID(c.Request.Context(), id, userID, hasUser, c.Query("share_token"))
	if err != nil {
		failSchema(c, err, "Could not load schema")
		return
	}

	sql, err := h.exportClient.Export(c.Request.Context(), schema.Data, format)
	if err != nil {
		h.failExport(c, err)
		return
	}

	filename := fmt.Sprintf("%s.%s", schema.Name, exporter.FileExtension(format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/octet-stream", []byte(sql))
}

func (h *ExportHandler) failExport(c *gin.Context, err error) {
	if errors.Is(err, exporter.ErrUnsupportedFormat) {
		responses.Fail(c, http.StatusBadRequest, err, "Unsupported export format")
		return
	}
	responses.Fail(c, http.StatusBadGateway, err, "Export service unavailable")
}
