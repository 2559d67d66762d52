package routes

import (
	"github.com/gin-gonic/gin"

	"schemacanvas/internal/handlers"
)

type ExportRoutes struct {
	exportHandler *handlers.ExportHandler
	importHandler *handlers.ImportHandler
}

func NewExportRoutes(exportHandler *handlers.ExportHandler, importHandler *handlers.ImportHandler) *ExportRoutes {
	return &ExportRoutes{
		exportHandler: exportHandler,
		importHandler: importHandler,
	}
}

func (r *ExportRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/export", r.exportHandler.Export)
	router.POST("/introspect", r.importHandler.Introspect)
}
