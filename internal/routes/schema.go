package routes

import (
	"github.com/gin-gonic/gin"

	"schemacanvas/internal/handlers"
	"schemacanvas/internal/middlewares"
)

type SchemaRoutes struct {
	handler       *handlers.SchemaHandler
	exportHandler *handlers.ExportHandler
	importHandler *handlers.ImportHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler, exportHandler *handlers.ExportHandler, importHandler *handlers.ImportHandler) *SchemaRoutes {
	return &SchemaRoutes{
		handler:       handler,
		exportHandler: exportHandler,
		importHandler: importHandler,
	}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	// Routes that also serve public schemas and share-token collaborators.
	shared := router.Group("/schemas")
	shared.Use(middlewares.OptionalAuthenticate)
	{
		shared.GET("/public", r.handler.ListPublic)
		shared.GET("/:id", r.handler.Get)
		shared.GET("/:id/graph", r.handler.Graph)
		shared.PUT("/:id", r.handler.Update)
		shared.DELETE("/:id/edges", r.handler.RemoveEdge)
		shared.PUT("/:id/tables/:table/color", r.handler.RecolorTable)
		shared.POST("/:id/tables", r.handler.AddTableFromTemplate)
		shared.POST("/:id/export", r.exportHandler.ExportSchema)
		shared.GET("/:id/download", r.exportHandler.Download)
		shared.POST("/:id/import", r.importHandler.Import)
	}

	// Owner-only routes.
	owned := router.Group("/schemas")
	owned.Use(middlewares.Authenticate)
	{
		owned.POST("", r.handler.Create)
		owned.GET("", r.handler.ListMine)
		owned.DELETE("/:id", r.handler.Delete)
		owned.PUT("/:id/share", r.handler.UpdateShare)
		owned.POST("/:id/share/regenerate", r.handler.RegenerateShareToken)
	}

	router.GET("/shared/:token", r.handler.GetShared)
	router.GET("/templates", r.handler.Templates)
}
