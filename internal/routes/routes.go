package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schemacanvas/internal/handlers"
)

func RegisterRoutes(router *gin.Engine, authHandler *handlers.AuthHandler, schemaHandler *handlers.SchemaHandler, exportHandler *handlers.ExportHandler, importHandler *handlers.ImportHandler) {
	api := router.Group("/api/v1")

	authRoutes := NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(api)

	schemaRoutes := NewSchemaRoutes(schemaHandler, exportHandler, importHandler)
	schemaRoutes.RegisterRoutes(api)

	exportRoutes := NewExportRoutes(exportHandler, importHandler)
	exportRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
