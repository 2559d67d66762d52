package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemacanvas/internal/importer"
	"schemacanvas/internal/introspect"
	"schemacanvas/internal/middlewares"
	"schemacanvas/internal/models"
	"schemacanvas/internal/responses"
	"schemacanvas/internal/services"
)

type ImportHandler struct {
	schemaService *services.SchemaService
}

func NewImportHandler(schemaService *services.SchemaService) *ImportHandler {
	return &ImportHandler{schemaService: schemaService}
}

// Import replaces a schema's tables with a parsed JSON document. A parse
// failure leaves the stored schema untouched.
func (h *ImportHandler) Import(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Could not read request body")
		return
	}

	data, err := importer.Parse(body)
	if err != nil {
		if errors.Is(err, importer.ErrParse) {
			responses.Fail(c, http.StatusBadRequest, err, "Invalid schema document")
			return
		}
		responses.Fail(c, http.StatusInternalServerError, err, "Could not import schema")
		return
	}

	h.persistImport(c, id, data)
}

// Introspect connects to a live PostgreSQL database and returns its schema as
// an importable document. Nothing is persisted.
func (h *ImportHandler) Introspect(c *gin.Context) {
	var req struct {
		DSN    string `json:"dsn" binding:"required"`
		Schema string `json:"schema"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid introspection payload")
		return
	}
	if req.Schema == "" {
		req.Schema = "public"
	}

	extractor, err := introspect.Connect(c.Request.Context(), req.DSN)
	if err != nil {
		responses.Fail(c, http.StatusBadGateway, err, "Could not connect to database")
		return
	}
	defer extractor.Close()

	data, err := extractor.Extract(c.Request.Context(), req.Schema)
	if err != nil {
		responses.Fail(c, http.StatusBadGateway, err, "Could not introspect database")
		return
	}

	responses.Success(c, http.StatusOK, data, "Database introspected successfully")
}

func (h *ImportHandler) persistImport(c *gin.Context, id uuid.UUID, data models.SchemaData) {
	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.Update(c.Request.Context(), id, userID, hasUser, c.Query("share_token"),
		services.UpdateSchemaRequest{Data: &data})
	if err != nil {
		failSchema(c, err, "Could not save imported schema")
		return
	}
	responses.Success(c, http.StatusOK, schema, "Schema imported successfully")
}
