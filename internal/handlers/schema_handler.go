package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemacanvas/internal/editor"
	"schemacanvas/internal/graph"
	"schemacanvas/internal/middlewares"
	"schemacanvas/internal/models"
	"schemacanvas/internal/responses"
	"schemacanvas/internal/services"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
}

func NewSchemaHandler(schemaService *services.SchemaService) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService}
}

// failSchema maps service errors onto HTTP statuses.
func failSchema(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrSchemaNotFound):
		responses.Fail(c, http.StatusNotFound, err, message)
	case errors.Is(err, services.ErrForbidden):
		responses.Fail(c, http.StatusForbidden, err, message)
	case errors.Is(err, services.ErrInvalidAccess), errors.Is(err, services.ErrNameRequired):
		responses.Fail(c, http.StatusBadRequest, err, message)
	default:
		responses.Fail(c, http.StatusInternalServerError, err, message)
	}
}

func schemaID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid schema ID format")
		return uuid.Nil, false
	}
	return id, true
}

func (h *SchemaHandler) Create(c *gin.Context) {
	userID, ok := middlewares.CurrentUser(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req struct {
		Name     string            `json:"name" binding:"required"`
		Data     models.SchemaData `json:"data"`
		IsPublic bool              `json:"is_public"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid schema payload")
		return
	}

	schema, err := h.schemaService.Create(c.Request.Context(), userID, req.Name, req.Data, req.IsPublic)
	if err != nil {
		failSchema(c, err, "Could not create schema")
		return
	}

	responses.Success(c, http.StatusCreated, schema, "Schema created successfully")
}

func (h *SchemaHandler) ListMine(c *gin.Context) {
	userID, ok := middlewares.CurrentUser(c)
	if !ok {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	schemas, err := h.schemaService.ListMine(c.Request.Context(), userID)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not list schemas")
		return
	}

	responses.Success(c, http.StatusOK, schemas, "")
}

func (h *SchemaHandler) ListPublic(c *gin.Context) {
	schemas, err := h.schemaService.ListPublic(c.Request.Context())
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Could not list public schemas")
		return
	}

	responses.Success(c, http.StatusOK, schemas, "")
}

func (h *SchemaHandler) Get(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.GetByID(c.Request.Context(), id, userID, hasUser, c.Query("share_token"))
	if err != nil {
		failSchema(c, err, "Could not load schema")
		return
	}

	responses.Success(c, http.StatusOK, schema, "")
}

func (h *SchemaHandler) GetShared(c *gin.Context) {
	schema, err := h.schemaService.GetByShareToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		failSchema(c, err, "Could not load shared schema")
		return
	}

	responses.Success(c, http.StatusOK, schema, "")
}

func (h *SchemaHandler) Update(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	var req services.UpdateSchemaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid schema payload")
		return
	}

	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.Update(c.Request.Context(), id, userID, hasUser, c.Query("share_token"), req)
	if err != nil {
		failSchema(c, err, "Could not update schema")
		return
	}

	responses.Success(c, http.StatusOK, schema, "Schema updated successfully")
}

func (h *SchemaHandler) Delete(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	userID, okUser := middlewares.CurrentUser(c)
	if !okUser {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	if err := h.schemaService.Delete(c.Request.Context(), id, userID); err != nil {
		failSchema(c, err, "Could not delete schema")
		return
	}

	responses.Success(c, http.StatusOK, nil, "Schema deleted successfully")
}

func (h *SchemaHandler) UpdateShare(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	userID, okUser := middlewares.CurrentUser(c)
	if !okUser {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	var req struct {
		ShareAccess string `json:"share_access" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid share payload")
		return
	}

	settings, err := h.schemaService.UpdateShare(c.Request.Context(), id, userID, req.ShareAccess)
	if err != nil {
		failSchema(c, err, "Could not update share settings")
		return
	}

	responses.Success(c, http.StatusOK, settings, "Share settings updated")
}

func (h *SchemaHandler) RegenerateShareToken(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	userID, okUser := middlewares.CurrentUser(c)
	if !okUser {
		responses.Fail(c, http.StatusUnauthorized, nil, "Unauthorized")
		return
	}

	settings, err := h.schemaService.RegenerateShareToken(c.Request.Context(), id, userID)
	if err != nil {
		failSchema(c, err, "Could not regenerate share token")
		return
	}

	responses.Success(c, http.StatusOK, settings, "Share token regenerated")
}

// Graph returns the node/edge projection of a schema. Positions fall back to
// the deterministic grid since layout lives with the editing client.
func (h *SchemaHandler) Graph(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.GetByID(c.Request.Context(), id, userID, hasUser, c.Query("share_token"))
	if err != nil {
		failSchema(c, err, "Could not load schema")
		return
	}

	nodes, edges := graph.Build(&schema.Data, graph.PositionCache{})

	responses.Success(c, http.StatusOK, gin.H{
		"nodes": nodes,
		"edges": edges,
	}, "")
}

// RemoveEdge deletes the foreign key identified by the edge_id query
// parameter and persists the result.
func (h *SchemaHandler) RemoveEdge(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	edgeID := c.Query("edge_id")
	if edgeID == "" {
		responses.Fail(c, http.StatusBadRequest, nil, "Missing edge_id")
		return
	}

	schema, ok := h.editableSchema(c, id)
	if !ok {
		return
	}

	next, removed, err := graph.RemoveForeignKey(schema.Data, edgeID)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid edge id")
		return
	}
	if !removed {
		responses.Fail(c, http.StatusNotFound, nil, "Edge not found")
		return
	}

	h.persistData(c, id, next, "Edge removed")
}

// RecolorTable sets one table's display color and persists the result.
func (h *SchemaHandler) RecolorTable(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	var req struct {
		Color string `json:"color" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid color payload")
		return
	}

	schema, ok := h.editableSchema(c, id)
	if !ok {
		return
	}

	next, changed := graph.RecolorTable(schema.Data, c.Param("table"), req.Color)
	if !changed {
		responses.Fail(c, http.StatusNotFound, nil, "Table not found")
		return
	}

	h.persistData(c, id, next, "Table recolored")
}

// AddTableFromTemplate appends a template-based table to the schema.
func (h *SchemaHandler) AddTableFromTemplate(c *gin.Context) {
	id, ok := schemaID(c)
	if !ok {
		return
	}

	var req struct {
		Template string `json:"template" binding:"required"`
		Name     string `json:"name"     binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid table payload")
		return
	}

	schema, ok := h.editableSchema(c, id)
	if !ok {
		return
	}

	table, known := models.TableFromTemplate(req.Template, req.Name, schemaEngine(schema.Data))
	if !known {
		responses.Fail(c, http.StatusBadRequest, nil, "Unknown template")
		return
	}
	if schema.Data.TableIndex(req.Name) >= 0 {
		responses.Fail(c, http.StatusConflict, nil, "Table already exists")
		return
	}

	next := schema.Data.Clone()
	next.Tables = append(next.Tables, table)

	h.persistData(c, id, next, "Table added")
}

func (h *SchemaHandler) Templates(c *gin.Context) {
	responses.Success(c, http.StatusOK, models.TemplateNames(), "")
}

// editableSchema loads the schema and requires a mutating access level.
func (h *SchemaHandler) editableSchema(c *gin.Context, id uuid.UUID) (*models.SchemaWithAccess, bool) {
	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.GetByID(c.Request.Context(), id, userID, hasUser, c.Query("share_token"))
	if err != nil {
		failSchema(c, err, "Could not load schema")
		return nil, false
	}

	if !editor.AccessLevel(schema.AccessLevel).CanMutate() {
		responses.Fail(c, http.StatusForbidden, services.ErrForbidden, "Schema is read-only for this caller")
		return nil, false
	}
	return schema, true
}

func (h *SchemaHandler) persistData(c *gin.Context, id uuid.UUID, data models.SchemaData, message string) {
	userID, hasUser := middlewares.CurrentUser(c)
	schema, err := h.schemaService.Update(c.Request.Context(), id, userID, hasUser, c.Query("share_token"),
		services.UpdateSchemaRequest{Data: &data})
	if err != nil {
		failSchema(c, err, "Could not save schema")
		return
	}
	responses.Success(c, http.StatusOK, schema, message)
}

func schemaEngine(data models.SchemaData) string {
	for _, table := range data.Tables {
		if table.Engine != "" {
			return table.Engine
		}
	}
	return models.EngineMySQL
}
