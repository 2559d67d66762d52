package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"schemacanvas/internal/models"
	"schemacanvas/internal/repositories"
)

var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidAccess  = errors.New("invalid access level, must be: none, view, or edit")
	ErrNameRequired   = errors.New("name is required")
)

// SchemaService implements load/save semantics over the repository: access
// resolution for owners, share-token collaborators and public viewers, the
// create-or-update save used by autosave, and share-link management.
type SchemaService struct {
	schemaRepo repositories.SchemaRepository
}

func NewSchemaService(schemaRepo repositories.SchemaRepository) *SchemaService {
	return &SchemaService{schemaRepo: schemaRepo}
}

func generateShareToken() string {
	bytes := make([]byte, 16)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func (s *SchemaService) Create(ctx context.Context, userID uuid.UUID, name string, data models.SchemaData, isPublic bool) (*models.Schema, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	schema := &models.Schema{
		UserID:   userID,
		Name:     name,
		Data:     data,
		IsPublic: isPublic,
	}
	if err := s.schemaRepo.Create(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

// GetByID loads a schema and resolves the caller's access level. Rules: the
// owner gets "owner"; a valid share token grants the token's level; a public
// schema grants "view". Anything else is forbidden.
func (s *SchemaService) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID, hasUser bool, shareToken string) (*models.SchemaWithAccess, error) {
	schema, err := s.schemaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, ErrSchemaNotFound
	}

	isOwner := hasUser && schema.UserID == userID
	hasValidToken := shareToken != "" &&
		schema.ShareToken == shareToken &&
		schema.ShareAccess != models.ShareAccessNone

	if !schema.IsPublic && !isOwner && !hasValidToken {
		return nil, ErrForbidden
	}

	level := models.ShareAccessView
	switch {
	case isOwner:
		level = "owner"
	case hasValidToken && schema.ShareAccess == models.ShareAccessEdit:
		level = models.ShareAccessEdit
	}

	return &models.SchemaWithAccess{Schema: *schema, AccessLevel: level}, nil
}

// GetByShareToken loads a schema through its share link. A missing record or
// disabled sharing are indistinguishable to the caller.
func (s *SchemaService) GetByShareToken(ctx context.Context, token string) (*models.SchemaWithAccess, error) {
	schema, err := s.schemaRepo.FindByShareToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if schema == nil || schema.ShareAccess == models.ShareAccessNone {
		return nil, ErrSchemaNotFound
	}
	return &models.SchemaWithAccess{Schema: *schema, AccessLevel: schema.ShareAccess}, nil
}

func (s *SchemaService) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Schema, error) {
	return s.schemaRepo.FindByUserID(ctx, userID)
}

func (s *SchemaService) ListPublic(ctx context.Context) ([]models.Schema, error) {
	return s.schemaRepo.FindPublic(ctx)
}

// UpdateSchemaRequest carries a partial update; nil fields are untouched.
type UpdateSchemaRequest struct {
	Name     *string            `json:"name,omitempty"`
	Data     *models.SchemaData `json:"data,omitempty"`
	IsPublic *bool              `json:"is_public,omitempty"`
}

// Update applies a partial update as the owner or an edit-token holder.
// Visibility can only be changed by the owner.
func (s *SchemaService) Update(ctx context.Context, id uuid.UUID, userID uuid.UUID, hasUser bool, shareToken string, req UpdateSchemaRequest) (*models.Schema, error) {
	schema, err := s.schemaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, ErrSchemaNotFound
	}

	isOwner := hasUser && schema.UserID == userID
	canEdit := shareToken != "" &&
		schema.ShareToken == shareToken &&
		schema.ShareAccess == models.ShareAccessEdit

	if !isOwner && !canEdit {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		schema.Name = *req.Name
	}
	if req.Data != nil {
		schema.Data = *req.Data
	}
	if isOwner && req.IsPublic != nil {
		schema.IsPublic = *req.IsPublic
	}

	if err := s.schemaRepo.Update(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to update schema: %w", err)
	}
	return schema, nil
}

// Save is the persistence entry point for the autosave controller: create
// when no identity exists yet, update otherwise. Returns the record's
// identity so the controller can transition from create to update.
func (s *SchemaService) Save(ctx context.Context, id uuid.UUID, userID uuid.UUID, name string, data models.SchemaData) (uuid.UUID, error) {
	if id == uuid.Nil {
		schema, err := s.Create(ctx, userID, name, data, false)
		if err != nil {
			return uuid.Nil, err
		}
		return schema.ID, nil
	}

	_, err := s.Update(ctx, id, userID, true, "", UpdateSchemaRequest{Data: &data})
	return id, err
}

// ShareSettings is the owner-facing view of a schema's share link.
type ShareSettings struct {
	ShareToken  string `json:"share_token"`
	ShareAccess string `json:"share_access"`
	ShareURL    string `json:"share_url,omitempty"`
}

// UpdateShare sets the share access level. A token is generated lazily the
// first time sharing is enabled and cleared when it is disabled.
func (s *SchemaService) UpdateShare(ctx context.Context, id, userID uuid.UUID, access string) (*ShareSettings, error) {
	if access != models.ShareAccessNone && access != models.ShareAccessView && access != models.ShareAccessEdit {
		return nil, ErrInvalidAccess
	}

	schema, err := s.ownedSchema(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	schema.ShareAccess = access
	if access != models.ShareAccessNone && schema.ShareToken == "" {
		schema.ShareToken = generateShareToken()
	}
	if access == models.ShareAccessNone {
		schema.ShareToken = ""
	}

	if err := s.schemaRepo.Update(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to update schema: %w", err)
	}
	return shareSettings(schema), nil
}

// RegenerateShareToken invalidates the previous share link.
func (s *SchemaService) RegenerateShareToken(ctx context.Context, id, userID uuid.UUID) (*ShareSettings, error) {
	schema, err := s.ownedSchema(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	schema.ShareToken = generateShareToken()
	if err := s.schemaRepo.Update(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to update schema: %w", err)
	}
	return shareSettings(schema), nil
}

func (s *SchemaService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	err := s.schemaRepo.Delete(ctx, id, userID)
	if errors.Is(err, repositories.ErrNotDeleted) {
		return ErrSchemaNotFound
	}
	return err
}

func (s *SchemaService) ownedSchema(ctx context.Context, id, userID uuid.UUID) (*models.Schema, error) {
	schema, err := s.schemaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, ErrSchemaNotFound
	}
	if schema.UserID != userID {
		return nil, ErrForbidden
	}
	return schema, nil
}

func shareSettings(schema *models.Schema) *ShareSettings {
	settings := &ShareSettings{
		ShareToken:  schema.ShareToken,
		ShareAccess: schema.ShareAccess,
	}
	if schema.ShareToken != "" {
		settings.ShareURL = "/shared/" + schema.ShareToken
	}
	return settings
}
