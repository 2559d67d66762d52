package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacanvas/internal/models"
	"schemacanvas/internal/repositories"
)

// memorySchemaRepository is an in-memory SchemaRepository for service tests.
type memorySchemaRepository struct {
	records map[uuid.UUID]models.Schema
}

func newMemoryRepo() *memorySchemaRepository {
	return &memorySchemaRepository{records: map[uuid.UUID]models.Schema{}}
}

func (r *memorySchemaRepository) Create(ctx context.Context, s *models.Schema) error {
	s.Prepare()
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.records[s.ID] = *s
	return nil
}

func (r *memorySchemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Schema, error) {
	s, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *memorySchemaRepository) FindByShareToken(ctx context.Context, token string) (*models.Schema, error) {
	for _, s := range r.records {
		if s.ShareToken == token && token != "" {
			record := s
			return &record, nil
		}
	}
	return nil, nil
}

func (r *memorySchemaRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Schema, error) {
	var out []models.Schema
	for _, s := range r.records {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySchemaRepository) FindPublic(ctx context.Context) ([]models.Schema, error) {
	var out []models.Schema
	for _, s := range r.records {
		if s.IsPublic {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memorySchemaRepository) Update(ctx context.Context, s *models.Schema) error {
	s.UpdatedAt = time.Now()
	r.records[s.ID] = *s
	return nil
}

func (r *memorySchemaRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	s, ok := r.records[id]
	if !ok || s.UserID != userID {
		return repositories.ErrNotDeleted
	}
	delete(r.records, id)
	return nil
}

var _ repositories.SchemaRepository = (*memorySchemaRepository)(nil)

func seedSchema(t *testing.T, svc *SchemaService, userID uuid.UUID) *models.Schema {
	t.Helper()
	schema, err := svc.Create(context.Background(), userID, "Blog", models.SchemaData{
		Tables: []models.Table{{Name: "users", Columns: []models.Column{}}},
	}, false)
	require.NoError(t, err)
	return schema
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewSchemaService(newMemoryRepo())
	_, err := svc.Create(context.Background(), uuid.New(), "", models.SchemaData{}, false)
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestGetByIDAccessResolution(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	stranger := uuid.New()
	schema := seedSchema(t, svc, owner)

	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		got, err := svc.GetByID(ctx, schema.ID, owner, true, "")
		require.NoError(t, err)
		assert.Equal(t, "owner", got.AccessLevel)
	})

	t.Run("stranger denied on private schema", func(t *testing.T) {
		_, err := svc.GetByID(ctx, schema.ID, stranger, true, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("anonymous denied on private schema", func(t *testing.T) {
		_, err := svc.GetByID(ctx, schema.ID, uuid.Nil, false, "")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("public schema grants view", func(t *testing.T) {
		public := true
		_, err := svc.Update(ctx, schema.ID, owner, true, "", UpdateSchemaRequest{IsPublic: &public})
		require.NoError(t, err)

		got, err := svc.GetByID(ctx, schema.ID, uuid.Nil, false, "")
		require.NoError(t, err)
		assert.Equal(t, models.ShareAccessView, got.AccessLevel)
	})

	t.Run("unknown schema", func(t *testing.T) {
		_, err := svc.GetByID(ctx, uuid.New(), owner, true, "")
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})
}

func TestShareTokenAccess(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	schema := seedSchema(t, svc, owner)
	ctx := context.Background()

	settings, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessEdit)
	require.NoError(t, err)
	require.NotEmpty(t, settings.ShareToken)
	assert.Equal(t, "/shared/"+settings.ShareToken, settings.ShareURL)

	t.Run("edit token grants edit", func(t *testing.T) {
		got, err := svc.GetByID(ctx, schema.ID, uuid.Nil, false, settings.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, models.ShareAccessEdit, got.AccessLevel)
	})

	t.Run("view token grants view", func(t *testing.T) {
		viewSettings, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessView)
		require.NoError(t, err)
		assert.Equal(t, settings.ShareToken, viewSettings.ShareToken, "token survives level change")

		got, err := svc.GetByID(ctx, schema.ID, uuid.Nil, false, viewSettings.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, models.ShareAccessView, got.AccessLevel)
	})

	t.Run("wrong token denied", func(t *testing.T) {
		_, err := svc.GetByID(ctx, schema.ID, uuid.Nil, false, "bogus")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("lookup by token", func(t *testing.T) {
		got, err := svc.GetByShareToken(ctx, settings.ShareToken)
		require.NoError(t, err)
		assert.Equal(t, schema.ID, got.ID)
	})

	t.Run("disabling clears the token", func(t *testing.T) {
		cleared, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessNone)
		require.NoError(t, err)
		assert.Empty(t, cleared.ShareToken)
		assert.Empty(t, cleared.ShareURL)

		_, err = svc.GetByShareToken(ctx, settings.ShareToken)
		assert.ErrorIs(t, err, ErrSchemaNotFound)
	})
}

func TestUpdateShareValidation(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	schema := seedSchema(t, svc, owner)
	ctx := context.Background()

	_, err := svc.UpdateShare(ctx, schema.ID, owner, "admin")
	assert.ErrorIs(t, err, ErrInvalidAccess)

	_, err = svc.UpdateShare(ctx, schema.ID, uuid.New(), models.ShareAccessView)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRegenerateShareToken(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	schema := seedSchema(t, svc, owner)
	ctx := context.Background()

	first, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessView)
	require.NoError(t, err)

	second, err := svc.RegenerateShareToken(ctx, schema.ID, owner)
	require.NoError(t, err)
	assert.NotEqual(t, first.ShareToken, second.ShareToken)

	// The old link is dead.
	_, err = svc.GetByShareToken(ctx, first.ShareToken)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestUpdatePermissions(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	schema := seedSchema(t, svc, owner)
	ctx := context.Background()

	settings, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessEdit)
	require.NoError(t, err)

	t.Run("editor may change data but not visibility", func(t *testing.T) {
		public := true
		name := "Renamed by editor"
		got, err := svc.Update(ctx, schema.ID, uuid.Nil, false, settings.ShareToken, UpdateSchemaRequest{
			Name:     &name,
			IsPublic: &public,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed by editor", got.Name)
		assert.False(t, got.IsPublic, "visibility is owner-only")
	})

	t.Run("view token cannot update", func(t *testing.T) {
		viewSettings, err := svc.UpdateShare(ctx, schema.ID, owner, models.ShareAccessView)
		require.NoError(t, err)

		name := "nope"
		_, err = svc.Update(ctx, schema.ID, uuid.Nil, false, viewSettings.ShareToken, UpdateSchemaRequest{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("stranger cannot update", func(t *testing.T) {
		name := "nope"
		_, err := svc.Update(ctx, schema.ID, uuid.New(), true, "", UpdateSchemaRequest{Name: &name})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	ctx := context.Background()

	data := models.SchemaData{Tables: []models.Table{{Name: "users", Columns: []models.Column{}}}}

	id, err := svc.Save(ctx, uuid.Nil, owner, "Autosaved", data)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	data.Tables = append(data.Tables, models.Table{Name: "posts", Columns: []models.Column{}})
	again, err := svc.Save(ctx, id, owner, "Autosaved", data)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	stored, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Len(t, stored.Data.Tables, 2)
	assert.Len(t, repo.records, 1, "update does not create a second record")
}

func TestDelete(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	schema := seedSchema(t, svc, owner)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Delete(ctx, schema.ID, uuid.New()), ErrSchemaNotFound)
	assert.NoError(t, svc.Delete(ctx, schema.ID, owner))
	assert.ErrorIs(t, svc.Delete(ctx, schema.ID, owner), ErrSchemaNotFound)
}

func TestListMineAndPublic(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewSchemaService(repo)
	owner := uuid.New()
	other := uuid.New()
	ctx := context.Background()

	seedSchema(t, svc, owner)
	public, err := svc.Create(ctx, other, "Public one", models.SchemaData{}, true)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	publics, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, publics, 1)
	assert.Equal(t, public.ID, publics[0].ID)
}
