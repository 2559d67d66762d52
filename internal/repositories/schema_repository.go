package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"schemacanvas/internal/models"
)

var ErrNotDeleted = errors.New("schema not found or unauthorized")

// SchemaRepository persists schema records. Not-found is reported as a nil
// record with a nil error.
type SchemaRepository interface {
	Create(ctx context.Context, s *models.Schema) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Schema, error)
	FindByShareToken(ctx context.Context, token string) (*models.Schema, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Schema, error)
	FindPublic(ctx context.Context) ([]models.Schema, error)
	Update(ctx context.Context, s *models.Schema) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PostgresSchemaRepository struct {
	pool *pgxpool.Pool
}

func NewSchemaRepository(pool *pgxpool.Pool) *PostgresSchemaRepository {
	return &PostgresSchemaRepository{pool: pool}
}

const schemaColumns = `id, user_id, name, data, is_public, share_token, share_access, created_at, updated_at`

func (r *PostgresSchemaRepository) Create(ctx context.Context, s *models.Schema) error {
	s.Prepare()

	query := `
		INSERT INTO schemas (id, user_id, name, data, is_public, share_token, share_access)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`

	return r.pool.QueryRow(ctx, query,
		s.ID,
		s.UserID,
		s.Name,
		s.Data,
		s.IsPublic,
		s.ShareToken,
		s.ShareAccess,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *PostgresSchemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Schema, error) {
	query := `SELECT ` + schemaColumns + ` FROM schemas WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PostgresSchemaRepository) FindByShareToken(ctx context.Context, token string) (*models.Schema, error) {
	query := `SELECT ` + schemaColumns + ` FROM schemas WHERE share_token = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, token))
}

func (r *PostgresSchemaRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]models.Schema, error) {
	query := `SELECT ` + schemaColumns + ` FROM schemas WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *PostgresSchemaRepository) FindPublic(ctx context.Context) ([]models.Schema, error) {
	query := `SELECT ` + schemaColumns + ` FROM schemas WHERE is_public = true ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *PostgresSchemaRepository) Update(ctx context.Context, s *models.Schema) error {
	query := `
		UPDATE schemas
		SET name = $2, data = $3, is_public = $4, share_token = $5, share_access = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	return r.pool.QueryRow(ctx, query,
		s.ID,
		s.Name,
		s.Data,
		s.IsPublic,
		s.ShareToken,
		s.ShareAccess,
	).Scan(&s.UpdatedAt)
}

func (r *PostgresSchemaRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schemas WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotDeleted
	}
	return nil
}

func (r *PostgresSchemaRepository) scanOne(row pgx.Row) (*models.Schema, error) {
	var s models.Schema
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.Name,
		&s.Data,
		&s.IsPublic,
		&s.ShareToken,
		&s.ShareAccess,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresSchemaRepository) scanMany(rows pgx.Rows) ([]models.Schema, error) {
	var schemas []models.Schema
	for rows.Next() {
		var s models.Schema
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Name,
			&s.Data,
			&s.IsPublic,
			&s.ShareToken,
			&s.ShareAccess,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return schemas, rows.Err()
}
