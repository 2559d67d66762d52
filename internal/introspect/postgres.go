package introspect

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"schemacanvas/internal/models"
)

// Junction-table heuristics: a small table whose foreign keys are all part of
// its primary key is treated as the join table of an n:m relationship.
const (
	maxJunctionTableColumns = 6
	minJunctionTableFKs     = 2
)

// Extractor reads a live PostgreSQL database's structure into SchemaData,
// so an existing database can be opened in the editor.
type Extractor struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against the given DSN and verifies it.
func Connect(ctx context.Context, dsn string) (*Extractor, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	config.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Extractor{pool: pool}, nil
}

// NewExtractor wraps an existing pool (used by tests).
func NewExtractor(pool *pgxpool.Pool) *Extractor {
	return &Extractor{pool: pool}
}

func (e *Extractor) Close() {
	e.pool.Close()
}

// Extract reads every base table of the named schema ("public" when empty)
// into the canonical model, inferring relation types: a unique foreign-key
// column means 1:1, foreign keys of a junction table mean n:m, everything
// else defaults to 1:n.
func (e *Extractor) Extract(ctx context.Context, pgSchema string) (models.SchemaData, error) {
	if pgSchema == "" {
		pgSchema = "public"
	}

	tableNames, err := e.getTables(ctx, pgSchema)
	if err != nil {
		return models.SchemaData{}, fmt.Errorf("failed to list tables: %w", err)
	}

	data := models.SchemaData{Tables: make([]models.Table, 0, len(tableNames))}
	pkSets := make(map[string]map[string]bool, len(tableNames))

	for _, name := range tableNames {
		table := models.Table{Name: name, Engine: models.EnginePostgreSQL}

		pks, err := e.getPrimaryKeys(ctx, pgSchema, name)
		if err != nil {
			return models.SchemaData{}, fmt.Errorf("failed to get primary keys for %s: %w", name, err)
		}
		pkSet := make(map[string]bool, len(pks))
		for _, pk := range pks {
			pkSet[pk] = true
		}
		pkSets[name] = pkSet

		columns, err := e.getColumns(ctx, pgSchema, name, pkSet)
		if err != nil {
			return models.SchemaData{}, fmt.Errorf("failed to get columns for %s: %w", name, err)
		}
		table.Columns = columns

		fks, err := e.getForeignKeys(ctx, pgSchema, name)
		if err != nil {
			return models.SchemaData{}, fmt.Errorf("failed to get foreign keys for %s: %w", name, err)
		}
		table.ForeignKeys = fks

		data.Tables = append(data.Tables, table)
	}

	if err := e.assignRelationTypes(ctx, pgSchema, &data, pkSets); err != nil {
		return models.SchemaData{}, err
	}

	return data, nil
}

func (e *Extractor) getTables(ctx context.Context, pgSchema string) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`

	rows, err := e.pool.Query(ctx, query, pgSchema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (e *Extractor) getColumns(ctx context.Context, pgSchema, table string, pkSet map[string]bool) ([]models.Column, error) {
	query := `
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := e.pool.Query(ctx, query, pgSchema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.Column
	for rows.Next() {
		var name, dataType, nullable string
		var colDefault *string
		if err := rows.Scan(&name, &dataType, &nullable, &colDefault); err != nil {
			return nil, err
		}
		col := models.Column{
			Name:       name,
			Type:       mapDataType(dataType),
			NotNull:    nullable == "NO",
			PrimaryKey: pkSet[name],
			Default:    colDefault,
		}
		if colDefault != nil && strings.HasPrefix(*colDefault, "nextval(") {
			col.AutoIncrement = true
			col.Default = nil
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (e *Extractor) getPrimaryKeys(ctx context.Context, pgSchema, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
		ORDER BY kcu.ordinal_position
	`

	rows, err := e.pool.Query(ctx, query, pgSchema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pks []string
	for rows.Next() {
		var pk string
		if err := rows.Scan(&pk); err != nil {
			return nil, err
		}
		pks = append(pks, pk)
	}
	return pks, rows.Err()
}

func (e *Extractor) getForeignKeys(ctx context.Context, pgSchema, table string) ([]models.ForeignKey, error) {
	query := `
		SELECT
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name,
			rc.delete_rule,
			rc.update_rule
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		JOIN information_schema.referential_constraints AS rc
			ON rc.constraint_name = tc.constraint_name
			AND rc.constraint_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = $1
			AND tc.table_name = $2
	`

	rows, err := e.pool.Query(ctx, query, pgSchema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.ForeignKey
	for rows.Next() {
		var column, refTable, refColumn, onDelete, onUpdate string
		if err := rows.Scan(&column, &refTable, &refColumn, &onDelete, &onUpdate); err != nil {
			return nil, err
		}
		fk := models.ForeignKey{
			Column:     column,
			References: models.Reference{Table: refTable, Column: refColumn},
		}
		if onDelete != "NO ACTION" {
			fk.OnDelete = onDelete
		}
		if onUpdate != "NO ACTION" {
			fk.OnUpdate = onUpdate
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// assignRelationTypes fills in relationType for every extracted foreign key.
func (e *Extractor) assignRelationTypes(ctx context.Context, pgSchema string, data *models.SchemaData, pkSets map[string]map[string]bool) error {
	junction := detectJunctionTables(data.Tables, pkSets)

	uniqueMap, err := e.getUniqueColumns(ctx, pgSchema)
	if err != nil {
		return fmt.Errorf("failed to get unique constraints: %w", err)
	}

	for i := range data.Tables {
		table := &data.Tables[i]
		for j := range table.ForeignKeys {
			fk := &table.ForeignKeys[j]
			switch {
			case junction[table.Name]:
				fk.RelationType = models.RelationManyToMany
			case uniqueMap[table.Name+":"+fk.Column]:
				fk.RelationType = models.RelationOneToOne
			default:
				fk.RelationType = models.RelationOneToMany
			}
		}
	}
	return nil
}

func (e *Extractor) getUniqueColumns(ctx context.Context, pgSchema string) (map[string]bool, error) {
	query := `
		SELECT DISTINCT tc.table_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.constraint_type = 'UNIQUE'
			AND tc.table_schema = $1
	`

	rows, err := e.pool.Query(ctx, query, pgSchema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uniqueMap := make(map[string]bool)
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return nil, err
		}
		uniqueMap[table+":"+column] = true
	}
	return uniqueMap, rows.Err()
}

// detectJunctionTables flags tables whose foreign keys all sit inside the
// primary key: at least two such keys and few enough columns overall.
func detectJunctionTables(tables []models.Table, pkSets map[string]map[string]bool) map[string]bool {
	junction := make(map[string]bool)
	for _, table := range tables {
		pkSet := pkSets[table.Name]
		if len(table.ForeignKeys) < minJunctionTableFKs ||
			len(pkSet) < minJunctionTableFKs ||
			len(table.Columns) > maxJunctionTableColumns {
			continue
		}

		allInPK := true
		for _, fk := range table.ForeignKeys {
			if !pkSet[fk.Column] {
				allInPK = false
				break
			}
		}
		if allInPK {
			junction[table.Name] = true
		}
	}
	return junction
}

// mapDataType folds information_schema type names into the editor's
// PostgreSQL vocabulary.
func mapDataType(dataType string) string {
	dt := strings.ToLower(dataType)
	switch {
	case dt == "integer":
		return "INTEGER"
	case dt == "smallint":
		return "SMALLINT"
	case dt == "bigint":
		return "BIGINT"
	case strings.HasPrefix(dt, "character varying"):
		return "VARCHAR"
	case strings.HasPrefix(dt, "character"):
		return "CHAR"
	case dt == "text":
		return "TEXT"
	case strings.HasPrefix(dt, "timestamp with time zone"):
		return "TIMESTAMPTZ"
	case strings.HasPrefix(dt, "timestamp"):
		return "TIMESTAMP"
	case strings.HasPrefix(dt, "time"):
		return "TIME"
	case dt == "date":
		return "DATE"
	case dt == "interval":
		return "INTERVAL"
	case dt == "boolean":
		return "BOOLEAN"
	case strings.HasPrefix(dt, "numeric"), strings.HasPrefix(dt, "decimal"):
		return "NUMERIC"
	case dt == "real":
		return "REAL"
	case dt == "double precision":
		return "DOUBLE PRECISION"
	case dt == "json":
		return "JSON"
	case dt == "jsonb":
		return "JSONB"
	case dt == "uuid":
		return "UUID"
	default:
		return strings.ToUpper(dataType)
	}
}
