package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacanvas/internal/models"
)

func usersPostsSchema() models.SchemaData {
	return models.SchemaData{
		Tables: []models.Table{
			{
				Name: "users",
				Columns: []models.Column{
					{Name: "id", Type: "INTEGER", PrimaryKey: true},
					{Name: "email", Type: "VARCHAR"},
				},
			},
			{
				Name: "posts",
				Columns: []models.Column{
					{Name: "id", Type: "INTEGER", PrimaryKey: true},
					{Name: "user_id", Type: "INTEGER"},
				},
				ForeignKeys: []models.ForeignKey{
					{
						Column:       "user_id",
						References:   models.Reference{Table: "users", Column: "id"},
						RelationType: models.RelationOneToMany,
					},
				},
			},
		},
	}
}

func TestBuildUsersPosts(t *testing.T) {
	schema := usersPostsSchema()
	nodes, edges := Build(&schema, PositionCache{})

	require.Len(t, nodes, 2)
	require.Len(t, edges, 1)

	assert.Equal(t, "users", nodes[0].ID)
	assert.Equal(t, "posts", nodes[1].ID)
	assert.True(t, nodes[0].Columns[0].PrimaryKey)

	edge := edges[0]
	assert.Equal(t, "posts", edge.Source)
	assert.Equal(t, "user_id", edge.SourceColumn)
	assert.Equal(t, "users", edge.Target)
	assert.Equal(t, "id", edge.TargetColumn)
	assert.Equal(t, "user_id → id", edge.Label)
	assert.Equal(t, models.RelationOneToMany, edge.RelationType)

	identity, err := ParseEdgeID(edge.ID)
	require.NoError(t, err)
	assert.Equal(t, EdgeIdentity{
		SourceTable:  "posts",
		SourceColumn: "user_id",
		TargetTable:  "users",
		TargetColumn: "id",
	}, identity)
}

func TestBuildIsIdempotent(t *testing.T) {
	schema := usersPostsSchema()
	cache := PositionCache{"users": {X: 10, Y: 20}}

	nodes1, edges1 := Build(&schema, cache)
	nodes2, edges2 := Build(&schema, cache)

	assert.Equal(t, nodes1, nodes2)
	assert.Equal(t, edges1, edges2)
}

func TestBuildNilSchema(t *testing.T) {
	nodes, edges := Build(nil, nil)
	assert.NotNil(t, nodes)
	assert.NotNil(t, edges)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}

func TestBuildEmptySchema(t *testing.T) {
	schema := models.SchemaData{}
	nodes, edges := Build(&schema, PositionCache{})
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}

func TestBuildDanglingTargetStillProjected(t *testing.T) {
	schema := models.SchemaData{
		Tables: []models.Table{
			{
				Name:    "orders",
				Columns: []models.Column{{Name: "customer_id", Type: "INTEGER"}},
				ForeignKeys: []models.ForeignKey{
					{Column: "customer_id", References: models.Reference{Table: "customers", Column: "id"}},
				},
			},
		},
	}

	nodes, edges := Build(&schema, PositionCache{})
	require.Len(t, nodes, 1)
	require.Len(t, edges, 1)
	assert.Equal(t, "customers", edges[0].Target)
}

func TestBuildDefaultsRelationType(t *testing.T) {
	schema := models.SchemaData{
		Tables: []models.Table{
			{
				Name:    "posts",
				Columns: []models.Column{{Name: "user_id", Type: "INTEGER"}},
				ForeignKeys: []models.ForeignKey{
					{Column: "user_id", References: models.Reference{Table: "users", Column: "id"}},
				},
			},
		},
	}

	_, edges := Build(&schema, PositionCache{})
	require.Len(t, edges, 1)
	assert.Equal(t, models.RelationOneToMany, edges[0].RelationType)
}

func TestBuildUsesCachedPositions(t *testing.T) {
	schema := usersPostsSchema()
	cache := PositionCache{"posts": {X: 640, Y: 480}}

	nodes, _ := Build(&schema, cache)
	assert.Equal(t, Position{X: 0, Y: 0}, nodes[0].Position)
	assert.Equal(t, Position{X: 640, Y: 480}, nodes[1].Position)
}

func TestResolveGridFallback(t *testing.T) {
	tests := []struct {
		index int
		want  Position
	}{
		{0, Position{X: 0, Y: 0}},
		{1, Position{X: 300, Y: 0}},
		{2, Position{X: 600, Y: 0}},
		{3, Position{X: 0, Y: 300}},
		{4, Position{X: 300, Y: 300}},
		{7, Position{X: 300, Y: 600}},
	}
	for _, tt := range tests {
		got := PositionCache(nil).Resolve("t", tt.index)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestCapturePositions(t *testing.T) {
	schema := usersPostsSchema()
	cache := PositionCache{}
	cache.Set("users", Position{X: 5, Y: 6})

	nodes, _ := Build(&schema, cache)
	captured := CapturePositions(nodes)

	assert.Equal(t, Position{X: 5, Y: 6}, captured["users"])
	assert.Contains(t, captured, "posts")
}

func TestPositionSurvivesTableRemoval(t *testing.T) {
	schema := usersPostsSchema()
	cache := PositionCache{"posts": {X: 1, Y: 2}}

	schema.Tables = schema.Tables[:1] // drop posts
	_, _ = Build(&schema, cache)

	// The entry is not deleted; re-adding the table restores its spot.
	assert.Equal(t, Position{X: 1, Y: 2}, cache["posts"])
}
