package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemacanvas/internal/models"
)

func TestRemoveForeignKey(t *testing.T) {
	schema := usersPostsSchema()
	_, edges := Build(&schema, PositionCache{})
	require.Len(t, edges, 1)

	next, removed, err := RemoveForeignKey(schema, edges[0].ID)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, next.Tables[1].ForeignKeys)

	// The original snapshot keeps its foreign key.
	assert.Len(t, schema.Tables[1].ForeignKeys, 1)
}

func TestRemoveForeignKeyRemovesExactlyOne(t *testing.T) {
	schema := usersPostsSchema()
	schema.Tables[1].ForeignKeys = append(schema.Tables[1].ForeignKeys, models.ForeignKey{
		Column:     "editor_id",
		References: models.Reference{Table: "users", Column: "id"},
	})

	id := EdgeID(EdgeIdentity{
		SourceTable:  "posts",
		SourceColumn: "user_id",
		TargetTable:  "users",
		TargetColumn: "id",
	})

	next, removed, err := RemoveForeignKey(schema, id)
	require.NoError(t, err)
	assert.True(t, removed)
	require.Len(t, next.Tables[1].ForeignKeys, 1)
	assert.Equal(t, "editor_id", next.Tables[1].ForeignKeys[0].Column)
}

func TestRemoveForeignKeyUnknownEdge(t *testing.T) {
	schema := usersPostsSchema()

	id := EdgeID(EdgeIdentity{
		SourceTable:  "posts",
		SourceColumn: "author_id",
		TargetTable:  "users",
		TargetColumn: "id",
	})

	next, removed, err := RemoveForeignKey(schema, id)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Len(t, next.Tables[1].ForeignKeys, 1)
}

func TestRemoveForeignKeyUnknownTable(t *testing.T) {
	schema := usersPostsSchema()

	id := EdgeID(EdgeIdentity{
		SourceTable:  "comments",
		SourceColumn: "post_id",
		TargetTable:  "posts",
		TargetColumn: "id",
	})

	_, removed, err := RemoveForeignKey(schema, id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRemoveForeignKeyMalformedID(t *testing.T) {
	schema := usersPostsSchema()
	_, removed, err := RemoveForeignKey(schema, "not-an-edge-id")
	assert.Error(t, err)
	assert.False(t, removed)
}

func TestRecolorTable(t *testing.T) {
	schema := usersPostsSchema()

	next, changed := RecolorTable(schema, "users", "#ff0000")
	assert.True(t, changed)
	assert.Equal(t, "#ff0000", next.Tables[0].Color)
	assert.Empty(t, schema.Tables[0].Color)

	_, changed = RecolorTable(schema, "missing", "#00ff00")
	assert.False(t, changed)
}
