package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnDefaultCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *string
	}{
		{"string", `{"name":"c","type":"VARCHAR","default":"hello"}`, ptr("hello")},
		{"integer", `{"name":"c","type":"INTEGER","default":42}`, ptr("42")},
		{"float", `{"name":"c","type":"DECIMAL","default":1.5}`, ptr("1.5")},
		{"bool true", `{"name":"c","type":"BOOLEAN","default":true}`, ptr("true")},
		{"bool false", `{"name":"c","type":"BOOLEAN","default":false}`, ptr("false")},
		{"null", `{"name":"c","type":"TEXT","default":null}`, nil},
		{"absent", `{"name":"c","type":"TEXT"}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Column
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &c))
			if tt.want == nil {
				assert.Nil(t, c.Default)
			} else {
				require.NotNil(t, c.Default)
				assert.Equal(t, *tt.want, *c.Default)
			}
		})
	}
}

func TestColumnDefaultUnsupported(t *testing.T) {
	var c Column
	err := json.Unmarshal([]byte(`{"name":"c","type":"TEXT","default":{"a":1}}`), &c)
	assert.Error(t, err)
}

func TestSchemaDataWireContract(t *testing.T) {
	raw := `{
		"tables": [
			{
				"name": "posts",
				"columns": [
					{"name": "id", "type": "INTEGER", "primaryKey": true, "notNull": true, "autoIncrement": true},
					{"name": "status", "type": "ENUM", "enumValues": ["draft", "published"]}
				],
				"foreignKeys": [
					{"column": "user_id", "references": {"table": "users", "column": "id"}, "relationType": "n:1", "onDelete": "CASCADE"}
				],
				"engine": "mysql",
				"color": "#336699"
			}
		]
	}`

	var data SchemaData
	require.NoError(t, json.Unmarshal([]byte(raw), &data))

	require.Len(t, data.Tables, 1)
	table := data.Tables[0]
	assert.Equal(t, "mysql", table.Engine)
	assert.Equal(t, "#336699", table.Color)
	assert.Equal(t, []string{"draft", "published"}, table.Columns[1].EnumValues)
	require.Len(t, table.ForeignKeys, 1)
	assert.Equal(t, RelationManyToOne, table.ForeignKeys[0].RelationType)
	assert.Equal(t, "CASCADE", table.ForeignKeys[0].OnDelete)

	// Round-trip: re-decoding the encoded form yields the same value.
	encoded, err := json.Marshal(data)
	require.NoError(t, err)
	var again SchemaData
	require.NoError(t, json.Unmarshal(encoded, &again))
	assert.Equal(t, data, again)
}

func TestCloneSharesNothing(t *testing.T) {
	data := SchemaData{
		Tables: []Table{
			{
				Name: "users",
				Columns: []Column{
					{Name: "id", Type: "INTEGER"},
					{Name: "role", Type: "ENUM", Default: ptr("member"), EnumValues: []string{"member", "admin"}},
				},
				ForeignKeys: []ForeignKey{
					{Column: "org_id", References: Reference{Table: "orgs", Column: "id"}},
				},
			},
		},
	}

	clone := data.Clone()
	clone.Tables[0].Name = "people"
	clone.Tables[0].Columns[0].Type = "BIGINT"
	*clone.Tables[0].Columns[1].Default = "admin"
	clone.Tables[0].Columns[1].EnumValues[0] = "guest"
	clone.Tables[0].ForeignKeys[0].References.Table = "companies"

	assert.Equal(t, "users", data.Tables[0].Name)
	assert.Equal(t, "INTEGER", data.Tables[0].Columns[0].Type)
	assert.Equal(t, "member", *data.Tables[0].Columns[1].Default)
	assert.Equal(t, "member", data.Tables[0].Columns[1].EnumValues[0])
	assert.Equal(t, "orgs", data.Tables[0].ForeignKeys[0].References.Table)
}

func TestHasForeignKeyIgnoresRelationType(t *testing.T) {
	table := Table{
		ForeignKeys: []ForeignKey{
			{Column: "user_id", References: Reference{Table: "users", Column: "id"}, RelationType: RelationOneToMany},
		},
	}

	assert.True(t, table.HasForeignKey(ForeignKey{
		Column:       "user_id",
		References:   Reference{Table: "users", Column: "id"},
		RelationType: RelationOneToOne,
	}))
	assert.False(t, table.HasForeignKey(ForeignKey{
		Column:     "user_id",
		References: Reference{Table: "users", Column: "uuid"},
	}))
}

func TestTableFromTemplate(t *testing.T) {
	table, ok := TableFromTemplate("posts", "articles", EnginePostgreSQL)
	require.True(t, ok)
	assert.Equal(t, "articles", table.Name)
	assert.Equal(t, EnginePostgreSQL, table.Engine)
	assert.NotEmpty(t, table.Columns)
	assert.NotNil(t, table.ForeignKeys)
	assert.Empty(t, table.ForeignKeys)

	_, ok = TableFromTemplate("bogus", "x", EngineMySQL)
	assert.False(t, ok)

	// Templates are copied, never aliased.
	a, _ := TableFromTemplate("basic", "", EngineMySQL)
	*a.Columns[1].Default = "mutated"
	b, _ := TableFromTemplate("basic", "", EngineMySQL)
	assert.Equal(t, "CURRENT_TIMESTAMP", *b.Columns[1].Default)
}

func TestTypesForEngine(t *testing.T) {
	assert.Contains(t, TypesForEngine(EngineMySQL), "ENUM")
	assert.Contains(t, TypesForEngine(EnginePostgreSQL), "JSONB")
	// Unknown engines fall back to the postgres vocabulary.
	assert.Equal(t, TypesForEngine(EnginePostgreSQL), TypesForEngine("oracle"))

	assert.True(t, IsKnownType(EngineMySQL, "VARCHAR"))
	assert.False(t, IsKnownType(EngineMySQL, "NOT_A_TYPE"))
}
