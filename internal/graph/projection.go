package graph

import (
	"fmt"

	"schemacanvas/internal/models"
)

// Node is the derived, display-only view of a table. Its id is the table
// name, which is also what foreign keys reference.
type Node struct {
	ID       string       `json:"id"`
	Position Position     `json:"position"`
	Color    string       `json:"color,omitempty"`
	Columns  []NodeColumn `json:"columns"`
}

// NodeColumn carries just enough of a column to render it inside a node.
type NodeColumn struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primaryKey,omitempty"`
}

// Edge is the derived view of a foreign key. A target that names a
// nonexistent table still produces an edge; dropping it would make the
// foreign key vanish from the diagram without user action.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	SourceColumn string `json:"sourceColumn"`
	Target       string `json:"target"`
	TargetColumn string `json:"targetColumn"`
	Label        string `json:"label"`
	RelationType string `json:"relationType"`
}

// Build projects a schema into node and edge sequences. Node order follows
// table order; each foreign key of each table yields exactly one edge. The
// projection is a pure function of its inputs: identical schema and cache
// produce structurally identical output, so the diagram does not jitter on
// unrelated re-renders. A nil or empty schema projects to empty sequences.
func Build(schema *models.SchemaData, cache PositionCache) ([]Node, []Edge) {
	nodes := []Node{}
	edges := []Edge{}
	if schema == nil {
		return nodes, edges
	}

	for i, table := range schema.Tables {
		node := Node{
			ID:       table.Name,
			Position: cache.Resolve(table.Name, i),
			Color:    table.Color,
			Columns:  make([]NodeColumn, len(table.Columns)),
		}
		for j, col := range table.Columns {
			node.Columns[j] = NodeColumn{
				Name:       col.Name,
				Type:       col.Type,
				PrimaryKey: col.PrimaryKey,
			}
		}
		nodes = append(nodes, node)

		for _, fk := range table.ForeignKeys {
			relType := fk.RelationType
			if relType == "" {
				relType = models.RelationOneToMany
			}
			edges = append(edges, Edge{
				ID: EdgeID(EdgeIdentity{
					SourceTable:  table.Name,
					SourceColumn: fk.Column,
					TargetTable:  fk.References.Table,
					TargetColumn: fk.References.Column,
				}),
				Source:       table.Name,
				SourceColumn: fk.Column,
				Target:       fk.References.Table,
				TargetColumn: fk.References.Column,
				Label:        fmt.Sprintf("%s → %s", fk.Column, fk.References.Column),
				RelationType: relType,
			})
		}
	}

	return nodes, edges
}
