package graph

import (
	"schemacanvas/internal/models"
)

// RemoveForeignKey maps an activated edge back to the foreign key it was
// projected from and removes it. The edge id is parsed for the presumed
// source table, then the projection-time id is recomputed for each of that
// table's foreign keys; the one whose id matches is dropped. Ids are unique
// per (source table, foreign key) pair, so at most one key is removed.
// Returns the new schema and whether anything changed.
func RemoveForeignKey(schema models.SchemaData, edgeID string) (models.SchemaData, bool, error) {
	identity, err := ParseEdgeID(edgeID)
	if err != nil {
		return schema, false, err
	}

	idx := schema.TableIndex(identity.SourceTable)
	if idx < 0 {
		return schema, false, nil
	}

	table := schema.Tables[idx]
	for i, fk := range table.ForeignKeys {
		candidate := EdgeID(EdgeIdentity{
			SourceTable:  table.Name,
			SourceColumn: fk.Column,
			TargetTable:  fk.References.Table,
			TargetColumn: fk.References.Column,
		})
		if candidate != edgeID {
			continue
		}
		next := schema.Clone()
		next.Tables[idx].ForeignKeys = append(
			next.Tables[idx].ForeignKeys[:i],
			next.Tables[idx].ForeignKeys[i+1:]...,
		)
		return next, true, nil
	}

	return schema, false, nil
}

// RecolorTable replaces exactly one table's color, structurally sharing all
// other tables.
func RecolorTable(schema models.SchemaData, table, color string) (models.SchemaData, bool) {
	idx := schema.TableIndex(table)
	if idx < 0 {
		return schema, false
	}
	next := models.SchemaData{Tables: append([]models.Table(nil), schema.Tables...)}
	next.Tables[idx] = schema.Tables[idx].Clone()
	next.Tables[idx].Color = color
	return next, true
}
