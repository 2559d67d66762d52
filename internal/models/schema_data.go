package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// SchemaData is the canonical, serializable schema being edited. Snapshots are
// replaced wholesale on every mutation; use Clone before modifying so that
// successive snapshots never alias each other.
type SchemaData struct {
	Tables []Table `json:"tables"`
}

type Table struct {
	Name        string       `json:"name"`
	Columns     []Column     `json:"columns"`
	ForeignKeys []ForeignKey `json:"foreignKeys,omitempty"`
	Engine      string       `json:"engine,omitempty"`
	Color       string       `json:"color,omitempty"`
}

type Column struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	PrimaryKey    bool     `json:"primaryKey,omitempty"`
	NotNull       bool     `json:"notNull,omitempty"`
	Unique        bool     `json:"unique,omitempty"`
	Default       *string  `json:"default,omitempty"`
	AutoIncrement bool     `json:"autoIncrement,omitempty"`
	EnumValues    []string `json:"enumValues,omitempty"`
}

type ForeignKey struct {
	Column       string    `json:"column"`
	References   Reference `json:"references"`
	RelationType string    `json:"relationType,omitempty"`
	OnDelete     string    `json:"onDelete,omitempty"`
	OnUpdate     string    `json:"onUpdate,omitempty"`
}

type Reference struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// Relation types for foreign keys. RelationOneToMany is the default when a
// foreign key carries no explicit type.
const (
	RelationOneToOne   = "1:1"
	RelationOneToMany  = "1:n"
	RelationManyToOne  = "n:1"
	RelationManyToMany = "n:m"
)

// UnmarshalJSON accepts string, number, boolean or null for the default value
// and normalizes it to a string. The coercion is lossy on purpose: the wire
// contract stores defaults as text.
func (c *Column) UnmarshalJSON(data []byte) error {
	type columnAlias Column
	aux := struct {
		*columnAlias
		Default json.RawMessage `json:"default,omitempty"`
	}{columnAlias: (*columnAlias)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if len(aux.Default) == 0 || string(aux.Default) == "null" {
		c.Default = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(aux.Default, &s); err == nil {
		c.Default = &s
		return nil
	}
	var f float64
	if err := json.Unmarshal(aux.Default, &f); err == nil {
		v := strconv.FormatFloat(f, 'f', -1, 64)
		c.Default = &v
		return nil
	}
	var b bool
	if err := json.Unmarshal(aux.Default, &b); err == nil {
		v := strconv.FormatBool(b)
		c.Default = &v
		return nil
	}
	return fmt.Errorf("column %q: unsupported default value %s", c.Name, aux.Default)
}

// Clone returns a deep copy sharing no slices or pointers with the receiver.
func (s SchemaData) Clone() SchemaData {
	out := SchemaData{Tables: make([]Table, len(s.Tables))}
	for i, t := range s.Tables {
		out.Tables[i] = t.Clone()
	}
	return out
}

func (t Table) Clone() Table {
	out := t
	out.Columns = make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		out.Columns[i] = c
		if c.Default != nil {
			v := *c.Default
			out.Columns[i].Default = &v
		}
		if c.EnumValues != nil {
			out.Columns[i].EnumValues = append([]string(nil), c.EnumValues...)
		}
	}
	if t.ForeignKeys != nil {
		out.ForeignKeys = append([]ForeignKey(nil), t.ForeignKeys...)
	}
	return out
}

// TableIndex returns the position of the named table, or -1. Table names are
// case-sensitive and double as graph node identifiers.
func (s SchemaData) TableIndex(name string) int {
	for i, t := range s.Tables {
		if t.Name == name {
			return i
		}
	}
	return -1
}

// HasForeignKey reports whether the table already holds a foreign key with the
// same column and reference target. Relation type is not part of the identity.
func (t Table) HasForeignKey(fk ForeignKey) bool {
	for _, existing := range t.ForeignKeys {
		if existing.Column == fk.Column &&
			existing.References.Table == fk.References.Table &&
			existing.References.Column == fk.References.Column {
			return true
		}
	}
	return false
}

// Serialize renders the schema in its wire form. Used by the autosave
// controller to compare snapshots; two schemas with equal serializations are
// considered identical.
func (s SchemaData) Serialize() (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
