package models

// Table templates for quick creation in the builder. Columns are copied on
// use so a template is never aliased by a live schema.
var tableTemplates = map[string]Table{
	"empty": {
		Name:    "new_table",
		Columns: []Column{},
	},
	"basic": {
		Name: "new_table",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true, NotNull: true, AutoIncrement: true},
			{Name: "created_at", Type: "TIMESTAMP", NotNull: true, Default: ptr("CURRENT_TIMESTAMP")},
			{Name: "updated_at", Type: "TIMESTAMP", NotNull: true, Default: ptr("CURRENT_TIMESTAMP")},
		},
	},
	"users": {
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true, NotNull: true, AutoIncrement: true},
			{Name: "email", Type: "VARCHAR", NotNull: true, Unique: true},
			{Name: "password", Type: "VARCHAR", NotNull: true},
			{Name: "name", Type: "VARCHAR", NotNull: true},
			{Name: "created_at", Type: "TIMESTAMP", NotNull: true, Default: ptr("CURRENT_TIMESTAMP")},
		},
	},
	"posts": {
		Name: "posts",
		Columns: []Column{
			{Name: "id", Type: "INTEGER", PrimaryKey: true, NotNull: true, AutoIncrement: true},
			{Name: "user_id", Type: "INTEGER", NotNull: true},
			{Name: "title", Type: "VARCHAR", NotNull: true},
			{Name: "content", Type: "TEXT"},
			{Name: "published", Type: "BOOLEAN", Default: ptr("false")},
			{Name: "created_at", Type: "TIMESTAMP", NotNull: true, Default: ptr("CURRENT_TIMESTAMP")},
		},
	},
}

func ptr(s string) *string { return &s }

// TableFromTemplate builds a fresh table from a named template. The zero-value
// bool result signals an unknown template.
func TableFromTemplate(template, name, engine string) (Table, bool) {
	t, ok := tableTemplates[template]
	if !ok {
		return Table{}, false
	}
	out := t.Clone()
	if name != "" {
		out.Name = name
	}
	out.Engine = engine
	out.ForeignKeys = []ForeignKey{}
	return out, true
}

// TemplateNames lists available templates.
func TemplateNames() []string {
	return []string{"empty", "basic", "users", "posts"}
}
