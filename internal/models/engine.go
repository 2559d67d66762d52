package models

// Supported column-type vocabularies. The engine selects which vocabulary a
// table's columns are expected to draw from; validation is advisory only and
// unknown types are tolerated so imported schemas always remain renderable.
const (
	EngineMySQL      = "mysql"
	EnginePostgreSQL = "postgresql"
)

var mysqlTypes = []string{
	"INT", "SMALLINT", "MEDIUMINT", "BIGINT", "FLOAT", "DOUBLE", "DECIMAL",
	"DATE", "DATETIME", "TIMESTAMP", "TIME", "YEAR",
	"CHAR", "VARCHAR", "BINARY", "VARBINARY",
	"TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB",
	"TINYTEXT", "TEXT", "MEDIUMTEXT", "LONGTEXT",
	"ENUM", "SET",
}

var postgresTypes = []string{
	"SMALLINT", "INTEGER", "BIGINT", "SERIAL", "BIGSERIAL",
	"DECIMAL", "NUMERIC", "REAL", "DOUBLE PRECISION",
	"DATE", "TIMESTAMP", "TIMESTAMPTZ", "TIME", "INTERVAL",
	"CHAR", "VARCHAR", "TEXT", "BOOLEAN", "JSON", "JSONB", "UUID",
}

// TypesForEngine returns the closed type vocabulary for an engine. An unknown
// engine gets the postgres vocabulary, matching the editor's default.
func TypesForEngine(engine string) []string {
	if engine == EngineMySQL {
		return append([]string(nil), mysqlTypes...)
	}
	return append([]string(nil), postgresTypes...)
}

// IsKnownType reports whether a type belongs to the engine's vocabulary.
func IsKnownType(engine, typ string) bool {
	for _, t := range TypesForEngine(engine) {
		if t == typ {
			return true
		}
	}
	return false
}
