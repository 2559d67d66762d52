package importer

import (
	"encoding/json"
	"errors"
	"fmt"

	"schemacanvas/internal/models"
)

// ErrParse marks malformed structured-text input. Parse errors are
// recoverable: the caller keeps its current schema and surfaces an invalid
// input indicator.
var ErrParse = errors.New("invalid schema document")

// Parse decodes a JSON schema document into a fresh SchemaData. The result
// replaces the caller's current schema wholesale; nothing is merged. The
// document shape is the wire contract (tables → columns/foreignKeys/engine/
// color) and round-trips through json.Marshal modulo key order.
func Parse(text []byte) (models.SchemaData, error) {
	var data models.SchemaData
	if err := json.Unmarshal(text, &data); err != nil {
		return models.SchemaData{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if data.Tables == nil {
		data.Tables = []models.Table{}
	}
	return data, nil
}
