package graph

import (
	"fmt"
	"net/url"
	"strings"
)

// Edge ids are the only channel mapping a clicked edge back to the foreign
// key it was projected from, so building and parsing must be exact inverses.
// Each component is URL-escaped before joining, which keeps the codec
// unambiguous even when table or column names contain the separator.
const edgeIDSeparator = "/"

// EdgeIdentity names the foreign key an edge represents: the owning table,
// the referencing column, and the referenced table and column.
type EdgeIdentity struct {
	SourceTable  string
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// EdgeID renders the identity into its deterministic string form.
func EdgeID(id EdgeIdentity) string {
	parts := []string{
		url.PathEscape(id.SourceTable),
		url.PathEscape(id.SourceColumn),
		url.PathEscape(id.TargetTable),
		url.PathEscape(id.TargetColumn),
	}
	return strings.Join(parts, edgeIDSeparator)
}

// ParseEdgeID recovers the identity encoded by EdgeID.
func ParseEdgeID(s string) (EdgeIdentity, error) {
	parts := strings.Split(s, edgeIDSeparator)
	if len(parts) != 4 {
		return EdgeIdentity{}, fmt.Errorf("malformed edge id %q", s)
	}
	decoded := make([]string, 4)
	for i, p := range parts {
		d, err := url.PathUnescape(p)
		if err != nil {
			return EdgeIdentity{}, fmt.Errorf("malformed edge id %q: %w", s, err)
		}
		decoded[i] = d
	}
	return EdgeIdentity{
		SourceTable:  decoded[0],
		SourceColumn: decoded[1],
		TargetTable:  decoded[2],
		TargetColumn: decoded[3],
	}, nil
}
